package domain

import "github.com/google/uuid"

// SessionID identifies one live transport connection. A reconnect is a new
// session; nothing survives the connection.
type SessionID string

func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

func (id SessionID) String() string { return string(id) }
