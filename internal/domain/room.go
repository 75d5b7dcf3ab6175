package domain

import (
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/google/uuid"
)

type (
	RoomID     string
	HostSecret string
)

// ErrRoomNotFound means no record exists for the id: expired, destroyed or
// never created.
var ErrRoomNotFound = errors.New("room not found")

// Room is a time-bounded coordination context. The store enforces ExpiresAt;
// nothing in-process tracks it separately.
type Room struct {
	ID         RoomID
	HostSecret HostSecret
	ExpiresAt  time.Time
}

// NewRoomID returns a shareable 8-digit numeric id. Uniqueness is not
// checked anywhere; a colliding create displaces the previous room.
func NewRoomID() RoomID {
	n, err := rand.Int(rand.Reader, big.NewInt(90000000))
	if err != nil {
		// crypto/rand failing means the process is in no state to serve.
		panic(err)
	}
	return RoomID(big.NewInt(10000000 + n.Int64()).String())
}

// NewHostSecret returns the opaque token proving room ownership.
func NewHostSecret() HostSecret {
	return HostSecret(uuid.NewString())
}

func (id RoomID) String() string    { return string(id) }
func (s HostSecret) String() string { return string(s) }

func (s HostSecret) Matches(candidate string) bool {
	return candidate != "" && candidate == string(s)
}
