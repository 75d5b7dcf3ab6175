package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/airbandhq/airband/internal/core"
	"github.com/airbandhq/airband/internal/domain"
)

type sessionEntry struct {
	Conn  core.SignalConnection
	Rooms map[domain.RoomID]struct{}
}

// Registry binds live session ids to their transport connections and tracks
// which rooms each session has joined. It is the source of truth for
// "currently connected" and drives exactly-once disconnect cleanup.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[domain.SessionID]*sessionEntry)}
}

func (r *Registry) Bind(sid domain.SessionID, conn core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{
		Conn:  conn,
		Rooms: make(map[domain.RoomID]struct{}),
	}
	log.Info().Str("module", "app.registry").Str("sid", sid.String()).Msg("bound session")
}

// Unbind removes the session and returns the rooms it belonged to.
// Returns ok=false when the session was already unbound, so a transport
// firing multiple disconnect-adjacent signals cleans up only once.
func (r *Registry) Unbind(sid domain.SessionID) ([]domain.RoomID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil, false
	}
	delete(r.sessions, sid)
	rooms := make([]domain.RoomID, 0, len(e.Rooms))
	for id := range e.Rooms {
		rooms = append(rooms, id)
	}
	log.Info().Str("module", "app.registry").Str("sid", sid.String()).Msg("unbound session")
	return rooms, true
}

func (r *Registry) Conn(sid domain.SessionID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil, false
	}
	return e.Conn, true
}

func (r *Registry) Connected(sid domain.SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[sid]
	return ok
}

func (r *Registry) AddRoom(sid domain.SessionID, roomID domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return false
	}
	e.Rooms[roomID] = struct{}{}
	return true
}

func (r *Registry) RemoveRoom(sid domain.SessionID, roomID domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[sid]; ok {
		delete(e.Rooms, roomID)
	}
}

func (r *Registry) RoomsOf(sid domain.SessionID) []domain.RoomID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil
	}
	out := make([]domain.RoomID, 0, len(e.Rooms))
	for id := range e.Rooms {
		out = append(out, id)
	}
	return out
}
