package app

import (
	"sync"

	"github.com/airbandhq/airband/internal/domain"
)

// Presence tracks which sessions are joined to which rooms on this process.
// It is per-process state: all sessions of a room must be pinned to the same
// coordinator instance.
type Presence struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]map[domain.SessionID]struct{}
}

func NewPresence() *Presence {
	return &Presence{rooms: make(map[domain.RoomID]map[domain.SessionID]struct{})}
}

// Join adds sid to the room and returns the members present before the join,
// the list a joiner needs to start negotiating with. Joining twice is a no-op
// on the set.
func (p *Presence) Join(roomID domain.RoomID, sid domain.SessionID) []domain.SessionID {
	p.mu.Lock()
	defer p.mu.Unlock()
	members, ok := p.rooms[roomID]
	if !ok {
		members = make(map[domain.SessionID]struct{})
		p.rooms[roomID] = members
	}
	others := make([]domain.SessionID, 0, len(members))
	for m := range members {
		if m != sid {
			others = append(others, m)
		}
	}
	members[sid] = struct{}{}
	return others
}

// Leave removes sid and returns the remaining count. Safe for sessions that
// were never members.
func (p *Presence) Leave(roomID domain.RoomID, sid domain.SessionID) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	members, ok := p.rooms[roomID]
	if !ok {
		return 0
	}
	delete(members, sid)
	if len(members) == 0 {
		delete(p.rooms, roomID)
		return 0
	}
	return len(members)
}

func (p *Presence) Count(roomID domain.RoomID) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.rooms[roomID])
}

func (p *Presence) Contains(roomID domain.RoomID, sid domain.SessionID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.rooms[roomID][sid]
	return ok
}

func (p *Presence) Members(roomID domain.RoomID) []domain.SessionID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	members := p.rooms[roomID]
	out := make([]domain.SessionID, 0, len(members))
	for m := range members {
		out = append(out, m)
	}
	return out
}

// Drop clears the whole presence set of a room (room destruction).
func (p *Presence) Drop(roomID domain.RoomID) []domain.SessionID {
	p.mu.Lock()
	defer p.mu.Unlock()
	members := p.rooms[roomID]
	out := make([]domain.SessionID, 0, len(members))
	for m := range members {
		out = append(out, m)
	}
	delete(p.rooms, roomID)
	return out
}
