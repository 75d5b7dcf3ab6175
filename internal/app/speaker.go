package app

import (
	"sync"

	"github.com/airbandhq/airband/internal/domain"
)

// Speaker arbitrates the half-duplex voice channel: at most one session per
// room may transmit. All mutation happens on the coordinator handling the
// room's traffic, so plain map-and-mutex compare-and-set is enough.
type Speaker struct {
	mu      sync.RWMutex
	holders map[domain.RoomID]domain.SessionID
}

func NewSpeaker() *Speaker {
	return &Speaker{holders: make(map[domain.RoomID]domain.SessionID)}
}

// Acquire succeeds only when the channel is free. Re-acquiring by the current
// holder fails like any other attempt.
func (s *Speaker) Acquire(roomID domain.RoomID, sid domain.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, held := s.holders[roomID]; held {
		return false
	}
	s.holders[roomID] = sid
	return true
}

// Release succeeds only for the current holder.
func (s *Speaker) Release(roomID domain.RoomID, sid domain.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.holders[roomID] != sid {
		return false
	}
	delete(s.holders, roomID)
	return true
}

// ForceRelease clears the holder iff it equals sid. Called on leave and
// disconnect for every room the session belonged to; reports whether the
// channel actually freed so the caller knows to broadcast.
func (s *Speaker) ForceRelease(roomID domain.RoomID, sid domain.SessionID) bool {
	return s.Release(roomID, sid)
}

func (s *Speaker) Holder(roomID domain.RoomID) (domain.SessionID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sid, ok := s.holders[roomID]
	return sid, ok
}

// Drop unconditionally clears a room's holder (room destruction).
func (s *Speaker) Drop(roomID domain.RoomID) {
	s.mu.Lock()
	delete(s.holders, roomID)
	s.mu.Unlock()
}
