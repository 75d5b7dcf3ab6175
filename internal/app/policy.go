package app

import "github.com/airbandhq/airband/internal/domain"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

// Policy decides what happens to a member whose send buffer stayed full
// during a room fan-out. The relay itself never blocks on a slow consumer.
type Policy interface {
	OnBackPressure(roomID domain.RoomID, sid domain.SessionID) BackpressureAction
}

type SimplePolicy struct{}

// A member that cannot drain realtime frames is better disconnected than
// served an ever-staler stream.
func (SimplePolicy) OnBackPressure(domain.RoomID, domain.SessionID) BackpressureAction {
	return KickMember
}
