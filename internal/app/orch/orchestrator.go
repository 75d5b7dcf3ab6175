// Package orch is the connection lifecycle coordinator: it binds transport
// connections to session identities, dispatches client events to the room
// registry, presence tracker, speaker arbitration and signal relay, and
// drives cleanup on disconnect.
package orch

import (
	"encoding/json"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/airbandhq/airband/internal/app"
	"github.com/airbandhq/airband/internal/core"
	"github.com/airbandhq/airband/internal/domain"
	"github.com/airbandhq/airband/internal/metrics"
)

type Orchestrator struct {
	Registry *app.Registry
	Rooms    *app.Rooms
	Presence *app.Presence
	Speaker  *app.Speaker
	Policy   app.Policy

	// ICEServers is advertised to joiners so peers can negotiate directly.
	ICEServers []webrtc.ICEServer
	// AutoJoinCreator makes create_room also join the creator. Both client
	// variants exist in the wild, so this stays configurable.
	AutoJoinCreator bool
	// MaxFrameBytes caps relayed media-fallback payloads. Zero means no cap
	// beyond the transport read limit.
	MaxFrameBytes int
}

// Connect binds a fresh session to its transport connection.
func (o *Orchestrator) Connect(sid domain.SessionID, conn core.SignalConnection) {
	o.Registry.Bind(sid, conn)
	metrics.SessionsActive.Inc()
}

// Disconnect runs full cleanup for a session: for every room it belonged to,
// release the speaker lock, retract presence and notify remaining members.
// Safe to call more than once; only the first call does anything.
func (o *Orchestrator) Disconnect(sid domain.SessionID) {
	rooms, ok := o.Registry.Unbind(sid)
	if !ok {
		return
	}
	metrics.SessionsActive.Dec()
	for _, roomID := range rooms {
		o.dropFromRoom(roomID, sid)
	}
	log.Info().Str("module", "orch").Str("sid", sid.String()).Msg("session disconnected")
}

// dropFromRoom retracts one session from one room and tells the survivors.
// The order matters: the lock must free before the member-count update so no
// observer sees a busy channel held by a departed member.
func (o *Orchestrator) dropFromRoom(roomID domain.RoomID, sid domain.SessionID) {
	if o.Speaker.ForceRelease(roomID, sid) {
		o.broadcast(roomID, sid, typeOnlyEvent{Type: evChannelFree})
	}
	count := o.Presence.Leave(roomID, sid)
	o.broadcast(roomID, sid, userEvent{Type: evUserLeft, UserID: sid.String()})
	o.broadcast(roomID, sid, userCountEvent{Type: evUpdateUserCount, Count: count})
}

// kick force-closes a slow consumer; the transport close feeds back into
// Disconnect through the adapter's read loop, but we also clean up directly
// in case the write side is wedged.
func (o *Orchestrator) kick(sid domain.SessionID) {
	if conn, ok := o.Registry.Conn(sid); ok {
		conn.Close()
	}
	o.Disconnect(sid)
	log.Warn().Str("module", "orch").Str("sid", sid.String()).Msg("kicked slow consumer")
}

func (o *Orchestrator) sendTo(sid domain.SessionID, v any) {
	conn, ok := o.Registry.Conn(sid)
	if !ok {
		// Destination gone: silent drop, peers retry at their own layer.
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("marshal event")
		return
	}
	if err := conn.TrySend(core.Frame(data)); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", sid.String()).Msg("send failed")
	}
}

// broadcast fans an event out to every room member except `except`.
// Returns the sessions whose send buffer was full.
func (o *Orchestrator) broadcast(roomID domain.RoomID, except domain.SessionID, v any) []domain.SessionID {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("marshal event")
		return nil
	}
	var dropped []domain.SessionID
	for _, member := range o.Presence.Members(roomID) {
		if member == except {
			continue
		}
		conn, ok := o.Registry.Conn(member)
		if !ok {
			continue
		}
		if err := conn.TrySend(core.Frame(data)); err != nil {
			dropped = append(dropped, member)
		}
	}
	return dropped
}

// broadcastAll includes every member, used where the triggering session must
// observe the event too (user counts, destruction).
func (o *Orchestrator) broadcastAll(roomID domain.RoomID, v any) {
	o.broadcast(roomID, "", v)
}

func (o *Orchestrator) sendError(sid domain.SessionID, code, msg string) {
	o.sendTo(sid, errorEvent{Type: evErrorMsg, Code: code, Error: msg})
}
