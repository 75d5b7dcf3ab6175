package orch

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/airbandhq/airband/internal/domain"
	"github.com/airbandhq/airband/internal/metrics"
)

// CreateRoom mints a room and hands the caller its id and host secret.
func (o *Orchestrator) CreateRoom(ctx context.Context, sid domain.SessionID) {
	room, err := o.Rooms.Create(ctx)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("create room")
		o.sendError(sid, CodeUnavailable, "could not create room")
		return
	}
	metrics.RoomsCreated.Inc()
	o.sendTo(sid, roomCreatedEvent{
		Type:       evRoomCreated,
		RoomID:     room.ID.String(),
		HostSecret: room.HostSecret.String(),
	})
	if o.AutoJoinCreator {
		o.Join(ctx, sid, room.ID, room.HostSecret.String())
	}
}

// Join verifies the room against the shared store, then admits the session:
// the joiner learns the prior members (to start negotiating with) and the
// current speaker, the room learns the newcomer and the new count.
func (o *Orchestrator) Join(ctx context.Context, sid domain.SessionID, roomID domain.RoomID, token string) {
	isHost, err := o.Rooms.VerifyHost(ctx, roomID, token)
	if errors.Is(err, domain.ErrRoomNotFound) {
		o.sendError(sid, CodeNotFound, "room not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("room", roomID.String()).Msg("join verify")
		o.sendError(sid, CodeUnavailable, "could not verify room")
		return
	}

	// The store call suspended us; the session may have disconnected while
	// the round trip was in flight.
	if !o.Registry.Connected(sid) {
		return
	}

	others := o.Presence.Join(roomID, sid)
	o.Registry.AddRoom(sid, roomID)

	allUsers := make([]string, 0, len(others))
	for _, other := range others {
		allUsers = append(allUsers, other.String())
	}
	resp := joinedSuccessEvent{
		Type:     evJoinedSuccess,
		RoomID:   roomID.String(),
		IsHost:   isHost,
		AllUsers: allUsers,
	}
	if len(o.ICEServers) > 0 {
		resp.ICEServers = o.ICEServers
	}
	o.sendTo(sid, resp)

	o.broadcast(roomID, sid, userEvent{Type: evUserJoined, UserID: sid.String()})

	if holder, held := o.Speaker.Holder(roomID); held {
		o.sendTo(sid, channelBusyEvent{Type: evChannelBusy, Holder: holder.String()})
	}

	o.broadcastAll(roomID, userCountEvent{Type: evUpdateUserCount, Count: o.Presence.Count(roomID)})
	log.Info().Str("module", "orch").Str("sid", sid.String()).Str("room", roomID.String()).Bool("is_host", isHost).Msg("joined room")
}

// Destroy tears a room down when the caller proves host privilege. Members
// hear room_destroyed before the store record disappears, so a join racing
// the delete can never land in a half-destroyed room.
func (o *Orchestrator) Destroy(ctx context.Context, sid domain.SessionID, roomID domain.RoomID, token string) {
	isHost, err := o.Rooms.VerifyHost(ctx, roomID, token)
	if errors.Is(err, domain.ErrRoomNotFound) {
		o.sendError(sid, CodeNotFound, "room not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("room", roomID.String()).Msg("destroy verify")
		o.sendError(sid, CodeUnavailable, "could not verify room")
		return
	}
	if !isHost {
		o.sendError(sid, CodeUnauthorized, "not the room host")
		return
	}

	o.broadcastAll(roomID, typeOnlyEvent{Type: evRoomDestroyed})

	for _, member := range o.Presence.Drop(roomID) {
		o.Registry.RemoveRoom(member, roomID)
	}
	o.Speaker.Drop(roomID)

	if err := o.Rooms.Remove(ctx, roomID); err != nil {
		// Members are already evicted locally; the stale record will age out
		// through its TTL.
		log.Error().Err(err).Str("module", "orch").Str("room", roomID.String()).Msg("destroy remove")
		o.sendError(sid, CodeUnavailable, "room record not removed")
		return
	}
	metrics.RoomsDestroyed.Inc()
	log.Info().Str("module", "orch").Str("room", roomID.String()).Msg("room destroyed")
}
