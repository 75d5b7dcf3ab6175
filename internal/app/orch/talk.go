package orch

import (
	"encoding/json"
	"errors"

	"github.com/airbandhq/airband/internal/app"
	"github.com/airbandhq/airband/internal/domain"
	"github.com/airbandhq/airband/internal/metrics"
)

var ErrFrameTooLarge = errors.New("frame exceeds relay limit")

// StartTalking tries to seize the half-duplex channel. A failed acquire is an
// expected race, not a fault: the caller learns the channel is busy from the
// channel_busy it already received.
func (o *Orchestrator) StartTalking(sid domain.SessionID, roomID domain.RoomID) {
	if !o.Presence.Contains(roomID, sid) {
		return
	}
	if !o.Speaker.Acquire(roomID, sid) {
		return
	}
	metrics.SpeakerGrants.Inc()
	o.broadcast(roomID, sid, channelBusyEvent{Type: evChannelBusy, Holder: sid.String()})
}

// StopTalking frees the channel when the caller actually holds it.
func (o *Orchestrator) StopTalking(sid domain.SessionID, roomID domain.RoomID) {
	if !o.Speaker.Release(roomID, sid) {
		return
	}
	o.broadcast(roomID, sid, typeOnlyEvent{Type: evChannelFree})
}

// Voice relays a fallback audio frame to the room, but only from the current
// speaker. Non-holder frames are dropped silently; the half-duplex invariant
// is enforced here, not just in the UI.
func (o *Orchestrator) Voice(sid domain.SessionID, roomID domain.RoomID, data json.RawMessage) error {
	if holder, held := o.Speaker.Holder(roomID); !held || holder != sid {
		return nil
	}
	if o.MaxFrameBytes > 0 && len(data) > o.MaxFrameBytes {
		o.sendError(sid, CodeTooLarge, "voice frame exceeds relay limit")
		return ErrFrameTooLarge
	}
	o.relayMedia(roomID, sid, mediaEvent{Type: evPlayAudio, UserID: sid.String(), Data: data})
	return nil
}

// Video relays a fallback video frame to the room, ungated.
func (o *Orchestrator) Video(sid domain.SessionID, roomID domain.RoomID, frame json.RawMessage) error {
	if !o.Presence.Contains(roomID, sid) {
		return nil
	}
	if o.MaxFrameBytes > 0 && len(frame) > o.MaxFrameBytes {
		o.sendError(sid, CodeTooLarge, "video frame exceeds relay limit")
		return ErrFrameTooLarge
	}
	o.relayMedia(roomID, sid, mediaEvent{Type: evUpdateVideoFrame, UserID: sid.String(), Frame: frame})
	return nil
}

func (o *Orchestrator) relayMedia(roomID domain.RoomID, from domain.SessionID, ev mediaEvent) {
	dropped := o.broadcast(roomID, from, ev)
	metrics.FramesRelayed.Inc()
	if o.Policy == nil {
		return
	}
	for _, slow := range dropped {
		switch o.Policy.OnBackPressure(roomID, slow) {
		case app.KickMember:
			o.kick(slow)
		case app.DropFrame, app.NoAction:
		}
	}
}
