package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/airbandhq/airband/internal/app/orch"
	"github.com/airbandhq/airband/internal/domain"
)

func (ctl *Controller) handleTalk(sid domain.SessionID, data []byte, start bool) {
	var p struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad talk payload")
		return
	}
	if start {
		ctl.Orch.StartTalking(sid, domain.RoomID(p.RoomID))
	} else {
		ctl.Orch.StopTalking(sid, domain.RoomID(p.RoomID))
	}
}

func (ctl *Controller) handleVoice(sid domain.SessionID, data []byte) {
	var p struct {
		Type   string          `json:"type"`
		RoomID string          `json:"roomId"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad voice payload")
		return
	}
	if err := ctl.Orch.Voice(sid, domain.RoomID(p.RoomID), p.Data); err != nil {
		ctl.rejectFrame(sid, err)
	}
}

func (ctl *Controller) handleVideo(sid domain.SessionID, data []byte) {
	var p struct {
		Type   string          `json:"type"`
		RoomID string          `json:"roomId"`
		Frame  json.RawMessage `json:"frame"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad video payload")
		return
	}
	if err := ctl.Orch.Video(sid, domain.RoomID(p.RoomID), p.Frame); err != nil {
		ctl.rejectFrame(sid, err)
	}
}

func (ctl *Controller) rejectFrame(sid domain.SessionID, err error) {
	if errors.Is(err, orch.ErrFrameTooLarge) {
		log.Warn().Str("module", "signal").Str("sid", sid.String()).Msg("frame rejected: too large")
	}
}
