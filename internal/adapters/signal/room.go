package signal

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/airbandhq/airband/internal/domain"
)

type roomPayload struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	Token  string `json:"token"`
}

func (ctl *Controller) handleJoin(ctx context.Context, sid domain.SessionID, data []byte) {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		return
	}
	ctl.Orch.Join(ctx, sid, domain.RoomID(p.RoomID), p.Token)
}

func (ctl *Controller) handleDestroy(ctx context.Context, sid domain.SessionID, data []byte) {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad destroy payload")
		return
	}
	ctl.Orch.Destroy(ctx, sid, domain.RoomID(p.RoomID), p.Token)
}
