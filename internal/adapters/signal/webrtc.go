package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/airbandhq/airband/internal/domain"
)

// handleSendingSignal forwards the initial negotiation payload (offer or ICE
// candidate) to the named peer.
func (ctl *Controller) handleSendingSignal(sid domain.SessionID, data []byte) {
	var p struct {
		Type         string          `json:"type"`
		UserToSignal string          `json:"userToSignal"`
		CallerID     string          `json:"callerID"`
		Signal       json.RawMessage `json:"signal"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.UserToSignal == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad sending_signal payload")
		return
	}
	ctl.Orch.RelayOffer(sid, domain.SessionID(p.UserToSignal), p.CallerID, p.Signal)
}

// handleReturningSignal forwards the answering payload back to the caller.
func (ctl *Controller) handleReturningSignal(sid domain.SessionID, data []byte) {
	var p struct {
		Type     string          `json:"type"`
		CallerID string          `json:"callerID"`
		Signal   json.RawMessage `json:"signal"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.CallerID == "" {
		log.Error().Err(err).Str("module", "signal").Msg("bad returning_signal payload")
		return
	}
	ctl.Orch.RelayAnswer(sid, domain.SessionID(p.CallerID), p.Signal)
}
