package orch

import (
	"encoding/json"

	"github.com/airbandhq/airband/internal/domain"
	"github.com/airbandhq/airband/internal/metrics"
)

// RelayOffer forwards a negotiation payload (offer or ICE candidate) to the
// named session. Delivery is best effort: a vanished destination is a silent
// drop and the negotiation layer above retries.
func (o *Orchestrator) RelayOffer(sid domain.SessionID, target domain.SessionID, callerID string, signal json.RawMessage) {
	if callerID == "" {
		callerID = sid.String()
	}
	metrics.SignalsRelayed.Inc()
	o.sendTo(target, signalEvent{
		Type:     evUserJoinedSignal,
		Signal:   signal,
		CallerID: callerID,
	})
}

// RelayAnswer forwards the answering payload back to the original caller,
// stamped with the answerer's session id. Receivers distinguish offer from
// answer purely by which event delivered it.
func (o *Orchestrator) RelayAnswer(sid domain.SessionID, caller domain.SessionID, signal json.RawMessage) {
	metrics.SignalsRelayed.Inc()
	o.sendTo(caller, signalEvent{
		Type:   evReceivingReturnedSignal,
		Signal: signal,
		ID:     sid.String(),
	})
}
