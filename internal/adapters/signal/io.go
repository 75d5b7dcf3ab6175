package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/airbandhq/airband/internal/domain"
)

func (ctl *Controller) writePump(ctx context.Context, c *wsSignalConn) {
	ticker := time.NewTicker(ctl.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drives the session's whole lifecycle: any exit, graceful or not,
// runs disconnect cleanup exactly once through the orchestrator.
func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, sid domain.SessionID, c *wsSignalConn) {
	defer func() {
		cancel()
		c.Close()
		ctl.Orch.Disconnect(sid)
		ctl.limiter.Forget(sid)
		log.Info().Str("module", "signal").Str("sid", sid.String()).Msg("readPump closing")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Str("sid", sid.String()).Msg("readPump read error")
				}
				return
			}
			ctl.dispatch(ctx, sid, data)
		}
	}
}

func (ctl *Controller) dispatch(ctx context.Context, sid domain.SessionID, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Type {
	case "create_room", "join_room", "destroy_room":
		if !ctl.limiter.Allow(sid) {
			log.Warn().Str("module", "signal").Str("sid", sid.String()).Str("type", env.Type).Msg("rate limited")
			return
		}
	}

	switch env.Type {
	case "create_room":
		ctl.Orch.CreateRoom(ctx, sid)
	case "join_room":
		ctl.handleJoin(ctx, sid, data)
	case "destroy_room":
		ctl.handleDestroy(ctx, sid, data)
	case "start_talking":
		ctl.handleTalk(sid, data, true)
	case "stop_talking":
		ctl.handleTalk(sid, data, false)
	case "voice_data":
		ctl.handleVoice(sid, data)
	case "video_frame":
		ctl.handleVideo(sid, data)
	case "sending_signal":
		ctl.handleSendingSignal(sid, data)
	case "returning_signal":
		ctl.handleReturningSignal(sid, data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
	}
}
