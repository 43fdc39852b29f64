package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/riskibarqy/f1-fantasy/internal/infrastructure/messaging/hub"
	"github.com/riskibarqy/f1-fantasy/internal/usecase"
)

const (
	streamWriteWait      = 10 * time.Second
	streamPongWait       = 60 * time.Second
	streamPingPeriod     = (streamPongWait * 9) / 10
	streamMaxMessageSize = 512

	eventDraftState = "draft_state"
)

type streamMessage struct {
	EventType  string        `json:"event_type"`
	OccurredAt time.Time     `json:"occurred_at"`
	Payload    draftStateDTO `json:"payload"`
}

// StreamDraft pushes the draft state on connect and after every draft event.
// Each event frame is followed by the refreshed state.
func (h *Handler) StreamDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.hub == nil {
		writeError(ctx, w, fmt.Errorf("%w: draft stream is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     allowedOrigin(h.streamOrigins),
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		h.logger.WarnContext(ctx, "draft stream upgrade failed", "error", err)
		return
	}

	frames, cancel := h.hub.Subscribe()
	defer cancel()

	streamCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
	defer stop()

	go h.streamReadPump(conn, stop)
	h.streamWritePump(streamCtx, conn, frames)
}

// streamReadPump only services control frames. Any read error ends the stream.
func (h *Handler) streamReadPump(conn *websocket.Conn, stop context.CancelFunc) {
	defer stop()

	conn.SetReadLimit(streamMaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) streamWritePump(ctx context.Context, conn *websocket.Conn, frames <-chan hub.Frame) {
	ticker := time.NewTicker(streamPingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	if err := h.writeStreamState(ctx, conn); err != nil {
		h.logger.WarnContext(ctx, "draft stream write failed", "error", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case frame, ok := <-frames:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if !ok {
				// Hub dropped us or shut down.
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame.Data); err != nil {
				return
			}
			if err := h.writeStreamState(ctx, conn); err != nil {
				h.logger.WarnContext(ctx, "draft stream write failed", "event_type", frame.EventType, "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) writeStreamState(ctx context.Context, conn *websocket.Conn) error {
	state, err := h.draftService.GetDraftState(ctx)
	if err != nil {
		return fmt.Errorf("load draft state: %w", err)
	}

	data, err := sonic.Marshal(streamMessage{
		EventType:  eventDraftState,
		OccurredAt: time.Now().UTC(),
		Payload:    draftStateToDTO(state),
	})
	if err != nil {
		return fmt.Errorf("encode draft state: %w", err)
	}

	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}
