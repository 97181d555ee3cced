package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"gatekeeper/internal/access"
	"gatekeeper/internal/doorconfig"
	"gatekeeper/internal/domain"
	"gatekeeper/pkg/requestcontext"
)

const actionAccessRequest = "access.request"

// Engine evaluates an access request and returns the decision.
type Engine interface {
	Evaluate(ctx context.Context, req access.Request) (access.Decision, error)
}

// Handler upgrades HTTP requests to websocket sessions and serves the
// duplex access protocol.
type Handler struct {
	engine   Engine
	registry *Registry
	logger   *slog.Logger
	origins  []string
}

// NewHandler creates the websocket handler. originPatterns lists the browser
// origins allowed to connect (for cross-origin dashboards); empty means
// same-host only. Non-browser clients send no Origin header and are always
// accepted.
func NewHandler(engine Engine, registry *Registry, logger *slog.Logger, originPatterns []string) *Handler {
	return &Handler{engine: engine, registry: registry, logger: logger, origins: originPatterns}
}

// inboundMessage is the client frame. Action selects the protocol branch;
// frames without a known action are echoed and broadcast.
type inboundMessage struct {
	Action string `json:"action"`
	UserID string `json:"userId"`
	UIDHex string `json:"uidHex"`
	DoorID string `json:"doorId"`
}

type resultMessage struct {
	Type    string `json:"type"`
	DoorID  string `json:"doorId"`
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket accept failed", "error", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "session ended")

	h.registry.Add(conn)
	defer h.registry.Remove(conn)

	ctx := r.Context()
	for {
		var raw json.RawMessage
		if err := wsjson.Read(ctx, conn, &raw); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			h.logger.WarnContext(ctx, "websocket read failed", "error", err)
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Action != actionAccessRequest {
			// Unknown frames are relayed to every client, original sender
			// included, so the socket doubles as a lightweight notice bus.
			h.registry.Broadcast(ctx, raw)
			continue
		}

		h.handleAccessRequest(ctx, conn, &msg)
	}
}

func (h *Handler) handleAccessRequest(ctx context.Context, conn *websocket.Conn, msg *inboundMessage) {
	req := access.Request{
		UserID:    msg.UserID,
		UIDHex:    msg.UIDHex,
		DoorID:    msg.DoorID,
		Origin:    domain.OriginWS,
		RequestID: requestcontext.RequestID(ctx),
		SourceIP:  requestcontext.ClientIP(ctx),
		UserAgent: requestcontext.UserAgent(ctx),
	}

	decision, err := h.engine.Evaluate(ctx, req)
	if err != nil {
		if doorconfig.IsConfigFault(err) {
			h.logger.ErrorContext(ctx, "door policy unavailable", "error", err)
		} else {
			h.logger.ErrorContext(ctx, "websocket access evaluation failed", "error", err)
		}
		h.write(ctx, conn, errorMessage{Type: "access.error", Error: "internal_error"})
		return
	}

	h.write(ctx, conn, resultMessage{
		Type:    "access.result",
		DoorID:  req.DoorID,
		Allowed: decision.Allowed,
		Reason:  string(decision.Reason),
	})
}

func (h *Handler) write(ctx context.Context, conn *websocket.Conn, payload any) {
	if err := wsjson.Write(ctx, conn, payload); err != nil {
		h.logger.WarnContext(ctx, "websocket write failed", "error", err)
	}
}
