// Package queue adapts inbound Kafka access requests onto the decision
// engine. Messages arrive either as a plain JSON request or wrapped in an
// envelope whose payload field carries the request base64-encoded; both
// shapes are accepted.
package queue

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"gatekeeper/internal/access"
	"gatekeeper/internal/doorconfig"
	"gatekeeper/internal/domain"
	"gatekeeper/internal/platform/kafka"
)

// Engine evaluates an access request and returns the decision.
type Engine interface {
	Evaluate(ctx context.Context, req access.Request) (access.Decision, error)
}

// Adapter consumes queued access requests.
type Adapter struct {
	engine Engine
	logger *slog.Logger
}

func New(engine Engine, logger *slog.Logger) *Adapter {
	return &Adapter{engine: engine, logger: logger}
}

type requestMessage struct {
	UserID string `json:"userId"`
	UIDHex string `json:"uidHex"`
	DoorID string `json:"doorId"`
}

type envelope struct {
	Payload string `json:"payload"`
}

// Handle implements kafka.Handler. Denials are terminal outcomes and return
// nil; only undecodable messages and operational faults are errors.
func (a *Adapter) Handle(ctx context.Context, msg *kafka.Message) error {
	req, err := decodeRequest(msg.Value)
	if err != nil {
		return fmt.Errorf("decode access request: %w", err)
	}

	req.Origin = domain.OriginQueue
	req.RequestID = uuid.NewString()

	decision, err := a.engine.Evaluate(ctx, req)
	if err != nil {
		if doorconfig.IsConfigFault(err) {
			a.logger.ErrorContext(ctx, "door policy unavailable", "error", err, "request_id", req.RequestID)
		}
		return fmt.Errorf("evaluate queued request: %w", err)
	}

	a.logger.InfoContext(ctx, "queued access request decided",
		"user_id", req.UserID,
		"allowed", decision.Allowed,
		"reason", decision.Reason,
		"request_id", req.RequestID,
	)
	return nil
}

// decodeRequest unwraps the optional base64 envelope and parses the request.
func decodeRequest(value []byte) (access.Request, error) {
	raw := value

	var env envelope
	if err := json.Unmarshal(value, &env); err == nil && env.Payload != "" {
		decoded, err := base64.StdEncoding.DecodeString(env.Payload)
		if err != nil {
			return access.Request{}, fmt.Errorf("decode envelope payload: %w", err)
		}
		raw = decoded
	}

	var msg requestMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return access.Request{}, fmt.Errorf("unmarshal request: %w", err)
	}

	return access.Request{
		UserID: msg.UserID,
		UIDHex: msg.UIDHex,
		DoorID: msg.DoorID,
	}, nil
}
