package domain

import (
	"fmt"
	"time"
)

// AccessResult is the terminal outcome recorded for a decision.
type AccessResult string

const (
	ResultAllow AccessResult = "ALLOW"
	ResultDeny  AccessResult = "DENY"
)

// Origin identifies which transport adapter produced a decision request.
// It affects response shape only, never the policy outcome.
type Origin string

const (
	OriginREST  Origin = "rest"
	OriginQueue Origin = "queue"
	OriginWS    Origin = "ws"
)

// AccessEvent is one immutable audit record. Events are append-only;
// corrections require a new event, never an edit. The (UserID, SortKey)
// pair orders events chronologically per user.
type AccessEvent struct {
	UserID     string       `json:"user_id"`
	Email      string       `json:"email,omitempty"`
	DoorID     string       `json:"door_id"`
	Result     AccessResult `json:"result"`
	Reason     string       `json:"reason"`
	HTTPStatus int          `json:"http_status"`
	NFCHash    string       `json:"nfc_hash,omitempty"`
	UIDLast4   string       `json:"uid_last4,omitempty"`
	Origin     Origin       `json:"origin"`
	RequestID  string       `json:"request_id,omitempty"`
	SourceIP   string       `json:"source_ip,omitempty"`
	UserAgent  string       `json:"user_agent,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// SortKey yields the per-user chronological ordering key. RFC 3339 with
// nanoseconds sorts lexicographically in time order.
func (e AccessEvent) SortKey() string {
	return fmt.Sprintf("%s#%s", e.OccurredAt.UTC().Format(time.RFC3339Nano), e.Result)
}
