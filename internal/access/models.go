package access

import (
	"time"

	"gatekeeper/internal/domain"
)

// Reason is the closed, stable enumeration of decision reasons consumed by
// adapters for status-code translation. Operational faults (for example a
// missing door configuration) are errors, never reasons.
type Reason string

const (
	ReasonOK               Reason = "ok"
	ReasonMissingFields    Reason = "missing_fields"
	ReasonUserNotFound     Reason = "user_not_found"
	ReasonNFCNotRegistered Reason = "nfc_not_registered_for_user"
	ReasonOutOfSchedule    Reason = "out_of_schedule"
)

// Request is the transport-agnostic decision request. Adapters translate
// their wire shape into this exactly once at the boundary; the engine never
// sees transport payloads.
type Request struct {
	UserID string
	UIDHex string
	DoorID string
	Email  string
	Origin domain.Origin

	// Requester metadata, recorded for diagnostics only.
	RequestID string
	SourceIP  string
	UserAgent string

	// SuppressNotify skips the notification publish for this invocation.
	// The audit append always happens.
	SuppressNotify bool
}

// Decision is the terminal outcome of one evaluation.
type Decision struct {
	Allowed bool
	Reason  Reason
	UserID  string
}

// ResultEvent is the notification payload handed to the fanout. Consumers
// must be idempotent on (UserID, DoorID, OccurredAt): delivery is
// at-least-once.
type ResultEvent struct {
	UserID     string        `json:"userId"`
	DoorID     string        `json:"doorId"`
	Allowed    bool          `json:"allowed"`
	Reason     Reason        `json:"reason,omitempty"`
	Origin     domain.Origin `json:"origin"`
	OccurredAt time.Time     `json:"occurredAt"`
}
