package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers
// return these (optionally wrapped) so services can translate them into domain
// errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrConflict: entity already exists or is in a conflicting state
// - ErrConfigMissing: required policy configuration is absent; this is an
//   operational fault, never a policy outcome
// - ErrUnavailable: service or resource temporarily unavailable
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrConfigMissing = errors.New("configuration missing")
	ErrUnavailable   = errors.New("unavailable")
)
