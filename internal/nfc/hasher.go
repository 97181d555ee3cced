// Package nfc derives keyed fingerprints of NFC tag UIDs. The derived hash is
// the only form of a UID that is ever compared or stored; raw UIDs never reach
// a store or a log line.
package nfc

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Scheme prefixes every derived hash so stored credentials remain
// distinguishable if the keying scheme ever changes.
const Scheme = "nfc:hmac256:"

// Hasher computes deterministic keyed fingerprints of tag UIDs.
type Hasher struct {
	secret []byte
}

// NewHasher creates a Hasher keyed with the process-wide secret.
func NewHasher(secret string) *Hasher {
	return &Hasher{secret: []byte(secret)}
}

// Hash normalizes uidHex (trim, lowercase) and returns the scheme-prefixed
// HMAC-SHA256 fingerprint in unpadded URL-safe base64. Pure; no I/O.
func (h *Hasher) Hash(uidHex string) string {
	normalized := strings.ToLower(strings.TrimSpace(uidHex))
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(normalized))
	return Scheme + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Last4 returns the truncated UID diagnostic suffix that audit records may
// carry. Empty input yields an empty string.
func Last4(uidHex string) string {
	trimmed := strings.TrimSpace(uidHex)
	if len(trimmed) <= 4 {
		return trimmed
	}
	return trimmed[len(trimmed)-4:]
}
