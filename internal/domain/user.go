package domain

import "time"

// CredentialStatus tracks whether a stored NFC credential may be used for
// matching. Only active credentials are authoritative.
type CredentialStatus string

const (
	CredentialActive   CredentialStatus = "ACTIVE"
	CredentialDisabled CredentialStatus = "DISABLED"
)

// Credential is one enrolled NFC tag. Hash is the keyed fingerprint of the
// tag UID; the raw UID is never stored.
type Credential struct {
	Hash      string           `json:"hash"`
	Label     string           `json:"label"`
	Status    CredentialStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

// User holds the identity record and its ordered credential list.
type User struct {
	UserID       string       `json:"user_id"`
	Email        string       `json:"email,omitempty"`
	PasswordHash string       `json:"-"`
	Credentials  []Credential `json:"credentials"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// HasActiveCredential reports whether hash matches an ACTIVE credential.
func (u User) HasActiveCredential(hash string) bool {
	for _, c := range u.Credentials {
		if c.Hash == hash && c.Status == CredentialActive {
			return true
		}
	}
	return false
}
