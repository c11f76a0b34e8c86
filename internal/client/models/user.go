// Package models defines the client-side data models of the C⁴AT³ client.
package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// DefaultTier is assumed whenever a profile carries no tier.
const DefaultTier = "free"

// User is the cached profile of the signed-in account.
type User struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Tier  string `json:"tier,omitempty"`
}

// IdentityKey returns the key histories are stored under: the id, falling
// back to the email. It is empty for a nil or anonymous user.
func (u *User) IdentityKey() string {
	if u == nil {
		return ""
	}
	if u.ID != "" {
		return u.ID
	}
	return u.Email
}

// TierOrDefault returns the lower-cased tier, or DefaultTier when unset.
func (u *User) TierOrDefault() string {
	if u == nil || strings.TrimSpace(u.Tier) == "" {
		return DefaultTier
	}
	return strings.ToLower(strings.TrimSpace(u.Tier))
}

// DisplayName is the local part of the email, or "there" when unknown.
func (u *User) DisplayName() string {
	if u == nil || u.Email == "" {
		return "there"
	}
	name, _, _ := strings.Cut(u.Email, "@")
	return name
}

// UnmarshalJSON accepts numeric as well as string ids. A JSON null leaves
// u unchanged.
func (u *User) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}

	var raw struct {
		ID    json.RawMessage `json:"id"`
		Email string          `json:"email"`
		Tier  string          `json:"tier"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	id, err := decodeID(raw.ID)
	if err != nil {
		return err
	}
	*u = User{ID: id, Email: raw.Email, Tier: raw.Tier}
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
