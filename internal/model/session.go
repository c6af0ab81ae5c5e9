package model

import (
	"time"
)

// PortalSession is a bearer session for a portal account. Only the SHA-256
// of the token is stored.
type PortalSession struct {
	ID                      string    `db:"id" json:"id"`
	CustomerPortalAccountID string    `db:"customer_portal_account_id" json:"customer_portal_account_id"`
	TokenHash               string    `db:"session_token_hash" json:"-"`
	ExpiresAt               time.Time `db:"expires_at" json:"expires_at"`
	IPAddress               *string   `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent               *string   `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt               time.Time `db:"created_at" json:"created_at"`
}

type CreatePortalSessionParams struct {
	AccountID string
	TokenHash string
	ExpiresAt time.Time
	IPAddress *string
	UserAgent *string
}

// IsValid reports whether the session can still authenticate at t.
func (s *PortalSession) IsValid(t time.Time) bool {
	return s.ExpiresAt.After(t)
}
