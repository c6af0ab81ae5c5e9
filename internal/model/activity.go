package model

import (
	"time"
)

type ActivityLogEntry struct {
	ID                      string    `db:"id" json:"id"`
	CustomerPortalAccountID string    `db:"customer_portal_account_id" json:"customer_portal_account_id"`
	Action                  string    `db:"action" json:"action"`
	ResourceType            *string   `db:"resource_type" json:"resource_type,omitempty"`
	ResourceID              *string   `db:"resource_id" json:"resource_id,omitempty"`
	IPAddress               *string   `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent               *string   `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt               time.Time `db:"created_at" json:"created_at"`
}

type CreateActivityParams struct {
	AccountID    string
	Action       string
	ResourceType *string
	ResourceID   *string
	IPAddress    *string
	UserAgent    *string
}
