package model

import (
	"encoding/json"
	"time"
)

type Quote struct {
	ID          string      `db:"id" json:"id"`
	CompanyID   string      `db:"company_id" json:"company_id"`
	CustomerID  string      `db:"customer_id" json:"customer_id"`
	QuoteNumber *string     `db:"quote_number" json:"quote_number,omitempty"`
	Title       *string     `db:"title" json:"title,omitempty"`
	Status      QuoteStatus `db:"status" json:"status"`
	TotalAmount float64     `db:"total_amount" json:"total_amount"`
	ExpiresAt   *time.Time  `db:"expires_at" json:"expires_at,omitempty"`
	ApprovedAt  *time.Time  `db:"approved_at" json:"approved_at,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}

// Signable reports whether the customer may sign the quote. Approved quotes
// can be signed again.
func (q *Quote) Signable() bool {
	return q.Status == QuoteStatusSent || q.Status == QuoteStatusApproved
}

type ESignature struct {
	ID            string          `db:"id" json:"id"`
	CompanyID     string          `db:"company_id" json:"company_id"`
	CustomerID    string          `db:"customer_id" json:"customer_id"`
	QuoteID       string          `db:"quote_id" json:"quote_id"`
	SignedBy      string          `db:"signed_by" json:"signed_by"`
	SignatureData json.RawMessage `db:"signature_data" json:"signature_data"`
	IPAddress     *string         `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent     *string         `db:"user_agent" json:"user_agent,omitempty"`
	SignedAt      time.Time       `db:"signed_at" json:"signed_at"`
}

type CreateESignatureParams struct {
	CompanyID     string
	CustomerID    string
	QuoteID       string
	SignedBy      string
	SignatureData json.RawMessage
	IPAddress     *string
	UserAgent     *string
}
