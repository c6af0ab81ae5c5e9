package model

import (
	"time"
)

type Invoice struct {
	ID            string        `db:"id" json:"id"`
	CompanyID     string        `db:"company_id" json:"company_id"`
	CustomerID    string        `db:"customer_id" json:"customer_id"`
	InvoiceNumber *string       `db:"invoice_number" json:"invoice_number,omitempty"`
	TotalAmount   float64       `db:"total_amount" json:"total_amount"`
	Status        InvoiceStatus `db:"status" json:"status"`
	DueDate       *time.Time    `db:"due_date" json:"due_date,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

type Payment struct {
	ID         string    `db:"id" json:"id"`
	InvoiceID  string    `db:"invoice_id" json:"invoice_id"`
	CompanyID  string    `db:"company_id" json:"company_id"`
	CustomerID string    `db:"customer_id" json:"customer_id"`
	Amount     float64   `db:"amount" json:"amount"`
	Method     string    `db:"method" json:"method"`
	Reference  *string   `db:"reference" json:"reference,omitempty"`
	ReceivedAt time.Time `db:"received_at" json:"received_at"`
	Source     string    `db:"source" json:"source"`
}

type CreatePaymentParams struct {
	InvoiceID  string
	CompanyID  string
	CustomerID string
	Amount     float64
	Method     string
	Reference  *string
	ReceivedAt time.Time
	Source     string
}
