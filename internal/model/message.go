package model

import (
	"time"
)

type Message struct {
	ID               string    `db:"id" json:"id"`
	CustomerID       string    `db:"customer_id" json:"customer_id"`
	PortalCustomerID *string   `db:"portal_customer_id" json:"portal_customer_id,omitempty"`
	WorkOrderID      *string   `db:"work_order_id" json:"work_order_id,omitempty"`
	ServiceRequestID *string   `db:"service_request_id" json:"service_request_id,omitempty"`
	MessageType      string    `db:"message_type" json:"message_type"`
	Subject          *string   `db:"subject" json:"subject,omitempty"`
	Content          string    `db:"content" json:"content"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

type CreateMessageParams struct {
	CustomerID       string
	PortalCustomerID string
	WorkOrderID      *string
	ServiceRequestID *string
	MessageType      string
	Subject          *string
	Content          string
	CreatedAt        time.Time
}

// MessageFilter narrows a customer's messages to one thread when both fields are set.
type MessageFilter struct {
	ThreadID   string
	ThreadType string
}
