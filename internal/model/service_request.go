package model

import (
	"encoding/json"
	"time"
)

type ServiceRequest struct {
	ID            string               `db:"id" json:"id"`
	CustomerID    string               `db:"customer_id" json:"customer_id"`
	Title         string               `db:"title" json:"title"`
	Description   *string              `db:"description" json:"description,omitempty"`
	Category      *string              `db:"category" json:"category,omitempty"`
	Priority      string               `db:"priority" json:"priority"`
	PreferredDate *time.Time           `db:"preferred_date" json:"preferred_date,omitempty"`
	Status        ServiceRequestStatus `db:"status" json:"status"`
	RequestedAt   time.Time            `db:"requested_at" json:"requested_at"`
}

// ServiceRequestWithResponses is a row of service_requests_with_responses_v.
type ServiceRequestWithResponses struct {
	ServiceRequest
	Responses json.RawMessage `db:"responses" json:"responses"`
}

type ServiceRequestResponse struct {
	ID               string    `db:"id" json:"id"`
	ServiceRequestID string    `db:"service_request_id" json:"service_request_id"`
	ResponderName    *string   `db:"responder_name" json:"responder_name,omitempty"`
	Message          string    `db:"message" json:"message"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

type CreateServiceRequestParams struct {
	CustomerID    string
	Title         string
	Description   *string
	Category      *string
	Priority      string
	PreferredDate *time.Time
	Status        ServiceRequestStatus
	RequestedAt   time.Time
}
