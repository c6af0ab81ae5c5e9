package model

import (
	"time"
)

// Job is a work order as exposed to the portal.
type Job struct {
	ID             string     `db:"id" json:"id"`
	CompanyID      string     `db:"company_id" json:"company_id"`
	CustomerID     string     `db:"customer_id" json:"customer_id"`
	JobNumber      *string    `db:"job_number" json:"job_number,omitempty"`
	Title          *string    `db:"title" json:"title,omitempty"`
	Description    *string    `db:"description" json:"description,omitempty"`
	Status         string     `db:"status" json:"status"`
	ScheduledStart *time.Time `db:"scheduled_start" json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time `db:"scheduled_end" json:"scheduled_end,omitempty"`
	CompletedAt    *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}
