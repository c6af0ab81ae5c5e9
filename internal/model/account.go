package model

import (
	"time"
)

type PortalAccount struct {
	ID           string     `db:"id" json:"id"`
	CustomerID   string     `db:"customer_id" json:"customer_id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash *string    `db:"password_hash" json:"-"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}
