package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/trademate/portal-server-go/internal/database"
	"github.com/trademate/portal-server-go/internal/model"
)

// ActivityRepository is append-only.
type ActivityRepository interface {
	Create(ctx context.Context, params model.CreateActivityParams) (*model.ActivityLogEntry, error)
}

type activityRepo struct {
	db database.DBTX
}

func NewActivityRepository(db *sqlx.DB) ActivityRepository {
	return &activityRepo{db: db}
}

func (r *activityRepo) Create(ctx context.Context, params model.CreateActivityParams) (*model.ActivityLogEntry, error) {
	var entry model.ActivityLogEntry
	err := r.db.GetContext(ctx, &entry, `
		INSERT INTO portal_activity_log
			(customer_portal_account_id, action, resource_type, resource_id, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, customer_portal_account_id, action, resource_type, resource_id, ip_address, user_agent, created_at
	`, params.AccountID, params.Action, params.ResourceType, params.ResourceID, params.IPAddress, params.UserAgent)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
