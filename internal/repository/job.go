package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/trademate/portal-server-go/internal/database"
	"github.com/trademate/portal-server-go/internal/model"
)

const jobColumns = `id, company_id, customer_id, job_number, title, description, status,
	scheduled_start, scheduled_end, completed_at, created_at`

type JobRepository interface {
	FindByCustomerID(ctx context.Context, customerID string) ([]model.Job, error)
	FindByIDForCustomer(ctx context.Context, id, customerID string) (*model.Job, error)
}

type jobRepo struct {
	db database.DBTX
}

func NewJobRepository(db *sqlx.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) FindByCustomerID(ctx context.Context, customerID string) ([]model.Job, error) {
	jobs := []model.Job{}
	err := r.db.SelectContext(ctx, &jobs, `
		SELECT `+jobColumns+` FROM work_orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`, customerID)
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepo) FindByIDForCustomer(ctx context.Context, id, customerID string) (*model.Job, error) {
	var job model.Job
	err := r.db.GetContext(ctx, &job, `
		SELECT `+jobColumns+` FROM work_orders
		WHERE id = $1 AND customer_id = $2
	`, id, customerID)
	return HandleNotFound(&job, err)
}
