package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/trademate/portal-server-go/internal/database"
	"github.com/trademate/portal-server-go/internal/model"
)

const serviceRequestColumns = `id, customer_id, title, description, category, priority, preferred_date, status, requested_at`

type ServiceRequestRepository interface {
	Create(ctx context.Context, params model.CreateServiceRequestParams) (*model.ServiceRequest, error)
	FindWithResponsesByCustomerID(ctx context.Context, customerID string) ([]model.ServiceRequestWithResponses, error)
	FindResponses(ctx context.Context, serviceRequestID, customerID string) ([]model.ServiceRequestResponse, error)
}

type serviceRequestRepo struct {
	db database.DBTX
}

func NewServiceRequestRepository(db *sqlx.DB) ServiceRequestRepository {
	return &serviceRequestRepo{db: db}
}

func (r *serviceRequestRepo) Create(ctx context.Context, params model.CreateServiceRequestParams) (*model.ServiceRequest, error) {
	var sr model.ServiceRequest
	err := r.db.GetContext(ctx, &sr, `
		INSERT INTO service_requests
			(customer_id, title, description, category, priority, preferred_date, status, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+serviceRequestColumns+`
	`, params.CustomerID, params.Title, params.Description, params.Category,
		params.Priority, params.PreferredDate, params.Status, params.RequestedAt)
	if err != nil {
		return nil, err
	}
	return &sr, nil
}

func (r *serviceRequestRepo) FindWithResponsesByCustomerID(ctx context.Context, customerID string) ([]model.ServiceRequestWithResponses, error) {
	rows := []model.ServiceRequestWithResponses{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+serviceRequestColumns+`, responses
		FROM service_requests_with_responses_v
		WHERE customer_id = $1
		ORDER BY requested_at DESC
	`, customerID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *serviceRequestRepo) FindResponses(ctx context.Context, serviceRequestID, customerID string) ([]model.ServiceRequestResponse, error) {
	responses := []model.ServiceRequestResponse{}
	err := r.db.SelectContext(ctx, &responses, `
		SELECT resp.id, resp.service_request_id, resp.responder_name, resp.message, resp.created_at
		FROM service_request_responses resp
		JOIN service_requests sr ON sr.id = resp.service_request_id
		WHERE resp.service_request_id = $1 AND sr.customer_id = $2
		ORDER BY resp.created_at DESC
	`, serviceRequestID, customerID)
	if err != nil {
		return nil, err
	}
	return responses, nil
}
