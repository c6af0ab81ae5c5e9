package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/trademate/portal-server-go/internal/database"
	"github.com/trademate/portal-server-go/internal/model"
)

const messageColumns = `id, customer_id, portal_customer_id, work_order_id, service_request_id,
	message_type, subject, content, created_at`

var threadColumns = map[string]string{
	model.ThreadTypeServiceRequest: "service_request_id",
	model.ThreadTypeWorkOrder:      "work_order_id",
}

type MessageRepository interface {
	FindByCustomerID(ctx context.Context, customerID string, filter model.MessageFilter) ([]model.Message, error)
	Create(ctx context.Context, params model.CreateMessageParams) (*model.Message, error)
}

type messageRepo struct {
	db database.DBTX
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) FindByCustomerID(ctx context.Context, customerID string, filter model.MessageFilter) ([]model.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE customer_id = $1`
	args := []any{customerID}

	if filter.ThreadID != "" && filter.ThreadType != "" {
		column, ok := threadColumns[filter.ThreadType]
		if !ok {
			return nil, fmt.Errorf("unknown thread type %q", filter.ThreadType)
		}
		query += ` AND ` + column + ` = $2`
		args = append(args, filter.ThreadID)
	}
	query += ` ORDER BY created_at DESC`

	messages := []model.Message{}
	if err := r.db.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepo) Create(ctx context.Context, params model.CreateMessageParams) (*model.Message, error) {
	var msg model.Message
	err := r.db.GetContext(ctx, &msg, `
		INSERT INTO messages
			(customer_id, portal_customer_id, work_order_id, service_request_id,
			 message_type, subject, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+messageColumns+`
	`, params.CustomerID, params.PortalCustomerID, params.WorkOrderID, params.ServiceRequestID,
		params.MessageType, params.Subject, params.Content, params.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
