package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trademate/portal-server-go/internal/database"
	"github.com/trademate/portal-server-go/internal/model"
)

const quoteColumns = `id, company_id, customer_id, quote_number, title, status, total_amount, expires_at, approved_at, created_at`

// QuoteRepository reads quotes through customer_portal_quotes_v and writes
// the quotes table. Every query is scoped by customer id.
type QuoteRepository interface {
	FindByCustomerID(ctx context.Context, customerID string) ([]model.Quote, error)
	FindByIDForCustomer(ctx context.Context, id, customerID string) (*model.Quote, error)
	// LockForCustomer re-reads the underlying quote row with FOR UPDATE.
	// DRAFT rows are hidden, as they are from the portal view.
	LockForCustomer(ctx context.Context, id, customerID string) (*model.Quote, error)
	MarkApproved(ctx context.Context, id string, at time.Time) error
	WithTx(tx *sqlx.Tx) QuoteRepository
}

type quoteRepo struct {
	db database.DBTX
}

func NewQuoteRepository(db *sqlx.DB) QuoteRepository {
	return &quoteRepo{db: db}
}

func (r *quoteRepo) WithTx(tx *sqlx.Tx) QuoteRepository {
	return &quoteRepo{db: tx}
}

func (r *quoteRepo) FindByCustomerID(ctx context.Context, customerID string) ([]model.Quote, error) {
	quotes := []model.Quote{}
	err := r.db.SelectContext(ctx, &quotes, `
		SELECT `+quoteColumns+` FROM customer_portal_quotes_v
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`, customerID)
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *quoteRepo) FindByIDForCustomer(ctx context.Context, id, customerID string) (*model.Quote, error) {
	var quote model.Quote
	err := r.db.GetContext(ctx, &quote, `
		SELECT `+quoteColumns+` FROM customer_portal_quotes_v
		WHERE id = $1 AND customer_id = $2
	`, id, customerID)
	return HandleNotFound(&quote, err)
}

func (r *quoteRepo) LockForCustomer(ctx context.Context, id, customerID string) (*model.Quote, error) {
	var quote model.Quote
	err := r.db.GetContext(ctx, &quote, `
		SELECT `+quoteColumns+` FROM quotes
		WHERE id = $1 AND customer_id = $2 AND status <> 'DRAFT'
		FOR UPDATE
	`, id, customerID)
	return HandleNotFound(&quote, err)
}

func (r *quoteRepo) MarkApproved(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE quotes SET status = $2, approved_at = $3 WHERE id = $1
	`, id, model.QuoteStatusApproved, at)
	return err
}

// ESignature Repository

type ESignatureRepository interface {
	Create(ctx context.Context, params model.CreateESignatureParams) (*model.ESignature, error)
	WithTx(tx *sqlx.Tx) ESignatureRepository
}

type esignatureRepo struct {
	db database.DBTX
}

func NewESignatureRepository(db *sqlx.DB) ESignatureRepository {
	return &esignatureRepo{db: db}
}

func (r *esignatureRepo) WithTx(tx *sqlx.Tx) ESignatureRepository {
	return &esignatureRepo{db: tx}
}

func (r *esignatureRepo) Create(ctx context.Context, params model.CreateESignatureParams) (*model.ESignature, error) {
	var sig model.ESignature
	err := r.db.GetContext(ctx, &sig, `
		INSERT INTO esignatures
			(company_id, customer_id, quote_id, signed_by, signature_data, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, company_id, customer_id, quote_id, signed_by, signature_data, ip_address, user_agent, signed_at
	`, params.CompanyID, params.CustomerID, params.QuoteID, params.SignedBy,
		params.SignatureData, params.IPAddress, params.UserAgent)
	if err != nil {
		return nil, err
	}
	return &sig, nil
}
