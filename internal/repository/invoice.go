package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/trademate/portal-server-go/internal/database"
	"github.com/trademate/portal-server-go/internal/model"
)

const invoiceColumns = `id, company_id, customer_id, invoice_number, total_amount, status, due_date, created_at, updated_at`

type InvoiceRepository interface {
	FindByCustomerID(ctx context.Context, customerID string) ([]model.Invoice, error)
	FindByIDForCustomer(ctx context.Context, id, customerID string) (*model.Invoice, error)
	// LockForCustomer reads the invoice row with FOR UPDATE so concurrent
	// payments on the same invoice serialize. DRAFT invoices are hidden.
	LockForCustomer(ctx context.Context, id, customerID string) (*model.Invoice, error)
	UpdateStatus(ctx context.Context, id string, status model.InvoiceStatus) error
	WithTx(tx *sqlx.Tx) InvoiceRepository
}

type invoiceRepo struct {
	db database.DBTX
}

func NewInvoiceRepository(db *sqlx.DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) WithTx(tx *sqlx.Tx) InvoiceRepository {
	return &invoiceRepo{db: tx}
}

func (r *invoiceRepo) FindByCustomerID(ctx context.Context, customerID string) ([]model.Invoice, error) {
	invoices := []model.Invoice{}
	err := r.db.SelectContext(ctx, &invoices, `
		SELECT `+invoiceColumns+` FROM customer_portal_invoices_v
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`, customerID)
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepo) FindByIDForCustomer(ctx context.Context, id, customerID string) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.GetContext(ctx, &invoice, `
		SELECT `+invoiceColumns+` FROM customer_portal_invoices_v
		WHERE id = $1 AND customer_id = $2
	`, id, customerID)
	return HandleNotFound(&invoice, err)
}

func (r *invoiceRepo) LockForCustomer(ctx context.Context, id, customerID string) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.GetContext(ctx, &invoice, `
		SELECT `+invoiceColumns+` FROM invoices
		WHERE id = $1 AND customer_id = $2 AND status <> 'DRAFT'
		FOR UPDATE
	`, id, customerID)
	return HandleNotFound(&invoice, err)
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, id string, status model.InvoiceStatus) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE invoices SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	return err
}

// Payment Repository

// PaymentRepository never updates or deletes payments.
type PaymentRepository interface {
	FindByInvoiceID(ctx context.Context, invoiceID string) ([]model.Payment, error)
	Create(ctx context.Context, params model.CreatePaymentParams) (*model.Payment, error)
	WithTx(tx *sqlx.Tx) PaymentRepository
}

type paymentRepo struct {
	db database.DBTX
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) WithTx(tx *sqlx.Tx) PaymentRepository {
	return &paymentRepo{db: tx}
}

func (r *paymentRepo) FindByInvoiceID(ctx context.Context, invoiceID string) ([]model.Payment, error) {
	payments := []model.Payment{}
	err := r.db.SelectContext(ctx, &payments, `
		SELECT id, invoice_id, company_id, customer_id, amount, method, reference, received_at, source
		FROM payments
		WHERE invoice_id = $1
		ORDER BY received_at DESC
	`, invoiceID)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepo) Create(ctx context.Context, params model.CreatePaymentParams) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.GetContext(ctx, &payment, `
		INSERT INTO payments
			(invoice_id, company_id, customer_id, amount, method, reference, received_at, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, invoice_id, company_id, customer_id, amount, method, reference, received_at, source
	`, params.InvoiceID, params.CompanyID, params.CustomerID, params.Amount,
		params.Method, params.Reference, params.ReceivedAt, params.Source)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
