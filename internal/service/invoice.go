package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/trademate/portal-server-go/internal/audit"
	apperrors "github.com/trademate/portal-server-go/internal/errors"
	"github.com/trademate/portal-server-go/internal/metrics"
	"github.com/trademate/portal-server-go/internal/model"
	"github.com/trademate/portal-server-go/internal/repository"
)

// paidEpsilon absorbs float rounding when comparing currency sums.
const paidEpsilon = 0.005

// DeriveInvoiceStatus returns the status an invoice should have once paid
// has been collected against total, and whether that differs from current.
func DeriveInvoiceStatus(total, paid float64, current model.InvoiceStatus) (model.InvoiceStatus, bool) {
	switch {
	case total > 0 && paid+paidEpsilon >= total:
		return model.InvoiceStatusPaid, current != model.InvoiceStatusPaid
	case paid > 0 && paid < total:
		return model.InvoiceStatusPartiallyPaid, current != model.InvoiceStatusPartiallyPaid
	default:
		return current, false
	}
}

// SumCollected totals payments with negative amounts counted as zero.
func SumCollected(payments []model.Payment) float64 {
	var sum float64
	for _, p := range payments {
		if p.Amount > 0 {
			sum += p.Amount
		}
	}
	return sum
}

// IdempotencyGuard claims a key for the duration of a write.
type IdempotencyGuard interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type RecordPaymentInput struct {
	Amount    float64
	Method    string
	Reference *string
	// IdempotencyKey is the caller's retry key, already namespaced.
	IdempotencyKey string
}

type InvoiceService struct {
	tx          TxRunner
	invoices    repository.InvoiceRepository
	payments    repository.PaymentRepository
	idempotency IdempotencyGuard
}

func NewInvoiceService(
	tx TxRunner,
	invoices repository.InvoiceRepository,
	payments repository.PaymentRepository,
	idempotency IdempotencyGuard,
) *InvoiceService {
	return &InvoiceService{
		tx:          tx,
		invoices:    invoices,
		payments:    payments,
		idempotency: idempotency,
	}
}

func (s *InvoiceService) List(ctx context.Context, account *model.PortalAccount) ([]model.Invoice, error) {
	invoices, err := s.invoices.FindByCustomerID(ctx, account.CustomerID)
	if err != nil {
		log.Error().Err(err).Str("customerId", account.CustomerID).Msg("failed to fetch invoices")
		return nil, apperrors.Internal("failed to fetch invoices").WithCause(err)
	}
	return invoices, nil
}

func (s *InvoiceService) Get(ctx context.Context, account *model.PortalAccount, id string) (*model.Invoice, error) {
	invoice, err := s.invoices.FindByIDForCustomer(ctx, id, account.CustomerID)
	if err != nil {
		log.Error().Err(err).Str("invoiceId", id).Msg("failed to fetch invoice")
		return nil, apperrors.Internal("failed to fetch invoice").WithCause(err)
	}
	if invoice == nil {
		return nil, apperrors.NotFound("invoice")
	}
	return invoice, nil
}

func (s *InvoiceService) ListPayments(ctx context.Context, account *model.PortalAccount, invoiceID string) ([]model.Payment, error) {
	if _, err := s.Get(ctx, account, invoiceID); err != nil {
		return nil, err
	}

	payments, err := s.payments.FindByInvoiceID(ctx, invoiceID)
	if err != nil {
		log.Error().Err(err).Str("invoiceId", invoiceID).Msg("failed to fetch payments")
		return nil, apperrors.Internal("failed to fetch payments").WithCause(err)
	}
	return payments, nil
}

// RecordPayment inserts a portal payment and re-derives the invoice status
// from all of its payments while the invoice row is locked.
func (s *InvoiceService) RecordPayment(ctx context.Context, account *model.PortalAccount, invoiceID string, in RecordPaymentInput) error {
	if s.idempotency == nil {
		in.IdempotencyKey = ""
	}
	if in.IdempotencyKey != "" {
		claimed, err := s.idempotency.Claim(ctx, in.IdempotencyKey)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("invoiceId", invoiceID).Msg("idempotency check failed, recording without it")
			in.IdempotencyKey = ""
		case !claimed:
			metrics.IdempotencyTotal.WithLabelValues("hit").Inc()
			log.Info().Str("invoiceId", invoiceID).Msg("duplicate payment request ignored")
			return nil
		default:
			metrics.IdempotencyTotal.WithLabelValues("miss").Inc()
		}
	}

	method := in.Method
	if method == "" {
		method = model.DefaultPaymentMethod
	}

	var (
		newStatus model.InvoiceStatus
		changed   bool
	)

	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		invoices := s.invoices.WithTx(tx)
		payments := s.payments.WithTx(tx)

		invoice, err := invoices.LockForCustomer(ctx, invoiceID, account.CustomerID)
		if err != nil {
			return apperrors.Internal("failed to fetch invoice").WithCause(err)
		}
		if invoice == nil {
			return apperrors.NotFound("invoice")
		}

		_, err = payments.Create(ctx, model.CreatePaymentParams{
			InvoiceID:  invoice.ID,
			CompanyID:  invoice.CompanyID,
			CustomerID: invoice.CustomerID,
			Amount:     in.Amount,
			Method:     method,
			Reference:  in.Reference,
			ReceivedAt: time.Now(),
			Source:     model.PaymentSourcePortal,
		})
		if err != nil {
			log.Error().Err(err).Str("invoiceId", invoiceID).Msg("payment insert failed")
			return apperrors.BadRequest("payment insert failed").WithCause(err)
		}

		all, err := payments.FindByInvoiceID(ctx, invoice.ID)
		if err != nil {
			return apperrors.Internal("failed to fetch payments").WithCause(err)
		}

		newStatus, changed = DeriveInvoiceStatus(invoice.TotalAmount, SumCollected(all), invoice.Status)
		if !changed {
			return nil
		}
		if err := invoices.UpdateStatus(ctx, invoice.ID, newStatus); err != nil {
			return apperrors.Internal("failed to update invoice status").WithCause(err)
		}
		return nil
	})
	if err != nil {
		if in.IdempotencyKey != "" {
			if relErr := s.idempotency.Release(ctx, in.IdempotencyKey); relErr != nil {
				log.Warn().Err(relErr).Str("invoiceId", invoiceID).Msg("failed to release idempotency key")
			}
		}
		return internalError(err, "failed to record payment")
	}

	label := "unchanged"
	if changed {
		label = string(newStatus)
	}
	metrics.PaymentsRecordedTotal.WithLabelValues(label).Inc()

	audit.Log(ctx, audit.Event{
		Type:      audit.EventPaymentRecorded,
		AccountID: account.ID,
		Details: map[string]interface{}{
			"invoice_id":     invoiceID,
			"amount":         in.Amount,
			"invoice_status": label,
		},
	})

	return nil
}
