package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/trademate/portal-server-go/internal/errors"
	"github.com/trademate/portal-server-go/internal/model"
)

func TestDeriveInvoiceStatus(t *testing.T) {
	tests := []struct {
		name        string
		total       float64
		paid        float64
		current     model.InvoiceStatus
		wantStatus  model.InvoiceStatus
		wantChanged bool
	}{
		{"exact payment", 100, 100, model.InvoiceStatusUnpaid, model.InvoiceStatusPaid, true},
		{"rounding edge", 100, 99.995, model.InvoiceStatusUnpaid, model.InvoiceStatusPaid, true},
		{"overpayment", 100, 150, model.InvoiceStatusSent, model.InvoiceStatusPaid, true},
		{"already paid", 100, 100, model.InvoiceStatusPaid, model.InvoiceStatusPaid, false},
		{"one cent short", 100, 99.99, model.InvoiceStatusUnpaid, model.InvoiceStatusPartiallyPaid, true},
		{"one cent short already partial", 100, 99.99, model.InvoiceStatusPartiallyPaid, model.InvoiceStatusPartiallyPaid, false},
		{"partial", 100, 40, model.InvoiceStatusUnpaid, model.InvoiceStatusPartiallyPaid, true},
		{"nothing paid", 100, 0, model.InvoiceStatusUnpaid, model.InvoiceStatusUnpaid, false},
		{"zero total", 0, 0, model.InvoiceStatusSent, model.InvoiceStatusSent, false},
		{"negative total", -10, 5, model.InvoiceStatusSent, model.InvoiceStatusSent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, changed := DeriveInvoiceStatus(tt.total, tt.paid, tt.current)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestSumCollected(t *testing.T) {
	assert.Equal(t, 0.0, SumCollected(nil))
	assert.InDelta(t, 100.0, SumCollected([]model.Payment{
		{Amount: 60}, {Amount: 40}, {Amount: -25},
	}), 1e-9)
}

type invoiceFixture struct {
	tx       *fakeTx
	invoices *mockInvoiceRepo
	payments *mockPaymentRepo
	guard    *mockGuard
}

func newInvoiceFixture() *invoiceFixture {
	return &invoiceFixture{
		tx:       &fakeTx{},
		invoices: new(mockInvoiceRepo),
		payments: new(mockPaymentRepo),
		guard:    new(mockGuard),
	}
}

func (f *invoiceFixture) service() *InvoiceService {
	return NewInvoiceService(f.tx, f.invoices, f.payments, f.guard)
}

func TestInvoiceService_ListPayments(t *testing.T) {
	ctx := context.Background()

	t.Run("verifies ownership first", func(t *testing.T) {
		f := newInvoiceFixture()
		f.invoices.On("FindByIDForCustomer", ctx, "inv-2", "cust-1").Return(nil, nil)

		_, err := f.service().ListPayments(ctx, testAccount(), "inv-2")

		assertAppError(t, err, apperrors.ErrCodeNotFound, "invoice not found")
		f.payments.AssertNotCalled(t, "FindByInvoiceID", mock.Anything, mock.Anything)
	})

	t.Run("returns payments", func(t *testing.T) {
		f := newInvoiceFixture()
		f.invoices.On("FindByIDForCustomer", ctx, "inv-1", "cust-1").Return(&model.Invoice{ID: "inv-1"}, nil)
		f.payments.On("FindByInvoiceID", ctx, "inv-1").Return([]model.Payment{{ID: "p-2"}, {ID: "p-1"}}, nil)

		got, err := f.service().ListPayments(ctx, testAccount(), "inv-1")

		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestInvoiceService_RecordPayment(t *testing.T) {
	ctx := context.Background()
	invoice := &model.Invoice{
		ID:          "inv-1",
		CompanyID:   "co-1",
		CustomerID:  "cust-1",
		TotalAmount: 100,
		Status:      model.InvoiceStatusUnpaid,
	}

	t.Run("full payment marks invoice paid", func(t *testing.T) {
		f := newInvoiceFixture()
		var params model.CreatePaymentParams

		f.invoices.On("LockForCustomer", ctx, "inv-1", "cust-1").Return(invoice, nil)
		f.payments.On("Create", ctx, mock.Anything).
			Run(func(args mock.Arguments) { params = args.Get(1).(model.CreatePaymentParams) }).
			Return(&model.Payment{ID: "p-1"}, nil)
		f.payments.On("FindByInvoiceID", ctx, "inv-1").Return([]model.Payment{{Amount: 100}}, nil)
		f.invoices.On("UpdateStatus", ctx, "inv-1", model.InvoiceStatusPaid).Return(nil)

		err := f.service().RecordPayment(ctx, testAccount(), "inv-1", RecordPaymentInput{Amount: 100})

		require.NoError(t, err)
		assert.Equal(t, 1, f.tx.calls)
		assert.Equal(t, model.DefaultPaymentMethod, params.Method)
		assert.Equal(t, model.PaymentSourcePortal, params.Source)
		assert.Equal(t, "co-1", params.CompanyID)
		assert.Nil(t, params.Reference)
		assert.False(t, params.ReceivedAt.IsZero())
		f.invoices.AssertExpectations(t)
		f.guard.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything)
	})

	t.Run("partial payment marks partially paid", func(t *testing.T) {
		f := newInvoiceFixture()
		ref := "ch_123"
		f.invoices.On("LockForCustomer", ctx, "inv-1", "cust-1").Return(invoice, nil)
		f.payments.On("Create", ctx, mock.MatchedBy(func(p model.CreatePaymentParams) bool {
			return p.Method == "bank_transfer" && p.Reference != nil && *p.Reference == ref
		})).Return(&model.Payment{ID: "p-1"}, nil)
		f.payments.On("FindByInvoiceID", ctx, "inv-1").Return([]model.Payment{{Amount: 40}}, nil)
		f.invoices.On("UpdateStatus", ctx, "inv-1", model.InvoiceStatusPartiallyPaid).Return(nil)

		err := f.service().RecordPayment(ctx, testAccount(), "inv-1", RecordPaymentInput{
			Amount: 40, Method: "bank_transfer", Reference: &ref,
		})

		require.NoError(t, err)
		f.payments.AssertExpectations(t)
		f.invoices.AssertExpectations(t)
	})

	t.Run("zero payment leaves status alone", func(t *testing.T) {
		f := newInvoiceFixture()
		f.invoices.On("LockForCustomer", ctx, "inv-1", "cust-1").Return(invoice, nil)
		f.payments.On("Create", ctx, mock.Anything).Return(&model.Payment{ID: "p-1"}, nil)
		f.payments.On("FindByInvoiceID", ctx, "inv-1").Return([]model.Payment{{Amount: 0}}, nil)

		err := f.service().RecordPayment(ctx, testAccount(), "inv-1", RecordPaymentInput{Amount: 0})

		require.NoError(t, err)
		f.invoices.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("other customer's invoice is not found", func(t *testing.T) {
		f := newInvoiceFixture()
		f.invoices.On("LockForCustomer", ctx, "inv-9", "cust-1").Return(nil, nil)

		err := f.service().RecordPayment(ctx, testAccount(), "inv-9", RecordPaymentInput{Amount: 10})

		assertAppError(t, err, apperrors.ErrCodeNotFound, "invoice not found")
		f.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("insert failure is bad request", func(t *testing.T) {
		f := newInvoiceFixture()
		f.invoices.On("LockForCustomer", ctx, "inv-1", "cust-1").Return(invoice, nil)
		f.payments.On("Create", ctx, mock.Anything).Return(nil, errors.New("check violation"))

		err := f.service().RecordPayment(ctx, testAccount(), "inv-1", RecordPaymentInput{Amount: 10})

		assertAppError(t, err, apperrors.ErrCodeBadRequest, "payment insert failed")
		f.invoices.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("duplicate idempotency key is skipped", func(t *testing.T) {
		f := newInvoiceFixture()
		f.guard.On("Claim", ctx, "key-1").Return(false, nil)

		err := f.service().RecordPayment(ctx, testAccount(), "inv-1", RecordPaymentInput{Amount: 10, IdempotencyKey: "key-1"})

		require.NoError(t, err)
		assert.Equal(t, 0, f.tx.calls)
	})

	t.Run("failed write releases idempotency key", func(t *testing.T) {
		f := newInvoiceFixture()
		f.guard.On("Claim", ctx, "key-2").Return(true, nil)
		f.guard.On("Release", ctx, "key-2").Return(nil)
		f.invoices.On("LockForCustomer", ctx, "inv-1", "cust-1").Return(invoice, nil)
		f.payments.On("Create", ctx, mock.Anything).Return(nil, errors.New("insert failed"))

		err := f.service().RecordPayment(ctx, testAccount(), "inv-1", RecordPaymentInput{Amount: 10, IdempotencyKey: "key-2"})

		assert.Error(t, err)
		f.guard.AssertExpectations(t)
	})

	t.Run("guard outage does not block payment", func(t *testing.T) {
		f := newInvoiceFixture()
		f.guard.On("Claim", ctx, "key-3").Return(false, errors.New("redis down"))
		f.invoices.On("LockForCustomer", ctx, "inv-1", "cust-1").Return(invoice, nil)
		f.payments.On("Create", ctx, mock.Anything).Return(&model.Payment{ID: "p-1"}, nil)
		f.payments.On("FindByInvoiceID", ctx, "inv-1").Return([]model.Payment{{Amount: 10}}, nil)
		f.invoices.On("UpdateStatus", ctx, "inv-1", model.InvoiceStatusPartiallyPaid).Return(nil)

		err := f.service().RecordPayment(ctx, testAccount(), "inv-1", RecordPaymentInput{Amount: 10, IdempotencyKey: "key-3"})

		require.NoError(t, err)
		f.guard.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	})

	t.Run("commit failure is internal", func(t *testing.T) {
		f := newInvoiceFixture()
		svc := NewInvoiceService(errTx{errors.New("commit transaction: conn reset")}, f.invoices, f.payments, f.guard)

		err := svc.RecordPayment(ctx, testAccount(), "inv-1", RecordPaymentInput{Amount: 10})

		assertAppError(t, err, apperrors.ErrCodeInternal, "failed to record payment")
	})
}
