package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"github.com/trademate/portal-server-go/internal/audit"
	"github.com/trademate/portal-server-go/internal/database"
	"github.com/trademate/portal-server-go/internal/model"
	"github.com/trademate/portal-server-go/internal/notify"
	"github.com/trademate/portal-server-go/internal/repository"
)

// fakeTx runs fn directly and counts how many transactions were opened.
type fakeTx struct {
	calls int
}

func (f *fakeTx) WithTx(_ context.Context, fn database.TxFunc) error {
	f.calls++
	return fn(nil)
}

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id string) (*model.PortalAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PortalAccount), args.Error(1)
}

func (m *mockAccountRepo) FindActiveByEmail(ctx context.Context, email string) (*model.PortalAccount, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PortalAccount), args.Error(1)
}

func (m *mockAccountRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) Create(ctx context.Context, params model.CreatePortalSessionParams) (*model.PortalSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PortalSession), args.Error(1)
}

func (m *mockSessionRepo) FindValidByTokenHash(ctx context.Context, tokenHash string) (*model.PortalSession, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PortalSession), args.Error(1)
}

func (m *mockSessionRepo) Invalidate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSessionRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type mockQuoteRepo struct {
	mock.Mock
}

func (m *mockQuoteRepo) FindByCustomerID(ctx context.Context, customerID string) ([]model.Quote, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Quote), args.Error(1)
}

func (m *mockQuoteRepo) FindByIDForCustomer(ctx context.Context, id, customerID string) (*model.Quote, error) {
	args := m.Called(ctx, id, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quote), args.Error(1)
}

func (m *mockQuoteRepo) LockForCustomer(ctx context.Context, id, customerID string) (*model.Quote, error) {
	args := m.Called(ctx, id, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quote), args.Error(1)
}

func (m *mockQuoteRepo) MarkApproved(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *mockQuoteRepo) WithTx(*sqlx.Tx) repository.QuoteRepository {
	return m
}

type mockSignatureRepo struct {
	mock.Mock
}

func (m *mockSignatureRepo) Create(ctx context.Context, params model.CreateESignatureParams) (*model.ESignature, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ESignature), args.Error(1)
}

func (m *mockSignatureRepo) WithTx(*sqlx.Tx) repository.ESignatureRepository {
	return m
}

type mockJobRepo struct {
	mock.Mock
}

func (m *mockJobRepo) FindByCustomerID(ctx context.Context, customerID string) ([]model.Job, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Job), args.Error(1)
}

func (m *mockJobRepo) FindByIDForCustomer(ctx context.Context, id, customerID string) (*model.Job, error) {
	args := m.Called(ctx, id, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Job), args.Error(1)
}

type mockInvoiceRepo struct {
	mock.Mock
}

func (m *mockInvoiceRepo) FindByCustomerID(ctx context.Context, customerID string) ([]model.Invoice, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) FindByIDForCustomer(ctx context.Context, id, customerID string) (*model.Invoice, error) {
	args := m.Called(ctx, id, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) LockForCustomer(ctx context.Context, id, customerID string) (*model.Invoice, error) {
	args := m.Called(ctx, id, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) UpdateStatus(ctx context.Context, id string, status model.InvoiceStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockInvoiceRepo) WithTx(*sqlx.Tx) repository.InvoiceRepository {
	return m
}

type mockPaymentRepo struct {
	mock.Mock
}

func (m *mockPaymentRepo) FindByInvoiceID(ctx context.Context, invoiceID string) ([]model.Payment, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payment), args.Error(1)
}

func (m *mockPaymentRepo) Create(ctx context.Context, params model.CreatePaymentParams) (*model.Payment, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *mockPaymentRepo) WithTx(*sqlx.Tx) repository.PaymentRepository {
	return m
}

type mockServiceRequestRepo struct {
	mock.Mock
}

func (m *mockServiceRequestRepo) Create(ctx context.Context, params model.CreateServiceRequestParams) (*model.ServiceRequest, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ServiceRequest), args.Error(1)
}

func (m *mockServiceRequestRepo) FindWithResponsesByCustomerID(ctx context.Context, customerID string) ([]model.ServiceRequestWithResponses, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ServiceRequestWithResponses), args.Error(1)
}

func (m *mockServiceRequestRepo) FindResponses(ctx context.Context, serviceRequestID, customerID string) ([]model.ServiceRequestResponse, error) {
	args := m.Called(ctx, serviceRequestID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ServiceRequestResponse), args.Error(1)
}

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) FindByCustomerID(ctx context.Context, customerID string, filter model.MessageFilter) ([]model.Message, error) {
	args := m.Called(ctx, customerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *mockMessageRepo) Create(ctx context.Context, params model.CreateMessageParams) (*model.Message, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Record(ctx context.Context, accountID, action, resourceType, resourceID string, meta audit.RequestMeta) {
	m.Called(ctx, accountID, action, resourceType, resourceID, meta)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendMagicLink(ctx context.Context, account *model.PortalAccount, link notify.MagicLink) error {
	args := m.Called(ctx, account, link)
	return args.Error(0)
}

type mockGuard struct {
	mock.Mock
}

func (m *mockGuard) Claim(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockGuard) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func testAccount() *model.PortalAccount {
	return &model.PortalAccount{
		ID:         "acc-1",
		CustomerID: "cust-1",
		Email:      "jane@example.com",
		IsActive:   true,
	}
}

var testMeta = audit.RequestMeta{IP: "192.0.2.10", UserAgent: "test-agent"}

// errTx fails as if the commit was rejected.
type errTx struct {
	err error
}

func (e errTx) WithTx(context.Context, database.TxFunc) error {
	return e.err
}
