package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/trademate/portal-server-go/internal/audit"
	"github.com/trademate/portal-server-go/internal/middleware"
	"github.com/trademate/portal-server-go/internal/model"
	"github.com/trademate/portal-server-go/internal/service"
)

const (
	testQuoteID   = "6f1c2b1e-3a7d-4c1e-9f57-0d2a4b8c9e10"
	testInvoiceID = "a3e0c7d2-5b14-4f6a-8c3e-2b9d1f7e6a55"
	testJobID     = "0b7f3c9a-1d2e-4f5a-8b6c-7d8e9f0a1b2c"
)

var testAccount = &model.PortalAccount{
	ID:         "11111111-1111-4111-8111-111111111111",
	CustomerID: "22222222-2222-4222-8222-222222222222",
	Email:      "a@x.com",
	IsActive:   true,
}

var testSession = &model.PortalSession{ID: "33333333-3333-4333-8333-333333333333"}

// newRouter mounts routes behind a stub that authenticates as account
// when it is non-nil.
func newRouter(account *model.PortalAccount, mount func(chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if account != nil {
				req = req.WithContext(middleware.WithPortalSession(req.Context(), account, testSession))
			}
			next.ServeHTTP(w, req)
		})
	})
	mount(r)
	return r
}

func doRequest(h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

type fakeAuthService struct {
	loginFunc     func(ctx context.Context, email, password string, meta audit.RequestMeta) (*service.LoginResult, error)
	magicLinkFunc func(ctx context.Context, email string, meta audit.RequestMeta) (*service.MagicLinkResult, error)
	logoutFunc    func(ctx context.Context, session *model.PortalSession) error
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string, meta audit.RequestMeta) (*service.LoginResult, error) {
	return f.loginFunc(ctx, email, password, meta)
}

func (f *fakeAuthService) MagicLink(ctx context.Context, email string, meta audit.RequestMeta) (*service.MagicLinkResult, error) {
	return f.magicLinkFunc(ctx, email, meta)
}

func (f *fakeAuthService) Logout(ctx context.Context, session *model.PortalSession) error {
	return f.logoutFunc(ctx, session)
}

type fakeQuoteService struct {
	listFunc func(ctx context.Context, account *model.PortalAccount) ([]model.Quote, error)
	getFunc  func(ctx context.Context, account *model.PortalAccount, id string) (*model.Quote, error)
	signFunc func(ctx context.Context, account *model.PortalAccount, id string, in service.SignQuoteInput, meta audit.RequestMeta) (*model.ESignature, error)
}

func (f *fakeQuoteService) List(ctx context.Context, account *model.PortalAccount) ([]model.Quote, error) {
	return f.listFunc(ctx, account)
}

func (f *fakeQuoteService) Get(ctx context.Context, account *model.PortalAccount, id string) (*model.Quote, error) {
	return f.getFunc(ctx, account, id)
}

func (f *fakeQuoteService) Sign(ctx context.Context, account *model.PortalAccount, id string, in service.SignQuoteInput, meta audit.RequestMeta) (*model.ESignature, error) {
	return f.signFunc(ctx, account, id, in, meta)
}

type fakeJobService struct {
	listFunc func(ctx context.Context, account *model.PortalAccount) ([]model.Job, error)
	getFunc  func(ctx context.Context, account *model.PortalAccount, id string) (*model.Job, error)
}

func (f *fakeJobService) List(ctx context.Context, account *model.PortalAccount) ([]model.Job, error) {
	return f.listFunc(ctx, account)
}

func (f *fakeJobService) Get(ctx context.Context, account *model.PortalAccount, id string) (*model.Job, error) {
	return f.getFunc(ctx, account, id)
}

type fakeInvoiceService struct {
	listFunc          func(ctx context.Context, account *model.PortalAccount) ([]model.Invoice, error)
	getFunc           func(ctx context.Context, account *model.PortalAccount, id string) (*model.Invoice, error)
	listPaymentsFunc  func(ctx context.Context, account *model.PortalAccount, invoiceID string) ([]model.Payment, error)
	recordPaymentFunc func(ctx context.Context, account *model.PortalAccount, invoiceID string, in service.RecordPaymentInput) error
}

func (f *fakeInvoiceService) List(ctx context.Context, account *model.PortalAccount) ([]model.Invoice, error) {
	return f.listFunc(ctx, account)
}

func (f *fakeInvoiceService) Get(ctx context.Context, account *model.PortalAccount, id string) (*model.Invoice, error) {
	return f.getFunc(ctx, account, id)
}

func (f *fakeInvoiceService) ListPayments(ctx context.Context, account *model.PortalAccount, invoiceID string) ([]model.Payment, error) {
	return f.listPaymentsFunc(ctx, account, invoiceID)
}

func (f *fakeInvoiceService) RecordPayment(ctx context.Context, account *model.PortalAccount, invoiceID string, in service.RecordPaymentInput) error {
	return f.recordPaymentFunc(ctx, account, invoiceID, in)
}

type fakeServiceRequestService struct {
	createFunc        func(ctx context.Context, account *model.PortalAccount, in service.CreateServiceRequestInput, meta audit.RequestMeta) (*model.ServiceRequest, error)
	listFunc          func(ctx context.Context, account *model.PortalAccount) ([]model.ServiceRequestWithResponses, error)
	listResponsesFunc func(ctx context.Context, account *model.PortalAccount, requestID string) ([]model.ServiceRequestResponse, error)
}

func (f *fakeServiceRequestService) Create(ctx context.Context, account *model.PortalAccount, in service.CreateServiceRequestInput, meta audit.RequestMeta) (*model.ServiceRequest, error) {
	return f.createFunc(ctx, account, in, meta)
}

func (f *fakeServiceRequestService) List(ctx context.Context, account *model.PortalAccount) ([]model.ServiceRequestWithResponses, error) {
	return f.listFunc(ctx, account)
}

func (f *fakeServiceRequestService) ListResponses(ctx context.Context, account *model.PortalAccount, requestID string) ([]model.ServiceRequestResponse, error) {
	return f.listResponsesFunc(ctx, account, requestID)
}

type fakeMessageService struct {
	listFunc func(ctx context.Context, account *model.PortalAccount, filter model.MessageFilter) ([]model.Message, error)
	sendFunc func(ctx context.Context, account *model.PortalAccount, in service.SendMessageInput) (*model.Message, error)
}

func (f *fakeMessageService) List(ctx context.Context, account *model.PortalAccount, filter model.MessageFilter) ([]model.Message, error) {
	return f.listFunc(ctx, account, filter)
}

func (f *fakeMessageService) Send(ctx context.Context, account *model.PortalAccount, in service.SendMessageInput) (*model.Message, error) {
	return f.sendFunc(ctx, account, in)
}
