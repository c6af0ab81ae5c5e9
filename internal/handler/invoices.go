package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/trademate/portal-server-go/internal/errors"
	"github.com/trademate/portal-server-go/internal/model"
	"github.com/trademate/portal-server-go/internal/redis"
	"github.com/trademate/portal-server-go/internal/service"
)

// IdempotencyKeyHeader lets clients retry POST /invoices/{id}/payments safely.
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

type InvoiceService interface {
	List(ctx context.Context, account *model.PortalAccount) ([]model.Invoice, error)
	Get(ctx context.Context, account *model.PortalAccount, id string) (*model.Invoice, error)
	ListPayments(ctx context.Context, account *model.PortalAccount, invoiceID string) ([]model.Payment, error)
	RecordPayment(ctx context.Context, account *model.PortalAccount, invoiceID string, in service.RecordPaymentInput) error
}

type InvoiceHandler struct {
	invoices InvoiceService
}

func NewInvoiceHandler(invoices InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

func (h *InvoiceHandler) Routes(r chi.Router) {
	r.Get("/invoices", h.List)
	r.Get("/invoices/{id}", h.Get)
	r.Get("/invoices/{id}/payments", h.ListPayments)
	r.Post("/invoices/{id}/payments", h.RecordPayment)
}

type recordPaymentRequest struct {
	Amount    *amount `json:"amount" validate:"required"`
	Method    string  `json:"method" validate:"max=50"`
	Reference *string `json:"reference" validate:"omitempty,max=255"`
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	account := requireAccount(w, r)
	if account == nil {
		return
	}

	invoices, err := h.invoices.List(r.Context(), account)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	account := requireAccount(w, r)
	if account == nil {
		return
	}
	id, ok := pathID(w, r, "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoices.Get(r.Context(), account, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	account := requireAccount(w, r)
	if account == nil {
		return
	}
	id, ok := pathID(w, r, "invoice")
	if !ok {
		return
	}

	payments, err := h.invoices.ListPayments(r.Context(), account, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (h *InvoiceHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	account := requireAccount(w, r)
	if account == nil {
		return
	}
	id, ok := pathID(w, r, "invoice")
	if !ok {
		return
	}

	var req recordPaymentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	in := service.RecordPaymentInput{
		Amount:    float64(*req.Amount),
		Method:    strings.TrimSpace(req.Method),
		Reference: req.Reference,
	}
	if key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader)); key != "" {
		if len(key) > maxIdempotencyKeyLength {
			writeError(w, r, apperrors.BadRequest("idempotency key too long"))
			return
		}
		in.IdempotencyKey = redis.PaymentIdempotencyKey(account.ID, id, key)
	}

	if err := h.invoices.RecordPayment(r.Context(), account, id, in); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w)
}
