package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trademate/portal-server-go/internal/audit"
	"github.com/trademate/portal-server-go/internal/model"
	"github.com/trademate/portal-server-go/internal/service"
)

type QuoteService interface {
	List(ctx context.Context, account *model.PortalAccount) ([]model.Quote, error)
	Get(ctx context.Context, account *model.PortalAccount, id string) (*model.Quote, error)
	Sign(ctx context.Context, account *model.PortalAccount, id string, in service.SignQuoteInput, meta audit.RequestMeta) (*model.ESignature, error)
}

type QuoteHandler struct {
	quotes QuoteService
}

func NewQuoteHandler(quotes QuoteService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

func (h *QuoteHandler) Routes(r chi.Router) {
	r.Get("/quotes", h.List)
	r.Get("/quotes/{id}", h.Get)
	r.Post("/quotes/{id}/sign", h.Sign)
}

type signQuoteRequest struct {
	SignatureData *struct {
		SignedBy  string `json:"signed_by" validate:"required,max=200"`
		Signature string `json:"signature"`
	} `json:"signatureData" validate:"required"`
}

func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	account := requireAccount(w, r)
	if account == nil {
		return
	}

	quotes, err := h.quotes.List(r.Context(), account)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	account := requireAccount(w, r)
	if account == nil {
		return
	}
	id, ok := pathID(w, r, "quote")
	if !ok {
		return
	}

	quote, err := h.quotes.Get(r.Context(), account, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *QuoteHandler) Sign(w http.ResponseWriter, r *http.Request) {
	account := requireAccount(w, r)
	if account == nil {
		return
	}
	id, ok := pathID(w, r, "quote")
	if !ok {
		return
	}

	var req signQuoteRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	signature, err := h.quotes.Sign(r.Context(), account, id, service.SignQuoteInput{
		SignedBy:  req.SignatureData.SignedBy,
		Signature: req.SignatureData.Signature,
	}, audit.MetaFromRequest(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"signature": signature,
	})
}
