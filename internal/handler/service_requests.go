package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/trademate/portal-server-go/internal/audit"
	apperrors "github.com/trademate/portal-server-go/internal/errors"
	"github.com/trademate/portal-server-go/internal/model"
	"github.com/trademate/portal-server-go/internal/service"
)

type ServiceRequestService interface {
	Create(ctx context.Context, account *model.PortalAccount, in service.CreateServiceRequestInput, meta audit.RequestMeta) (*model.ServiceRequest, error)
	List(ctx context.Context, account *model.PortalAccount) ([]model.ServiceRequestWithResponses, error)
	ListResponses(ctx context.Context, account *model.PortalAccount, requestID string) ([]model.ServiceRequestResponse, error)
}

type ServiceRequestHandler struct {
	requests ServiceRequestService
}

func NewServiceRequestHandler(requests ServiceRequestService) *ServiceRequestHandler {
	return &ServiceRequestHandler{requests: requests}
}

func (h *ServiceRequestHandler) Routes(r chi.Router) {
	r.Get("/service-requests", h.List)
	r.Post("/service-requests", h.Create)
	r.Get("/service-requests/{id}/responses", h.ListResponses)
}

// createServiceRequestRequest carries only client-owned fields; customer,
// status and timestamps are set by the service.
type createServiceRequestRequest struct {
	Title         string  `json:"title" validate:"required,max=200"`
	Description   *string `json:"description" validate:"omitempty,max=5000"`
	Category      *string `json:"category" validate:"omitempty,max=100"`
	Priority      string  `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	PreferredDate *string `json:"preferred_date"`
}

func (h *ServiceRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	account := requireAccount(w, r)
	if account == nil {
		return
	}

	var req createServiceRequestRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var preferred *time.Time
	if req.PreferredDate != nil && *req.PreferredDate != "" {
		t, err := parseDate(*req.PreferredDate)
		if err != nil {
			writeError(w, r, apperrors.ValidationError("preferred_date must be a date (YYYY-MM-DD) or RFC 3339 timestamp"))
			return
		}
		preferred = &t
	}

	request, err := h.requests.Create(r.Context(), account, service.CreateServiceRequestInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Priority:      req.Priority,
		PreferredDate: preferred,
	}, audit.MetaFromRequest(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (h *ServiceRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	account := requireAccount(w, r)
	if account == nil {
		return
	}

	requests, err := h.requests.List(r.Context(), account)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *ServiceRequestHandler) ListResponses(w http.ResponseWriter, r *http.Request) {
	account := requireAccount(w, r)
	if account == nil {
		return
	}
	id, ok := pathID(w, r, "service request")
	if !ok {
		return
	}

	responses, err := h.requests.ListResponses(r.Context(), account, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, responses)
}
