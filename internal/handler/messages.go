package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trademate/portal-server-go/internal/model"
	"github.com/trademate/portal-server-go/internal/service"
)

type MessageService interface {
	List(ctx context.Context, account *model.PortalAccount, filter model.MessageFilter) ([]model.Message, error)
	Send(ctx context.Context, account *model.PortalAccount, in service.SendMessageInput) (*model.Message, error)
}

type MessageHandler struct {
	messages MessageService
}

func NewMessageHandler(messages MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

func (h *MessageHandler) Routes(r chi.Router) {
	r.Get("/messages", h.List)
	r.Post("/messages", h.Send)
}

type sendMessageRequest struct {
	Content          string  `json:"content" validate:"required,max=10000"`
	Subject          *string `json:"subject" validate:"omitempty,max=200"`
	WorkOrderID      *string `json:"work_order_id" validate:"omitempty,uuid"`
	ServiceRequestID *string `json:"service_request_id" validate:"omitempty,uuid"`
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	account := requireAccount(w, r)
	if account == nil {
		return
	}

	query := r.URL.Query()
	messages, err := h.messages.List(r.Context(), account, model.MessageFilter{
		ThreadID:   query.Get("thread_id"),
		ThreadType: query.Get("type"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	account := requireAccount(w, r)
	if account == nil {
		return
	}

	var req sendMessageRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	message, err := h.messages.Send(r.Context(), account, service.SendMessageInput{
		Content:          req.Content,
		Subject:          req.Subject,
		WorkOrderID:      req.WorkOrderID,
		ServiceRequestID: req.ServiceRequestID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message)
}
