package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/trademate/portal-server-go/internal/errors"
	"github.com/trademate/portal-server-go/internal/model"
	"github.com/trademate/portal-server-go/internal/repository"
	"github.com/trademate/portal-server-go/internal/util"
)

var threadTypes = []string{model.ThreadTypeServiceRequest, model.ThreadTypeWorkOrder}

type SendMessageInput struct {
	Content          string
	Subject          *string
	WorkOrderID      *string
	ServiceRequestID *string
}

type MessageService struct {
	messages repository.MessageRepository
}

func NewMessageService(messages repository.MessageRepository) *MessageService {
	return &MessageService{messages: messages}
}

// List returns the caller's messages, narrowed to one thread when both
// ThreadID and ThreadType are set.
func (s *MessageService) List(ctx context.Context, account *model.PortalAccount, filter model.MessageFilter) ([]model.Message, error) {
	if filter.ThreadID == "" || filter.ThreadType == "" {
		filter = model.MessageFilter{}
	} else {
		if !util.IsValidEnum(filter.ThreadType, threadTypes) {
			return nil, apperrors.BadRequest("invalid thread type")
		}
		if !util.IsValidUUID(filter.ThreadID) {
			return nil, apperrors.BadRequest("invalid thread id")
		}
	}

	messages, err := s.messages.FindByCustomerID(ctx, account.CustomerID, filter)
	if err != nil {
		log.Error().Err(err).Str("customerId", account.CustomerID).Msg("failed to fetch messages")
		return nil, apperrors.Internal("failed to fetch messages").WithCause(err)
	}
	return messages, nil
}

func (s *MessageService) Send(ctx context.Context, account *model.PortalAccount, in SendMessageInput) (*model.Message, error) {
	message, err := s.messages.Create(ctx, model.CreateMessageParams{
		CustomerID:       account.CustomerID,
		PortalCustomerID: account.ID,
		WorkOrderID:      in.WorkOrderID,
		ServiceRequestID: in.ServiceRequestID,
		MessageType:      model.MessageTypeCustomerToCompany,
		Subject:          in.Subject,
		Content:          in.Content,
		CreatedAt:        time.Now(),
	})
	if err != nil {
		log.Error().Err(err).Str("customerId", account.CustomerID).Msg("failed to send message")
		return nil, apperrors.Internal("failed to send message").WithCause(err)
	}
	return message, nil
}
