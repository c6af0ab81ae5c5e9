package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/trademate/portal-server-go/internal/audit"
	apperrors "github.com/trademate/portal-server-go/internal/errors"
	"github.com/trademate/portal-server-go/internal/model"
	"github.com/trademate/portal-server-go/internal/repository"
)

const DefaultServiceRequestPriority = "normal"

// ServiceRequestPriorities are the accepted priority values.
var ServiceRequestPriorities = []string{"low", "normal", "high", "urgent"}

type CreateServiceRequestInput struct {
	Title         string
	Description   *string
	Category      *string
	Priority      string
	PreferredDate *time.Time
}

type ServiceRequestService struct {
	requests repository.ServiceRequestRepository
	activity ActivityRecorder
}

func NewServiceRequestService(requests repository.ServiceRequestRepository, activity ActivityRecorder) *ServiceRequestService {
	return &ServiceRequestService{
		requests: requests,
		activity: activity,
	}
}

// Create opens a request for the caller's customer. Ownership, status and
// timestamp are always set here.
func (s *ServiceRequestService) Create(ctx context.Context, account *model.PortalAccount, in CreateServiceRequestInput, meta audit.RequestMeta) (*model.ServiceRequest, error) {
	priority := in.Priority
	if priority == "" {
		priority = DefaultServiceRequestPriority
	}

	request, err := s.requests.Create(ctx, model.CreateServiceRequestParams{
		CustomerID:    account.CustomerID,
		Title:         in.Title,
		Description:   in.Description,
		Category:      in.Category,
		Priority:      priority,
		PreferredDate: in.PreferredDate,
		Status:        model.ServiceRequestStatusOpen,
		RequestedAt:   time.Now(),
	})
	if err != nil {
		log.Error().Err(err).Str("customerId", account.CustomerID).Msg("failed to create service request")
		return nil, apperrors.Internal("failed to create service request").WithCause(err)
	}

	s.activity.Record(ctx, account.ID, model.ActivityServiceRequestCreated,
		model.ResourceTypeServiceRequest, request.ID, meta)

	return request, nil
}

func (s *ServiceRequestService) List(ctx context.Context, account *model.PortalAccount) ([]model.ServiceRequestWithResponses, error) {
	requests, err := s.requests.FindWithResponsesByCustomerID(ctx, account.CustomerID)
	if err != nil {
		log.Error().Err(err).Str("customerId", account.CustomerID).Msg("failed to fetch service requests")
		return nil, apperrors.Internal("failed to fetch service requests").WithCause(err)
	}
	return requests, nil
}

func (s *ServiceRequestService) ListResponses(ctx context.Context, account *model.PortalAccount, requestID string) ([]model.ServiceRequestResponse, error) {
	responses, err := s.requests.FindResponses(ctx, requestID, account.CustomerID)
	if err != nil {
		log.Error().Err(err).Str("serviceRequestId", requestID).Msg("failed to fetch responses")
		return nil, apperrors.Internal("failed to fetch responses").WithCause(err)
	}
	return responses, nil
}
