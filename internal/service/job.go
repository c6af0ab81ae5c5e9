package service

import (
	"context"

	"github.com/rs/zerolog/log"

	apperrors "github.com/trademate/portal-server-go/internal/errors"
	"github.com/trademate/portal-server-go/internal/model"
	"github.com/trademate/portal-server-go/internal/repository"
)

type JobService struct {
	jobs repository.JobRepository
}

func NewJobService(jobs repository.JobRepository) *JobService {
	return &JobService{jobs: jobs}
}

func (s *JobService) List(ctx context.Context, account *model.PortalAccount) ([]model.Job, error) {
	jobs, err := s.jobs.FindByCustomerID(ctx, account.CustomerID)
	if err != nil {
		log.Error().Err(err).Str("customerId", account.CustomerID).Msg("failed to fetch jobs")
		return nil, apperrors.Internal("failed to fetch jobs").WithCause(err)
	}
	return jobs, nil
}

func (s *JobService) Get(ctx context.Context, account *model.PortalAccount, id string) (*model.Job, error) {
	job, err := s.jobs.FindByIDForCustomer(ctx, id, account.CustomerID)
	if err != nil {
		log.Error().Err(err).Str("jobId", id).Msg("failed to fetch job")
		return nil, apperrors.Internal("failed to fetch job").WithCause(err)
	}
	if job == nil {
		return nil, apperrors.NotFound("job")
	}
	return job, nil
}
