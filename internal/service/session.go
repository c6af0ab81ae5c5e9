package service

import (
	"context"
	"time"

	apperrors "github.com/trademate/portal-server-go/internal/errors"
	"github.com/trademate/portal-server-go/internal/metrics"
	"github.com/trademate/portal-server-go/internal/model"
	"github.com/trademate/portal-server-go/internal/repository"
	"github.com/trademate/portal-server-go/internal/util"
)

type SessionService struct {
	sessions repository.PortalSessionRepository
	accounts repository.PortalAccountRepository
}

func NewSessionService(
	sessions repository.PortalSessionRepository,
	accounts repository.PortalAccountRepository,
) *SessionService {
	return &SessionService{
		sessions: sessions,
		accounts: accounts,
	}
}

// Validate resolves a raw bearer token to its live session and active
// account.
func (s *SessionService) Validate(ctx context.Context, token string) (*model.PortalAccount, *model.PortalSession, error) {
	if token == "" {
		metrics.SessionValidationsTotal.WithLabelValues("missing").Inc()
		return nil, nil, apperrors.Unauthorized("no session token provided")
	}

	session, err := s.sessions.FindValidByTokenHash(ctx, util.HashToken(token))
	if err != nil {
		metrics.SessionValidationsTotal.WithLabelValues("invalid").Inc()
		return nil, nil, apperrors.Unauthorized("invalid session").WithCause(err)
	}
	if session == nil || !session.IsValid(time.Now()) {
		metrics.SessionValidationsTotal.WithLabelValues("expired").Inc()
		return nil, nil, apperrors.Unauthorized("session expired")
	}

	account, err := s.accounts.FindByID(ctx, session.CustomerPortalAccountID)
	if err != nil {
		metrics.SessionValidationsTotal.WithLabelValues("error").Inc()
		return nil, nil, apperrors.Internal("session validation failed").WithCause(err)
	}
	if account == nil || !account.IsActive {
		metrics.SessionValidationsTotal.WithLabelValues("invalid").Inc()
		return nil, nil, apperrors.Unauthorized("invalid session")
	}

	metrics.SessionValidationsTotal.WithLabelValues("valid").Inc()
	return account, session, nil
}
