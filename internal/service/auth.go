package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/trademate/portal-server-go/internal/audit"
	"github.com/trademate/portal-server-go/internal/config"
	apperrors "github.com/trademate/portal-server-go/internal/errors"
	"github.com/trademate/portal-server-go/internal/metrics"
	"github.com/trademate/portal-server-go/internal/model"
	"github.com/trademate/portal-server-go/internal/notify"
	"github.com/trademate/portal-server-go/internal/repository"
	"github.com/trademate/portal-server-go/internal/util"
)

type AuthOptions struct {
	// MagicLinkBaseURL is where the emailed link points; the token is added
	// as a query parameter.
	MagicLinkBaseURL string
	// ReturnMagicLinkToken echoes the magic-link token in the API response.
	ReturnMagicLinkToken bool
}

type LoginResult struct {
	Account      *model.PortalAccount
	SessionToken string
	ExpiresAt    time.Time
}

type MagicLinkResult struct {
	// Token is empty unless ReturnMagicLinkToken is set.
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	accounts repository.PortalAccountRepository
	sessions repository.PortalSessionRepository
	activity ActivityRecorder
	verifier CredentialVerifier
	notifier notify.Notifier
	opts     AuthOptions
}

func NewAuthService(
	accounts repository.PortalAccountRepository,
	sessions repository.PortalSessionRepository,
	activity ActivityRecorder,
	verifier CredentialVerifier,
	notifier notify.Notifier,
	opts AuthOptions,
) *AuthService {
	return &AuthService{
		accounts: accounts,
		sessions: sessions,
		activity: activity,
		verifier: verifier,
		notifier: notifier,
		opts:     opts,
	}
}

func (s *AuthService) findActiveAccount(ctx context.Context, email, method string) (*model.PortalAccount, error) {
	account, err := s.accounts.FindActiveByEmail(ctx, email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(method, "error").Inc()
		log.Error().Err(err).Str("email", util.MaskEmail(email)).Msg("portal account lookup failed")
		return nil, apperrors.Unauthorized("authentication failed").WithCause(err)
	}
	if account == nil {
		metrics.LoginsTotal.WithLabelValues(method, "not_found").Inc()
		return nil, apperrors.NotFound("account")
	}
	return account, nil
}

func (s *AuthService) issueSession(ctx context.Context, accountID string, ttl time.Duration, meta audit.RequestMeta) (string, time.Time, error) {
	token, err := util.GenerateToken()
	if err != nil {
		return "", time.Time{}, apperrors.Internal("failed to create session").WithCause(err)
	}

	expiresAt := time.Now().Add(ttl)
	_, err = s.sessions.Create(ctx, model.CreatePortalSessionParams{
		AccountID: accountID,
		TokenHash: util.HashToken(token),
		ExpiresAt: expiresAt,
		IPAddress: meta.IPPtr(),
		UserAgent: meta.UserAgentPtr(),
	})
	if err != nil {
		log.Error().Err(err).Str("accountId", accountID).Msg("failed to create portal session")
		return "", time.Time{}, apperrors.Internal("failed to create session").WithCause(err)
	}

	return token, expiresAt, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string, meta audit.RequestMeta) (*LoginResult, error) {
	account, err := s.findActiveAccount(ctx, email, "password")
	if err != nil {
		return nil, err
	}

	if !s.verifier.Verify(account, password) {
		metrics.LoginsTotal.WithLabelValues("password", "invalid_credentials").Inc()
		audit.Log(ctx, audit.Event{
			Type:      audit.EventLoginFailure,
			AccountID: account.ID,
			IP:        meta.IP,
			UserAgent: meta.UserAgent,
			Details:   map[string]interface{}{"verifier": s.verifier.Name()},
		})
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	token, expiresAt, err := s.issueSession(ctx, account.ID, config.LoginSessionTTL, meta)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("password", "error").Inc()
		return nil, err
	}

	s.activity.Record(ctx, account.ID, model.ActivityLogin, "", "", meta)

	now := time.Now()
	if err := s.accounts.UpdateLastLogin(ctx, account.ID, now); err != nil {
		log.Error().Err(err).Str("accountId", account.ID).Msg("failed to update last login")
	} else {
		account.LastLogin = &now
	}

	metrics.LoginsTotal.WithLabelValues("password", "success").Inc()
	return &LoginResult{
		Account:      account,
		SessionToken: token,
		ExpiresAt:    expiresAt,
	}, nil
}

// MagicLink issues a short-lived session and hands its token to the notifier.
func (s *AuthService) MagicLink(ctx context.Context, email string, meta audit.RequestMeta) (*MagicLinkResult, error) {
	account, err := s.findActiveAccount(ctx, email, "magic_link")
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.issueSession(ctx, account.ID, config.MagicLinkSessionTTL, meta)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("magic_link", "error").Inc()
		return nil, err
	}

	link := notify.MagicLink{Token: token, ExpiresAt: expiresAt}
	if s.opts.MagicLinkBaseURL != "" {
		link.URL, err = notify.BuildMagicLinkURL(s.opts.MagicLinkBaseURL, token)
		if err != nil {
			return nil, apperrors.Internal("failed to build magic link").WithCause(err)
		}
	}

	if err := s.notifier.SendMagicLink(ctx, account, link); err != nil {
		log.Error().Err(err).Str("accountId", account.ID).Msg("magic link delivery failed")
		if !s.opts.ReturnMagicLinkToken {
			return nil, apperrors.Internal("failed to send magic link").WithCause(err)
		}
	}

	s.activity.Record(ctx, account.ID, model.ActivityMagicLinkIssued, "", "", meta)
	metrics.LoginsTotal.WithLabelValues("magic_link", "success").Inc()

	result := &MagicLinkResult{ExpiresAt: expiresAt}
	if s.opts.ReturnMagicLinkToken {
		result.Token = token
	}
	return result, nil
}

func (s *AuthService) Logout(ctx context.Context, session *model.PortalSession) error {
	if err := s.sessions.Invalidate(ctx, session.ID); err != nil {
		log.Error().Err(err).Str("sessionId", session.ID).Msg("failed to invalidate session")
		return apperrors.Internal("failed to log out").WithCause(err)
	}
	audit.Log(ctx, audit.Event{
		Type:      audit.EventLogout,
		AccountID: session.CustomerPortalAccountID,
	})
	return nil
}
