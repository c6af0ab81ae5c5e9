package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/trademate/portal-server-go/internal/audit"
	apperrors "github.com/trademate/portal-server-go/internal/errors"
	"github.com/trademate/portal-server-go/internal/model"
)

type contextKey string

const (
	PortalAccountContextKey contextKey = "portalAccount"
	PortalSessionContextKey contextKey = "portalSession"
)

func GetPortalAccount(ctx context.Context) *model.PortalAccount {
	if account, ok := ctx.Value(PortalAccountContextKey).(*model.PortalAccount); ok {
		return account
	}
	return nil
}

func GetPortalSession(ctx context.Context) *model.PortalSession {
	if session, ok := ctx.Value(PortalSessionContextKey).(*model.PortalSession); ok {
		return session
	}
	return nil
}

// WithPortalSession attaches an authenticated account and session to ctx.
func WithPortalSession(ctx context.Context, account *model.PortalAccount, session *model.PortalSession) context.Context {
	ctx = context.WithValue(ctx, PortalAccountContextKey, account)
	return context.WithValue(ctx, PortalSessionContextKey, session)
}

type SessionValidator interface {
	Validate(ctx context.Context, token string) (*model.PortalAccount, *model.PortalSession, error)
}

// PortalSessionMiddleware authenticates requests by bearer session token.
type PortalSessionMiddleware struct {
	validator SessionValidator
}

func NewPortalSessionMiddleware(validator SessionValidator) *PortalSessionMiddleware {
	return &PortalSessionMiddleware{validator: validator}
}

func (m *PortalSessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, session, err := m.validator.Validate(r.Context(), extractBearerToken(r))
		if err != nil {
			if apperrors.GetCode(err) == apperrors.ErrCodeInternal {
				log.Error().Err(err).Str("path", r.URL.Path).Msg("portal session middleware: validation error")
			} else {
				audit.LogFromRequest(r, audit.Event{
					Type:    audit.EventSessionRejected,
					Details: map[string]interface{}{"reason": err.Error(), "path": r.URL.Path},
				})
			}
			if !apperrors.IsAppError(err) {
				err = apperrors.Internal("session validation failed").WithCause(err)
			}
			writeError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPortalSession(r.Context(), account, session)))
	})
}

func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}
