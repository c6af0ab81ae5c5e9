package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trademate/portal-server-go/internal/database"
	"github.com/trademate/portal-server-go/internal/model"
)

// PortalSessionRepository is the session store. Sessions are invalidated by
// moving expires_at to the database's NOW(), the same clock FindValidByTokenHash
// compares against. Rows are only removed by the opt-in DeleteExpiredBefore.
type PortalSessionRepository interface {
	Create(ctx context.Context, params model.CreatePortalSessionParams) (*model.PortalSession, error)
	FindValidByTokenHash(ctx context.Context, tokenHash string) (*model.PortalSession, error)
	Invalidate(ctx context.Context, id string) error
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type portalSessionRepo struct {
	db database.DBTX
}

func NewPortalSessionRepository(db *sqlx.DB) PortalSessionRepository {
	return &portalSessionRepo{db: db}
}

func (r *portalSessionRepo) Create(ctx context.Context, params model.CreatePortalSessionParams) (*model.PortalSession, error) {
	var session model.PortalSession
	err := r.db.GetContext(ctx, &session, `
		INSERT INTO portal_sessions
			(customer_portal_account_id, session_token_hash, expires_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, customer_portal_account_id, session_token_hash, expires_at, ip_address, user_agent, created_at
	`, params.AccountID, params.TokenHash, params.ExpiresAt, params.IPAddress, params.UserAgent)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *portalSessionRepo) FindValidByTokenHash(ctx context.Context, tokenHash string) (*model.PortalSession, error) {
	var session model.PortalSession
	err := r.db.GetContext(ctx, &session, `
		SELECT id, customer_portal_account_id, session_token_hash, expires_at, ip_address, user_agent, created_at
		FROM portal_sessions
		WHERE session_token_hash = $1 AND expires_at > NOW()
	`, tokenHash)
	return HandleNotFound(&session, err)
}

func (r *portalSessionRepo) Invalidate(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE portal_sessions SET expires_at = $2 WHERE id = $1
	`, id, at)
	return err
}

func (r *portalSessionRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM portal_sessions WHERE expires_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
