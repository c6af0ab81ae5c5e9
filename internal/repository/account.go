package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trademate/portal-server-go/internal/database"
	"github.com/trademate/portal-server-go/internal/model"
)

const accountColumns = `id, customer_id, email, password_hash, is_active, last_login, created_at`

type PortalAccountRepository interface {
	FindByID(ctx context.Context, id string) (*model.PortalAccount, error)
	FindActiveByEmail(ctx context.Context, email string) (*model.PortalAccount, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

type portalAccountRepo struct {
	db database.DBTX
}

func NewPortalAccountRepository(db *sqlx.DB) PortalAccountRepository {
	return &portalAccountRepo{db: db}
}

func (r *portalAccountRepo) FindByID(ctx context.Context, id string) (*model.PortalAccount, error) {
	var account model.PortalAccount
	err := r.db.GetContext(ctx, &account, `
		SELECT `+accountColumns+` FROM customer_portal_accounts WHERE id = $1
	`, id)
	return HandleNotFound(&account, err)
}

func (r *portalAccountRepo) FindActiveByEmail(ctx context.Context, email string) (*model.PortalAccount, error) {
	var account model.PortalAccount
	err := r.db.GetContext(ctx, &account, `
		SELECT `+accountColumns+` FROM customer_portal_accounts
		WHERE email = $1 AND is_active = TRUE
	`, email)
	return HandleNotFound(&account, err)
}

func (r *portalAccountRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE customer_portal_accounts SET last_login = $2 WHERE id = $1
	`, id, at)
	return err
}
