package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/trademate/portal-server-go/internal/audit"
	"github.com/trademate/portal-server-go/internal/database"
	apperrors "github.com/trademate/portal-server-go/internal/errors"
)

// TxRunner runs fn inside a single database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn database.TxFunc) error
}

// ActivityRecorder appends to the portal activity log.
type ActivityRecorder interface {
	Record(ctx context.Context, accountID, action, resourceType, resourceID string, meta audit.RequestMeta)
}

// internalError keeps AppErrors raised inside a transaction and wraps
// anything else (commit or rollback failures) as a 500.
func internalError(err error, message string) error {
	if apperrors.IsAppError(err) {
		return err
	}
	log.Error().Err(err).Msg(message)
	return apperrors.Internal(message).WithCause(err)
}
