package notify

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/trademate/portal-server-go/internal/model"
	"github.com/trademate/portal-server-go/internal/util"
)

// LogNotifier records that a link was issued without sending anything.
// The token itself is never logged.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) SendMagicLink(_ context.Context, account *model.PortalAccount, link MagicLink) error {
	log.Info().
		Str("accountId", account.ID).
		Str("email", util.MaskEmail(account.Email)).
		Time("expiresAt", link.ExpiresAt).
		Msg("magic link issued (log notifier, not delivered)")
	return nil
}
