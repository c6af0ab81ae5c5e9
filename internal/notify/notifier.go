// Package notify delivers magic-link emails.
package notify

import (
	"context"
	"time"

	"github.com/trademate/portal-server-go/internal/model"
)

type MagicLink struct {
	Token     string
	URL       string
	ExpiresAt time.Time
}

type Notifier interface {
	SendMagicLink(ctx context.Context, account *model.PortalAccount, link MagicLink) error
}
