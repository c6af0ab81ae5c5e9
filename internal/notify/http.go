package notify

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/trademate/portal-server-go/internal/model"
	"github.com/trademate/portal-server-go/internal/util"
)

const magicLinkPath = "/v1/messages/magic-link"

type magicLinkRequest struct {
	To        string    `json:"to"`
	AccountID string    `json:"account_id"`
	Link      string    `json:"link"`
	ExpiresAt time.Time `json:"expires_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HTTPNotifier posts magic links to a transactional mail service.
type HTTPNotifier struct {
	client *resty.Client
}

func NewHTTPNotifier(baseURL, apiKey string, timeout time.Duration, retries int) *HTTPNotifier {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		}).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}

	return &HTTPNotifier{client: client}
}

func (n *HTTPNotifier) SendMagicLink(ctx context.Context, account *model.PortalAccount, link MagicLink) error {
	var apiErr errorResponse
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(magicLinkRequest{
			To:        account.Email,
			AccountID: account.ID,
			Link:      link.URL,
			ExpiresAt: link.ExpiresAt,
		}).
		SetError(&apiErr).
		Post(magicLinkPath)
	if err != nil {
		return fmt.Errorf("send magic link: %w", err)
	}

	if resp.IsError() {
		log.Error().
			Int("status", resp.StatusCode()).
			Str("accountId", account.ID).
			Str("error", apiErr.Error).
			Msg("notifier rejected magic link")
		return fmt.Errorf("send magic link: notifier returned %d", resp.StatusCode())
	}

	log.Info().
		Str("accountId", account.ID).
		Str("email", util.MaskEmail(account.Email)).
		Msg("magic link sent")
	return nil
}

// BuildMagicLinkURL appends the token as a query parameter to base.
func BuildMagicLinkURL(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse magic link base url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
