package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/trademate/portal-server-go/internal/audit"
	apperrors "github.com/trademate/portal-server-go/internal/errors"
	"github.com/trademate/portal-server-go/internal/metrics"
	"github.com/trademate/portal-server-go/internal/model"
	"github.com/trademate/portal-server-go/internal/repository"
)

type SignQuoteInput struct {
	SignedBy  string
	Signature string
}

// signaturePayload is stored in esignatures.signature_data.
type signaturePayload struct {
	Signature string    `json:"signature"`
	Timestamp time.Time `json:"timestamp"`
}

type QuoteService struct {
	tx         TxRunner
	quotes     repository.QuoteRepository
	signatures repository.ESignatureRepository
	activity   ActivityRecorder
}

func NewQuoteService(
	tx TxRunner,
	quotes repository.QuoteRepository,
	signatures repository.ESignatureRepository,
	activity ActivityRecorder,
) *QuoteService {
	return &QuoteService{
		tx:         tx,
		quotes:     quotes,
		signatures: signatures,
		activity:   activity,
	}
}

func (s *QuoteService) List(ctx context.Context, account *model.PortalAccount) ([]model.Quote, error) {
	quotes, err := s.quotes.FindByCustomerID(ctx, account.CustomerID)
	if err != nil {
		log.Error().Err(err).Str("customerId", account.CustomerID).Msg("failed to fetch quotes")
		return nil, apperrors.Internal("failed to fetch quotes").WithCause(err)
	}
	return quotes, nil
}

func (s *QuoteService) Get(ctx context.Context, account *model.PortalAccount, id string) (*model.Quote, error) {
	quote, err := s.quotes.FindByIDForCustomer(ctx, id, account.CustomerID)
	if err != nil {
		log.Error().Err(err).Str("quoteId", id).Msg("failed to fetch quote")
		return nil, apperrors.Internal("failed to fetch quote").WithCause(err)
	}
	if quote == nil {
		return nil, apperrors.NotFound("quote")
	}
	return quote, nil
}

// Sign records the e-signature and approves the quote in one transaction.
// The status is only touched after the signature row exists.
func (s *QuoteService) Sign(ctx context.Context, account *model.PortalAccount, id string, in SignQuoteInput, meta audit.RequestMeta) (*model.ESignature, error) {
	var signature *model.ESignature

	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		quotes := s.quotes.WithTx(tx)
		signatures := s.signatures.WithTx(tx)

		quote, err := quotes.LockForCustomer(ctx, id, account.CustomerID)
		if err != nil {
			return apperrors.Internal("failed to fetch quote").WithCause(err)
		}
		if quote == nil {
			return apperrors.NotFound("quote")
		}
		if !quote.Signable() {
			return apperrors.Conflict("quote cannot be signed")
		}

		now := time.Now()
		payload, err := json.Marshal(signaturePayload{Signature: in.Signature, Timestamp: now})
		if err != nil {
			return apperrors.Internal("failed to create signature").WithCause(err)
		}

		signature, err = signatures.Create(ctx, model.CreateESignatureParams{
			CompanyID:     quote.CompanyID,
			CustomerID:    quote.CustomerID,
			QuoteID:       quote.ID,
			SignedBy:      in.SignedBy,
			SignatureData: payload,
			IPAddress:     meta.IPPtr(),
			UserAgent:     meta.UserAgentPtr(),
		})
		if err != nil {
			log.Error().Err(err).Str("quoteId", id).Msg("signature insert failed")
			return apperrors.Internal("failed to create signature").WithCause(err)
		}

		if err := quotes.MarkApproved(ctx, quote.ID, now); err != nil {
			log.Error().Err(err).Str("quoteId", id).Msg("quote approval failed")
			return apperrors.Internal("failed to update quote status").WithCause(err)
		}
		return nil
	})
	if err != nil {
		return nil, internalError(err, "failed to sign quote")
	}

	metrics.QuotesSignedTotal.Inc()
	s.activity.Record(ctx, account.ID, model.ActivityQuoteSigned, model.ResourceTypeQuote, id, meta)

	log.Info().
		Str("accountId", account.ID).
		Str("quoteId", id).
		Msg("quote signed")

	return signature, nil
}
