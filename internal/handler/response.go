package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/trademate/portal-server-go/internal/errors"
	"github.com/trademate/portal-server-go/internal/httputil"
	"github.com/trademate/portal-server-go/internal/middleware"
	"github.com/trademate/portal-server-go/internal/model"
	"github.com/trademate/portal-server-go/internal/util"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

// writeError logs server-side failures with their cause before writing the
// short client message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.GetCode(err) == apperrors.ErrCodeInternal {
		log.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	httputil.WriteError(w, err)
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// requireAccount returns the account attached by the session middleware.
func requireAccount(w http.ResponseWriter, r *http.Request) *model.PortalAccount {
	account := middleware.GetPortalAccount(r.Context())
	if account == nil {
		httputil.WriteError(w, apperrors.Unauthorized("no session token provided"))
	}
	return account
}

// pathID returns the {id} URL parameter. Malformed ids are reported the same
// way as ids that do not exist.
func pathID(w http.ResponseWriter, r *http.Request, resource string) (string, bool) {
	id := chi.URLParam(r, "id")
	if !util.IsValidUUID(id) {
		httputil.WriteError(w, apperrors.NotFound(resource))
		return "", false
	}
	return id, true
}
