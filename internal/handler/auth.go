package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/trademate/portal-server-go/internal/audit"
	apperrors "github.com/trademate/portal-server-go/internal/errors"
	"github.com/trademate/portal-server-go/internal/middleware"
	"github.com/trademate/portal-server-go/internal/model"
	"github.com/trademate/portal-server-go/internal/service"
)

type AuthService interface {
	Login(ctx context.Context, email, password string, meta audit.RequestMeta) (*service.LoginResult, error)
	MagicLink(ctx context.Context, email string, meta audit.RequestMeta) (*service.MagicLinkResult, error)
	Logout(ctx context.Context, session *model.PortalSession) error
}

type AuthHandler struct {
	auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// PublicRoutes are reachable without a session.
func (h *AuthHandler) PublicRoutes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/magic-link", h.MagicLink)
}

// Routes require PortalSessionMiddleware.
func (h *AuthHandler) Routes(r chi.Router) {
	r.Post("/logout", h.Logout)
	r.Get("/me", h.Me)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
}

type magicLinkRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password, audit.MetaFromRequest(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"account":      result.Account,
		"sessionToken": result.SessionToken,
		"expiresAt":    result.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *AuthHandler) MagicLink(w http.ResponseWriter, r *http.Request) {
	var req magicLinkRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.auth.MagicLink(r.Context(), req.Email, audit.MetaFromRequest(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := map[string]any{
		"success":   true,
		"expiresAt": result.ExpiresAt.Format(time.RFC3339),
	}
	if result.Token != "" {
		resp["token"] = result.Token
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetPortalSession(r.Context())
	if session == nil {
		writeError(w, r, apperrors.Unauthorized("no session token provided"))
		return
	}

	if err := h.auth.Logout(r.Context(), session); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account := requireAccount(w, r)
	if account == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"account": account})
}
