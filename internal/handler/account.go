package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/guncad/market-server-go/internal/audit"
	apperrors "github.com/guncad/market-server-go/internal/errors"
	"github.com/guncad/market-server-go/internal/gate"
	"github.com/guncad/market-server-go/internal/middleware"
	"github.com/guncad/market-server-go/internal/service"
	"github.com/guncad/market-server-go/internal/util"
)

type AccountHandler struct {
	accounts    *service.AccountService
	cookies     middleware.Cookies
	createLimit func(http.Handler) http.Handler
	loginLimit  func(http.Handler) http.Handler
}

func NewAccountHandler(
	accounts *service.AccountService,
	cookies middleware.Cookies,
	createLimit, loginLimit func(http.Handler) http.Handler,
) *AccountHandler {
	return &AccountHandler{
		accounts:    accounts,
		cookies:     cookies,
		createLimit: orPassthrough(createLimit),
		loginLimit:  orPassthrough(loginLimit),
	}
}

func orPassthrough(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}

func (h *AccountHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.createLimit).Post("/create", h.Create)
	r.With(h.loginLimit).Post("/login", h.Login)
	r.With(h.loginLimit).Post("/validate", h.Validate)
	r.Post("/logout", h.Logout)
	r.Get("/session", h.Session)

	return r
}

type accountNumberRequest struct {
	AccountNumber string `json:"accountNumber"`
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AcceptedTos bool `json:"acceptedTos"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if !req.AcceptedTos {
		writeError(w, r, apperrors.ValidationError("You must accept the terms of service"))
		return
	}

	accountNumber, err := h.accounts.CreateAccount(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventAccountCreate,
		Details: map[string]interface{}{"account": util.MaskAccountNumber(accountNumber)},
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":                true,
		"accountNumber":          accountNumber,
		"formattedAccountNumber": util.FormatAccountNumber(accountNumber),
	})
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req accountNumberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	token, expiresAt, err := h.accounts.Login(r.Context(), req.AccountNumber)
	if err != nil {
		audit.LogFromRequest(r, audit.Event{
			Type:    audit.EventLoginFailure,
			Details: map[string]interface{}{"reason": string(apperrors.GetCode(err))},
		})
		writeError(w, r, err)
		return
	}

	h.cookies.Set(w, gate.SessionCookie, token)
	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventLoginSuccess,
		Details: map[string]interface{}{"account": util.MaskAccountNumber(req.AccountNumber)},
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"expiresAt": expiresAt.Format(time.RFC3339),
	})
}

// Logout always succeeds for the client; the cookie is cleared even when the
// store delete fails.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(gate.SessionCookie); err == nil && cookie.Value != "" {
		if err := h.accounts.Logout(r.Context(), cookie.Value); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("failed to delete session on logout")
		}
	}

	event := audit.Event{Type: audit.EventLogout}
	if identity := middleware.GetIdentity(r.Context()); identity != nil {
		event.UserID = identity.UserID
		event.SessionID = identity.SessionID
	}
	audit.LogFromRequest(r, event)

	h.cookies.Clear(w, gate.SessionCookie)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AccountHandler) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"user": middleware.GetIdentity(r.Context()),
	})
}

func (h *AccountHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req accountNumberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.accounts.ValidateAccount(r.Context(), req.AccountNumber)
	if apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
		err = apperrors.NotFound("Account")
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid":  true,
		"userId": user.ID,
	})
}
