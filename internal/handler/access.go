package handler

import (
	"net/http"

	"github.com/guncad/market-server-go/internal/audit"
	apperrors "github.com/guncad/market-server-go/internal/errors"
	"github.com/guncad/market-server-go/internal/gate"
	"github.com/guncad/market-server-go/internal/middleware"
	"github.com/guncad/market-server-go/internal/service"
)

type AccessHandler struct {
	access  *service.AccessService
	cookies middleware.Cookies
}

func NewAccessHandler(access *service.AccessService, cookies middleware.Cookies) *AccessHandler {
	return &AccessHandler{access: access, cookies: cookies}
}

func (h *AccessHandler) Grant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.access.Grant(req.Password)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
			audit.LogFromRequest(r, audit.Event{Type: audit.EventAccessDeny})
		}
		writeError(w, r, err)
		return
	}

	h.cookies.Set(w, gate.AccessCookie, token)
	audit.LogFromRequest(r, audit.Event{Type: audit.EventAccessGrant})

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
