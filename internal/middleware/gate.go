package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/guncad/market-server-go/internal/audit"
	"github.com/guncad/market-server-go/internal/gate"
	"github.com/guncad/market-server-go/internal/service"
)

type GateMiddleware struct {
	gate    *gate.Gate
	cookies Cookies
}

func NewGateMiddleware(g *gate.Gate, cookies Cookies) *GateMiddleware {
	return &GateMiddleware{gate: g, cookies: cookies}
}

func (m *GateMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := gate.Request{
			Path:    r.URL.Path,
			Cookies: make(map[string]string, 2),
		}
		for _, name := range []string{gate.SessionCookie, gate.AccessCookie} {
			if c, err := r.Cookie(name); err == nil {
				req.Cookies[name] = c.Value
			}
		}

		res := m.gate.Evaluate(r.Context(), req)

		if res.State == service.SessionRevoked {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventSessionRevoke,
				Details: map[string]interface{}{"reason": "account_inactive", "path": r.URL.Path},
			})
		}

		for _, c := range res.Cookies {
			if c.Clear {
				m.cookies.Clear(w, c.Name)
			} else {
				m.cookies.Set(w, c.Name, c.Value)
			}
		}

		if res.Decision.Kind == gate.Redirect {
			log.Ctx(r.Context()).Debug().
				Str("path", r.URL.Path).
				Str("location", res.Decision.Location).
				Str("session", res.State.String()).
				Msg("gate redirect")
			http.Redirect(w, r, res.Decision.Location, http.StatusSeeOther)
			return
		}

		ctx := r.Context()
		if res.Identity != nil {
			ctx = WithIdentity(ctx, res.Identity)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
