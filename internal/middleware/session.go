package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/guncad/market-server-go/internal/config"
	"github.com/guncad/market-server-go/internal/gate"
	"github.com/guncad/market-server-go/internal/model"
)

type contextKey string

const IdentityContextKey contextKey = "identity"

// GetIdentity returns the signed-in user for the request, or nil. Handlers
// cannot tell a missing cookie from an invalid one.
func GetIdentity(ctx context.Context) *model.Identity {
	if identity, ok := ctx.Value(IdentityContextKey).(*model.Identity); ok {
		return identity
	}
	return nil
}

func WithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, identity)
}

// Cookies writes the session and beta access cookies with shared attributes.
type Cookies struct {
	Secure bool
}

func cookieLifetime(name string) time.Duration {
	if name == gate.AccessCookie {
		return config.AccessGrantTTL
	}
	return config.SessionTTL
}

func (c Cookies) Set(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieLifetime(name).Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c Cookies) Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
