package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/guncad/market-server-go/internal/audit"
	apperrors "github.com/guncad/market-server-go/internal/errors"
	"github.com/guncad/market-server-go/internal/service"
)

type Limiter interface {
	Allow(ctx context.Context, limit service.Limit, key string) (bool, time.Time)
}

type IPRateLimitMiddleware struct {
	limiter Limiter
	limit   service.Limit
}

func NewIPRateLimitMiddleware(limiter Limiter, limit service.Limit) *IPRateLimitMiddleware {
	return &IPRateLimitMiddleware{
		limiter: limiter,
		limit:   limit,
	}
}

func (m *IPRateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := audit.ClientIP(r)

		allowed, resetAt := m.limiter.Allow(r.Context(), m.limit, "ip:"+ip)
		if !allowed {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventRateLimitExceed,
				Details: map[string]interface{}{"limit": m.limit.Name},
			})
			secondsLeft := int(time.Until(resetAt).Seconds()) + 1
			if secondsLeft < 1 {
				secondsLeft = 1
			}
			w.Header().Set("Retry-After", fmt.Sprintf("%d", secondsLeft))
			writeError(w, apperrors.RateLimitExceeded())
			return
		}

		next.ServeHTTP(w, r)
	})
}
