// Package gate decides, for every inbound request, whether it may proceed or
// must be redirected, and which cookies change as a result.
package gate

import (
	"context"
	"path"

	"github.com/rs/zerolog/log"

	"github.com/guncad/market-server-go/internal/model"
	"github.com/guncad/market-server-go/internal/service"
)

type DecisionKind int

const (
	Proceed DecisionKind = iota
	Redirect
)

type Decision struct {
	Kind     DecisionKind
	Location string
}

func ProceedDecision() Decision {
	return Decision{Kind: Proceed}
}

func RedirectTo(location string) Decision {
	return Decision{Kind: Redirect, Location: location}
}

// Request is the part of an HTTP request the gate looks at.
type Request struct {
	Path    string
	Cookies map[string]string
}

// CookieMutation is a cookie the response must set or clear.
type CookieMutation struct {
	Name  string
	Value string
	Clear bool
}

type Result struct {
	Decision Decision
	Identity *model.Identity
	State    service.SessionState
	Cookies  []CookieMutation
}

type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*service.SessionResolution, error)
}

type AccessChecker interface {
	IsGranted(cookieValue string) bool
}

type Gate struct {
	sessions SessionResolver
	access   AccessChecker
	routes   Routes
}

func New(sessions SessionResolver, access AccessChecker, routes Routes) *Gate {
	return &Gate{
		sessions: sessions,
		access:   access,
		routes:   routes,
	}
}

func (g *Gate) Routes() Routes {
	return g.routes
}

// Evaluate runs the gate steps in order. The first redirect wins. Paths are
// classified in their cleaned form, the same form the static handler serves.
func (g *Gate) Evaluate(ctx context.Context, req Request) Result {
	var res Result

	req.Path = path.Clean("/" + req.Path)

	g.resolveIdentity(ctx, req, &res)

	if d, stop := g.checkBetaAccess(req, &res); stop {
		res.Decision = d
		return res
	}
	if d, stop := g.checkLoginPage(req, &res); stop {
		res.Decision = d
		return res
	}
	if d, stop := g.checkAccountRoute(req, &res); stop {
		res.Decision = d
		return res
	}

	res.Decision = ProceedDecision()
	return res
}

func (g *Gate) resolveIdentity(ctx context.Context, req Request, res *Result) {
	resolution, err := g.sessions.ResolveSession(ctx, req.Cookies[SessionCookie])
	if err != nil {
		// Anonymous without touching the cookie; a later retry may succeed.
		log.Ctx(ctx).Error().Err(err).Str("path", req.Path).Msg("session resolution failed")
		res.State = service.SessionAnonymous
		return
	}

	res.State = resolution.State
	res.Identity = resolution.Identity
	if resolution.ClearCookie {
		res.Cookies = append(res.Cookies, CookieMutation{Name: SessionCookie, Clear: true})
	}
}

func (g *Gate) checkBetaAccess(req Request, res *Result) (Decision, bool) {
	if g.routes.IsBetaExempt(req.Path) {
		return Decision{}, false
	}

	cookie := req.Cookies[AccessCookie]
	if g.access.IsGranted(cookie) {
		return Decision{}, false
	}
	if cookie != "" {
		res.Cookies = append(res.Cookies, CookieMutation{Name: AccessCookie, Clear: true})
	}
	return RedirectTo(g.routes.AccessPath), true
}

func (g *Gate) checkLoginPage(req Request, res *Result) (Decision, bool) {
	if res.Identity != nil && g.routes.IsLogin(req.Path) {
		return RedirectTo(g.routes.HomePath), true
	}
	return Decision{}, false
}

func (g *Gate) checkAccountRoute(req Request, res *Result) (Decision, bool) {
	if res.Identity != nil || !g.routes.IsAccountOnly(req.Path) {
		return Decision{}, false
	}
	if res.State == service.SessionRevoked {
		return RedirectTo(g.routes.PendingPath), true
	}
	return RedirectTo(g.routes.LoginPath), true
}
