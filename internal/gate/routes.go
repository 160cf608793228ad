package gate

import "strings"

const (
	SessionCookie = "guncad_session"
	AccessCookie  = "guncad_access"
)

// Routes classifies paths for the gate.
type Routes struct {
	AccessPath  string
	APIPrefix   string
	LoginPath   string
	HomePath    string
	PendingPath string
	// AccountPrefixes are page trees that need a signed-in, active account.
	AccountPrefixes []string
	// ExemptPaths and ExemptPrefixes skip the beta check, e.g. health checks
	// and the assets the access page needs to render.
	ExemptPaths    []string
	ExemptPrefixes []string
}

func DefaultRoutes() Routes {
	return Routes{
		AccessPath:  "/access",
		APIPrefix:   "/api/",
		LoginPath:   "/login",
		HomePath:    "/",
		PendingPath: "/pending",
		AccountPrefixes: []string{
			"/user", "/account", "/bookmarks", "/likes", "/purchases", "/downloads",
		},
		ExemptPaths:    []string{"/health", "/favicon.ico", "/robots.txt"},
		ExemptPrefixes: []string{"/assets/"},
	}
}

// IsBetaExempt reports whether path may be served without beta access.
func (r Routes) IsBetaExempt(path string) bool {
	if path == r.AccessPath || strings.HasPrefix(path, r.APIPrefix) {
		return true
	}
	for _, p := range r.ExemptPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range r.ExemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (r Routes) IsLogin(path string) bool {
	return trimSlash(path) == trimSlash(r.LoginPath)
}

// IsAccountOnly matches a prefix exactly or as a parent segment, so "/user"
// covers "/user/downloads" but not "/username".
func (r Routes) IsAccountOnly(path string) bool {
	path = trimSlash(path)
	for _, prefix := range r.AccountPrefixes {
		prefix = trimSlash(prefix)
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func trimSlash(path string) string {
	if len(path) > 1 {
		return strings.TrimSuffix(path, "/")
	}
	return path
}
