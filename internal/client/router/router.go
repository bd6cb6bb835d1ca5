// Package router resolves navigation requests into mounted views, gating
// every protected view on the current session state.
package router

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/feedbackhub/internal/client/access"
	"github.com/dmitrijs2005/feedbackhub/internal/client/models"
	"github.com/dmitrijs2005/feedbackhub/internal/client/session"
)

// maxHops bounds redirect chains.
const maxHops = 8

var ErrRedirectLoop = errors.New("too many redirects")

// View is a mounted screen. Close releases whatever the view started
// (countdown timers); it is called when the view is replaced.
type View interface {
	Close()
}

// MountFunc constructs the view for a route. It is only called once the
// guard has allowed the navigation.
type MountFunc func(st session.State) View

// Kind selects how a route is guarded.
type Kind int

const (
	// Protected routes require an authenticated actor whose role is in
	// Roles (any role when Roles is empty).
	Protected Kind = iota
	// Public routes are for anonymous actors; authenticated actors are
	// sent to their role home.
	Public
	// RoleRedirect routes mount nothing and forward by role, or to login.
	RoleRedirect
)

type Route struct {
	Path  string
	Kind  Kind
	Roles []models.Role
	Mount MountFunc
}

// Resolution is the result of a navigation.
type Resolution struct {
	// Path is where navigation settled. For a pending resolution it is the
	// path waiting on the session.
	Path string
	View View
	// Pending is set while the session is loading; nothing is mounted.
	Pending bool
	// Redirects lists the intermediate paths that were redirected away from.
	Redirects []string
}

// StateSource is the part of the session store the router needs.
type StateSource interface {
	Snapshot() session.State
	Subscribe(fn func(session.State)) (unsubscribe func())
}

// Router is safe for concurrent use.
type Router struct {
	src      StateSource
	routes   map[string]Route
	fallback string

	mu      sync.Mutex
	current Resolution
	stop    func()
	changed func(Resolution)
}

// New builds a router over the given routes. Unknown paths resolve to
// fallback.
func New(src StateSource, fallback string, routes ...Route) (*Router, error) {
	r := &Router{src: src, routes: make(map[string]Route, len(routes)), fallback: fallback}
	for _, rt := range routes {
		if _, dup := r.routes[rt.Path]; dup {
			return nil, fmt.Errorf("duplicate route %q", rt.Path)
		}
		if rt.Kind != RoleRedirect && rt.Mount == nil {
			return nil, fmt.Errorf("route %q has no view", rt.Path)
		}
		r.routes[rt.Path] = rt
	}
	if _, ok := r.routes[fallback]; !ok {
		return nil, fmt.Errorf("fallback route %q is not registered", fallback)
	}
	return r, nil
}

// Watch re-resolves the current path after every session change and reports
// the new resolution to onChange (which may be nil).
func (r *Router) Watch(onChange func(Resolution)) {
	r.mu.Lock()
	if r.stop != nil {
		r.stop()
	}
	r.changed = onChange
	r.mu.Unlock()

	unsubscribe := r.src.Subscribe(func(session.State) {
		res, err := r.Reload()
		if err != nil {
			return
		}
		r.mu.Lock()
		cb := r.changed
		r.mu.Unlock()
		if cb != nil {
			cb(res)
		}
	})

	r.mu.Lock()
	r.stop = unsubscribe
	r.mu.Unlock()
}

// Close stops watching and closes the mounted view.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop != nil {
		r.stop()
		r.stop = nil
	}
	if r.current.View != nil {
		r.current.View.Close()
	}
	r.current = Resolution{}
}

// Current returns the last resolution.
func (r *Router) Current() Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Reload re-resolves the current path against the latest session state.
func (r *Router) Reload() (Resolution, error) {
	r.mu.Lock()
	path := r.current.Path
	r.mu.Unlock()
	if path == "" {
		path = r.fallback
	}
	return r.Navigate(path)
}

// Navigate resolves path, following redirects, and mounts the target view.
// The previously mounted view is closed. On error the current resolution
// is left as it was.
func (r *Router) Navigate(path string) (Resolution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.src.Snapshot()
	res, rt, err := r.resolve(normalize(path), st)
	if err != nil {
		return r.current, err
	}

	if r.current.View != nil {
		r.current.View.Close()
	}
	if !res.Pending && rt.Mount != nil {
		res.View = rt.Mount(st)
	}
	r.current = res
	return res, nil
}

func (r *Router) resolve(path string, st session.State) (Resolution, Route, error) {
	var redirects []string
	for hop := 0; hop <= maxHops; hop++ {
		rt, ok := r.routes[path]
		if !ok {
			redirects = append(redirects, path)
			path = r.fallback
			continue
		}

		next, pending := r.evaluate(rt, st)
		switch {
		case pending:
			return Resolution{Path: path, Pending: true, Redirects: redirects}, rt, nil
		case next == "":
			return Resolution{Path: path, Redirects: redirects}, rt, nil
		}
		redirects = append(redirects, path)
		path = next
	}
	return Resolution{}, Route{}, fmt.Errorf("navigate: %w: %s", ErrRedirectLoop, strings.Join(redirects, " -> "))
}

// evaluate returns the redirect target for rt, "" to mount it, or pending.
func (r *Router) evaluate(rt Route, st session.State) (next string, pending bool) {
	if st.Loading {
		return "", true
	}

	switch rt.Kind {
	case Public:
		if st.Authenticated() {
			return access.RoleHome(st.Role()), false
		}
		return "", false
	case RoleRedirect:
		if st.Authenticated() {
			return access.RoleHome(st.Role()), false
		}
		return access.PathLogin, false
	}

	switch access.Decide(st.Loading, st.Authenticated(), st.Role(), rt.Roles) {
	case access.Defer:
		return "", true
	case access.RedirectToLogin:
		return access.PathLogin, false
	case access.RedirectToRoleHome:
		return access.RoleHome(st.Role()), false
	default:
		return "", false
	}
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return access.PathRoot
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if trimmed := strings.TrimRight(path, "/"); trimmed != "" {
		return trimmed
	}
	return access.PathRoot
}
