package authsdk

import (
	"context"
	"sync"
)

// GuardState is the route guard's view of the session.
type GuardState string

const (
	// StateUnknown is the initial state before the first resolution.
	StateUnknown GuardState = "unknown"

	// StateAuthenticating is the transient state while a silent refresh is
	// in flight. Navigation holds here rather than flashing a login screen.
	StateAuthenticating GuardState = "authenticating"

	StateAuthenticated   GuardState = "authenticated"
	StateUnauthenticated GuardState = "unauthenticated"
)

// RouteGuard gates navigation to protected views. On a cold start it
// attempts one silent refresh (the cookie may still hold a live session even
// though memory is empty) before declaring the visitor unauthenticated.
type RouteGuard struct {
	client *Client

	mu    sync.Mutex
	state GuardState
}

func NewRouteGuard(client *Client) *RouteGuard {
	return &RouteGuard{
		client: client,
		state:  StateUnknown,
	}
}

// State returns the guard's current state.
func (g *RouteGuard) State() GuardState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Reset returns the guard to the unknown state, forcing the next Resolve to
// re-check. Call it after logout.
func (g *RouteGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = StateUnknown
}

// Resolve decides whether navigation may proceed. It returns true when the
// session is live, refreshing silently if needed. A terminal refresh outcome
// returns (false, nil): not an error, just not logged in. Anything else
// (network failure, server error) is returned as an error with the state
// left resolvable, so a retry can still succeed.
func (g *RouteGuard) Resolve(ctx context.Context) (bool, error) {
	g.mu.Lock()
	if g.state == StateAuthenticated && g.client.State().Authenticated() {
		g.mu.Unlock()
		return true, nil
	}
	g.state = StateAuthenticating
	g.mu.Unlock()

	if g.client.State().Authenticated() {
		g.setState(StateAuthenticated)
		return true, nil
	}

	_, err := g.client.Refresh(ctx)
	if err != nil {
		if isTerminalSessionError(err) {
			g.setState(StateUnauthenticated)
			return false, nil
		}
		g.setState(StateUnknown)
		return false, err
	}

	g.setState(StateAuthenticated)
	return true, nil
}

func (g *RouteGuard) setState(s GuardState) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = s
}
