// Package gate decides whether a protected view may run, based on session
// state and the route's admin requirement.
package gate

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/jobfit/internal/client/session"
)

// State is the outcome of a gate decision.
type State int

const (
	// Pending: the session is not resolved yet. Render nothing and do not
	// redirect.
	Pending State = iota
	// Authorized: render the protected content.
	Authorized
	// Unauthorized: no session; redirect to sign-in.
	Unauthorized
	// Forbidden: signed in but lacking admin rights; redirect to the
	// landing view.
	Forbidden
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Route describes a guarded view.
type Route struct {
	Name      string
	Protected bool
	AdminOnly bool
}

// Redirects names the views the gate sends users to.
type Redirects struct {
	SignIn  string
	Landing string
}

// Decision is the gate's verdict for one route.
type Decision struct {
	State    State
	Redirect string
}

// Allowed reports whether the view may run.
func (d Decision) Allowed() bool { return d.State == Authorized }

// SessionSource is the read side of the session manager.
type SessionSource interface {
	Snapshot() session.Snapshot
	Resolved() <-chan struct{}
}

// Gate evaluates routes against a SessionSource.
type Gate struct {
	source    SessionSource
	redirects Redirects
}

func New(source SessionSource, redirects Redirects) *Gate {
	return &Gate{source: source, redirects: redirects}
}

// Decide evaluates route against the current session without waiting.
func (g *Gate) Decide(route Route) Decision {
	return Evaluate(g.source.Snapshot(), route, g.redirects)
}

// Await waits for the session to resolve, then decides. It returns a
// Pending decision and ctx's error if ctx ends first.
func (g *Gate) Await(ctx context.Context, route Route) (Decision, error) {
	select {
	case <-g.source.Resolved():
		return g.Decide(route), nil
	case <-ctx.Done():
		return Decision{State: Pending}, ctx.Err()
	}
}

// Evaluate is the pure gate function. Order matters: an unresolved
// session is Pending even if it carries a tentative identity.
func Evaluate(snap session.Snapshot, route Route, r Redirects) Decision {
	if !snap.Resolved {
		return Decision{State: Pending}
	}
	if !route.Protected && !route.AdminOnly {
		return Decision{State: Authorized}
	}
	if !snap.Authenticated() {
		return Decision{State: Unauthorized, Redirect: r.SignIn}
	}
	if route.AdminOnly && !snap.User.IsAdmin {
		return Decision{State: Forbidden, Redirect: r.Landing}
	}
	return Decision{State: Authorized}
}
