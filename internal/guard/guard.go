// Package guard gates access to a protected screen on the session store's
// identity and a per-screen allowed-role set, with a bounded silent-refresh
// retry before giving up.
package guard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	domainauth "github.com/sajilocms/sajilocms-go/internal/domain/auth"
	"github.com/sajilocms/sajilocms-go/internal/domain/routes"
	"github.com/sajilocms/sajilocms-go/internal/ports"
)

// MaxRetries bounds how many refresh attempts one guard instance makes
// before resolving to unauthenticated.
const MaxRetries = 2

// SessionStore is the slice of the session store the guard consults.
type SessionStore interface {
	Initialized() bool
	Identity() (domainauth.Identity, bool)
	RefreshSilently(ctx context.Context) bool
	FetchProfile(ctx context.Context, skipRefreshOnAuthError bool) bool
}

// Decision is the terminal disposition of a guard evaluation.
type Decision int

const (
	// DecisionPending means the store has not finished its first auth
	// determination; evaluate again once it has.
	DecisionPending Decision = iota
	// DecisionGrant renders the guarded screen.
	DecisionGrant
	// DecisionRedirectLogin sends the user to the login screen, carrying the
	// originally requested location.
	DecisionRedirectLogin
	// DecisionRedirectUnauthorized sends an authenticated but unpermitted
	// user to the unauthorized screen.
	DecisionRedirectUnauthorized
)

func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionGrant:
		return "grant"
	case DecisionRedirectLogin:
		return "redirect-login"
	case DecisionRedirectUnauthorized:
		return "redirect-unauthorized"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Outcome is the result of evaluating a guard. From carries the originally
// requested route when Decision is DecisionRedirectLogin, so the login flow
// can return the user afterward.
type Outcome struct {
	Decision    Decision
	From        string
	Provisional bool // identity came from the durable cache, unconfirmed
}

// Options groups dependencies for Guard.
type Options struct {
	Store  SessionStore          // Required: session store to consult
	Cache  ports.CredentialCache // Required: durable snapshot for provisional trust
	Logger *slog.Logger          // Optional
}

// Guard protects a single route. One instance per guarded screen; the retry
// budget is scoped to the instance and once exhausted the outcome is
// terminal, with no further network calls.
type Guard struct {
	store  SessionStore
	cache  ports.CredentialCache
	logger *slog.Logger

	route   string
	allowed []domainauth.Role

	mu       sync.Mutex
	retries  int
	resolved *Outcome
}

// New creates a guard for route. An empty allowedRoles set admits any
// authenticated identity.
func New(opts Options, route string, allowedRoles []domainauth.Role) *Guard {
	if opts.Store == nil {
		panic("guard: Options.Store is required")
	}
	if opts.Cache == nil {
		panic("guard: Options.Cache is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		store:   opts.Store,
		cache:   opts.Cache,
		logger:  logger,
		route:   route,
		allowed: allowedRoles,
	}
}

// Evaluate runs the gating algorithm and returns a terminal outcome, or
// DecisionPending while the store's first determination is still running.
// Public routes are granted without any network traffic. Each failed refresh
// consumes one unit of the retry budget; the loop always terminates.
func (g *Guard) Evaluate(ctx context.Context) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.resolved != nil {
		return *g.resolved
	}

	if routes.IsPublic(g.route) {
		return g.resolve(Outcome{Decision: DecisionGrant})
	}

	if !g.store.Initialized() {
		return Outcome{Decision: DecisionPending}
	}

	for {
		if id, ok := g.store.Identity(); ok {
			return g.resolve(g.authorize(ctx, id, false))
		}

		if cached, err := g.cache.LoadIdentity(ctx); err == nil {
			return g.resolve(g.authorize(ctx, cached, true))
		}

		if g.retries >= MaxRetries {
			g.logger.InfoContext(ctx, "guard retries exhausted, redirecting to login",
				"route", g.route, "retries", g.retries)
			return g.resolve(Outcome{Decision: DecisionRedirectLogin, From: g.route})
		}
		g.retries++

		if g.store.RefreshSilently(ctx) {
			g.store.FetchProfile(ctx, false)
		}
	}
}

// authorize applies the role check. Cache-sourced identities are trusted for
// this pass only; the session store reconciles with the backend on its own.
func (g *Guard) authorize(ctx context.Context, id domainauth.Identity, provisional bool) Outcome {
	if !id.Authorized(g.allowed) {
		g.logger.InfoContext(ctx, "guard role mismatch",
			"route", g.route, "role", string(id.Role), "provisional", provisional)
		return Outcome{Decision: DecisionRedirectUnauthorized, Provisional: provisional}
	}
	return Outcome{Decision: DecisionGrant, Provisional: provisional}
}

func (g *Guard) resolve(o Outcome) Outcome {
	g.resolved = &o
	return o
}

// Resolved reports whether the guard has reached a terminal outcome.
func (g *Guard) Resolved() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resolved != nil
}

// Reset discards the terminal outcome and retry budget, for re-evaluation
// after the identity or role inputs change.
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resolved = nil
	g.retries = 0
}
