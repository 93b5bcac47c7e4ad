// Package session holds the client-side authentication lifecycle: who is
// logged in, restoring that across restarts, and keeping the short-lived
// access credential alive with silent refreshes. The backend session is
// authoritative; the durable cache is only a provisional snapshot.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	domainauth "github.com/sajilocms/sajilocms-go/internal/domain/auth"
	"github.com/sajilocms/sajilocms-go/internal/domain/routes"
	apperrors "github.com/sajilocms/sajilocms-go/internal/errors"
	"github.com/sajilocms/sajilocms-go/internal/ports"
)

const (
	// DefaultRefreshInterval keeps a 60-minute access credential alive with
	// margin to spare.
	DefaultRefreshInterval = 50 * time.Minute

	// DefaultRefreshThrottle is the minimum gap between refresh calls; callers
	// inside the window share the previous outcome.
	DefaultRefreshThrottle = 10 * time.Second

	// profileFetchMaxAttempts bounds the refresh-and-retry loop in
	// FetchProfile. One initial fetch plus one retry after a refresh.
	profileFetchMaxAttempts = 2

	// refreshExpiryMargin is how far ahead of the access credential's expiry
	// the background loop wakes up when the expiry is known.
	refreshExpiryMargin = 2 * time.Minute
)

// AccessExpiryHinter reports when the current access credential expires, if
// known. The REST client implements it by introspecting the access cookie.
type AccessExpiryHinter interface {
	AccessTokenExpiry() (time.Time, bool)
}

// Config groups the store's optional collaborators and tunables.
type Config struct {
	Logger          *slog.Logger
	Verifier        ports.TokenVerifier // optional local check of Google ID tokens
	ExpiryHint      AccessExpiryHinter  // optional, sharpens the refresh schedule
	RefreshInterval time.Duration
	RefreshThrottle time.Duration
}

// StoreOptions groups dependencies for Store.
type StoreOptions struct {
	API    ports.AuthAPI          // Required: backend auth surface
	Cache  ports.CredentialCache  // Required: durable identity snapshot
	Config Config
}

// Store is the single source of truth for the authenticated identity.
// Construct one per process and share it; all mutation is mutex-guarded and
// last-writer-wins.
type Store struct {
	api    ports.AuthAPI
	cache  ports.CredentialCache
	logger *slog.Logger

	verifier        ports.TokenVerifier
	expiryHint      AccessExpiryHinter
	refreshInterval time.Duration
	refreshThrottle time.Duration

	refreshGroup singleflight.Group

	mu          sync.Mutex
	phase       domainauth.SessionPhase
	identity    *domainauth.Identity
	provisional bool
	initialized bool
	initErr     error
	generation  uint64
	lastAttempt time.Time
	lastResult  bool
}

// NewStore creates a session store. API and Cache are required.
func NewStore(opts StoreOptions) *Store {
	if opts.API == nil {
		panic("session: StoreOptions.API is required")
	}
	if opts.Cache == nil {
		panic("session: StoreOptions.Cache is required")
	}

	logger := opts.Config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := opts.Config.RefreshInterval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	throttle := opts.Config.RefreshThrottle
	if throttle <= 0 {
		throttle = DefaultRefreshThrottle
	}

	return &Store{
		api:             opts.API,
		cache:           opts.Cache,
		logger:          logger,
		verifier:        opts.Config.Verifier,
		expiryHint:      opts.Config.ExpiryHint,
		refreshInterval: interval,
		refreshThrottle: throttle,
		phase:           domainauth.PhaseUninitialized,
	}
}

// Phase reports the lifecycle phase.
func (s *Store) Phase() domainauth.SessionPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Identity returns the current identity, if any.
func (s *Store) Identity() (domainauth.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return domainauth.Identity{}, false
	}
	return *s.identity, true
}

// Provisional reports whether the current identity came from the durable
// cache and has not yet been confirmed by the backend.
func (s *Store) Provisional() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity != nil && s.provisional
}

// Initialized reports whether the first auth determination has completed.
// Once true it never reverts.
func (s *Store) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// InitError returns the error recorded during Initialize, if any.
func (s *Store) InitError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initErr
}

// Initialize runs the first auth determination exactly once. When
// currentRoute is on the public allowlist the store settles to Anonymous
// without touching the network. Otherwise: anti-forgery token, provisional
// cache restore, silent refresh, then a reconciling profile fetch. It always
// terminates with Initialized() true.
func (s *Store) Initialize(ctx context.Context, currentRoute string) {
	s.mu.Lock()
	if s.initialized || s.phase != domainauth.PhaseUninitialized {
		s.mu.Unlock()
		return
	}
	if routes.IsPublic(currentRoute) {
		s.phase = domainauth.PhaseAnonymous
		s.initialized = true
		s.mu.Unlock()
		s.logger.InfoContext(ctx, "session init skipped on public route", "route", currentRoute)
		return
	}
	s.phase = domainauth.PhaseInitializing
	gen := s.generation
	s.mu.Unlock()

	defer s.settleInitialized(ctx)

	if err := s.fetchCSRF(ctx); err != nil {
		s.logger.WarnContext(ctx, "session init failed fetching csrf token", "error", err)
		s.mu.Lock()
		s.initErr = err
		s.clearIdentityLocked()
		s.mu.Unlock()
		return
	}

	if cached, err := s.cache.LoadIdentity(ctx); err == nil {
		s.mu.Lock()
		if s.generation == gen {
			s.identity = &cached
			s.provisional = true
		}
		s.mu.Unlock()
	} else if err != ports.ErrNotFound {
		s.logger.WarnContext(ctx, "session init cache restore failed", "error", err)
	}

	s.RefreshSilently(ctx)
	s.FetchProfile(ctx, true)
}

func (s *Store) settleInitialized(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity != nil {
		s.phase = domainauth.PhaseAuthenticated
	} else {
		s.phase = domainauth.PhaseAnonymous
	}
	s.initialized = true
	s.logger.InfoContext(ctx, "session initialized",
		"phase", s.phase.String(),
		"provisional", s.identity != nil && s.provisional,
	)
}

// Login exchanges email/password credentials. On success the identity is
// stored in memory and the durable cache. The returned error is an AppError
// whose message is the backend's verbatim rejection or a generic fallback.
func (s *Store) Login(ctx context.Context, email, password string) (ports.LoginResult, error) {
	if err := s.fetchCSRF(ctx); err != nil {
		return ports.LoginResult{}, err
	}

	gen := s.snapshotGeneration()
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return ports.LoginResult{}, err
	}

	s.adoptIdentity(ctx, gen, res.Identity)
	return res, nil
}

// LoginWithGoogle exchanges a federated Google ID token, verified locally
// first when a verifier is configured.
func (s *Store) LoginWithGoogle(ctx context.Context, idToken string) (ports.LoginResult, error) {
	if s.verifier != nil {
		if _, err := s.verifier.Verify(ctx, idToken); err != nil {
			return ports.LoginResult{}, apperrors.Wrap(err, apperrors.ErrCodeCredential, "Google sign-in could not be verified")
		}
	}

	if err := s.fetchCSRF(ctx); err != nil {
		return ports.LoginResult{}, err
	}

	gen := s.snapshotGeneration()
	res, err := s.api.LoginWithGoogle(ctx, idToken)
	if err != nil {
		return ports.LoginResult{}, err
	}

	s.adoptIdentity(ctx, gen, res.Identity)
	return res, nil
}

// Register creates a patient account. The password/confirmation match is the
// only client-side validation before the network call.
func (s *Store) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	if in.Password != in.ConfirmPassword {
		return "", apperrors.ValidationField("confirm_password", "Passwords do not match")
	}

	if err := s.fetchCSRF(ctx); err != nil {
		return "", err
	}
	return s.api.Register(ctx, in)
}

// fetchCSRF obtains the anti-forgery token and mirrors it into the durable
// cache so a fresh process can seed its transport before the first fetch.
// The cache write is non-fatal.
func (s *Store) fetchCSRF(ctx context.Context) error {
	token, err := s.api.FetchCSRF(ctx)
	if err != nil {
		return err
	}
	if cacheErr := s.cache.Set(ctx, ports.CacheKeyCSRFToken, token); cacheErr != nil {
		s.logger.WarnContext(ctx, "failed caching csrf token", "error", cacheErr)
	}
	return nil
}

// RefreshSilently extends the session without user interaction and reports
// whether it succeeded. Concurrent callers share one network call; callers
// inside the throttle window share the previous outcome. Failure never
// clears an existing identity.
func (s *Store) RefreshSilently(ctx context.Context) bool {
	s.mu.Lock()
	if !s.lastAttempt.IsZero() && time.Since(s.lastAttempt) < s.refreshThrottle {
		ok := s.lastResult
		s.mu.Unlock()
		return ok
	}
	s.mu.Unlock()

	v, _, _ := s.refreshGroup.Do("refresh", func() (any, error) {
		return s.doRefresh(ctx), nil
	})
	ok, _ := v.(bool)
	return ok
}

func (s *Store) doRefresh(ctx context.Context) bool {
	gen := s.snapshotGeneration()

	res, err := s.api.RefreshToken(ctx)

	s.mu.Lock()
	s.lastAttempt = time.Now()
	s.mu.Unlock()

	if err != nil {
		switch {
		case apperrors.IsUnauthorized(err):
			s.logger.InfoContext(ctx, "silent refresh rejected", "error", err)
		default:
			s.logger.WarnContext(ctx, "silent refresh failed", "error", err)
		}
		s.setLastResult(false)
		return false
	}

	if res.Identity != nil {
		s.adoptIdentity(ctx, gen, *res.Identity)
	}
	if err := s.cache.Set(ctx, ports.CacheKeyLastRefresh, time.Now().UTC().Format(time.RFC3339)); err != nil {
		s.logger.WarnContext(ctx, "failed recording refresh timestamp", "error", err)
	}
	s.setLastResult(true)
	return true
}

func (s *Store) setLastResult(ok bool) {
	s.mu.Lock()
	s.lastResult = ok
	s.mu.Unlock()
}

// FetchProfile reconciles with the authoritative backend identity. On a
// 401/403 it refreshes and retries once unless skipRefreshOnAuthError is
// set; exhausting the budget clears the identity. Transient failures leave
// the identity untouched.
func (s *Store) FetchProfile(ctx context.Context, skipRefreshOnAuthError bool) bool {
	gen := s.snapshotGeneration()

	for attempt := 1; attempt <= profileFetchMaxAttempts; attempt++ {
		id, err := s.api.Profile(ctx)
		if err == nil {
			s.adoptIdentity(ctx, gen, id)
			return true
		}

		if !apperrors.IsUnauthorized(err) {
			s.logger.WarnContext(ctx, "profile fetch failed", "error", err, "attempt", attempt)
			return false
		}

		if skipRefreshOnAuthError || attempt == profileFetchMaxAttempts {
			s.logger.InfoContext(ctx, "profile fetch unauthorized, clearing session", "attempt", attempt)
			s.clearIdentity(ctx, gen)
			return false
		}

		if !s.RefreshSilently(ctx) {
			s.logger.InfoContext(ctx, "profile fetch refresh failed, clearing session")
			s.clearIdentity(ctx, gen)
			return false
		}
	}
	return false
}

// Logout terminates the backend session best-effort and unconditionally
// clears the identity from memory and the durable cache.
func (s *Store) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		s.logger.WarnContext(ctx, "backend logout failed", "error", err)
	}

	s.mu.Lock()
	s.generation++
	s.clearIdentityLocked()
	if s.initialized {
		s.phase = domainauth.PhaseAnonymous
	}
	s.mu.Unlock()

	if err := s.cache.ClearIdentity(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed clearing cached identity", "error", err)
	}
	if err := s.cache.Delete(ctx, ports.CacheKeyLastRefresh); err != nil && err != ports.ErrNotFound {
		s.logger.WarnContext(ctx, "failed clearing refresh timestamp", "error", err)
	}
}

// Run drives the background refresh loop until ctx is canceled. When the
// access credential's expiry is known the loop wakes ahead of it; otherwise
// it fires on the fixed interval.
func (s *Store) Run(ctx context.Context) {
	for {
		timer := time.NewTimer(s.nextRefreshDelay())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.RefreshSilently(ctx)
		}
	}
}

func (s *Store) nextRefreshDelay() time.Duration {
	delay := s.refreshInterval
	if s.expiryHint != nil {
		if exp, ok := s.expiryHint.AccessTokenExpiry(); ok {
			if until := time.Until(exp) - refreshExpiryMargin; until < delay {
				delay = until
			}
		}
	}
	if delay < time.Minute {
		delay = time.Minute
	}
	return delay
}

func (s *Store) snapshotGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// adoptIdentity installs a confirmed identity unless a clear happened after
// gen was captured; a stale in-flight result must not resurrect a session.
func (s *Store) adoptIdentity(ctx context.Context, gen uint64, id domainauth.Identity) {
	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		s.logger.InfoContext(ctx, "discarding stale identity result")
		return
	}
	s.identity = &id
	s.provisional = false
	// A confirmed identity outside Initialize is itself a completed auth
	// determination; during Initialize the settle step owns the phase.
	if s.phase != domainauth.PhaseInitializing {
		s.phase = domainauth.PhaseAuthenticated
		s.initialized = true
	}
	s.mu.Unlock()

	if err := s.cache.SaveIdentity(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "failed caching identity", "error", err)
	}
}

func (s *Store) clearIdentity(ctx context.Context, gen uint64) {
	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return
	}
	s.generation++
	s.clearIdentityLocked()
	if s.initialized {
		s.phase = domainauth.PhaseAnonymous
	}
	s.mu.Unlock()

	if err := s.cache.ClearIdentity(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed clearing cached identity", "error", err)
	}
}

func (s *Store) clearIdentityLocked() {
	s.identity = nil
	s.provisional = false
}
