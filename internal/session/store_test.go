package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sajilocms/sajilocms-go/internal/adapters/cache"
	domainauth "github.com/sajilocms/sajilocms-go/internal/domain/auth"
	apperrors "github.com/sajilocms/sajilocms-go/internal/errors"
	"github.com/sajilocms/sajilocms-go/internal/ports"
	"github.com/sajilocms/sajilocms-go/internal/testutil"
)

// fakeAuthAPI scripts the backend per call and counts traffic.
type fakeAuthAPI struct {
	mu sync.Mutex

	csrfErr     error
	loginFn     func(email, password string) (ports.LoginResult, error)
	googleFn    func(idToken string) (ports.LoginResult, error)
	registerFn  func(in ports.RegisterInput) (string, error)
	refreshFn   func() (ports.RefreshResult, error)
	profileFn   func() (domainauth.Identity, error)
	logoutErr   error
	csrfCalls   int
	refreshCall int
	profileCall int
	logoutCall  int
}

func (f *fakeAuthAPI) FetchCSRF(context.Context) (string, error) {
	f.mu.Lock()
	f.csrfCalls++
	f.mu.Unlock()
	if f.csrfErr != nil {
		return "", f.csrfErr
	}
	return "csrf-token", nil
}

func (f *fakeAuthAPI) Login(_ context.Context, email, password string) (ports.LoginResult, error) {
	if f.loginFn == nil {
		return ports.LoginResult{}, apperrors.Credential("Invalid credentials")
	}
	return f.loginFn(email, password)
}

func (f *fakeAuthAPI) LoginWithGoogle(_ context.Context, idToken string) (ports.LoginResult, error) {
	if f.googleFn == nil {
		return ports.LoginResult{}, apperrors.Credential("Invalid credentials")
	}
	return f.googleFn(idToken)
}

func (f *fakeAuthAPI) Register(_ context.Context, in ports.RegisterInput) (string, error) {
	if f.registerFn == nil {
		return "Registration successful", nil
	}
	return f.registerFn(in)
}

func (f *fakeAuthAPI) RefreshToken(context.Context) (ports.RefreshResult, error) {
	f.mu.Lock()
	f.refreshCall++
	f.mu.Unlock()
	if f.refreshFn == nil {
		return ports.RefreshResult{}, nil
	}
	return f.refreshFn()
}

func (f *fakeAuthAPI) Profile(context.Context) (domainauth.Identity, error) {
	f.mu.Lock()
	f.profileCall++
	f.mu.Unlock()
	if f.profileFn == nil {
		return domainauth.Identity{}, apperrors.Unauthorized("no session")
	}
	return f.profileFn()
}

func (f *fakeAuthAPI) Logout(context.Context) error {
	f.mu.Lock()
	f.logoutCall++
	f.mu.Unlock()
	return f.logoutErr
}

func (f *fakeAuthAPI) counts() (csrf, refresh, profile, logout int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.csrfCalls, f.refreshCall, f.profileCall, f.logoutCall
}

func newTestStore(api *fakeAuthAPI, c ports.CredentialCache) *Store {
	if c == nil {
		c = cache.NewMemoryCache()
	}
	return NewStore(StoreOptions{
		API:   api,
		Cache: c,
		Config: Config{
			Logger:          testutil.DiscardLogger(),
			RefreshThrottle: time.Nanosecond,
		},
	})
}

func testIdentity() domainauth.Identity {
	return domainauth.Identity{ID: 7, Email: "doc@clinic.test", Role: domainauth.RoleDoctor, FirstName: "Maya"}
}

func TestNewStore_RequiredDeps(t *testing.T) {
	assert.Panics(t, func() { NewStore(StoreOptions{Cache: cache.NewMemoryCache()}) })
	assert.Panics(t, func() { NewStore(StoreOptions{API: &fakeAuthAPI{}}) })
}

func TestInitialize_PublicRouteSkipsNetwork(t *testing.T) {
	api := &fakeAuthAPI{}
	store := newTestStore(api, nil)

	store.Initialize(context.Background(), "/login")

	assert.True(t, store.Initialized())
	assert.Equal(t, domainauth.PhaseAnonymous, store.Phase())
	csrf, refresh, profile, _ := api.counts()
	assert.Zero(t, csrf+refresh+profile, "public routes must not touch the backend")
}

func TestInitialize_FullSequenceAuthenticates(t *testing.T) {
	id := testIdentity()
	api := &fakeAuthAPI{
		refreshFn: func() (ports.RefreshResult, error) { return ports.RefreshResult{}, nil },
		profileFn: func() (domainauth.Identity, error) { return id, nil },
	}
	c := cache.NewMemoryCache()
	store := newTestStore(api, c)

	store.Initialize(context.Background(), "/dashboard")

	assert.True(t, store.Initialized())
	assert.Equal(t, domainauth.PhaseAuthenticated, store.Phase())
	got, ok := store.Identity()
	require.True(t, ok)
	assert.Equal(t, id, got)
	assert.False(t, store.Provisional())

	cached, err := c.LoadIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id, cached)
}

func TestInitialize_RunsOnlyOnce(t *testing.T) {
	api := &fakeAuthAPI{}
	store := newTestStore(api, nil)

	store.Initialize(context.Background(), "/dashboard")
	store.Initialize(context.Background(), "/dashboard")

	csrf, _, _, _ := api.counts()
	assert.Equal(t, 1, csrf)
}

func TestInitialize_CSRFFailureSettlesAnonymous(t *testing.T) {
	api := &fakeAuthAPI{csrfErr: apperrors.Transient("backend unreachable")}
	c := cache.NewMemoryCache()
	require.NoError(t, c.SaveIdentity(context.Background(), testIdentity()))
	store := newTestStore(api, c)

	store.Initialize(context.Background(), "/dashboard")

	assert.True(t, store.Initialized(), "initialization must always terminate")
	assert.Equal(t, domainauth.PhaseAnonymous, store.Phase())
	assert.Error(t, store.InitError())
	_, ok := store.Identity()
	assert.False(t, ok)
}

func TestInitialize_ProvisionalIdentitySurvivesOutage(t *testing.T) {
	// CSRF answers but refresh and profile fail transiently: the cached
	// identity stays as the provisional session for fast paint.
	api := &fakeAuthAPI{
		refreshFn: func() (ports.RefreshResult, error) {
			return ports.RefreshResult{}, apperrors.Transient("timeout")
		},
		profileFn: func() (domainauth.Identity, error) {
			return domainauth.Identity{}, apperrors.Transient("timeout")
		},
	}
	c := cache.NewMemoryCache()
	id := testIdentity()
	require.NoError(t, c.SaveIdentity(context.Background(), id))
	store := newTestStore(api, c)

	store.Initialize(context.Background(), "/dashboard")

	assert.True(t, store.Initialized())
	assert.Equal(t, domainauth.PhaseAuthenticated, store.Phase())
	got, ok := store.Identity()
	require.True(t, ok)
	assert.Equal(t, id, got)
	assert.True(t, store.Provisional())
}

func TestLogin_SuccessAdoptsAndCaches(t *testing.T) {
	id := testIdentity()
	api := &fakeAuthAPI{
		loginFn: func(email, password string) (ports.LoginResult, error) {
			assert.Equal(t, "doc@clinic.test", email)
			return ports.LoginResult{Identity: id, Message: "Login successful"}, nil
		},
	}
	c := cache.NewMemoryCache()
	store := newTestStore(api, c)

	res, err := store.Login(context.Background(), "doc@clinic.test", "pw")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleDoctor, res.Identity.Role)

	got, ok := store.Identity()
	require.True(t, ok)
	assert.Equal(t, id, got)

	cached, err := c.LoadIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id, cached)

	csrf, _, _, _ := api.counts()
	assert.Equal(t, 1, csrf, "csrf token must be fetched before login")
}

func TestLogin_BeforeInitializeSettlesSession(t *testing.T) {
	id := testIdentity()
	api := &fakeAuthAPI{
		loginFn: func(string, string) (ports.LoginResult, error) {
			return ports.LoginResult{Identity: id}, nil
		},
	}
	store := newTestStore(api, nil)

	_, err := store.Login(context.Background(), "doc@clinic.test", "pw")
	require.NoError(t, err)

	assert.Equal(t, domainauth.PhaseAuthenticated, store.Phase(),
		"an interactive login is a completed auth determination")
	assert.True(t, store.Initialized())

	// A later Initialize must not redo the determination.
	store.Initialize(context.Background(), "/dashboard")
	csrf, refresh, profile, _ := api.counts()
	assert.Equal(t, 1, csrf)
	assert.Zero(t, refresh+profile)
}

func TestInitialize_PersistsCSRFToken(t *testing.T) {
	id := testIdentity()
	api := &fakeAuthAPI{
		profileFn: func() (domainauth.Identity, error) { return id, nil },
	}
	c := cache.NewMemoryCache()
	store := newTestStore(api, c)

	store.Initialize(context.Background(), "/dashboard")

	token, err := c.Get(context.Background(), ports.CacheKeyCSRFToken)
	require.NoError(t, err)
	assert.Equal(t, "csrf-token", token)
}

func TestLogin_RejectionLeavesStateUntouched(t *testing.T) {
	api := &fakeAuthAPI{}
	store := newTestStore(api, nil)

	_, err := store.Login(context.Background(), "doc@clinic.test", "wrong")
	require.Error(t, err)
	assert.True(t, apperrors.IsCredential(err))
	_, ok := store.Identity()
	assert.False(t, ok)
}

func TestLoginWithGoogle_VerifierRejection(t *testing.T) {
	api := &fakeAuthAPI{}
	store := NewStore(StoreOptions{
		API:   api,
		Cache: cache.NewMemoryCache(),
		Config: Config{
			Logger:   testutil.DiscardLogger(),
			Verifier: verifierFunc(func(context.Context, string) (string, error) { return "", assert.AnError }),
		},
	})

	_, err := store.LoginWithGoogle(context.Background(), "bad-token")
	require.Error(t, err)
	assert.True(t, apperrors.IsCredential(err))
	csrf, _, _, _ := api.counts()
	assert.Zero(t, csrf, "rejected tokens must not reach the backend")
}

type verifierFunc func(ctx context.Context, rawIDToken string) (string, error)

func (f verifierFunc) Verify(ctx context.Context, raw string) (string, error) { return f(ctx, raw) }

func TestRegister_PasswordMismatchIsLocal(t *testing.T) {
	api := &fakeAuthAPI{}
	store := newTestStore(api, nil)

	_, err := store.Register(context.Background(), ports.RegisterInput{
		Email: "p@c.com", Password: "one", ConfirmPassword: "two",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	csrf, _, _, _ := api.counts()
	assert.Zero(t, csrf)
}

func TestRefreshSilently_ConcurrentCallersShareOneCall(t *testing.T) {
	release := make(chan struct{})
	api := &fakeAuthAPI{
		refreshFn: func() (ports.RefreshResult, error) {
			<-release
			return ports.RefreshResult{}, nil
		},
	}
	store := newTestStore(api, nil)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = store.RefreshSilently(context.Background())
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, ok := range results {
		assert.True(t, ok)
	}
	_, refresh, _, _ := api.counts()
	assert.Equal(t, 1, refresh, "concurrent refreshes must collapse to one network call")
}

func TestRefreshSilently_ThrottleReusesOutcome(t *testing.T) {
	api := &fakeAuthAPI{}
	store := NewStore(StoreOptions{
		API:   api,
		Cache: cache.NewMemoryCache(),
		Config: Config{
			Logger:          testutil.DiscardLogger(),
			RefreshThrottle: time.Hour,
		},
	})

	assert.True(t, store.RefreshSilently(context.Background()))
	assert.True(t, store.RefreshSilently(context.Background()))
	_, refresh, _, _ := api.counts()
	assert.Equal(t, 1, refresh)
}

func TestRefreshSilently_FailureNeverClearsIdentity(t *testing.T) {
	id := testIdentity()
	api := &fakeAuthAPI{
		loginFn: func(string, string) (ports.LoginResult, error) {
			return ports.LoginResult{Identity: id}, nil
		},
		refreshFn: func() (ports.RefreshResult, error) {
			return ports.RefreshResult{}, apperrors.Unauthorized("expired")
		},
	}
	store := newTestStore(api, nil)

	_, err := store.Login(context.Background(), "doc@clinic.test", "pw")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.False(t, store.RefreshSilently(context.Background()))
	}

	got, ok := store.Identity()
	require.True(t, ok, "refresh failure must not log the user out")
	assert.Equal(t, id, got)
}

func TestRefreshSilently_AdoptsIdentityFromResponse(t *testing.T) {
	id := testIdentity()
	api := &fakeAuthAPI{
		refreshFn: func() (ports.RefreshResult, error) {
			return ports.RefreshResult{Identity: &id}, nil
		},
	}
	c := cache.NewMemoryCache()
	store := newTestStore(api, c)

	require.True(t, store.RefreshSilently(context.Background()))
	got, ok := store.Identity()
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestFetchProfile_RefreshAndRetryOnce(t *testing.T) {
	id := testIdentity()
	calls := 0
	api := &fakeAuthAPI{
		profileFn: func() (domainauth.Identity, error) {
			calls++
			if calls == 1 {
				return domainauth.Identity{}, apperrors.Unauthorized("expired")
			}
			return id, nil
		},
	}
	store := newTestStore(api, nil)

	assert.True(t, store.FetchProfile(context.Background(), false))
	_, refresh, profile, _ := api.counts()
	assert.Equal(t, 1, refresh)
	assert.Equal(t, 2, profile)
	got, ok := store.Identity()
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestFetchProfile_BoundedRetry(t *testing.T) {
	api := &fakeAuthAPI{} // profile always 401, refresh always succeeds
	store := newTestStore(api, nil)

	assert.False(t, store.FetchProfile(context.Background(), false))
	_, refresh, profile, _ := api.counts()
	assert.Equal(t, 2, profile, "exactly one retry after a refresh")
	assert.Equal(t, 1, refresh)
	_, ok := store.Identity()
	assert.False(t, ok)
}

func TestFetchProfile_SkipRefreshClearsImmediately(t *testing.T) {
	api := &fakeAuthAPI{}
	store := newTestStore(api, nil)

	assert.False(t, store.FetchProfile(context.Background(), true))
	_, refresh, profile, _ := api.counts()
	assert.Equal(t, 1, profile)
	assert.Zero(t, refresh)
}

func TestFetchProfile_TransientFailureKeepsIdentity(t *testing.T) {
	id := testIdentity()
	api := &fakeAuthAPI{
		loginFn: func(string, string) (ports.LoginResult, error) {
			return ports.LoginResult{Identity: id}, nil
		},
		profileFn: func() (domainauth.Identity, error) {
			return domainauth.Identity{}, apperrors.Transient("timeout")
		},
	}
	store := newTestStore(api, nil)

	_, err := store.Login(context.Background(), "doc@clinic.test", "pw")
	require.NoError(t, err)

	assert.False(t, store.FetchProfile(context.Background(), false))
	_, ok := store.Identity()
	assert.True(t, ok, "a network blip must not log the user out")
}

func TestLogout_AlwaysClears(t *testing.T) {
	id := testIdentity()
	for _, backendErr := range []error{nil, apperrors.Transient("unreachable")} {
		api := &fakeAuthAPI{
			loginFn: func(string, string) (ports.LoginResult, error) {
				return ports.LoginResult{Identity: id}, nil
			},
			logoutErr: backendErr,
		}
		c := cache.NewMemoryCache()
		store := newTestStore(api, c)

		_, err := store.Login(context.Background(), "doc@clinic.test", "pw")
		require.NoError(t, err)

		store.Logout(context.Background())

		_, ok := store.Identity()
		assert.False(t, ok)
		_, err = c.LoadIdentity(context.Background())
		assert.Equal(t, ports.ErrNotFound, err)
	}
}

func TestStaleProfileResultDiscardedAfterLogout(t *testing.T) {
	id := testIdentity()
	inFlight := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAuthAPI{
		profileFn: func() (domainauth.Identity, error) {
			close(inFlight)
			<-release
			return id, nil
		},
	}
	c := cache.NewMemoryCache()
	store := newTestStore(api, c)

	done := make(chan struct{})
	go func() {
		defer close(done)
		store.FetchProfile(context.Background(), true)
	}()

	<-inFlight
	store.Logout(context.Background())
	close(release)
	<-done

	_, ok := store.Identity()
	assert.False(t, ok, "a result resolving after logout must not resurrect the session")
	_, err := c.LoadIdentity(context.Background())
	assert.Equal(t, ports.ErrNotFound, err)
}

func TestNextRefreshDelay(t *testing.T) {
	store := newTestStore(&fakeAuthAPI{}, nil)
	assert.Equal(t, DefaultRefreshInterval, store.nextRefreshDelay())

	store.expiryHint = expiryHintFunc(func() (time.Time, bool) {
		return time.Now().Add(10 * time.Minute), true
	})
	delay := store.nextRefreshDelay()
	assert.Less(t, delay, 9*time.Minute)
	assert.GreaterOrEqual(t, delay, time.Minute)

	// Imminent expiry clamps to the floor instead of busy-looping.
	store.expiryHint = expiryHintFunc(func() (time.Time, bool) {
		return time.Now().Add(time.Second), true
	})
	assert.Equal(t, time.Minute, store.nextRefreshDelay())
}

type expiryHintFunc func() (time.Time, bool)

func (f expiryHintFunc) AccessTokenExpiry() (time.Time, bool) { return f() }

func TestRun_StopsOnCancel(t *testing.T) {
	store := newTestStore(&fakeAuthAPI{}, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		store.Run(ctx)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}
}
