package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sajilocms/sajilocms-go/config"
	"github.com/sajilocms/sajilocms-go/internal/bootstrap"
	domainauth "github.com/sajilocms/sajilocms-go/internal/domain/auth"
	"github.com/sajilocms/sajilocms-go/internal/ports"
	"github.com/sajilocms/sajilocms-go/internal/testutil"
)

func newTestContext(t *testing.T, handler http.Handler) *commandContext {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	var cfg config.AppConfig
	cfg.API.BaseURL = srv.URL
	cfg.Cache.Backend = config.CacheBackendMemory
	cfg.Sanitize()

	client, err := bootstrap.BuildClient(cfg, testutil.DiscardLogger())
	require.NoError(t, err)

	return &commandContext{
		Ctx:    context.Background(),
		Logger: testutil.DiscardLogger(),
		Config: cfg,
		Client: client,
	}
}

// clinicBackend serves a signed-in patient session. When loginEmails is
// non-nil the emails received on /auth/login/ are recorded there.
func clinicBackend(t *testing.T, loginEmails *[]string) http.Handler {
	t.Helper()
	identity := map[string]any{
		"id": 3, "email": "pat@clinic.test", "role": "PATIENT",
		"first_name": "Pat", "is_verified": true, "is_active": true,
	}
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/csrf/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"csrf": "tok"})
	})
	mux.HandleFunc("/auth/token/refresh/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{})
	})
	mux.HandleFunc("/auth/profile/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, identity)
	})
	mux.HandleFunc("/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if loginEmails != nil {
			*loginEmails = append(*loginEmails, body["email"])
		}
		writeJSON(w, identity)
	})
	return mux
}

// deniedBackend rejects every call, simulating a dead session.
func deniedBackend() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "authentication required"}`))
	})
}

func TestEnsureAccess_RequiresLogin(t *testing.T) {
	ctx := newTestContext(t, deniedBackend())

	err := ensureAccess(ctx, "/records",
		domainauth.RoleDoctor, domainauth.RolePatient, domainauth.RoleAdmin)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not signed in")
}

func TestEnsureAccess_RoleMismatch(t *testing.T) {
	ctx := newTestContext(t, clinicBackend(t, nil))

	err := ensureAccess(ctx, "/pharmacy",
		domainauth.RolePharmacist, domainauth.RoleAdmin)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not permit")
}

func TestEnsureAccess_GrantsAuthorizedRole(t *testing.T) {
	ctx := newTestContext(t, clinicBackend(t, nil))

	err := ensureAccess(ctx, "/records",
		domainauth.RoleDoctor, domainauth.RolePatient, domainauth.RoleAdmin)
	assert.NoError(t, err)
}

func TestEnsureAccess_EmptyRoleSetAdmitsAuthenticated(t *testing.T) {
	ctx := newTestContext(t, clinicBackend(t, nil))

	assert.NoError(t, ensureAccess(ctx, "/appointments"))
}

func TestRunLogin_RemembersEmail(t *testing.T) {
	ctx := newTestContext(t, clinicBackend(t, nil))

	err := runLogin(ctx, []string{
		"--email", "pat@clinic.test", "--password", "pw", "--remember",
	})
	require.NoError(t, err)

	remembered, err := ctx.Client.Cache.Get(ctx.Ctx, ports.CacheKeyRememberedEmail)
	require.NoError(t, err)
	assert.Equal(t, "pat@clinic.test", remembered)
}

func TestRunLogin_UsesRememberedEmail(t *testing.T) {
	var emails []string
	ctx := newTestContext(t, clinicBackend(t, &emails))

	require.NoError(t, ctx.Client.Cache.Set(ctx.Ctx, ports.CacheKeyRememberedEmail, "pat@clinic.test"))

	err := runLogin(ctx, []string{"--password", "pw"})
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, "pat@clinic.test", emails[0])
}
