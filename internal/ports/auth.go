package ports

// Package ports defines interfaces (hexagonal ports) for the session core.
// Implementations live in internal/adapters; orchestration in
// internal/session and internal/guard.

import (
	"context"

	domainauth "github.com/sajilocms/sajilocms-go/internal/domain/auth"
)

// RegisterInput carries the patient self-registration fields. Password and
// ConfirmPassword must match before any network call is made; that check is
// the session store's responsibility.
type RegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

// LoginResult is the backend's response to a successful credential exchange:
// the identity payload plus an optional human-readable message.
type LoginResult struct {
	Identity domainauth.Identity
	Message  string
}

// RefreshResult reports a successful silent refresh. Identity is non-nil only
// when the backend included updated profile data in the refresh response.
type RefreshResult struct {
	Identity *domainauth.Identity
}

// AuthAPI is the backend authentication surface this client consumes.
// Implementations map transport failures to the internal/errors taxonomy:
// 401/403 become Unauthorized, rejected credentials become Credential with
// the backend message, and network-level failures become Transient.
type AuthAPI interface {
	// FetchCSRF obtains the anti-forgery token used on mutating calls.
	FetchCSRF(ctx context.Context) (string, error)

	// Login exchanges email/password credentials.
	Login(ctx context.Context, email, password string) (LoginResult, error)

	// LoginWithGoogle exchanges a federated Google ID token.
	LoginWithGoogle(ctx context.Context, idToken string) (LoginResult, error)

	// Register creates a patient account and returns the backend message.
	Register(ctx context.Context, in RegisterInput) (string, error)

	// RefreshToken exchanges the refresh credential for a renewed access
	// credential. Safe to call speculatively.
	RefreshToken(ctx context.Context) (RefreshResult, error)

	// Profile fetches the authoritative current identity.
	Profile(ctx context.Context) (domainauth.Identity, error)

	// Logout terminates the server-side session (best effort).
	Logout(ctx context.Context) error
}

// ErrNotFound is returned by CredentialCache when a key has no entry.
type notFoundError struct{}

func (notFoundError) Error() string { return "cache entry not found" }

var ErrNotFound error = notFoundError{}

// CredentialCache is the durable client-side cache: a non-authoritative
// snapshot of the identity plus auxiliary opaque entries. Readers must treat
// a malformed identity entry as absent; implementations delete bad entries
// rather than returning them.
type CredentialCache interface {
	SaveIdentity(ctx context.Context, id domainauth.Identity) error
	// LoadIdentity returns ErrNotFound when no snapshot exists or the stored
	// entry could not be parsed.
	LoadIdentity(ctx context.Context) (domainauth.Identity, error)
	ClearIdentity(ctx context.Context) error

	// Auxiliary opaque entries (remembered email, csrf token, payment marker).
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Auxiliary cache key names, fixed so reinstalls and multiple consumers agree.
const (
	CacheKeyCSRFToken       = "csrftoken"
	CacheKeyRememberedEmail = "rememberedEmail"
	CacheKeyPendingPayment  = "pendingPaymentRedirect"
	CacheKeyLastRefresh     = "lastTokenRefresh"
)

// TokenVerifier validates a federated ID token locally before it is sent to
// the backend for exchange. Verify returns the token's subject email.
type TokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (email string, err error)
}

// JSONDoer is the authenticated JSON transport the clinic API clients are
// built on. Implementations own cookies, CSRF headers, and error mapping.
type JSONDoer interface {
	GetJSON(ctx context.Context, path string, out any) error
	PostJSON(ctx context.Context, path string, body, out any) error
	PutJSON(ctx context.Context, path string, body, out any) error
	DeleteJSON(ctx context.Context, path string) error
}
