package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPublic_Allowlist(t *testing.T) {
	public := []string{
		"/login",
		"/register",
		"/forgot-password",
		"/reset-password",
		"/reset-password/MTU/abc-token",
		"/unauthorized",
		"/doctors",
		"/payment-success",
		"/payment-cancel",
		"login",      // missing leading slash
		"/login/",    // trailing slash
		" /login ",   // surrounding whitespace
		"/doctors//", // repeated trailing slashes
	}
	for _, p := range public {
		assert.True(t, IsPublic(p), "path %q should be public", p)
	}
}

func TestIsPublic_ProtectedPaths(t *testing.T) {
	protected := []string{
		"/",
		"",
		"/profile",
		"/admin/dashboard",
		"/appointments",
		"/pharmacy/orders",
		"/reset-passwords", // prefix must match a whole segment
		"/loginx",
	}
	for _, p := range protected {
		assert.False(t, IsPublic(p), "path %q should not be public", p)
	}
}
