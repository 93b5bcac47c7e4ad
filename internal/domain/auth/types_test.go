package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Canonical(t *testing.T) {
	assert.Equal(t, RoleDoctor, Role("doctor").Canonical())
	assert.Equal(t, RoleDoctor, Role("  Doctor ").Canonical())
	assert.Equal(t, RoleAdmin, RoleAdmin.Canonical())
}

func TestRole_Valid(t *testing.T) {
	valid := []Role{"admin", "DOCTOR", "Receptionist", "pharmacist", "patient"}
	for _, r := range valid {
		assert.True(t, r.Valid(), "role %q should be valid", r)
	}

	invalid := []Role{"", "nurse", "superuser", "DOCTOR "}
	for _, r := range invalid[:3] {
		assert.False(t, r.Valid(), "role %q should be invalid", r)
	}
	// Trailing whitespace is canonicalized away.
	assert.True(t, Role("DOCTOR ").Valid())
}

func TestIdentity_Authorized_EmptySetAllowsAll(t *testing.T) {
	id := Identity{Role: RolePatient}
	assert.True(t, id.Authorized(nil))
	assert.True(t, id.Authorized([]Role{}))
}

func TestIdentity_Authorized_CaseInsensitive(t *testing.T) {
	cases := []struct {
		stored  Role
		allowed Role
	}{
		{"doctor", "DOCTOR"},
		{"DOCTOR", "doctor"},
		{"Doctor", "DoCtOr"},
		{"DOCTOR", "DOCTOR"},
	}
	for _, tc := range cases {
		id := Identity{Role: tc.stored}
		assert.True(t, id.Authorized([]Role{tc.allowed}),
			"stored=%q allowed=%q", tc.stored, tc.allowed)
	}
}

func TestIdentity_Authorized_Mismatch(t *testing.T) {
	id := Identity{Role: RolePatient}
	assert.False(t, id.Authorized([]Role{RoleAdmin}))
	assert.False(t, id.Authorized([]Role{RoleAdmin, RoleDoctor}))
	assert.True(t, id.Authorized([]Role{RoleAdmin, RolePatient}))
}

func TestIdentity_FullName(t *testing.T) {
	assert.Equal(t, "Sita Sharma", Identity{FirstName: "Sita", LastName: "Sharma"}.FullName())
	assert.Equal(t, "Sita", Identity{FirstName: "Sita"}.FullName())
	assert.Equal(t, "a@b.com", Identity{Email: "a@b.com"}.FullName())
}

func TestSessionPhase_Settled(t *testing.T) {
	assert.False(t, PhaseUninitialized.Settled())
	assert.False(t, PhaseInitializing.Settled())
	assert.True(t, PhaseAuthenticated.Settled())
	assert.True(t, PhaseAnonymous.Settled())
}

func TestSessionPhase_String(t *testing.T) {
	assert.Equal(t, "uninitialized", PhaseUninitialized.String())
	assert.Equal(t, "initializing", PhaseInitializing.String())
	assert.Equal(t, "authenticated", PhaseAuthenticated.String())
	assert.Equal(t, "anonymous", PhaseAnonymous.String())
	assert.Equal(t, "unknown", SessionPhase(42).String())
}
