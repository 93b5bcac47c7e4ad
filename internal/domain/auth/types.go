package auth

// Package auth contains domain-level types for authentication and the
// client-side session. It is pure and free of transport/adapter concerns.

import "strings"

// Role represents an application authorization role.
// The backend stores roles upper-case; comparisons must canonicalize both
// sides so cached payloads with legacy lower-case roles still authorize.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleDoctor       Role = "DOCTOR"
	RoleReceptionist Role = "RECEPTIONIST"
	RolePharmacist   Role = "PHARMACIST"
	RolePatient      Role = "PATIENT"
)

// Canonical returns the role trimmed and upper-cased.
func (r Role) Canonical() Role {
	return Role(strings.ToUpper(strings.TrimSpace(string(r))))
}

// Valid reports whether the role belongs to the fixed role set after
// canonicalization.
func (r Role) Valid() bool {
	switch r.Canonical() {
	case RoleAdmin, RoleDoctor, RoleReceptionist, RolePharmacist, RolePatient:
		return true
	}
	return false
}

// Identity represents the authenticated principal as returned by the backend
// on login or profile fetch. License and specialty fields are only present
// for doctors.
type Identity struct {
	ID              int64  `json:"id"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Role            Role   `json:"role"`
	IsVerified      bool   `json:"is_verified"`
	IsActive        bool   `json:"is_active"`
	ProfilePhotoURL string `json:"profile_photo_url,omitempty"`
	LicenseNumber   string `json:"license_number,omitempty"`
	Specialty       string `json:"specialty,omitempty"`
}

// Authorized reports whether the identity's role belongs to the allowed set.
// An empty allowed set authorizes every authenticated identity. Both the
// identity role and the allowed entries are canonicalized before comparison.
func (i Identity) Authorized(allowed []Role) bool {
	if len(allowed) == 0 {
		return true
	}
	role := i.Role.Canonical()
	for _, a := range allowed {
		if a.Canonical() == role {
			return true
		}
	}
	return false
}

// FullName returns the display name, falling back to the email address when
// both name fields are empty.
func (i Identity) FullName() string {
	name := strings.TrimSpace(i.FirstName + " " + i.LastName)
	if name == "" {
		return i.Email
	}
	return name
}

// SessionPhase is the explicit state of the session store's lifecycle.
// Uninitialized -> Initializing happens once per process; Initializing then
// settles into Authenticated or Anonymous and never returns to the first two.
type SessionPhase int

const (
	PhaseUninitialized SessionPhase = iota
	PhaseInitializing
	PhaseAuthenticated
	PhaseAnonymous
)

// String implements fmt.Stringer for log output.
func (p SessionPhase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseInitializing:
		return "initializing"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Settled reports whether the phase is a terminal determination for the
// current page of the session lifecycle.
func (p SessionPhase) Settled() bool {
	return p == PhaseAuthenticated || p == PhaseAnonymous
}
