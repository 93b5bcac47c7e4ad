package model

// Doctor is a publicly listed practitioner; the doctors page is reachable
// without authentication.
type Doctor struct {
	ID            int64  `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email,omitempty"`
	Specialty     string `json:"specialty,omitempty"`
	LicenseNumber string `json:"license_number,omitempty"`
	PhotoURL      string `json:"profile_photo_url,omitempty"`
}

// Specialty is a selectable medical specialty.
type Specialty struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// StaffUser is an account row in the admin's user management screens.
type StaffUser struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       string `json:"role"`
	IsVerified bool   `json:"is_verified"`
	IsActive   bool   `json:"is_active"`
}
