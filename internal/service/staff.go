package service

import (
	"context"
	"fmt"

	"github.com/sajilocms/sajilocms-go/internal/domain/model"
	"github.com/sajilocms/sajilocms-go/internal/ports"
)

// StaffServiceOptions groups dependencies for StaffService.
type StaffServiceOptions struct {
	Client ports.JSONDoer // Required: authenticated transport
}

// StaffService covers the admin's user management endpoints.
type StaffService struct {
	client ports.JSONDoer
}

// NewStaffService constructs a new StaffService.
func NewStaffService(opts StaffServiceOptions) *StaffService {
	if opts.Client == nil {
		panic("service: StaffServiceOptions.Client is required")
	}
	return &StaffService{client: opts.Client}
}

// Users lists all accounts.
func (s *StaffService) Users(ctx context.Context) ([]model.StaffUser, error) {
	var out []model.StaffUser
	if err := s.client.GetJSON(ctx, "/auth/admin/users/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// User retrieves one account.
func (s *StaffService) User(ctx context.Context, id int64) (model.StaffUser, error) {
	var out model.StaffUser
	err := s.client.GetJSON(ctx, fmt.Sprintf("/auth/admin/users/%d/", id), &out)
	return out, err
}

// RegisterStaff creates a staff account with a given role; it stays
// unverified until VerifyStaff.
func (s *StaffService) RegisterStaff(ctx context.Context, in ports.RegisterInput, role string) (model.StaffUser, error) {
	body := struct {
		ports.RegisterInput
		Role string `json:"role"`
	}{RegisterInput: in, Role: role}

	var out model.StaffUser
	err := s.client.PostJSON(ctx, "/auth/admin/register-staff/", body, &out)
	return out, err
}

// VerifyStaff marks a staff account verified so it can log in.
func (s *StaffService) VerifyStaff(ctx context.Context, userID int64) (model.StaffUser, error) {
	body := struct {
		UserID int64 `json:"user_id"`
	}{UserID: userID}

	var out model.StaffUser
	err := s.client.PostJSON(ctx, "/auth/admin/verify-staff/", body, &out)
	return out, err
}

// DeactivateUser disables an account.
func (s *StaffService) DeactivateUser(ctx context.Context, id int64) error {
	return s.client.DeleteJSON(ctx, fmt.Sprintf("/auth/admin/users/%d/", id))
}
