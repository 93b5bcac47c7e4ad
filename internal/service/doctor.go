package service

import (
	"context"
	"fmt"

	"github.com/sajilocms/sajilocms-go/internal/domain/model"
	"github.com/sajilocms/sajilocms-go/internal/ports"
)

// DoctorServiceOptions groups dependencies for DoctorService.
type DoctorServiceOptions struct {
	Client ports.JSONDoer // Required: transport (these endpoints are public)
}

// DoctorService lists practitioners for the public doctors page.
type DoctorService struct {
	client ports.JSONDoer
}

// NewDoctorService constructs a new DoctorService.
func NewDoctorService(opts DoctorServiceOptions) *DoctorService {
	if opts.Client == nil {
		panic("service: DoctorServiceOptions.Client is required")
	}
	return &DoctorService{client: opts.Client}
}

// List returns all publicly listed doctors.
func (s *DoctorService) List(ctx context.Context) ([]model.Doctor, error) {
	var out []model.Doctor
	if err := s.client.GetJSON(ctx, "/auth/doctors/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get retrieves one doctor's public profile.
func (s *DoctorService) Get(ctx context.Context, id int64) (model.Doctor, error) {
	var out model.Doctor
	err := s.client.GetJSON(ctx, fmt.Sprintf("/auth/doctors/%d/", id), &out)
	return out, err
}

// Specialties returns the selectable specialties.
func (s *DoctorService) Specialties(ctx context.Context) ([]model.Specialty, error) {
	var out []model.Specialty
	if err := s.client.GetJSON(ctx, "/auth/specialties/", &out); err != nil {
		return nil, err
	}
	return out, nil
}
