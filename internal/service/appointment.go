// Package service holds the clinic API clients built on the authenticated
// JSON transport. Each service covers one backend app; authorization is
// enforced server-side, these clients only shape the calls.
package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sajilocms/sajilocms-go/internal/domain/model"
	"github.com/sajilocms/sajilocms-go/internal/ports"
)

// AppointmentServiceOptions groups dependencies for AppointmentService.
type AppointmentServiceOptions struct {
	Client ports.JSONDoer // Required: authenticated transport
}

// AppointmentService books and manages consultations.
type AppointmentService struct {
	client ports.JSONDoer
}

// NewAppointmentService constructs a new AppointmentService.
func NewAppointmentService(opts AppointmentServiceOptions) *AppointmentService {
	if opts.Client == nil {
		panic("service: AppointmentServiceOptions.Client is required")
	}
	return &AppointmentService{client: opts.Client}
}

// List returns the caller's appointments, scoped by the backend to their role.
func (s *AppointmentService) List(ctx context.Context) ([]model.Appointment, error) {
	var out []model.Appointment
	if err := s.client.GetJSON(ctx, "/appointment/appointments/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get retrieves one appointment.
func (s *AppointmentService) Get(ctx context.Context, id string) (model.Appointment, error) {
	var out model.Appointment
	err := s.client.GetJSON(ctx, fmt.Sprintf("/appointment/appointments/%s/", url.PathEscape(id)), &out)
	return out, err
}

// Create books an appointment.
func (s *AppointmentService) Create(ctx context.Context, req model.CreateAppointmentRequest) (model.Appointment, error) {
	var out model.Appointment
	err := s.client.PostJSON(ctx, "/appointment/appointments/", req, &out)
	return out, err
}

// UpdateStatus moves an appointment to a new status. The backend owns the
// transition rules (pending to confirmed, confirmed to completed, and so on).
func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) (model.Appointment, error) {
	body := struct {
		Status model.AppointmentStatus `json:"status"`
	}{Status: status}

	var out model.Appointment
	err := s.client.PutJSON(ctx, fmt.Sprintf("/appointment/appointments/%s/", url.PathEscape(id)), body, &out)
	return out, err
}

// Cancel cancels an appointment.
func (s *AppointmentService) Cancel(ctx context.Context, id string) (model.Appointment, error) {
	return s.UpdateStatus(ctx, id, model.AppointmentCancelled)
}

// AvailableSlots returns a doctor's open slots for a date (YYYY-MM-DD).
func (s *AppointmentService) AvailableSlots(ctx context.Context, doctorID int64, date string) ([]model.AvailableSlot, error) {
	q := url.Values{}
	q.Set("doctor_id", fmt.Sprint(doctorID))
	q.Set("date", date)

	var out []model.AvailableSlot
	if err := s.client.GetJSON(ctx, "/appointment/get-available-slots/?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSlot publishes a recurring weekly availability window.
func (s *AppointmentService) CreateSlot(ctx context.Context, slot model.AvailableSlot) (model.AvailableSlot, error) {
	var out model.AvailableSlot
	err := s.client.PostJSON(ctx, "/appointment/create-available-slot/", slot, &out)
	return out, err
}

// ListTimeOffs returns the doctor's time-off requests.
func (s *AppointmentService) ListTimeOffs(ctx context.Context) ([]model.TimeOff, error) {
	var out []model.TimeOff
	if err := s.client.GetJSON(ctx, "/appointment/time-offs/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RequestTimeOff files an absence window for approval.
func (s *AppointmentService) RequestTimeOff(ctx context.Context, req model.TimeOff) (model.TimeOff, error) {
	var out model.TimeOff
	err := s.client.PostJSON(ctx, "/appointment/time-offs/", req, &out)
	return out, err
}
