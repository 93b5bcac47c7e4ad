package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sajilocms/sajilocms-go/internal/domain/model"
	"github.com/sajilocms/sajilocms-go/internal/ports"
)

// RecordServiceOptions groups dependencies for RecordService.
type RecordServiceOptions struct {
	Client ports.JSONDoer // Required: authenticated transport
}

// RecordService reads and writes electronic health records.
type RecordService struct {
	client ports.JSONDoer
}

// NewRecordService constructs a new RecordService.
func NewRecordService(opts RecordServiceOptions) *RecordService {
	if opts.Client == nil {
		panic("service: RecordServiceOptions.Client is required")
	}
	return &RecordService{client: opts.Client}
}

// List returns the records visible to the caller.
func (s *RecordService) List(ctx context.Context) ([]model.MedicalRecord, error) {
	var out []model.MedicalRecord
	if err := s.client.GetJSON(ctx, "/ehr/records/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get retrieves one record.
func (s *RecordService) Get(ctx context.Context, id string) (model.MedicalRecord, error) {
	var out model.MedicalRecord
	err := s.client.GetJSON(ctx, fmt.Sprintf("/ehr/records/%s/", url.PathEscape(id)), &out)
	return out, err
}

// ForAppointment fetches the record for an appointment, creating an empty
// one server-side when none exists yet.
func (s *RecordService) ForAppointment(ctx context.Context, appointmentID string) (model.MedicalRecord, error) {
	var out model.MedicalRecord
	err := s.client.GetJSON(ctx, fmt.Sprintf("/ehr/appointment/%s/", url.PathEscape(appointmentID)), &out)
	return out, err
}

// Update saves clinical notes on an unlocked record. Locked records are
// rejected server-side.
func (s *RecordService) Update(ctx context.Context, id string, rec model.MedicalRecord) (model.MedicalRecord, error) {
	var out model.MedicalRecord
	err := s.client.PutJSON(ctx, fmt.Sprintf("/ehr/records/%s/", url.PathEscape(id)), rec, &out)
	return out, err
}

// PatientHistory returns the full record history for a patient.
func (s *RecordService) PatientHistory(ctx context.Context, patientID int64) ([]model.MedicalRecord, error) {
	var out []model.MedicalRecord
	if err := s.client.GetJSON(ctx, fmt.Sprintf("/ehr/patient-history/%d/", patientID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Attachments lists the files attached to a record.
func (s *RecordService) Attachments(ctx context.Context, recordID string) ([]model.MedicalAttachment, error) {
	var out []model.MedicalAttachment
	q := url.Values{}
	q.Set("medical_record", recordID)
	if err := s.client.GetJSON(ctx, "/ehr/attachments/?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}
