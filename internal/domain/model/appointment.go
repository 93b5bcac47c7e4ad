// Package model holds the clinic data shapes exchanged with the backend.
// Field tags mirror the backend's snake_case JSON exactly.
package model

import "time"

// AppointmentStatus values as the backend emits them.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "PENDING"
	AppointmentConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentCompleted AppointmentStatus = "COMPLETED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
	AppointmentMissed    AppointmentStatus = "MISSED"
)

// Appointment is a booked consultation. Walk-in patients have no PatientID;
// their name and email live in the patient_name/patient_email fields.
type Appointment struct {
	ID              string            `json:"id"`
	DoctorID        int64             `json:"doctor"`
	DoctorName      string            `json:"doctor_name,omitempty"`
	PatientID       *int64            `json:"patient,omitempty"`
	PatientName     string            `json:"patient_name,omitempty"`
	PatientEmail    string            `json:"patient_email,omitempty"`
	AppointmentTime time.Time         `json:"appointment_time"`
	EndTime         time.Time         `json:"end_time"`
	Status          AppointmentStatus `json:"status"`
	Notes           string            `json:"notes,omitempty"`
	CanModify       bool              `json:"can_modify,omitempty"`
	CreatedAt       time.Time         `json:"created_at,omitempty"`
	UpdatedAt       time.Time         `json:"updated_at,omitempty"`
}

// CreateAppointmentRequest books a consultation slot.
type CreateAppointmentRequest struct {
	DoctorID        int64     `json:"doctor"`
	PatientID       *int64    `json:"patient,omitempty"`
	PatientName     string    `json:"patient_name,omitempty"`
	PatientEmail    string    `json:"patient_email,omitempty"`
	AppointmentTime time.Time `json:"appointment_time"`
	EndTime         time.Time `json:"end_time"`
	Notes           string    `json:"notes,omitempty"`
}

// AvailableSlot is a recurring weekly availability window for a doctor.
type AvailableSlot struct {
	ID        int64  `json:"id"`
	DoctorID  int64  `json:"doctor"`
	DayOfWeek int    `json:"day_of_week"`
	DayName   string `json:"day_name,omitempty"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// TimeOff is a doctor's absence window; appointments cannot be booked inside
// an approved one.
type TimeOff struct {
	ID         int64     `json:"id"`
	DoctorID   int64     `json:"doctor"`
	DoctorName string    `json:"doctor_name,omitempty"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Reason     string    `json:"reason,omitempty"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}
