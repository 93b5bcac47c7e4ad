package model

import "time"

// MedicalRecord is one appointment's clinical documentation. Records lock
// when the appointment completes; further edits are rejected server-side.
type MedicalRecord struct {
	ID             string         `json:"id"`
	AppointmentID  string         `json:"appointment"`
	ChiefComplaint string         `json:"chief_complaint,omitempty"`
	Observations   string         `json:"observations,omitempty"`
	Diagnosis      string         `json:"diagnosis,omitempty"`
	TreatmentPlan  string         `json:"treatment_plan,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	IsLocked       bool           `json:"is_locked"`
	Status         string         `json:"status,omitempty"`
	Prescriptions  []Prescription `json:"prescriptions,omitempty"`
	CreatedAt      time.Time      `json:"created_at,omitempty"`
	UpdatedAt      time.Time      `json:"updated_at,omitempty"`
}

// Prescription is one medication line on a medical record.
type Prescription struct {
	ID           int64  `json:"id,omitempty"`
	Medication   string `json:"medication"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions,omitempty"`
}

// MedicalAttachment is a file attached to a record (lab report, image).
type MedicalAttachment struct {
	ID          string    `json:"id"`
	RecordID    string    `json:"medical_record"`
	FileName    string    `json:"file_name"`
	FileType    string    `json:"file_type"`
	Description string    `json:"description,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at,omitempty"`
}
