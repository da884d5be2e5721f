package model

import (
	"time"

	"github.com/google/uuid"
)

// MedicalHistory anchors a user's conditions and medications.
type MedicalHistory struct {
	ID     uuid.UUID `db:"id" json:"history_id"`
	UserID uuid.UUID `db:"user_id" json:"user_id"`
}

type Condition struct {
	Name          string    `db:"condition_name" json:"condition_name"`
	Description   string    `db:"condition_description" json:"condition_description"`
	DiagnosedDate time.Time `db:"diagnosed_date" json:"diagnosed_date"`
}

type HistoryMedication struct {
	Name      string     `db:"medication_name" json:"medication_name"`
	Dosage    string     `db:"dosage" json:"dosage"`
	StartDate time.Time  `db:"start_date" json:"start_date"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`
}

// PriorAppointment is a completed visit with clinician notes.
type PriorAppointment struct {
	AppointmentTime time.Time `db:"appointment_time" json:"appointment_time"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
}

// MedicalRecord is a free-form history entry added by the user.
type MedicalRecord struct {
	ID         uuid.UUID `db:"id" json:"record_id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	Details    string    `db:"details" json:"details"`
	RecordDate time.Time `db:"record_date" json:"record_date"`
}

type AddMedicalRecordRequest struct {
	Details string `json:"details" binding:"required,max=2000"`
	Date    string `json:"date" binding:"required,wiredate"`
}
