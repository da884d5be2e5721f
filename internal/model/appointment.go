package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

// Closed status set. The booking engine only ever writes scheduled and
// cancelled; completed is set by clinic-side tooling and consumed by the
// medical history queries.
const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// Appointment is a row in the booking ledger. Cancelled rows are retained;
// they free the slot but stay in history.
type Appointment struct {
	Base
	UserID          uuid.UUID         `db:"user_id" json:"user_id"`
	HospitalID      uuid.UUID         `db:"hospital_id" json:"hospital_id"`
	AppointmentTime time.Time         `db:"appointment_time" json:"appointment_time"`
	Status          AppointmentStatus `db:"status" json:"status"`
	Notes           *string           `db:"notes" json:"notes,omitempty"`
}

// Timeslot is a static catalog entry: a bookable capacity unit at one
// hospital. Never mutated after administrative seeding.
type Timeslot struct {
	HospitalID   uuid.UUID `db:"hospital_id" json:"hospital_id"`
	TimeslotDate time.Time `db:"timeslot_date" json:"timeslot_date"`
	TimeslotTime string    `db:"timeslot_time" json:"timeslot_time"`
}

// AvailableTime is one open slot as reported to the frontend, HH:MM:SS.
type AvailableTime struct {
	TimeslotTime string `json:"timeslot_time"`
}

// UpcomingAppointment is the next scheduled appointment joined with its
// hospital, as shown on the dashboard.
type UpcomingAppointment struct {
	AppointmentTime time.Time         `db:"appointment_time" json:"-"`
	Status          AppointmentStatus `db:"status" json:"status"`
	HospitalName    string            `db:"hospital_name" json:"hospital_name"`
	Address         string            `db:"address" json:"address"`
}

type BookAppointmentRequest struct {
	UserID          string `json:"user_id" binding:"required,uuid"`
	AppointmentTime string `json:"appointment_time" binding:"required,wiretime"`
	HospitalID      string `json:"hospital_id" binding:"required,uuid"`
}

type RescheduleAppointmentRequest struct {
	AppointmentID string `json:"appointment_id" binding:"required,uuid"`
	NewTime       string `json:"new_time" binding:"required,wiretime"`
}

type CancelAppointmentRequest struct {
	AppointmentID string `json:"appointment_id" binding:"required,uuid"`
}
