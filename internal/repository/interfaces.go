package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/patient-api/internal/model"
)

// Sentinel errors surfaced by repositories. Services translate these into
// the API error taxonomy.
var (
	// ErrSlotConflict means a scheduled appointment already occupies the
	// (hospital, datetime) or (user, datetime) pair.
	ErrSlotConflict = errors.New("slot already booked")
	// ErrNotScheduled means no appointment with the given id is currently
	// in the scheduled state.
	ErrNotScheduled = errors.New("appointment not found or not scheduled")
	// ErrNotFound is the generic missing-row error.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail means the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type HospitalRepository interface {
	List(ctx context.Context) ([]*model.Hospital, error)
}

// TimeslotRepository reads the slot catalog. Catalog entries are seeded
// administratively and never mutated here.
type TimeslotRepository interface {
	// ListTimes returns the catalog's times for one hospital and day,
	// ascending. Empty slice, not an error, when none are defined.
	ListTimes(ctx context.Context, hospitalID uuid.UUID, date time.Time) ([]string, error)
}

// AppointmentRepository is the booking ledger. Book, Reschedule and Cancel
// are atomic: the conflict check and the mutation happen in one serializable
// transaction, and the matching outbox event is written in that same
// transaction.
type AppointmentRepository interface {
	Book(ctx context.Context, apt *model.Appointment) error
	Reschedule(ctx context.Context, id uuid.UUID, newTime time.Time) error
	Cancel(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	// ScheduledTimes returns the times of day occupied by scheduled
	// appointments at a hospital on the given day.
	ScheduledTimes(ctx context.Context, hospitalID uuid.UUID, date time.Time) ([]string, error)
	Upcoming(ctx context.Context, userID uuid.UUID, now time.Time) (*model.UpcomingAppointment, error)
	FindID(ctx context.Context, userID uuid.UUID, at time.Time, hospitalID uuid.UUID) (uuid.UUID, error)
}

type MedicalRepository interface {
	PriorAppointments(ctx context.Context, userID uuid.UUID) ([]*model.PriorAppointment, error)
	Conditions(ctx context.Context, userID uuid.UUID) ([]*model.Condition, error)
	Medications(ctx context.Context, userID uuid.UUID) ([]*model.HistoryMedication, error)
	AddRecord(ctx context.Context, record *model.MedicalRecord) error
	DeleteRecord(ctx context.Context, recordID uuid.UUID) error
}

type OutboxRepository interface {
	PendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkRetry(ctx context.Context, id uuid.UUID, errMsg string, retryAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
}
