package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/medtrack/patient-api/internal/model"
	"github.com/medtrack/patient-api/internal/repository"
)

const uniqueViolation = "23505"

// Book inserts a scheduled appointment after checking both exclusivity
// invariants inside one serializable transaction. The partial unique indexes
// on (hospital_id, appointment_time) and (user_id, appointment_time) are the
// backstop: a violation that slips past the check is reported as the same
// conflict error.
func (r *appointmentRepository) Book(ctx context.Context, apt *model.Appointment) error {
	apt.ID = uuid.New()
	now := time.Now()
	apt.CreatedAt = now
	apt.UpdatedAt = now
	apt.Status = model.AppointmentStatusScheduled

	err := r.WithSerializableTx(ctx, func(tx *sqlx.Tx) error {
		taken, err := slotTaken(ctx, tx, apt.HospitalID, apt.UserID, apt.AppointmentTime, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return repository.ErrSlotConflict
		}

		query := `
			INSERT INTO appointments (
				id, user_id, hospital_id, appointment_time, status,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.ExecContext(ctx, query,
			apt.ID,
			apt.UserID,
			apt.HospitalID,
			apt.AppointmentTime,
			apt.Status,
			apt.CreatedAt,
			apt.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert appointment: %w", err)
		}

		return insertOutboxEventTx(ctx, tx, model.EventAppointmentBooked, apt)
	})

	return translateConflict(err)
}

// Reschedule moves a scheduled appointment to a new time, re-running the
// same conflict check as Book against the appointment's hospital and user,
// excluding its own row.
func (r *appointmentRepository) Reschedule(ctx context.Context, id uuid.UUID, newTime time.Time) error {
	err := r.WithSerializableTx(ctx, func(tx *sqlx.Tx) error {
		apt, err := getScheduledForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		taken, err := slotTaken(ctx, tx, apt.HospitalID, apt.UserID, newTime, apt.ID)
		if err != nil {
			return err
		}
		if taken {
			return repository.ErrSlotConflict
		}

		apt.AppointmentTime = newTime
		apt.UpdatedAt = time.Now()

		query := `
			UPDATE appointments
			SET appointment_time = $1, updated_at = $2
			WHERE id = $3
		`
		if _, err := tx.ExecContext(ctx, query, apt.AppointmentTime, apt.UpdatedAt, apt.ID); err != nil {
			return fmt.Errorf("failed to reschedule appointment: %w", err)
		}

		return insertOutboxEventTx(ctx, tx, model.EventAppointmentRescheduled, apt)
	})

	return translateConflict(err)
}

// Cancel marks a scheduled appointment cancelled. The row is kept; the slot
// is freed because every exclusivity query filters on status = 'scheduled'.
// A second cancel finds no scheduled row and fails the precondition.
func (r *appointmentRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	return r.WithSerializableTx(ctx, func(tx *sqlx.Tx) error {
		apt, err := getScheduledForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		apt.Status = model.AppointmentStatusCancelled
		apt.UpdatedAt = time.Now()

		query := `
			UPDATE appointments
			SET status = $1, updated_at = $2
			WHERE id = $3
		`
		if _, err := tx.ExecContext(ctx, query, apt.Status, apt.UpdatedAt, apt.ID); err != nil {
			return fmt.Errorf("failed to cancel appointment: %w", err)
		}

		return insertOutboxEventTx(ctx, tx, model.EventAppointmentCancelled, apt)
	})
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, user_id, hospital_id, appointment_time, status, notes,
			   created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var apt model.Appointment
	if err := r.GetDB().GetContext(ctx, &apt, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) ScheduledTimes(ctx context.Context, hospitalID uuid.UUID, date time.Time) ([]string, error) {
	query := `
		SELECT to_char(appointment_time, 'HH24:MI:SS')
		FROM appointments
		WHERE hospital_id = $1
		AND appointment_time::date = $2::date
		AND status = 'scheduled'
		ORDER BY appointment_time ASC
	`
	times := []string{}
	if err := r.GetDB().SelectContext(ctx, &times, query, hospitalID, date); err != nil {
		return nil, fmt.Errorf("failed to get scheduled times: %w", err)
	}
	return times, nil
}

func (r *appointmentRepository) Upcoming(ctx context.Context, userID uuid.UUID, now time.Time) (*model.UpcomingAppointment, error) {
	query := `
		SELECT a.appointment_time, a.status, h.name AS hospital_name, h.address
		FROM appointments a
		JOIN hospitals h ON a.hospital_id = h.id
		WHERE a.user_id = $1
		AND a.appointment_time > $2
		AND a.status = 'scheduled'
		ORDER BY a.appointment_time ASC
		LIMIT 1
	`
	var upcoming model.UpcomingAppointment
	if err := r.GetDB().GetContext(ctx, &upcoming, query, userID, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get upcoming appointment: %w", err)
	}
	return &upcoming, nil
}

func (r *appointmentRepository) FindID(ctx context.Context, userID uuid.UUID, at time.Time, hospitalID uuid.UUID) (uuid.UUID, error) {
	query := `
		SELECT id FROM appointments
		WHERE user_id = $1
		AND appointment_time = $2
		AND hospital_id = $3
		AND status = 'scheduled'
	`
	var id uuid.UUID
	if err := r.GetDB().GetContext(ctx, &id, query, userID, at, hospitalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, repository.ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to find appointment: %w", err)
	}
	return id, nil
}

// slotTaken checks both exclusivity invariants at once: the hospital slot
// and the user's own calendar, across all hospitals. Only scheduled rows
// occupy; cancelled and completed ones do not.
func slotTaken(ctx context.Context, tx *sqlx.Tx, hospitalID, userID uuid.UUID, at time.Time, excludeID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE status = 'scheduled'
			AND appointment_time = $1
			AND (hospital_id = $2 OR user_id = $3)
			AND id != $4
		)
	`
	var taken bool
	if err := tx.GetContext(ctx, &taken, query, at, hospitalID, userID, excludeID); err != nil {
		return false, fmt.Errorf("failed to check slot conflicts: %w", err)
	}
	return taken, nil
}

func getScheduledForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, user_id, hospital_id, appointment_time, status, notes,
			   created_at, updated_at
		FROM appointments
		WHERE id = $1 AND status = 'scheduled'
		FOR UPDATE
	`
	var apt model.Appointment
	if err := tx.GetContext(ctx, &apt, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotScheduled
		}
		return nil, fmt.Errorf("failed to lock appointment: %w", err)
	}
	return &apt, nil
}

func translateConflict(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return repository.ErrSlotConflict
	}
	return err
}
