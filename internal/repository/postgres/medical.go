package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/patient-api/internal/model"
	"github.com/medtrack/patient-api/internal/repository"
)

func (r *medicalRepository) PriorAppointments(ctx context.Context, userID uuid.UUID) ([]*model.PriorAppointment, error) {
	query := `
		SELECT appointment_time, notes
		FROM appointments
		WHERE user_id = $1 AND status = 'completed'
		ORDER BY appointment_time DESC
	`
	appointments := []*model.PriorAppointment{}
	if err := r.GetDB().SelectContext(ctx, &appointments, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get prior appointments: %w", err)
	}
	return appointments, nil
}

func (r *medicalRepository) Conditions(ctx context.Context, userID uuid.UUID) ([]*model.Condition, error) {
	query := `
		SELECT c.condition_name, c.condition_description, c.diagnosed_date
		FROM conditions c
		JOIN medical_history mh ON c.history_id = mh.id
		WHERE mh.user_id = $1
		ORDER BY c.diagnosed_date DESC
	`
	conditions := []*model.Condition{}
	if err := r.GetDB().SelectContext(ctx, &conditions, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get conditions: %w", err)
	}
	return conditions, nil
}

func (r *medicalRepository) Medications(ctx context.Context, userID uuid.UUID) ([]*model.HistoryMedication, error) {
	query := `
		SELECT m.medication_name, m.dosage, m.start_date, m.end_date
		FROM medications m
		JOIN medical_history mh ON m.history_id = mh.id
		WHERE mh.user_id = $1
		ORDER BY m.start_date DESC
	`
	medications := []*model.HistoryMedication{}
	if err := r.GetDB().SelectContext(ctx, &medications, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get medications: %w", err)
	}
	return medications, nil
}

func (r *medicalRepository) AddRecord(ctx context.Context, record *model.MedicalRecord) error {
	query := `
		INSERT INTO medical_records (id, user_id, details, record_date, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	record.ID = uuid.New()
	if _, err := r.GetDB().ExecContext(ctx, query,
		record.ID,
		record.UserID,
		record.Details,
		record.RecordDate,
		time.Now(),
	); err != nil {
		return fmt.Errorf("failed to add medical record: %w", err)
	}
	return nil
}

func (r *medicalRepository) DeleteRecord(ctx context.Context, recordID uuid.UUID) error {
	query := `DELETE FROM medical_records WHERE id = $1`
	result, err := r.GetDB().ExecContext(ctx, query, recordID)
	if err != nil {
		return fmt.Errorf("failed to delete medical record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
