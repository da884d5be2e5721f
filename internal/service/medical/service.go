package medical

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/patient-api/internal/model"
	"github.com/medtrack/patient-api/internal/repository"
	apperrors "github.com/medtrack/patient-api/pkg/errors"
)

// Service serves read-mostly medical history: completed visits, diagnosed
// conditions and medications, plus user-added free-form records.
type Service struct {
	records repository.MedicalRepository
}

func NewService(records repository.MedicalRepository) *Service {
	return &Service{records: records}
}

func (s *Service) PriorAppointments(ctx context.Context, userID uuid.UUID) ([]*model.PriorAppointment, error) {
	appointments, err := s.records.PriorAppointments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get prior appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) Conditions(ctx context.Context, userID uuid.UUID) ([]*model.Condition, error) {
	conditions, err := s.records.Conditions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get conditions: %w", err)
	}
	return conditions, nil
}

func (s *Service) Medications(ctx context.Context, userID uuid.UUID) ([]*model.HistoryMedication, error) {
	medications, err := s.records.Medications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get medications: %w", err)
	}
	return medications, nil
}

func (s *Service) AddRecord(ctx context.Context, userID uuid.UUID, req *model.AddMedicalRecordRequest) (*model.MedicalRecord, error) {
	date, err := time.ParseInLocation(model.DateWireFormat, req.Date, time.Local)
	if err != nil {
		return nil, apperrors.NewBadRequest("invalid date format", err)
	}

	record := &model.MedicalRecord{
		UserID:     userID,
		Details:    req.Details,
		RecordDate: date,
	}
	if err := s.records.AddRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to add medical record: %w", err)
	}
	return record, nil
}

func (s *Service) DeleteRecord(ctx context.Context, recordID uuid.UUID) error {
	if err := s.records.DeleteRecord(ctx, recordID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("medical record", err)
		}
		return fmt.Errorf("failed to delete medical record: %w", err)
	}
	return nil
}
