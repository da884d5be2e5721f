package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/medtrack/patient-api/internal/model"
	"github.com/medtrack/patient-api/internal/repository"
	apperrors "github.com/medtrack/patient-api/pkg/errors"
	"github.com/medtrack/patient-api/pkg/metrics"
)

const (
	hospitalsCacheKey = "hospitals"
	hospitalsCacheTTL = 5 * time.Minute
)

// Service orchestrates slot availability and the appointment lifecycle. The
// database is the single serialization point; the service holds no mutable
// appointment state.
type Service struct {
	appointments repository.AppointmentRepository
	timeslots    repository.TimeslotRepository
	hospitals    repository.HospitalRepository
	cache        *cache.Cache
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewService(
	appointments repository.AppointmentRepository,
	timeslots repository.TimeslotRepository,
	hospitals repository.HospitalRepository,
	m *metrics.Metrics,
) *Service {
	return &Service{
		appointments: appointments,
		timeslots:    timeslots,
		hospitals:    hospitals,
		cache:        cache.New(hospitalsCacheTTL, 10*time.Minute),
		metrics:      m,
		now:          time.Now,
	}
}

// Hospitals returns the hospital catalog. Reference data, cached briefly.
func (s *Service) Hospitals(ctx context.Context) ([]*model.Hospital, error) {
	if cached, ok := s.cache.Get(hospitalsCacheKey); ok {
		return cached.([]*model.Hospital), nil
	}

	hospitals, err := s.hospitals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}

	s.cache.Set(hospitalsCacheKey, hospitals, cache.DefaultExpiration)
	return hospitals, nil
}

// AvailableSlots computes the open slots for one hospital and day: the slot
// catalog minus times occupied by scheduled appointments. Slots with only
// cancelled appointments stay available. An empty catalog and a fully booked
// day both yield an empty list.
func (s *Service) AvailableSlots(ctx context.Context, hospitalID uuid.UUID, date string) ([]model.AvailableTime, error) {
	day, err := time.ParseInLocation(model.DateWireFormat, date, time.Local)
	if err != nil {
		return nil, apperrors.NewBadRequest("invalid date format", err)
	}

	catalog, err := s.timeslots.ListTimes(ctx, hospitalID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load slot catalog: %w", err)
	}
	if len(catalog) == 0 {
		return []model.AvailableTime{}, nil
	}

	taken, err := s.appointments.ScheduledTimes(ctx, hospitalID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load scheduled times: %w", err)
	}

	occupied := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		occupied[t] = struct{}{}
	}

	available := make([]model.AvailableTime, 0, len(catalog))
	for _, t := range catalog {
		if _, ok := occupied[t]; ok {
			continue
		}
		available = append(available, model.AvailableTime{TimeslotTime: t})
	}
	return available, nil
}

// Book creates a scheduled appointment. The conflict check and insert run in
// one serializable transaction in the repository; the service validates the
// instant and translates conflicts for the API layer.
func (s *Service) Book(ctx context.Context, userID, hospitalID uuid.UUID, appointmentTime string) (uuid.UUID, error) {
	at, err := s.parseFutureTime(appointmentTime)
	if err != nil {
		return uuid.Nil, err
	}

	apt := &model.Appointment{
		UserID:          userID,
		HospitalID:      hospitalID,
		AppointmentTime: at,
	}

	timer := prometheus.NewTimer(s.metrics.BookingLatency)
	err = s.appointments.Book(ctx, apt)
	timer.ObserveDuration()

	if err != nil {
		if errors.Is(err, repository.ErrSlotConflict) {
			s.metrics.SlotConflictsTotal.Inc()
			return uuid.Nil, apperrors.NewConflict("slot is already booked", err)
		}
		return uuid.Nil, fmt.Errorf("failed to book appointment: %w", err)
	}

	s.metrics.BookingsTotal.Inc()
	return apt.ID, nil
}

// Reschedule moves a scheduled appointment to a new future time, running the
// same conflict check as Book inside the same transaction.
func (s *Service) Reschedule(ctx context.Context, appointmentID uuid.UUID, newTime string) error {
	at, err := s.parseFutureTime(newTime)
	if err != nil {
		return err
	}

	if err := s.appointments.Reschedule(ctx, appointmentID, at); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotScheduled):
			return apperrors.NewNotFound("scheduled appointment", err)
		case errors.Is(err, repository.ErrSlotConflict):
			s.metrics.SlotConflictsTotal.Inc()
			return apperrors.NewConflict("slot is already booked", err)
		}
		return fmt.Errorf("failed to reschedule appointment: %w", err)
	}

	s.metrics.ReschedulesTotal.Inc()
	return nil
}

// Cancel marks a scheduled appointment cancelled. Cancellation is one-way
// and the second attempt fails the precondition without touching the ledger.
func (s *Service) Cancel(ctx context.Context, appointmentID uuid.UUID) error {
	if err := s.appointments.Cancel(ctx, appointmentID); err != nil {
		if errors.Is(err, repository.ErrNotScheduled) {
			return apperrors.NewNotFound("scheduled appointment", err)
		}
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}

	s.metrics.CancellationsTotal.Inc()
	return nil
}

// Upcoming returns the user's next scheduled appointment, or nil when there
// is none.
func (s *Service) Upcoming(ctx context.Context, userID uuid.UUID) (*model.UpcomingAppointment, error) {
	upcoming, err := s.appointments.Upcoming(ctx, userID, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get upcoming appointment: %w", err)
	}
	return upcoming, nil
}

// FindAppointmentID resolves the id of a scheduled appointment from the
// (user, time, hospital) triple the frontend knows.
func (s *Service) FindAppointmentID(ctx context.Context, userID uuid.UUID, appointmentTime string, hospitalID uuid.UUID) (uuid.UUID, error) {
	at, err := time.ParseInLocation(model.DateTimeWireFormat, appointmentTime, time.Local)
	if err != nil {
		return uuid.Nil, apperrors.NewBadRequest("invalid appointment time format", err)
	}

	id, err := s.appointments.FindID(ctx, userID, at, hospitalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, apperrors.NewNotFound("appointment", err)
		}
		return uuid.Nil, fmt.Errorf("failed to find appointment: %w", err)
	}
	return id, nil
}

func (s *Service) parseFutureTime(raw string) (time.Time, error) {
	at, err := time.ParseInLocation(model.DateTimeWireFormat, raw, time.Local)
	if err != nil {
		return time.Time{}, apperrors.NewBadRequest("invalid appointment time format", err)
	}
	if !at.After(s.now()) {
		return time.Time{}, apperrors.NewUnprocessable("appointment time must be in the future", nil)
	}
	return at, nil
}
