package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/medtrack/patient-api/internal/repository"
)

type userRepository struct {
	BaseRepository
}

type hospitalRepository struct {
	BaseRepository
}

type timeslotRepository struct {
	BaseRepository
}

type appointmentRepository struct {
	BaseRepository
}

type medicalRepository struct {
	BaseRepository
}

type outboxRepository struct {
	BaseRepository
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{NewBaseRepository(db)}
}

func NewHospitalRepository(db *sqlx.DB) repository.HospitalRepository {
	return &hospitalRepository{NewBaseRepository(db)}
}

func NewTimeslotRepository(db *sqlx.DB) repository.TimeslotRepository {
	return &timeslotRepository{NewBaseRepository(db)}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{NewBaseRepository(db)}
}

func NewMedicalRepository(db *sqlx.DB) repository.MedicalRepository {
	return &medicalRepository{NewBaseRepository(db)}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{NewBaseRepository(db)}
}
