package model

import "github.com/google/uuid"

// Hospital is immutable reference data seeded by administrators.
type Hospital struct {
	ID          uuid.UUID `json:"hospital_id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Address     string    `json:"address" db:"address"`
	PhoneNumber string    `json:"phone_number" db:"phone_number"`
}
