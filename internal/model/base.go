package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Wire formats shared with the frontend. Datetimes are naive; caller and
// server agree on a timezone out of band.
const (
	DateTimeWireFormat = "2006-01-02 15:04:05"
	DateWireFormat     = "2006-01-02"
	TimeWireFormat     = "15:04:05"
)

// JSONMap represents a generic JSON object
type JSONMap map[string]interface{}
