package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (r *timeslotRepository) ListTimes(ctx context.Context, hospitalID uuid.UUID, date time.Time) ([]string, error) {
	query := `
		SELECT to_char(timeslot_time, 'HH24:MI:SS')
		FROM timeslots
		WHERE hospital_id = $1
		AND timeslot_date = $2::date
		ORDER BY timeslot_time ASC
	`
	times := []string{}
	if err := r.GetDB().SelectContext(ctx, &times, query, hospitalID, date); err != nil {
		return nil, fmt.Errorf("failed to list timeslots: %w", err)
	}
	return times, nil
}
