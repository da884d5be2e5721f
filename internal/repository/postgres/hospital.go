package postgres

import (
	"context"
	"fmt"

	"github.com/medtrack/patient-api/internal/model"
)

func (r *hospitalRepository) List(ctx context.Context) ([]*model.Hospital, error) {
	query := `
		SELECT id, name, address, phone_number
		FROM hospitals
		ORDER BY name ASC
	`
	var hospitals []*model.Hospital
	if err := r.GetDB().SelectContext(ctx, &hospitals, query); err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}
	return hospitals, nil
}
