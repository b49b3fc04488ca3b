package repository

import (
	"context"
	"database/sql"

	"chargehub/internal/models"
)

// IncidentRepository records charger fault reports.
type IncidentRepository struct {
	db *sql.DB
}

// NewIncidentRepository returns repository.
func NewIncidentRepository(db *sql.DB) *IncidentRepository {
	return &IncidentRepository{db: db}
}

// Create inserts an incident report.
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	const query = `
		INSERT INTO incidents (charger_id, reported_by, description, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		incident.ChargerID,
		incident.ReportedBy,
		incident.Description,
	).Scan(&incident.ID, &incident.CreatedAt)
}
