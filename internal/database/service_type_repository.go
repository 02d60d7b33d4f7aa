package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/roomcare/housekeeping-backend/internal/models"
)

// ServiceTypeRepository handles service type lookups
type ServiceTypeRepository struct {
	db sqlx.ExtContext
}

// NewServiceTypeRepository creates a new service type repository
func NewServiceTypeRepository(db sqlx.ExtContext) *ServiceTypeRepository {
	return &ServiceTypeRepository{db: db}
}

const serviceTypeColumns = `id, facility, name, duration_minutes, created_at`

// GetByID retrieves a service type by ID
func (r *ServiceTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceType, error) {
	var st models.ServiceType
	query := `SELECT ` + serviceTypeColumns + ` FROM service_types WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &st, query, id); err != nil {
		return nil, notFound(err, "service type")
	}
	return &st, nil
}

// GetByName finds a facility's service type by name, case-insensitively
func (r *ServiceTypeRepository) GetByName(ctx context.Context, facility, name string) (*models.ServiceType, error) {
	var st models.ServiceType
	query := `
		SELECT ` + serviceTypeColumns + `
		FROM service_types
		WHERE lower(facility) = $1 AND lower(name) = lower($2)
		LIMIT 1
	`
	if err := sqlx.GetContext(ctx, r.db, &st, query, normalizeFacility(facility), name); err != nil {
		return nil, notFound(err, "service type")
	}
	return &st, nil
}

// ListByFacility lists all service types of a facility ordered by name
func (r *ServiceTypeRepository) ListByFacility(ctx context.Context, facility string) ([]models.ServiceType, error) {
	var types []models.ServiceType
	query := `
		SELECT ` + serviceTypeColumns + `
		FROM service_types
		WHERE lower(facility) = $1
		ORDER BY name
	`
	if err := sqlx.SelectContext(ctx, r.db, &types, query, normalizeFacility(facility)); err != nil {
		return nil, fmt.Errorf("failed to list service types: %w", err)
	}
	return types, nil
}
