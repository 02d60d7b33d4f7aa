package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/roomcare/housekeeping-backend/internal/repository"
	"github.com/roomcare/housekeeping-backend/internal/scheduling"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = repository.ErrNotFound

// notFound maps sql.ErrNoRows to ErrNotFound and wraps anything else
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// requireAffected turns a zero-row update into ErrNotFound
func requireAffected(result sql.Result, what string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for %s: %w", what, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

func normalizeFacility(facility string) string {
	return strings.ToLower(strings.TrimSpace(facility))
}

// dateArg renders a calendar day for DATE columns without session time zone effects
func dateArg(date time.Time) string {
	return date.Format(scheduling.DateLayout)
}

func uuidArray(ids []uuid.UUID) interface{} {
	values := make([]string, len(ids))
	for i, id := range ids {
		values[i] = id.String()
	}
	return pq.Array(values)
}

type countRow struct {
	ID    uuid.UUID `db:"id"`
	Count int       `db:"count"`
}

func countsByID(rows []countRow) map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int, len(rows))
	for _, r := range rows {
		counts[r.ID] = r.Count
	}
	return counts
}
