package visit

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"
)

// DefaultRetentionPeriod defines how long cancelled visits are retained (1 year)
const DefaultRetentionPeriod = 365 * 24 * time.Hour

// CleanupService handles permanent deletion of expired cancelled visits
type CleanupService struct {
	db        *sql.DB
	retention time.Duration
}

// NewCleanupService creates a new cleanup service. The retention window
// can be overridden with VISIT_RETENTION (a Go duration string).
func NewCleanupService(db *sql.DB) *CleanupService {
	retention := DefaultRetentionPeriod
	if s := os.Getenv("VISIT_RETENTION"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			retention = d
		} else {
			log.Printf("Warning: invalid VISIT_RETENTION %q, using default", s)
		}
	}
	return &CleanupService{db: db, retention: retention}
}

// Retention returns the configured retention window.
func (s *CleanupService) Retention() time.Duration {
	return s.retention
}

// GetExpiredVisitsCount returns count of cancelled visits eligible for cleanup
func (s *CleanupService) GetExpiredVisitsCount(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.retention)

	var count int
	query := `
		SELECT COUNT(*)
		FROM clinic.visits
		WHERE status = 'CANCELLED'
		AND visit_time < $1
	`

	err := s.db.QueryRowContext(ctx, query, cutoff).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count expired visits: %w", err)
	}

	return count, nil
}

// CleanupExpiredVisits permanently deletes cancelled visits whose visit time
// is older than the retention window. Documents referencing a purged visit
// keep their content; the medical_documents FK clears the reference.
func (s *CleanupService) CleanupExpiredVisits(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.retention)
	log.Printf("Starting cleanup of cancelled visits before %s", cutoff.Format(time.RFC3339))

	deleteQuery := `
		DELETE FROM clinic.visits
		WHERE status = 'CANCELLED'
		AND visit_time < $1
	`
	result, err := s.db.ExecContext(ctx, deleteQuery, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired visits: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Printf("Permanently deleted %d cancelled visits", deleted)
	return int(deleted), nil
}
