package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"phishshield/internal/domain/models"
)

// ThreatLogRepository persists scan outcomes to PostgreSQL. It satisfies the
// services.ThreatLog interface.
type ThreatLogRepository struct {
	pool *pgxpool.Pool
}

// NewThreatLogRepository creates a new threat log repository
func NewThreatLogRepository(pool *pgxpool.Pool) *ThreatLogRepository {
	return &ThreatLogRepository{pool: pool}
}

// EnsureSchema creates the threat_log table if it does not exist.
func (r *ThreatLogRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS threat_log (
			id          UUID PRIMARY KEY,
			scan_type   TEXT NOT NULL,
			target      TEXT NOT NULL,
			risk_score  DOUBLE PRECISION NOT NULL,
			risk_level  TEXT NOT NULL,
			is_phishing BOOLEAN NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create threat_log table: %w", err)
	}
	return nil
}

// Append inserts a new threat log entry
func (r *ThreatLogRepository) Append(ctx context.Context, entry models.ThreatLogEntry) error {
	query := `
		INSERT INTO threat_log (id, scan_type, target, risk_score, risk_level, is_phishing, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		entry.ID, entry.Type, entry.Target,
		entry.RiskScore, entry.RiskLevel, entry.IsPhishing, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert threat log entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first
func (r *ThreatLogRepository) Recent(ctx context.Context, limit int) ([]models.ThreatLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, scan_type, target, risk_score, risk_level, is_phishing, created_at
		FROM threat_log
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query threat log: %w", err)
	}
	defer rows.Close()

	entries := make([]models.ThreatLogEntry, 0, limit)
	for rows.Next() {
		var e models.ThreatLogEntry
		if err := rows.Scan(&e.ID, &e.Type, &e.Target, &e.RiskScore, &e.RiskLevel, &e.IsPhishing, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan threat log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats aggregates threat log counters
func (r *ThreatLogRepository) Stats(ctx context.Context) (models.ThreatStats, error) {
	stats := models.ThreatStats{ByType: map[models.ScanType]int{}}

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_phishing)
		FROM threat_log`).Scan(&stats.TotalScans, &stats.PhishingDetected)
	if err != nil {
		return stats, fmt.Errorf("failed to query threat log stats: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT scan_type, COUNT(*) FROM threat_log GROUP BY scan_type`)
	if err != nil {
		return stats, fmt.Errorf("failed to query threat log type counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var scanType models.ScanType
		var count int
		if err := rows.Scan(&scanType, &count); err != nil {
			return stats, fmt.Errorf("failed to scan type count: %w", err)
		}
		stats.ByType[scanType] = count
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	stats.SafeCount = stats.TotalScans - stats.PhishingDetected
	if stats.TotalScans > 0 {
		rate := float64(stats.PhishingDetected) / float64(stats.TotalScans) * 100.0
		stats.DetectionRate = float64(int(rate*10)) / 10.0
	}
	return stats, nil
}
