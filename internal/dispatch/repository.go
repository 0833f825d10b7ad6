package dispatch

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/balaji0322/smart-ai-triage/pkg/database"
	"github.com/balaji0322/smart-ai-triage/pkg/logger"
	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

// TriageRepository implements triage record persistence on PostgreSQL
type TriageRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewTriageRepository creates a new triage record repository
func NewTriageRepository(db *database.DB, log *logger.Logger) *TriageRepository {
	return &TriageRepository{
		db:     db,
		logger: log,
	}
}

// CreateRecord persists a finished triage analysis
func (r *TriageRepository) CreateRecord(ctx context.Context, record *types.TriageRecord) error {
	if record == nil {
		return types.NewValidationError(types.ErrCodeInvalidInput, "triage record is required", nil)
	}
	if record.PatientID == "" {
		return types.NewValidationError(types.ErrCodeInvalidInput, "patient id is required", nil)
	}

	query := `
		INSERT INTO triage_records (id, patient_id, symptoms, risk_level,
			confidence, priority_score, status, doctor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.PatientID,
		record.Symptoms,
		record.RiskLevel,
		record.Confidence,
		record.PriorityScore,
		record.Status,
		record.DoctorID,
		record.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return types.NewConflictError(types.ErrCodeConflict, "triage record already exists: "+record.ID)
		}
		return fmt.Errorf("failed to create triage record: %w", err)
	}

	r.logger.WithPatientID(record.PatientID).Info("Triage record created")
	return nil
}

// HistoryByPatient returns a patient's triage records, newest first
func (r *TriageRepository) HistoryByPatient(ctx context.Context, patientID string) ([]*types.TriageRecord, error) {
	if patientID == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "patient id is required", nil)
	}

	query := `
		SELECT id, patient_id, symptoms, risk_level, confidence,
			priority_score, status, COALESCE(doctor_id, ''), created_at
		FROM triage_records
		WHERE patient_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query triage history: %w", err)
	}
	defer rows.Close()

	return scanTriageRecords(rows)
}

// PendingByPriority returns unassigned records ordered most urgent first.
// Priority scores run low-to-high with urgency, so P1 cases sort ahead of
// P3; inside a score the most recent record comes first.
func (r *TriageRepository) PendingByPriority(ctx context.Context, limit int) ([]*types.TriageRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, patient_id, symptoms, risk_level, confidence,
			priority_score, status, COALESCE(doctor_id, ''), created_at
		FROM triage_records
		WHERE status = 'pending'
		ORDER BY priority_score ASC, created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending triages: %w", err)
	}
	defer rows.Close()

	return scanTriageRecords(rows)
}

// UpdateStatus transitions a record and optionally assigns a doctor
func (r *TriageRepository) UpdateStatus(ctx context.Context, recordID, status, doctorID string) error {
	if recordID == "" {
		return types.NewValidationError(types.ErrCodeInvalidInput, "record id is required", nil)
	}
	if status == "" {
		return types.NewValidationError(types.ErrCodeInvalidInput, "status is required", nil)
	}

	query := `
		UPDATE triage_records
		SET status = $2, doctor_id = COALESCE(NULLIF($3, ''), doctor_id)
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, recordID, status, doctorID)
	if err != nil {
		return fmt.Errorf("failed to update triage record status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return types.NewNotFoundError(types.ErrCodeNotFound, "triage record not found: "+recordID)
	}

	return nil
}

// Analytics aggregates record counts for the admin console. The since
// parameter bounds the "recent" window, typically now minus 24 hours.
func (r *TriageRepository) Analytics(ctx context.Context, since time.Time) (*types.TriageAnalytics, error) {
	analytics := &types.TriageAnalytics{
		RiskDistribution: make(map[types.RiskLevel]int),
	}

	query := `
		SELECT risk_level, COUNT(*)
		FROM triage_records
		GROUP BY risk_level`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk distribution: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var level types.RiskLevel
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, fmt.Errorf("failed to scan risk distribution: %w", err)
		}
		analytics.RiskDistribution[level] = count
		analytics.TotalTriages += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read risk distribution: %w", err)
	}

	recentQuery := `SELECT COUNT(*) FROM triage_records WHERE created_at >= $1`
	if err := r.db.QueryRowContext(ctx, recentQuery, since).Scan(&analytics.Last24Hours); err != nil {
		return nil, fmt.Errorf("failed to query recent triage count: %w", err)
	}

	return analytics, nil
}

func scanTriageRecords(rows *sql.Rows) ([]*types.TriageRecord, error) {
	records := make([]*types.TriageRecord, 0)
	for rows.Next() {
		var record types.TriageRecord
		err := rows.Scan(
			&record.ID,
			&record.PatientID,
			&record.Symptoms,
			&record.RiskLevel,
			&record.Confidence,
			&record.PriorityScore,
			&record.Status,
			&record.DoctorID,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan triage record: %w", err)
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read triage records: %w", err)
	}
	return records, nil
}
