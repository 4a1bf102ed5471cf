package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"qrpass/internal/domain"
)

// CheckinStore writes the domain records a dispatched payload produces.
// Row-level policies live in the database itself; this adapter only issues
// typed inserts.
type CheckinStore struct {
	db *DB
}

func NewCheckinStore(db *DB) *CheckinStore {
	return &CheckinStore{db: db}
}

func (s *CheckinStore) RecordAttendance(ctx context.Context, employeeID string, at time.Time) (*domain.Outcome, error) {
	query := `
		INSERT INTO attendance_records (id, employee_id, checked_in_at)
		VALUES ($1, $2, $3)
	`

	id := uuid.New()
	_, err := s.db.Pool.Exec(ctx, query, id, employeeID, at)
	if err != nil {
		return nil, fmt.Errorf("failed to record attendance: %w", err)
	}

	return &domain.Outcome{
		RecordID:   id,
		Kind:       domain.OutcomeAttendanceCheckin,
		EmployeeID: employeeID,
		SubjectID:  employeeID,
		RecordedAt: at,
	}, nil
}

func (s *CheckinStore) RecordLocationVisit(ctx context.Context, employeeID, locationID string, at time.Time) (*domain.Outcome, error) {
	query := `
		INSERT INTO location_visits (id, employee_id, location_id, checked_in_at)
		VALUES ($1, $2, $3, $4)
	`

	id := uuid.New()
	_, err := s.db.Pool.Exec(ctx, query, id, employeeID, locationID, at)
	if err != nil {
		return nil, fmt.Errorf("failed to record location visit: %w", err)
	}

	return &domain.Outcome{
		RecordID:   id,
		Kind:       domain.OutcomeLocationCheckin,
		EmployeeID: employeeID,
		SubjectID:  locationID,
		RecordedAt: at,
	}, nil
}

func (s *CheckinStore) GrantDocumentAccess(ctx context.Context, employeeID, documentID, accessLevel string, at time.Time) (*domain.Outcome, error) {
	if accessLevel == "" {
		accessLevel = "read"
	}

	query := `
		INSERT INTO access_grants (id, employee_id, document_id, access_level, granted_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	id := uuid.New()
	_, err := s.db.Pool.Exec(ctx, query, id, employeeID, documentID, accessLevel, at)
	if err != nil {
		return nil, fmt.Errorf("failed to grant document access: %w", err)
	}

	return &domain.Outcome{
		RecordID:    id,
		Kind:        domain.OutcomeAccessGrant,
		EmployeeID:  employeeID,
		SubjectID:   documentID,
		AccessLevel: accessLevel,
		RecordedAt:  at,
	}, nil
}
