package qr_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"qrpass/internal/domain"
)

// mockCheckinStore counts writes and lets individual tests override any
// operation via function fields.
type mockCheckinStore struct {
	mu sync.Mutex

	attendance int
	visits     int
	grants     int

	recordAttendanceFn    func(ctx context.Context, employeeID string, at time.Time) (*domain.Outcome, error)
	recordLocationVisitFn func(ctx context.Context, employeeID, locationID string, at time.Time) (*domain.Outcome, error)
	grantDocumentAccessFn func(ctx context.Context, employeeID, documentID, accessLevel string, at time.Time) (*domain.Outcome, error)
}

func newMockCheckinStore() *mockCheckinStore {
	return &mockCheckinStore{}
}

func (m *mockCheckinStore) RecordAttendance(ctx context.Context, employeeID string, at time.Time) (*domain.Outcome, error) {
	if m.recordAttendanceFn != nil {
		return m.recordAttendanceFn(ctx, employeeID, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attendance++
	return &domain.Outcome{
		RecordID:   uuid.New(),
		Kind:       domain.OutcomeAttendanceCheckin,
		EmployeeID: employeeID,
		SubjectID:  employeeID,
		RecordedAt: at,
	}, nil
}

func (m *mockCheckinStore) RecordLocationVisit(ctx context.Context, employeeID, locationID string, at time.Time) (*domain.Outcome, error) {
	if m.recordLocationVisitFn != nil {
		return m.recordLocationVisitFn(ctx, employeeID, locationID, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visits++
	return &domain.Outcome{
		RecordID:   uuid.New(),
		Kind:       domain.OutcomeLocationCheckin,
		EmployeeID: employeeID,
		SubjectID:  locationID,
		RecordedAt: at,
	}, nil
}

func (m *mockCheckinStore) GrantDocumentAccess(ctx context.Context, employeeID, documentID, accessLevel string, at time.Time) (*domain.Outcome, error) {
	if m.grantDocumentAccessFn != nil {
		return m.grantDocumentAccessFn(ctx, employeeID, documentID, accessLevel, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grants++
	return &domain.Outcome{
		RecordID:    uuid.New(),
		Kind:        domain.OutcomeAccessGrant,
		EmployeeID:  employeeID,
		SubjectID:   documentID,
		AccessLevel: accessLevel,
		RecordedAt:  at,
	}, nil
}

func (m *mockCheckinStore) attendanceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attendance
}

func (m *mockCheckinStore) visitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visits
}
