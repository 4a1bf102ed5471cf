package domain

import (
	"time"

	"github.com/google/uuid"
)

// OutcomeKind names the downstream record a dispatched payload produced.
type OutcomeKind string

const (
	OutcomeAttendanceCheckin OutcomeKind = "ATTENDANCE_CHECKIN"
	OutcomeLocationCheckin   OutcomeKind = "LOCATION_CHECKIN"
	OutcomeAccessGrant       OutcomeKind = "ACCESS_GRANT"
)

// Outcome describes the durable record created by dispatching a validated
// payload.
type Outcome struct {
	RecordID    uuid.UUID
	Kind        OutcomeKind
	EmployeeID  string
	SubjectID   string
	AccessLevel string
	RecordedAt  time.Time
}
