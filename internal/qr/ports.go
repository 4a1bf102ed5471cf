package qr

import (
	"context"
	"time"

	"qrpass/internal/domain"
)

// ReplayStore tracks consumed payloads by content hash. It is owned
// exclusively by the validator/dispatcher boundary; nothing else reads or
// writes it.
//
// Claim must be an atomic test-and-set: under concurrent calls with the
// same hash exactly one caller wins and every other caller gets an error
// satisfying errors.Is(err, domain.ErrReplayDetected). A plain check-then-
// insert is not an acceptable implementation.
type ReplayStore interface {
	// Seen reports whether the hash has an unreleased claim.
	Seen(ctx context.Context, contentHash string) (bool, error)

	// Claim records the hash, failing with domain.ErrReplayDetected when it
	// is already present.
	Claim(ctx context.Context, contentHash string, at time.Time) error

	// Release removes a claim so the payload becomes redeemable again. Used
	// only when the downstream write failed after a successful Claim.
	Release(ctx context.Context, contentHash string) error

	// PurgeOlderThan drops claims recorded before the cutoff and returns
	// how many were removed.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// CheckinStore is the port to the HRMS datastore collaborator. It accepts
// typed insert requests and enforces its own row-level policies
// independently of this module.
type CheckinStore interface {
	RecordAttendance(ctx context.Context, employeeID string, at time.Time) (*domain.Outcome, error)
	RecordLocationVisit(ctx context.Context, employeeID, locationID string, at time.Time) (*domain.Outcome, error)
	GrantDocumentAccess(ctx context.Context, employeeID, documentID, accessLevel string, at time.Time) (*domain.Outcome, error)
}
