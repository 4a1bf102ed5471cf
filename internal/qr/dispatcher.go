package qr

import (
	"context"
	"log/slog"
	"time"

	"qrpass/internal/domain"
)

// Dispatcher applies a validated payload's effect to the datastore
// collaborator and consumes the payload.
//
// Consumption is at-most-once: the content hash is claimed in the replay
// store before the downstream write — a unique-constraint insert, so two
// concurrent scans of the same code produce exactly one success — and the
// claim is released if the downstream write fails, keeping the scan
// retryable until it has actually taken effect.
type Dispatcher struct {
	store  CheckinStore
	replay ReplayStore
	logger *slog.Logger
}

func NewDispatcher(store CheckinStore, replay ReplayStore, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		store:  store,
		replay: replay,
		logger: logger,
	}
}

// Dispatch routes the payload to its downstream effect. The payload must
// already have passed the Validator; that is an invariant of this API and
// is not re-checked here.
func (d *Dispatcher) Dispatch(ctx context.Context, p *domain.Payload, employeeID string) (*domain.Outcome, error) {
	if p.Type == domain.TypeEmployeeCheckin && employeeID != p.SubjectID {
		return nil, domain.NewSubjectMismatchError(p.SubjectID, employeeID)
	}

	hash := p.ContentHash()
	now := time.Now()

	if err := d.replay.Claim(ctx, hash, now); err != nil {
		if _, ok := domain.AsDomainError(err); ok {
			return nil, err
		}
		return nil, domain.NewUpstreamFailureError(err)
	}

	outcome, err := d.apply(ctx, p, employeeID, now)
	if err != nil {
		// The effect never happened, so the code must stay redeemable. If
		// the release itself fails the claim sticks around until the sweep
		// purges it; we log and still report the upstream failure.
		if relErr := d.replay.Release(ctx, hash); relErr != nil {
			d.logger.Error("failed to release replay claim",
				"content_hash", hash,
				"error", relErr,
			)
		}
		return nil, domain.NewUpstreamFailureError(err)
	}

	d.logger.Info("payload dispatched",
		"type", string(p.Type),
		"subject_id", p.SubjectID,
		"employee_id", employeeID,
		"record_id", outcome.RecordID,
	)

	return outcome, nil
}

func (d *Dispatcher) apply(ctx context.Context, p *domain.Payload, employeeID string, at time.Time) (*domain.Outcome, error) {
	switch p.Type {
	case domain.TypeEmployeeCheckin:
		return d.store.RecordAttendance(ctx, p.SubjectID, at)
	case domain.TypeLocationCheckin:
		return d.store.RecordLocationVisit(ctx, employeeID, p.SubjectID, at)
	case domain.TypeDocumentAccess:
		return d.store.GrantDocumentAccess(ctx, employeeID, p.SubjectID, p.AccessLevel, at)
	default:
		// Unreachable for validated payloads; kept exhaustive so a fourth
		// payload type cannot silently fall through.
		return nil, domain.NewMalformedPayloadError("unhandled payload type")
	}
}
