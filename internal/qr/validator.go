package qr

import (
	"context"
	"fmt"
	"time"

	"qrpass/internal/domain"
)

// Validator runs scanned payloads through the fixed check pipeline:
// parse, shape, expiry, signature, replay. The order is deliberate — a
// malformed payload never costs a MAC computation, and expiry is settled
// before the cryptographic comparison. Each step fails with its own error
// kind so callers can show a specific message.
type Validator struct {
	signer           *Signer
	replay           ReplayStore
	requireSignature bool
}

// NewValidator creates a Validator. When requireSignature is set every
// payload must carry a valid signature; otherwise a signature is verified
// only when present. signer may be nil only if requireSignature is false.
func NewValidator(signer *Signer, replay ReplayStore, requireSignature bool) *Validator {
	return &Validator{
		signer:           signer,
		replay:           replay,
		requireSignature: requireSignature,
	}
}

// Validate checks raw scanned data and returns the typed payload. A
// payload rejected here never reaches the dispatcher.
func (v *Validator) Validate(ctx context.Context, raw []byte) (*domain.Payload, error) {
	p, err := domain.ParsePayload(raw)
	if err != nil {
		return nil, err
	}

	if p.ExpiredAt(time.Now()) {
		return nil, domain.NewExpiredError(p.ExpiresAt)
	}

	if err := v.checkSignature(p); err != nil {
		return nil, err
	}

	seen, err := v.replay.Seen(ctx, p.ContentHash())
	if err != nil {
		return nil, domain.NewUpstreamFailureError(fmt.Errorf("replay lookup: %w", err))
	}
	if seen {
		return nil, domain.NewReplayDetectedError()
	}

	return p, nil
}

func (v *Validator) checkSignature(p *domain.Payload) error {
	if p.Signature == "" {
		if v.requireSignature {
			return domain.NewSignatureInvalidError("signature required but absent")
		}
		return nil
	}

	if v.signer == nil {
		// An offered signature we cannot verify is treated as invalid
		// rather than ignored.
		return domain.NewSignatureInvalidError("no verification key configured")
	}
	if !v.signer.Verify(p) {
		return domain.NewSignatureInvalidError("signature mismatch")
	}
	return nil
}
