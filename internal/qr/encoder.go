package qr

import (
	"fmt"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"qrpass/internal/domain"
)

const (
	// DefaultCheckinTTL bounds check-in codes; attendance codes are cycled
	// daily so a generous day-long window is enough.
	DefaultCheckinTTL = 24 * time.Hour

	// DefaultDocumentTTL bounds document-access codes.
	DefaultDocumentTTL = 7 * 24 * time.Hour

	imageSize = 256
)

// EncodeOptions tunes a single Encode call.
type EncodeOptions struct {
	// ExpiresIn overrides the per-type default TTL. nil keeps the default;
	// a pointer to zero produces a payload that never expires.
	ExpiresIn *time.Duration

	// AccessLevel is carried only by document-access payloads.
	AccessLevel string
}

// Encoder builds signed payloads and renders them as QR images.
type Encoder struct {
	signer      *Signer
	checkinTTL  time.Duration
	documentTTL time.Duration
}

// NewEncoder creates an Encoder. A nil signer produces unsigned payloads;
// deployments that require signatures must pass one. Non-positive TTLs
// fall back to the package defaults.
func NewEncoder(signer *Signer, checkinTTL, documentTTL time.Duration) *Encoder {
	if checkinTTL <= 0 {
		checkinTTL = DefaultCheckinTTL
	}
	if documentTTL <= 0 {
		documentTTL = DefaultDocumentTTL
	}
	return &Encoder{
		signer:      signer,
		checkinTTL:  checkinTTL,
		documentTTL: documentTTL,
	}
}

// Encode stamps and signs a payload for the given type and subject.
// Construction is pure: no I/O beyond reading the clock.
func (e *Encoder) Encode(typ domain.PayloadType, subjectID string, opts EncodeOptions) (*domain.Payload, error) {
	if !domain.KnownType(typ) {
		return nil, domain.NewInvalidArgumentError(fmt.Sprintf("unknown payload type %q", typ))
	}
	if subjectID == "" {
		return nil, domain.NewInvalidArgumentError("subject id is required")
	}
	if opts.AccessLevel != "" && typ != domain.TypeDocumentAccess {
		return nil, domain.NewInvalidArgumentError("access level is only valid for document access payloads")
	}

	ttl := e.checkinTTL
	if typ == domain.TypeDocumentAccess {
		ttl = e.documentTTL
	}
	if opts.ExpiresIn != nil {
		if *opts.ExpiresIn < 0 {
			return nil, domain.NewInvalidArgumentError("expiry must not be negative")
		}
		ttl = *opts.ExpiresIn
	}

	now := time.Now()
	p := &domain.Payload{
		Type:        typ,
		SubjectID:   subjectID,
		IssuedAt:    now.UnixMilli(),
		AccessLevel: opts.AccessLevel,
	}
	if ttl > 0 {
		p.ExpiresAt = now.Add(ttl).UnixMilli()
	}

	if e.signer != nil {
		p.Signature = e.signer.Sign(p)
	}

	return p, nil
}

// EncodeImage builds a payload and renders its JSON envelope as a PNG QR
// image.
func (e *Encoder) EncodeImage(typ domain.PayloadType, subjectID string, opts EncodeOptions) (*domain.Payload, []byte, error) {
	p, err := e.Encode(typ, subjectID, opts)
	if err != nil {
		return nil, nil, err
	}

	data, err := p.Encode()
	if err != nil {
		return nil, nil, err
	}

	png, err := qrcode.Encode(data, qrcode.Medium, imageSize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to render qr image: %w", err)
	}

	return p, png, nil
}
