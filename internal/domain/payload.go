// Package domain defines the QR payload model shared by the encoder,
// validator and dispatcher.
package domain

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PayloadType discriminates the downstream effect of a scanned payload.
type PayloadType string

const (
	TypeEmployeeCheckin PayloadType = "employee_checkin"
	TypeLocationCheckin PayloadType = "location_checkin"
	TypeDocumentAccess  PayloadType = "document_access"
)

// KnownType reports whether t is one of the three supported payload types.
func KnownType(t PayloadType) bool {
	switch t {
	case TypeEmployeeCheckin, TypeLocationCheckin, TypeDocumentAccess:
		return true
	default:
		return false
	}
}

// Payload is the envelope embedded in a QR code. It is a transient value
// object: constructed, rendered, scanned back and discarded after dispatch.
// Timestamps are milliseconds since the Unix epoch; ExpiresAt of zero means
// the payload never expires.
type Payload struct {
	Type        PayloadType `json:"type"`
	SubjectID   string      `json:"subject_id"`
	IssuedAt    int64       `json:"issued_at"`
	ExpiresAt   int64       `json:"expires_at,omitempty"`
	AccessLevel string      `json:"access_level,omitempty"`
	Signature   string      `json:"signature,omitempty"`
}

// ParsePayload decodes raw JSON into a Payload and shape-checks it.
// All failures map to MALFORMED_PAYLOAD.
func ParsePayload(raw []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, NewMalformedPayloadError("not valid JSON")
	}
	if err := p.ShapeCheck(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ShapeCheck verifies required fields and structural invariants.
func (p *Payload) ShapeCheck() error {
	if p.Type == "" {
		return NewMalformedPayloadError("missing type")
	}
	if !KnownType(p.Type) {
		return NewMalformedPayloadError(fmt.Sprintf("unknown type %q", p.Type))
	}
	if p.SubjectID == "" {
		return NewMalformedPayloadError("missing subject_id")
	}
	if p.IssuedAt <= 0 {
		return NewMalformedPayloadError("missing issued_at")
	}
	if p.ExpiresAt != 0 && p.ExpiresAt < p.IssuedAt {
		return NewMalformedPayloadError("expires_at before issued_at")
	}
	return nil
}

// Canonical returns the order-stable serialization used for both signing
// and replay hashing: type|subjectId|issuedAt|expiresAt|accessLevel, with
// an absent expiry rendered as the empty string. The field order is fixed;
// changing it invalidates every signature in circulation.
func (p *Payload) Canonical() string {
	expires := ""
	if p.ExpiresAt != 0 {
		expires = strconv.FormatInt(p.ExpiresAt, 10)
	}
	return strings.Join([]string{
		string(p.Type),
		p.SubjectID,
		strconv.FormatInt(p.IssuedAt, 10),
		expires,
		p.AccessLevel,
	}, "|")
}

// ContentHash is the replay-detection key: hex SHA-256 of the canonical
// serialization.
func (p *Payload) ContentHash() string {
	sum := sha256.Sum256([]byte(p.Canonical()))
	return fmt.Sprintf("%x", sum)
}

// ExpiredAt reports whether the payload is expired at the given instant.
func (p *Payload) ExpiredAt(now time.Time) bool {
	return p.ExpiresAt != 0 && now.UnixMilli() > p.ExpiresAt
}

// IssuedTime returns IssuedAt as wall time.
func (p *Payload) IssuedTime() time.Time {
	return time.UnixMilli(p.IssuedAt)
}

// ExpiresTime returns ExpiresAt as wall time, or the zero time when the
// payload never expires.
func (p *Payload) ExpiresTime() time.Time {
	if p.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(p.ExpiresAt)
}

// Encode renders the payload as the JSON string embedded in a QR image.
func (p *Payload) Encode() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}
	return string(data), nil
}
