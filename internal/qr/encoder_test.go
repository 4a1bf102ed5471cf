package qr_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrpass/internal/domain"
	"qrpass/internal/qr"
)

func newTestSigner(t *testing.T) *qr.Signer {
	t.Helper()
	signer, err := qr.NewSigner([]byte("test-master-secret"))
	require.NoError(t, err)
	return signer
}

func TestEncode_InvalidArguments(t *testing.T) {
	encoder := qr.NewEncoder(newTestSigner(t), 0, 0)
	negative := -time.Second

	tests := []struct {
		name      string
		typ       domain.PayloadType
		subjectID string
		opts      qr.EncodeOptions
	}{
		{"unknown type", "badge_swipe", "emp-1", qr.EncodeOptions{}},
		{"empty subject", domain.TypeEmployeeCheckin, "", qr.EncodeOptions{}},
		{"access level on checkin", domain.TypeEmployeeCheckin, "emp-1", qr.EncodeOptions{AccessLevel: "read"}},
		{"negative expiry", domain.TypeEmployeeCheckin, "emp-1", qr.EncodeOptions{ExpiresIn: &negative}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := encoder.Encode(tt.typ, tt.subjectID, tt.opts)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestEncode_DefaultExpiry(t *testing.T) {
	encoder := qr.NewEncoder(newTestSigner(t), 0, 0)

	checkin, err := encoder.Encode(domain.TypeEmployeeCheckin, "emp-1", qr.EncodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, qr.DefaultCheckinTTL.Milliseconds(), checkin.ExpiresAt-checkin.IssuedAt)

	doc, err := encoder.Encode(domain.TypeDocumentAccess, "doc-1", qr.EncodeOptions{AccessLevel: "read"})
	require.NoError(t, err)
	assert.Equal(t, qr.DefaultDocumentTTL.Milliseconds(), doc.ExpiresAt-doc.IssuedAt)
}

func TestEncode_ExplicitExpiry(t *testing.T) {
	encoder := qr.NewEncoder(newTestSigner(t), 0, 0)

	ttl := 90 * time.Second
	p, err := encoder.Encode(domain.TypeLocationCheckin, "loc-9", qr.EncodeOptions{ExpiresIn: &ttl})
	require.NoError(t, err)
	assert.Equal(t, ttl.Milliseconds(), p.ExpiresAt-p.IssuedAt)
}

func TestEncode_NeverExpires(t *testing.T) {
	encoder := qr.NewEncoder(newTestSigner(t), 0, 0)

	zero := time.Duration(0)
	p, err := encoder.Encode(domain.TypeLocationCheckin, "loc-9", qr.EncodeOptions{ExpiresIn: &zero})
	require.NoError(t, err)
	assert.Zero(t, p.ExpiresAt)
	assert.False(t, p.ExpiredAt(time.Now().Add(10000*time.Hour)))
}

func TestEncode_SignedWhenSignerConfigured(t *testing.T) {
	signer := newTestSigner(t)
	encoder := qr.NewEncoder(signer, 0, 0)

	p, err := encoder.Encode(domain.TypeEmployeeCheckin, "emp-1", qr.EncodeOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, p.Signature)
	assert.True(t, signer.Verify(p))
}

func TestEncode_UnsignedWithoutSigner(t *testing.T) {
	encoder := qr.NewEncoder(nil, 0, 0)

	p, err := encoder.Encode(domain.TypeEmployeeCheckin, "emp-1", qr.EncodeOptions{})
	require.NoError(t, err)
	assert.Empty(t, p.Signature)
}

func TestEncodeImage_RendersPNG(t *testing.T) {
	encoder := qr.NewEncoder(newTestSigner(t), 0, 0)

	p, png, err := encoder.EncodeImage(domain.TypeEmployeeCheckin, "emp-1", qr.EncodeOptions{})
	require.NoError(t, err)
	require.NotNil(t, p)
	require.NotEmpty(t, png)

	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
