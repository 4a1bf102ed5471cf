package qr

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"

	"qrpass/internal/domain"
)

// signingKeyLabel is the HKDF context label for the payload MAC key.
// Changing it invalidates every signature in circulation.
const signingKeyLabel = "qrpass-payload-signing-v1"

// Signer computes and verifies keyed MACs over the canonical payload
// serialization. The MAC key is derived from the deployment's master
// secret with HKDF-SHA256 so the raw secret never touches a signature.
type Signer struct {
	key []byte
}

// NewSigner derives the MAC key from the master secret.
func NewSigner(masterSecret []byte) (*Signer, error) {
	if len(masterSecret) == 0 {
		return nil, errors.New("master secret must not be empty")
	}

	h := hkdf.New(sha256.New, masterSecret, nil, []byte(signingKeyLabel))
	key := make([]byte, 32)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, err
	}
	return &Signer{key: key}, nil
}

// Sign returns the hex HMAC-SHA256 of the payload's canonical serialization.
func (s *Signer) Sign(p *domain.Payload) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(p.Canonical()))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the expected signature and compares in constant time.
func (s *Signer) Verify(p *domain.Payload) bool {
	got, err := hex.DecodeString(p.Signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(p.Canonical()))
	return hmac.Equal(got, mac.Sum(nil))
}
