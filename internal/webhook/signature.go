package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
)

// Signature verification errors. Both terminate the request with 401
// before any pipeline work happens.
var (
	ErrMissingSignature = errors.New("webhook signature header missing")
	ErrInvalidSignature = errors.New("webhook signature mismatch")
)

// Verifier authenticates webhook deliveries with an HMAC-SHA256 shared
// secret. An empty secret disables verification entirely; that permissive
// fallback is logged at warn level so unconfigured deployments are visible.
type Verifier struct {
	secret string
}

// NewVerifier creates a Verifier for the given shared secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Verify checks the X-Hub-Signature-256 header against the raw request
// body. The comparison is constant-time; a malformed header is reported as
// ErrInvalidSignature rather than propagated as a parse failure. The
// secret itself is never logged.
func (v *Verifier) Verify(body []byte, signatureHeader, deliveryID string) error {
	if v.secret == "" {
		log.Warn().
			Str("delivery", deliveryID).
			Msg("webhook secret not configured, skipping signature verification")
		return nil
	}

	if signatureHeader == "" {
		log.Error().
			Str("delivery", deliveryID).
			Msg("webhook delivery rejected: no signature header")
		return ErrMissingSignature
	}

	provided, ok := strings.CutPrefix(signatureHeader, "sha256=")
	if !ok {
		log.Error().
			Str("delivery", deliveryID).
			Msg("webhook delivery rejected: malformed signature header")
		return ErrInvalidSignature
	}

	providedMAC, err := hex.DecodeString(provided)
	if err != nil {
		log.Error().
			Str("delivery", deliveryID).
			Msg("webhook delivery rejected: signature is not valid hex")
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write(body)
	expectedMAC := mac.Sum(nil)

	if len(providedMAC) != len(expectedMAC) ||
		subtle.ConstantTimeCompare(providedMAC, expectedMAC) != 1 {
		log.Error().
			Str("delivery", deliveryID).
			Msg("webhook delivery rejected: signature mismatch")
		return ErrInvalidSignature
	}

	log.Debug().
		Str("delivery", deliveryID).
		Msg("webhook signature verified")
	return nil
}
