package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureVerifier verifies HMAC-SHA256 signatures on gateway callbacks and
// webhooks. Comparison is constant-time; malformed input yields false, never
// an error.
type SignatureVerifier struct {
	secret []byte
}

// NewSignatureVerifier creates a verifier bound to one shared secret.
func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

// VerifyPayload checks providedHex against HMAC-SHA256(secret, payload).
func (v *SignatureVerifier) VerifyPayload(payload []byte, providedHex string) bool {
	if len(v.secret) == 0 || providedHex == "" {
		return false
	}
	provided, err := hex.DecodeString(providedHex)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), provided)
}

// VerifyPayment checks a capture signature over the gateway's canonical
// "orderId|paymentId" payload.
func (v *SignatureVerifier) VerifyPayment(gatewayOrderID, gatewayPaymentID, providedHex string) bool {
	return v.VerifyPayload([]byte(gatewayOrderID+"|"+gatewayPaymentID), providedHex)
}
