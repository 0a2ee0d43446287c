package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ComputeSignature returns the hex HMAC-SHA256 digest the gateway computes
// over "<gatewayOrderID>|<paymentID>" with the key secret.
func ComputeSignature(secret, gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the digest and compares it in constant time.
// The threat model is forged client callbacks, so the comparison must not
// accept anything but the exact digest.
func VerifySignature(secret, gatewayOrderID, paymentID, signature string) bool {
	expected := ComputeSignature(secret, gatewayOrderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
