package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeSignatureRoundTrip(t *testing.T) {
	got := ComputeSignature("secret", "order_abc", "pay_xyz")
	assert.Len(t, got, 64)
	assert.True(t, VerifySignature("secret", "order_abc", "pay_xyz", got))
}

func TestVerifySignatureRejectsMutations(t *testing.T) {
	sig := ComputeSignature("secret", "order_abc", "pay_xyz")

	assert.False(t, VerifySignature("secret", "order_abc", "pay_other", sig))
	assert.False(t, VerifySignature("secret", "order_other", "pay_xyz", sig))
	assert.False(t, VerifySignature("other-secret", "order_abc", "pay_xyz", sig))
	assert.False(t, VerifySignature("secret", "order_abc", "pay_xyz", sig[:63]+"0"))
	assert.False(t, VerifySignature("secret", "order_abc", "pay_xyz", ""))
}
