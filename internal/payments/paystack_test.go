package payments

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"testing"
)

func signBody(body []byte, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestValidateWebhookSignature(t *testing.T) {
	secret := "sk_test_secret"
	body := []byte(`{"event":"charge.success","data":{"reference":"ref-1","amount":500000}}`)

	if !ValidateWebhookSignature(body, signBody(body, secret), secret) {
		t.Error("expected a correctly signed payload to validate")
	}

	if ValidateWebhookSignature(body, signBody(body, "wrong_secret"), secret) {
		t.Error("expected a payload signed with the wrong key to fail")
	}

	if ValidateWebhookSignature(body, "not-a-signature", secret) {
		t.Error("expected a garbage signature to fail")
	}

	tampered := append([]byte{}, body...)
	tampered[0] = '['
	if ValidateWebhookSignature(tampered, signBody(body, secret), secret) {
		t.Error("expected a tampered body to fail validation")
	}
}
