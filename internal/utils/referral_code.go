package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// GenerateReferralCode creates a public referral code in the format
// "PSS-<INITIALS><XXXX>" where INITIALS come from the user's full name and
// XXXX is derived from the current time in milliseconds.
func GenerateReferralCode(fullName string) string {
	var initials strings.Builder
	for _, part := range strings.Fields(fullName) {
		initials.WriteString(strings.ToUpper(part[:1]))
	}

	millis := fmt.Sprintf("%d", time.Now().UnixMilli())
	suffix := millis[len(millis)-4:]

	return fmt.Sprintf("PSS-%s%s", initials.String(), suffix)
}

// RandomizeReferralCode appends a random 4-digit disambiguator to a code.
// Used when a freshly generated code collides with an existing one.
func RandomizeReferralCode(code string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random suffix: %w", err)
	}
	return fmt.Sprintf("%s%04d", code, n.Int64()), nil
}
