package helpers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// GenerateVerificationCode returns a 6-digit numeric code for email
// verification.
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %v", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// GenerateResetToken returns a 160-bit random token, hex encoded.
func GenerateResetToken() (string, error) {
	bytes := make([]byte, 20)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %v", err)
	}
	return hex.EncodeToString(bytes), nil
}
