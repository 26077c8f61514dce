package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateVerificationCode(t *testing.T) {
	code, err := GenerateVerificationCode()
	require.NoError(t, err)
	require.Len(t, code, 6)
	for _, r := range code {
		require.True(t, r >= '0' && r <= '9', "code must be numeric, got %q", code)
	}
}

func TestGenerateResetToken(t *testing.T) {
	first, err := GenerateResetToken()
	require.NoError(t, err)
	require.Len(t, first, 40)

	second, err := GenerateResetToken()
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}
