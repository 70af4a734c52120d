package sessiontoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintParseRoundTrip(t *testing.T) {
	sessionID, token, err := Mint("secret", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)
	require.NotEmpty(t, token)

	parsed, err := Parse("secret", token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, parsed)
}

func TestParseWrongSecret(t *testing.T) {
	_, token, err := Mint("secret", time.Minute)
	require.NoError(t, err)

	_, err = Parse("other-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseExpiredToken(t *testing.T) {
	_, token, err := Mint("secret", -time.Minute)
	require.NoError(t, err)

	_, err = Parse("secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseGarbage(t *testing.T) {
	_, err := Parse("secret", "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
