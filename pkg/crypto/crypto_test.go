package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	encrypted, err := EncryptString("ya29.a0AfH6SMB-token", "secret-passphrase")
	require.NoError(t, err)
	assert.NotEmpty(t, encrypted)
	assert.NotContains(t, encrypted, "ya29")

	decrypted, err := DecryptFromHexString(encrypted, "secret-passphrase")
	require.NoError(t, err)
	assert.Equal(t, "ya29.a0AfH6SMB-token", decrypted)
}

func TestEncryptString_UniqueNonce(t *testing.T) {
	a, err := EncryptString("same-value", "pass")
	require.NoError(t, err)
	b, err := EncryptString("same-value", "pass")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecryptFromHexString_WrongPassphrase(t *testing.T) {
	encrypted, err := EncryptString("refresh-token", "correct")
	require.NoError(t, err)

	_, err = DecryptFromHexString(encrypted, "wrong")
	assert.Error(t, err)
}

func TestDecryptFromHexString_InvalidInput(t *testing.T) {
	_, err := DecryptFromHexString("not-hex", "pass")
	assert.Error(t, err)

	_, err = DecryptFromHexString("abcd", "pass")
	assert.Error(t, err)
}

func TestEncryptString_EmptyPassphrase(t *testing.T) {
	_, err := EncryptString("value", "")
	assert.Error(t, err)
}
