package utils

import (
	"crypto/aes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = mustHexKey("000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")

func mustHexKey(s string) []byte {
	key, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return key
}

func TestEncryptAadhaarFormat(t *testing.T) {
	encrypted, err := EncryptAadhaar("123456789012", testKey)
	require.NoError(t, err)

	parts := strings.SplitN(encrypted, ":", 2)
	require.Len(t, parts, 2)

	iv, err := hex.DecodeString(parts[0])
	require.NoError(t, err)
	assert.Len(t, iv, aes.BlockSize)

	ciphertext, err := hex.DecodeString(parts[1])
	require.NoError(t, err)
	assert.Equal(t, 0, len(ciphertext)%aes.BlockSize)
}

func TestEncryptDecryptAadhaarRoundTrip(t *testing.T) {
	encrypted, err := EncryptAadhaar("123456789012", testKey)
	require.NoError(t, err)

	decrypted, err := DecryptAadhaar(encrypted, testKey)
	require.NoError(t, err)
	assert.Equal(t, "123456789012", decrypted)
}

func TestEncryptAadhaarRandomIV(t *testing.T) {
	a, err := EncryptAadhaar("123456789012", testKey)
	require.NoError(t, err)
	b, err := EncryptAadhaar("123456789012", testKey)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestEncryptAadhaarBadKey(t *testing.T) {
	_, err := EncryptAadhaar("123456789012", []byte("short"))
	assert.Error(t, err)
}

func TestDecryptAadhaarMalformed(t *testing.T) {
	for _, input := range []string{"", "nocolon", "zz:zz", "abcd:1234"} {
		_, err := DecryptAadhaar(input, testKey)
		assert.Error(t, err, "input %q", input)
	}
}

func TestAadhaarLast4(t *testing.T) {
	assert.Equal(t, "9012", AadhaarLast4("123456789012"))
	assert.Equal(t, "12", AadhaarLast4("12"))
}
