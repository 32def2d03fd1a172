package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPhone = "9876543210"

func newTestOTPStore() *MemoryOTPStore {
	return NewMemoryOTPStore(5*time.Minute, 5)
}

func TestOTPVerifySuccessIsSingleUse(t *testing.T) {
	store := newTestOTPStore()

	code, err := store.Create(testPhone)
	require.NoError(t, err)
	require.Len(t, code, 6)

	result := store.Verify(testPhone, code)
	assert.True(t, result.OK)

	// The record is gone: the same code cannot be replayed.
	result = store.Verify(testPhone, code)
	assert.False(t, result.OK)
	assert.Equal(t, OTPReasonNotFound, result.Reason)
}

func TestOTPVerifyUnknownPhone(t *testing.T) {
	store := newTestOTPStore()

	result := store.Verify("0000000000", "123456")
	assert.False(t, result.OK)
	assert.Equal(t, OTPReasonNotFound, result.Reason)
}

func TestOTPAttemptCap(t *testing.T) {
	store := newTestOTPStore()

	code, err := store.Create(testPhone)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	// Five wrong attempts are each reported invalid.
	for i := 0; i < 5; i++ {
		result := store.Verify(testPhone, wrong)
		assert.False(t, result.OK)
		assert.Equal(t, OTPReasonInvalid, result.Reason, "attempt %d", i+1)
	}

	// The sixth exceeds the cap and deletes the record.
	result := store.Verify(testPhone, wrong)
	assert.False(t, result.OK)
	assert.Equal(t, OTPReasonTooManyAttempts, result.Reason)

	// Even the correct code is useless now.
	result = store.Verify(testPhone, code)
	assert.False(t, result.OK)
	assert.Equal(t, OTPReasonNotFound, result.Reason)
}

func TestOTPWrongCodeKeepsRecord(t *testing.T) {
	store := newTestOTPStore()

	code, err := store.Create(testPhone)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	result := store.Verify(testPhone, wrong)
	assert.Equal(t, OTPReasonInvalid, result.Reason)

	// The correct code still works after a failed attempt.
	result = store.Verify(testPhone, code)
	assert.True(t, result.OK)
}

func TestOTPExpiry(t *testing.T) {
	store := NewMemoryOTPStore(-time.Second, 5) // already expired on creation

	code, err := store.Create(testPhone)
	require.NoError(t, err)

	result := store.Verify(testPhone, code)
	assert.False(t, result.OK)
	assert.Equal(t, OTPReasonExpired, result.Reason)

	// Expiry deletes the record.
	result = store.Verify(testPhone, code)
	assert.Equal(t, OTPReasonNotFound, result.Reason)
}

func TestOTPCreateOverwrites(t *testing.T) {
	store := newTestOTPStore()

	first, err := store.Create(testPhone)
	require.NoError(t, err)
	second, err := store.Create(testPhone)
	require.NoError(t, err)

	if first != second {
		result := store.Verify(testPhone, first)
		assert.False(t, result.OK)
		assert.Equal(t, OTPReasonInvalid, result.Reason)
	}

	result := store.Verify(testPhone, second)
	assert.True(t, result.OK)
}

func TestOTPSweepExpired(t *testing.T) {
	store := NewMemoryOTPStore(-time.Second, 5)

	_, err := store.Create("1111111111")
	require.NoError(t, err)
	_, err = store.Create("2222222222")
	require.NoError(t, err)

	assert.Equal(t, 2, store.SweepExpired())
	assert.Equal(t, 0, store.SweepExpired())
}
