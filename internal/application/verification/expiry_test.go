package verification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verification-api/internal/domain"
)

func TestNormalizeExpiry_UnixSeconds(t *testing.T) {
	got, err := normalizeExpiry("9999999999")
	require.NoError(t, err)
	assert.Equal(t, int64(9999999999), got.Unix())
}

func TestNormalizeExpiry_EpochStart(t *testing.T) {
	got, err := normalizeExpiry("0")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Unix())
}

func TestNormalizeExpiry_RFC3339(t *testing.T) {
	got, err := normalizeExpiry("2030-06-15T12:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC).Unix(), got.Unix())
}

func TestNormalizeExpiry_RFC3339Offset(t *testing.T) {
	got, err := normalizeExpiry("2030-06-15T12:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 6, 15, 10, 0, 0, 0, time.UTC).Unix(), got.Unix())
}

func TestNormalizeExpiry_NaiveDateTimeIsLocal(t *testing.T) {
	got, err := normalizeExpiry("2030-06-15T12:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 6, 15, 12, 0, 0, 0, time.Local).Unix(), got.Unix())
}

func TestNormalizeExpiry_DateOnly(t *testing.T) {
	got, err := normalizeExpiry("2030-06-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 6, 15, 0, 0, 0, 0, time.Local).Unix(), got.Unix())
}

func TestNormalizeExpiry_Invalid(t *testing.T) {
	for _, input := range []string{"", "soon", "12h", "123abc", "-5"} {
		_, err := normalizeExpiry(input)
		assert.ErrorIs(t, err, domain.ErrBadRequest, "input %q", input)
	}
}
