package timeutil_test

import (
	"testing"
	"time"

	"pdv-backend/internal/timeutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := timeutil.ParseDate("2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15", timeutil.FormatDate(d))

	for _, bad := range []string{"", "15/01/2025", "2025-1-15", "2025-02-30", "2025-01-15T10:00:00Z"} {
		assert.False(t, timeutil.IsDate(bad), bad)
	}
}

func TestHoursSince(t *testing.T) {
	t.Parallel()
	created := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)

	assert.InDelta(t, 24.0, timeutil.HoursSince(created, created.Add(24*time.Hour)), 1e-9)
	assert.Greater(t, timeutil.HoursSince(created, created.Add(24*time.Hour+time.Second)), 24.0)
}
