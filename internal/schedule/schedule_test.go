package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatekeeper/internal/domain"
)

func mondayConfig(tz string, ranges ...domain.TimeRange) domain.DoorConfig {
	return domain.DoorConfig{
		ID:       domain.GlobalConfigID,
		TimeZone: tz,
		Schedule: domain.Schedule{"mon": ranges},
	}
}

// 2026-08-31 is a Monday.
func mondayAt(hour, minute int) time.Time {
	return time.Date(2026, 8, 31, hour, minute, 0, 0, time.UTC)
}

func TestIsOpenWithinRange(t *testing.T) {
	cfg := mondayConfig("UTC", domain.TimeRange{From: "08:00", To: "18:00"})

	open, err := IsOpen(cfg, mondayAt(9, 0))
	require.NoError(t, err)
	assert.True(t, open)
}

func TestIsOpenOutsideRange(t *testing.T) {
	cfg := mondayConfig("UTC", domain.TimeRange{From: "08:00", To: "18:00"})

	open, err := IsOpen(cfg, mondayAt(19, 0))
	require.NoError(t, err)
	assert.False(t, open)
}

func TestBoundsAreInclusive(t *testing.T) {
	cfg := mondayConfig("UTC", domain.TimeRange{From: "08:00", To: "18:00"})

	for _, at := range []time.Time{mondayAt(8, 0), mondayAt(18, 0)} {
		open, err := IsOpen(cfg, at)
		require.NoError(t, err)
		assert.True(t, open, "boundary %s must be open", at)
	}

	open, err := IsOpen(cfg, mondayAt(7, 59))
	require.NoError(t, err)
	assert.False(t, open)

	open, err = IsOpen(cfg, mondayAt(18, 1))
	require.NoError(t, err)
	assert.False(t, open)
}

func TestAbsentWeekdayIsClosed(t *testing.T) {
	cfg := domain.DoorConfig{
		ID:       domain.GlobalConfigID,
		TimeZone: "UTC",
		Schedule: domain.Schedule{"tue": {{From: "00:00", To: "23:59"}}},
	}

	open, err := IsOpen(cfg, mondayAt(12, 0))
	require.NoError(t, err)
	assert.False(t, open)
}

func TestMultipleRanges(t *testing.T) {
	cfg := mondayConfig("UTC",
		domain.TimeRange{From: "08:00", To: "12:00"},
		domain.TimeRange{From: "14:00", To: "18:00"},
	)

	open, err := IsOpen(cfg, mondayAt(13, 0))
	require.NoError(t, err)
	assert.False(t, open)

	open, err = IsOpen(cfg, mondayAt(15, 0))
	require.NoError(t, err)
	assert.True(t, open)
}

func TestOvernightRangeNeverMatches(t *testing.T) {
	cfg := mondayConfig("UTC", domain.TimeRange{From: "22:00", To: "02:00"})

	for _, at := range []time.Time{mondayAt(23, 0), mondayAt(1, 0), mondayAt(22, 0)} {
		open, err := IsOpen(cfg, at)
		require.NoError(t, err)
		assert.False(t, open, "overnight ranges are unsupported, %s must be closed", at)
	}
}

func TestTimeZoneConversion(t *testing.T) {
	// 23:30 UTC Sunday is 01:30 Monday in Europe/Madrid (CEST, UTC+2 in August).
	cfg := mondayConfig("Europe/Madrid", domain.TimeRange{From: "01:00", To: "02:00"})

	sundayLateUTC := time.Date(2026, 8, 30, 23, 30, 0, 0, time.UTC)
	open, err := IsOpen(cfg, sundayLateUTC)
	require.NoError(t, err)
	assert.True(t, open)
}

func TestEmptyTimeZoneDefaultsToUTC(t *testing.T) {
	cfg := mondayConfig("", domain.TimeRange{From: "08:00", To: "18:00"})

	open, err := IsOpen(cfg, mondayAt(9, 0))
	require.NoError(t, err)
	assert.True(t, open)
}

func TestInvalidTimeZone(t *testing.T) {
	cfg := mondayConfig("Mars/Olympus", domain.TimeRange{From: "08:00", To: "18:00"})

	_, err := IsOpen(cfg, mondayAt(9, 0))
	assert.Error(t, err)
}
