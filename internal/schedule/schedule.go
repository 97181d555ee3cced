// Package schedule resolves whether an instant falls inside a door's
// configured open windows.
package schedule

import (
	"fmt"
	"time"

	"gatekeeper/internal/domain"
)

// weekday keys in time.Weekday order (Sunday == 0).
var dayKeys = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// DayKey returns the schedule map key for a weekday.
func DayKey(d time.Weekday) string {
	return dayKeys[d]
}

// IsOpen reports whether instant falls in an open window of cfg. The instant
// is converted to cfg.TimeZone local time; both range bounds are inclusive.
// A weekday absent from the schedule is closed. Ranges with From > To never
// match: the schedule format does not wrap past midnight.
func IsOpen(cfg domain.DoorConfig, instant time.Time) (bool, error) {
	tz := cfg.TimeZone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return false, fmt.Errorf("load time zone %q: %w", tz, err)
	}

	local := instant.In(loc)
	hhmm := local.Format("15:04")

	for _, r := range cfg.Schedule[DayKey(local.Weekday())] {
		if r.From <= hhmm && hhmm <= r.To {
			return true, nil
		}
	}
	return false, nil
}
