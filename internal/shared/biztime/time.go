// Package biztime holds the display timezone. Storage and transport use UTC;
// the business location is only used when rendering dates for people.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const DefaultTimezone = "UTC"

var (
	mu          sync.RWMutex
	bizLocation *time.Location
)

// Init sets the business timezone. Empty means UTC.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", tz, err)
	}
	mu.Lock()
	bizLocation = loc
	mu.Unlock()
	return nil
}

func Location() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	if bizLocation == nil {
		return time.UTC
	}
	return bizLocation
}

func NowUTC() time.Time {
	return time.Now().UTC()
}

// FormatDate renders t as a calendar date in the business timezone.
func FormatDate(t time.Time) string {
	return t.In(Location()).Format("2006-01-02")
}

// FormatDateTime renders t with minutes in the business timezone.
func FormatDateTime(t time.Time) string {
	return t.In(Location()).Format("2006-01-02 15:04 MST")
}
