package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDate_UsesBusinessLocation(t *testing.T) {
	require.NoError(t, Init("America/New_York"))
	t.Cleanup(func() { _ = Init("") })

	// 02:00 UTC is still the previous day in New York.
	ts := time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-09", FormatDate(ts))
}

func TestInit_RejectsUnknownZone(t *testing.T) {
	assert.Error(t, Init("Mars/Olympus_Mons"))
	assert.NotNil(t, Location())
}
