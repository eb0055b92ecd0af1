package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to BookingStatus }{
		{BookingPending, BookingConfirmed},
		{BookingPending, BookingCancelled},
		{BookingConfirmed, BookingPaid},
		{BookingConfirmed, BookingCancelled},
		{BookingPaid, BookingInProgress},
		{BookingPaid, BookingCancelled},
		{BookingPaid, BookingDisputed},
		{BookingInProgress, BookingCompleted},
		{BookingInProgress, BookingDisputed},
		{BookingCompleted, BookingReviewed},
		{BookingCompleted, BookingDisputed},
		{BookingDisputed, BookingCompleted},
		{BookingDisputed, BookingCancelled},
	}
	for _, e := range allowed {
		assert.True(t, CanTransition(e.from, e.to), "%s -> %s should be allowed", e.from, e.to)
	}

	denied := []struct{ from, to BookingStatus }{
		{BookingPending, BookingPaid},
		{BookingPending, BookingCompleted},
		{BookingConfirmed, BookingInProgress},
		{BookingPaid, BookingCompleted},
		{BookingCancelled, BookingPending},
		{BookingCancelled, BookingConfirmed},
		{BookingReviewed, BookingDisputed},
		{BookingCompleted, BookingCompleted},
	}
	for _, e := range denied {
		assert.False(t, CanTransition(e.from, e.to), "%s -> %s should be denied", e.from, e.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, BookingCancelled.IsTerminal())
	assert.True(t, BookingReviewed.IsTerminal())
	assert.False(t, BookingCompleted.IsTerminal())
	assert.False(t, BookingDisputed.IsTerminal())
}

func TestRevenueSplitValid(t *testing.T) {
	assert.True(t, RevenueSplit(nil).Valid())
	assert.True(t, RevenueSplit{"provider": 0.8, "platform": 0.2}.Valid())
	assert.True(t, RevenueSplit{"provider": 1.0}.Valid())
	assert.False(t, RevenueSplit{"provider": 0.8, "platform": 0.3}.Valid())
	assert.False(t, RevenueSplit{"provider": 1.2, "platform": -0.2}.Valid())
}

func TestDayBucketFor(t *testing.T) {
	// Early morning in UTC+5 is still the previous UTC day.
	loc := time.FixedZone("UTC+5", 5*3600)
	local := time.Date(2026, 3, 15, 3, 30, 0, 0, loc)
	assert.Equal(t, "2026-03-14", DayBucketFor(local))

	utc := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-14", DayBucketFor(utc))
}
