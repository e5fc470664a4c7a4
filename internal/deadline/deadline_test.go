package deadline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var plus7 = time.FixedZone("UTC+7", 7*60*60)

func TestEvaluate_MidnightBoundary(t *testing.T) {
	due := NewDate(2024, time.January, 10, plus7)

	last := time.Date(2024, time.January, 10, 23, 59, 59, int(999*time.Millisecond), plus7)
	r := Evaluate(last, due)
	assert.False(t, r.Expired)
	assert.Greater(t, r.Duration, time.Duration(0))

	midnight := time.Date(2024, time.January, 11, 0, 0, 0, 0, plus7)
	assert.True(t, Evaluate(midnight, due).Expired)
	assert.True(t, Evaluate(midnight.Add(time.Hour), due).Expired)
}

func TestEvaluate_Components(t *testing.T) {
	due := NewDate(2024, time.January, 12, time.UTC)
	now := time.Date(2024, time.January, 10, 10, 30, 15, 0, time.UTC)

	r := Evaluate(now, due)
	assert.Equal(t, Remaining{Days: 2, Hours: 13, Minutes: 29, Duration: 61*time.Hour + 29*time.Minute + 45*time.Second}, r)
	assert.Equal(t, "2d 13h 29m", r.String())
	assert.Equal(t, "expired", Remaining{Expired: true}.String())
}

func TestEvaluate_SameDayIsPositiveUntilMidnight(t *testing.T) {
	due := NewDate(2024, time.March, 5, time.UTC)
	for h := 0; h < 24; h++ {
		now := time.Date(2024, time.March, 5, h, 59, 59, 0, time.UTC)
		r := Evaluate(now, due)
		assert.False(t, r.Expired, "hour %d", h)
		assert.Equal(t, 0, r.Days)
	}
}

func TestEvaluate_ShortDSTDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tz database not available")
	}
	due := NewDate(2024, time.March, 10, ny)
	assert.Equal(t, 23*time.Hour, due.EndOfDay().Sub(due.Start()))

	r := Evaluate(due.Start(), due)
	assert.Equal(t, 23, r.Hours)
	assert.Equal(t, 0, r.Days)
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		due       Date
		completed bool
		want      bool
	}{
		{"two days ago", NewDate(2024, time.January, 8, time.UTC), false, true},
		{"long ago", NewDate(2023, time.December, 1, time.UTC), false, true},
		{"yesterday", NewDate(2024, time.January, 9, time.UTC), false, false},
		{"today", NewDate(2024, time.January, 10, time.UTC), false, false},
		{"future", NewDate(2024, time.February, 1, time.UTC), false, false},
		{"completed long ago", NewDate(2023, time.December, 1, time.UTC), true, false},
		{"zero date", Date{}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOverdue(now, tt.due, tt.completed))
		})
	}
}

func TestIsOverdue_Property(t *testing.T) {
	now := time.Date(2024, time.June, 15, 23, 59, 59, 0, time.UTC)
	startOfYesterday := DateOf(now, time.UTC).AddDays(-1)

	for offset := -40; offset <= 40; offset++ {
		due := DateOf(now, time.UTC).AddDays(offset)
		assert.False(t, IsOverdue(now, due, true), "completed offset %d", offset)
		assert.Equal(t, due.Before(startOfYesterday), IsOverdue(now, due, false), "offset %d", offset)
	}
}

func TestIsTodayTomorrow(t *testing.T) {
	now := time.Date(2024, time.January, 10, 23, 0, 0, 0, time.UTC)
	assert.True(t, IsToday(now, NewDate(2024, time.January, 10, time.UTC)))
	assert.False(t, IsToday(now, NewDate(2024, time.January, 11, time.UTC)))
	assert.True(t, IsTomorrow(now, NewDate(2024, time.January, 11, time.UTC)))
	assert.False(t, IsTomorrow(now, NewDate(2024, time.January, 12, time.UTC)))

	// 23:00 UTC is already the next day at UTC+7.
	assert.True(t, IsToday(now, NewDate(2024, time.January, 11, plus7)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-10", plus7)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", d.String())
	assert.Equal(t, plus7, d.Start().Location())

	d, err = ParseDate("2024-01-09T18:30:00Z", plus7)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", d.String())

	_, err = ParseDate("  ", plus7)
	assert.ErrorIs(t, err, ErrMissingDate)

	_, err = ParseDate("10/01/2024", plus7)
	assert.ErrorIs(t, err, ErrMalformedDate)

	s, err := Normalize("2024-01-09T18:30:00+07:00", plus7)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-09", s)
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	ticker *fakeTicker
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *fakeClock) NewTicker(time.Duration) Ticker {
	c.ticker = &fakeTicker{ch: make(chan time.Time)}
	return c.ticker
}

type fakeTicker struct {
	mu      sync.Mutex
	ch      chan time.Time
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *fakeTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func TestWatch_TicksUntilStopped(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, time.January, 10, 23, 58, 30, 0, time.UTC)}
	due := NewDate(2024, time.January, 10, time.UTC)

	updates := make(chan Remaining, 10)
	stop := Watch(context.Background(), clock, due, time.Second, func(r Remaining) { updates <- r })

	first := <-updates
	assert.False(t, first.Expired)
	assert.Equal(t, 1, first.Minutes)

	clock.Advance(2 * time.Minute)
	clock.ticker.ch <- time.Time{}
	second := <-updates
	assert.True(t, second.Expired)

	stop()
	stop()
	assert.True(t, clock.ticker.isStopped())
	assert.Empty(t, updates)
}

func TestWatch_StopsOnContextCancel(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, time.January, 10, 8, 0, 0, 0, time.UTC)}
	ctx, cancel := context.WithCancel(context.Background())

	calls := make(chan Remaining, 1)
	stop := Watch(ctx, clock, NewDate(2024, time.January, 11, time.UTC), time.Second, func(r Remaining) { calls <- r })
	<-calls

	cancel()
	stop()
	assert.True(t, clock.ticker.isStopped())
}
