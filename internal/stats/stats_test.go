package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/overlayd/internal/logger"
	"github.com/Norgate-AV/overlayd/internal/testutil"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCalculator(samples int) (*Calculator, *fakeClock, *testutil.MockStatsSink) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	sink := testutil.NewMockStatsSink()
	c := NewCalculator(logger.NewNoOpLogger(), sink, Options{Samples: samples, Now: clock.now})

	return c, clock, sink
}

func TestCalculator_NoFramesYet(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestCalculator(4)

	_, ok := c.Compute()
	assert.False(t, ok)

	c.Frame()
	_, ok = c.Compute()
	assert.False(t, ok, "a single frame has no duration")
}

func TestCalculator_Average(t *testing.T) {
	t.Parallel()

	c, clock, _ := newTestCalculator(4)

	c.Frame()
	clock.advance(10 * time.Millisecond)
	c.Frame()
	clock.advance(30 * time.Millisecond)
	c.Frame()

	ev, ok := c.Compute()
	require.True(t, ok)
	assert.InDelta(t, 20.0, ev.FrameTime, 1e-9)
	assert.InDelta(t, 50.0, ev.FPS, 1e-9)
}

func TestCalculator_KeepsMostRecentSamples(t *testing.T) {
	t.Parallel()

	c, clock, _ := newTestCalculator(2)

	c.Frame()
	for _, d := range []time.Duration{100, 10, 10} {
		clock.advance(d * time.Millisecond)
		c.Frame()
	}

	ev, ok := c.Compute()
	require.True(t, ok)
	assert.InDelta(t, 10.0, ev.FrameTime, 1e-9, "the 100ms frame fell out of the window")
	assert.InDelta(t, 100.0, ev.FPS, 1e-9)
}

func TestCalculator_Defaults(t *testing.T) {
	t.Parallel()

	c := NewCalculator(logger.NewNoOpLogger(), testutil.NewMockStatsSink(), Options{})

	assert.Equal(t, 35*time.Millisecond, c.interval)
	assert.Len(t, c.durations, DefaultSamples)
	assert.Equal(t, "stats", c.String())
}

func TestCalculator_ServeBroadcasts(t *testing.T) {
	t.Parallel()

	sink := testutil.NewMockStatsSink()
	c := NewCalculator(logger.NewNoOpLogger(), sink, Options{Interval: time.Millisecond})

	c.Frame()
	time.Sleep(2 * time.Millisecond)
	c.Frame()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Serve(ctx) }()

	assert.Eventually(t, func() bool { return sink.Count() > 0 }, time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	ev, ok := sink.Last()
	require.True(t, ok)
	assert.Greater(t, ev.FrameTime, 0.0)
}

func TestCalculator_ServeSilentWithoutFrames(t *testing.T) {
	t.Parallel()

	sink := testutil.NewMockStatsSink()
	c := NewCalculator(logger.NewNoOpLogger(), sink, Options{Interval: time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_ = c.Serve(ctx)
	assert.Zero(t, sink.Count())
}
