// Package stats measures presentation performance and reports it to
// subscribed clients.
package stats

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Norgate-AV/overlayd/internal/events"
	"github.com/Norgate-AV/overlayd/internal/interfaces"
	"github.com/Norgate-AV/overlayd/internal/logger"
	"github.com/Norgate-AV/overlayd/internal/timeouts"
)

// DefaultSamples is the number of most recent frames averaged.
const DefaultSamples = 50

// Options configure a Calculator. Zero values select the defaults.
type Options struct {
	Interval time.Duration
	Samples  int
	Now      func() time.Time
}

// Calculator collects frame durations and periodically broadcasts their
// average. Frame is safe to call from the render thread while Serve runs.
type Calculator struct {
	log      logger.LoggerInterface
	sink     interfaces.StatsSink
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	last      time.Time
	durations []time.Duration
	next      int
	filled    bool
}

// NewCalculator creates a Calculator that broadcasts to sink.
func NewCalculator(log logger.LoggerInterface, sink interfaces.StatsSink, opts Options) *Calculator {
	if opts.Interval <= 0 {
		opts.Interval = timeouts.StatsInterval
	}

	if opts.Samples <= 0 {
		opts.Samples = DefaultSamples
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Calculator{
		log:       log.With(slog.String("component", "stats")),
		sink:      sink,
		interval:  opts.Interval,
		now:       opts.Now,
		durations: make([]time.Duration, opts.Samples),
	}
}

// Frame records that a frame was presented.
func (c *Calculator) Frame() {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.last.IsZero() {
		c.durations[c.next] = now.Sub(c.last)
		c.next = (c.next + 1) % len(c.durations)
		if c.next == 0 {
			c.filled = true
		}
	}

	c.last = now
}

// Compute averages the recorded frames. It reports false until at least one
// frame duration is known.
func (c *Calculator) Compute() (events.ApplicationStatsEvent, bool) {
	c.mu.Lock()
	n := c.next
	if c.filled {
		n = len(c.durations)
	}

	var total time.Duration
	for _, d := range c.durations[:n] {
		total += d
	}
	c.mu.Unlock()

	if n == 0 || total <= 0 {
		return events.ApplicationStatsEvent{}, false
	}

	frameTime := float64(total) / float64(n) / float64(time.Millisecond)

	return events.ApplicationStatsEvent{
		FrameTime: frameTime,
		FPS:       1000 / frameTime,
	}, true
}

// Serve broadcasts the current stats every interval until ctx is done.
func (c *Calculator) Serve(ctx context.Context) error {
	c.log.Debug("Stats calculator started", slog.Duration("interval", c.interval))

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Debug("Stats calculator stopped")
			return ctx.Err()
		case <-ticker.C:
			c.publish()
		}
	}
}

func (c *Calculator) publish() {
	ev, ok := c.Compute()
	if !ok {
		return
	}

	c.log.Trace("Application stats",
		slog.Float64("frameTime", ev.FrameTime),
		slog.Float64("fps", ev.FPS),
	)

	c.sink.Broadcast(ev)
}

func (c *Calculator) String() string {
	return "stats"
}
