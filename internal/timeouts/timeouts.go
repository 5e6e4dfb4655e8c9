// Package timeouts defines timing constants for the overlay's background
// loops.
package timeouts

import "time"

const (
	// Stats

	// StatsInterval is how often the frame-time average is recomputed and
	// broadcast to stats subscribers.
	StatsInterval = 35 * time.Millisecond

	// Presentation

	// FrameInterval is the delay between presents of the headless loop,
	// roughly one frame at 60 Hz.
	FrameInterval = 16 * time.Millisecond

	// Scene reloading

	// ReloadDebounce collapses the burst of write events editors produce
	// when saving a scene file into a single reload.
	ReloadDebounce = 200 * time.Millisecond

	// Supervision

	// ServiceStopTimeout is how long the supervisor waits for a service to
	// return from Serve after its context is cancelled.
	ServiceStopTimeout = 2 * time.Second

	// ServiceFailureBackoff is the pause before restarting a service that
	// failed too often.
	ServiceFailureBackoff = 1 * time.Second
)
