package constants

import "time"

const (
	// Tracking cadence
	TrackInterval = 1 * time.Second

	// User input idle threshold before time is attributed to IdleSubject
	IdleThreshold = 300 * time.Second

	// Coalesced persistence window
	SaveInterval = 5 * time.Second

	// Live view refresh
	DefaultRefreshRate = 1.0

	// Upper bound for a single sampler call
	DefaultSampleTimeout = 2 * time.Second
)

const (
	// IdleSubject is the reserved identifier time is attributed to while the user is idle.
	IdleSubject = "Idle Time"

	// RecentAppsLimit bounds the recency buffer.
	RecentAppsLimit = 3
)

// Persisted document keys
const (
	DocumentData     = "data"
	DocumentLastUsed = "last_used"
	DocumentSettings = "settings"
)
