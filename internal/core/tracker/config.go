package tracker

import (
	"time"

	"github.com/penwyp/go-focus-monitor/internal/core/constants"
	"github.com/penwyp/go-focus-monitor/internal/data/store"
)

// Config tunes the tracking loop
type Config struct {
	// TrackInterval is the sampling cadence
	TrackInterval time.Duration
	// IdleThreshold is the input idle time at which time goes to the idle subject
	IdleThreshold time.Duration
	// SaveInterval bounds how often dirty documents are written
	SaveInterval time.Duration
	// Now is the clock; defaults to time.Now
	Now func() time.Time
}

func (c *Config) applyDefaults() {
	if c.TrackInterval <= 0 {
		c.TrackInterval = constants.TrackInterval
	}
	if c.IdleThreshold <= 0 {
		c.IdleThreshold = constants.IdleThreshold
	}
	if c.SaveInterval <= 0 {
		c.SaveInterval = constants.SaveInterval
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// Document is one persisted document as seen by the tracker
type Document interface {
	Read(out any) store.ReadResult
	Write(v any) error
}

// Documents groups the three documents the tracker owns
type Documents struct {
	Data     Document
	LastUsed Document
	Settings Document
}

// OpenDocuments returns the tracker documents of s
func OpenDocuments(s *store.Store) Documents {
	return Documents{
		Data:     s.Document(constants.DocumentData),
		LastUsed: s.Document(constants.DocumentLastUsed),
		Settings: s.Document(constants.DocumentSettings),
	}
}
