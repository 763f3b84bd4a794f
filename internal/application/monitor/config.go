package monitor

import (
	"fmt"
	"time"

	"github.com/penwyp/go-focus-monitor/internal/core/constants"
)

// MonitorConfig contains configuration for the run command
type MonitorConfig struct {
	// Storage
	DataDir   string
	ExportDir string

	// Display settings
	Timezone      string
	Headless      bool // never show the live view
	ForceUI       bool // show the live view even when start_minimized is set
	UIRefreshRate float64

	// Tracking cadence
	TrackInterval time.Duration
	IdleThreshold time.Duration
	SaveInterval  time.Duration
	SampleTimeout time.Duration
}

// Validate fills defaults and rejects contradictory settings
func (c *MonitorConfig) Validate() error {
	if c.DataDir == "" {
		c.DataDir = constants.DefaultDataDir
	}
	if c.ExportDir == "" {
		c.ExportDir = constants.DefaultExportDir
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.UIRefreshRate == 0 {
		c.UIRefreshRate = constants.DefaultRefreshRate
	}
	if c.TrackInterval == 0 {
		c.TrackInterval = constants.TrackInterval
	}
	if c.IdleThreshold == 0 {
		c.IdleThreshold = constants.IdleThreshold
	}
	if c.SaveInterval == 0 {
		c.SaveInterval = constants.SaveInterval
	}
	if c.SampleTimeout == 0 {
		c.SampleTimeout = constants.DefaultSampleTimeout
	}

	if c.Headless && c.ForceUI {
		return fmt.Errorf("--headless and --ui are mutually exclusive")
	}
	if c.UIRefreshRate < 0.1 || c.UIRefreshRate > 20 {
		return fmt.Errorf("refresh rate must be between 0.1 and 20 Hz, got %g", c.UIRefreshRate)
	}
	if c.IdleThreshold < 0 || c.SaveInterval < 0 || c.SampleTimeout < 0 || c.TrackInterval < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}

// refreshInterval converts the refresh rate to a ticker period
func (c *MonitorConfig) refreshInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.UIRefreshRate)
}
