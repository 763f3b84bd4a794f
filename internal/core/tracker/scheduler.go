package tracker

import "time"

// flushScheduler decides when dirty documents are written.
// Attempts, successful or not, open a new window so failing writes retry once per interval.
type flushScheduler struct {
	interval time.Duration
	last     time.Time
}

func newFlushScheduler(interval time.Duration, start time.Time) *flushScheduler {
	return &flushScheduler{interval: interval, last: start}
}

// Due reports whether a coalesced flush should happen at now
func (s *flushScheduler) Due(now time.Time) bool {
	return now.Sub(s.last) >= s.interval
}

// Mark records a flush attempt at now
func (s *flushScheduler) Mark(now time.Time) {
	s.last = now
}

// Last returns the time of the last attempt
func (s *flushScheduler) Last() time.Time {
	return s.last
}
