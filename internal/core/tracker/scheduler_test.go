package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFlushScheduler(t *testing.T) {
	s := newFlushScheduler(5*time.Second, t0)

	assert.False(t, s.Due(t0))
	assert.False(t, s.Due(t0.Add(4999*time.Millisecond)))
	assert.True(t, s.Due(t0.Add(5*time.Second)))

	s.Mark(t0.Add(6 * time.Second))
	assert.Equal(t, t0.Add(6*time.Second), s.Last())
	assert.False(t, s.Due(t0.Add(10*time.Second)))
	assert.True(t, s.Due(t0.Add(11*time.Second)))
}
