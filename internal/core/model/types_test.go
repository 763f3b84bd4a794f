package model

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.True(t, NoSubject().IsNone())
	assert.Equal(t, "No active window", NoSubject().String())
	assert.Equal(t, "code", AppSubject("code").ID())
	assert.Equal(t, "Idle Time", IdleSubject().ID())
	assert.NotEqual(t, AppSubject("Idle Time"), IdleSubject())
}

func TestFlagJSON(t *testing.T) {
	out, err := sonic.Marshal(Settings{Whitelist: []AppID{"a"}, DarkMode: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"whitelist":["a"],"dark_mode":1,"start_minimized":0}`, string(out))

	tests := []struct {
		input string
		want  Flag
	}{
		{`{"dark_mode":1}`, true},
		{`{"dark_mode":0}`, false},
		{`{"dark_mode":true}`, true},
		{`{"dark_mode":false}`, false},
	}
	for _, tt := range tests {
		var s Settings
		require.NoError(t, sonic.Unmarshal([]byte(tt.input), &s), tt.input)
		assert.Equal(t, tt.want, s.DarkMode, tt.input)
	}

	var s Settings
	assert.Error(t, sonic.Unmarshal([]byte(`{"dark_mode":"yes"}`), &s))
}

func TestSnapshotUsage(t *testing.T) {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Ledger:         map[AppID]float64{"a": 10, "b": 5},
		LastUsed:       map[AppID]float64{"a": ToUnixSeconds(base)},
		CurrentSubject: AppSubject("b"),
		SubjectSince:   base,
		TakenAt:        base.Add(3 * time.Second),
	}

	byApp := func(rows []AppUsage) map[AppID]AppUsage {
		m := make(map[AppID]AppUsage)
		for _, r := range rows {
			m[r.App] = r
		}
		return m
	}

	committed := byApp(snap.Usage(false))
	assert.Equal(t, 5.0, committed["b"].Seconds)
	assert.True(t, committed["b"].LastUsed.IsZero())
	assert.True(t, committed["a"].LastUsed.Equal(base))

	live := byApp(snap.Usage(true))
	assert.Equal(t, 8.0, live["b"].Seconds)
	assert.Equal(t, 10.0, live["a"].Seconds)

	// A first-time subject shows up before its first commit
	snap.CurrentSubject = AppSubject("new")
	live = byApp(snap.Usage(true))
	assert.Equal(t, 3.0, live["new"].Seconds)
	assert.Len(t, live, 3)
}
