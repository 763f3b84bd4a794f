package sampler

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingSampler struct {
	release chan struct{}
}

func (b *blockingSampler) ForegroundApplication(ctx context.Context) (string, error) {
	<-b.release
	return "late.exe", nil
}

func (b *blockingSampler) IdleDuration(ctx context.Context) (time.Duration, error) {
	<-b.release
	return time.Hour, nil
}

type quickSampler struct{}

func (quickSampler) ForegroundApplication(ctx context.Context) (string, error) {
	return "code.exe", nil
}

func (quickSampler) IdleDuration(ctx context.Context) (time.Duration, error) {
	return 3 * time.Second, nil
}

func TestWithTimeoutReturnsFastResults(t *testing.T) {
	s := WithTimeout(quickSampler{}, time.Second)

	app, err := s.ForegroundApplication(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "code.exe", app)

	idle, err := s.IdleDuration(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, idle)
}

func TestWithTimeoutBoundsHangingCalls(t *testing.T) {
	inner := &blockingSampler{release: make(chan struct{})}
	defer close(inner.release)

	s := WithTimeout(inner, 20*time.Millisecond)

	start := time.Now()
	app, err := s.ForegroundApplication(context.Background())
	assert.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Empty(t, app)

	idle, err := s.IdleDuration(context.Background())
	assert.Error(t, err)
	assert.Zero(t, idle)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWithTimeoutZeroIsPassthrough(t *testing.T) {
	inner := quickSampler{}
	assert.Equal(t, Sampler(inner), WithTimeout(inner, 0))
}

func TestParsePID(t *testing.T) {
	pid, err := parsePID("4242\n")
	require.NoError(t, err)
	assert.Equal(t, 4242, pid)

	_, err = parsePID("")
	assert.Error(t, err)
	_, err = parsePID("-1")
	assert.Error(t, err)
	_, err = parsePID("abc")
	assert.Error(t, err)
}

func TestProcessName(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "77"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "77", "comm"), []byte("firefox\n"), 0644))

	name, err := processName(root, 77)
	require.NoError(t, err)
	assert.Equal(t, "firefox", name)

	_, err = processName(root, 78)
	assert.Error(t, err)
}

func TestParseMillis(t *testing.T) {
	d, err := parseMillis("1500\n")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)

	_, err = parseMillis("n/a")
	assert.Error(t, err)
}

func TestParseHIDIdleTime(t *testing.T) {
	out := `+-o IOHIDSystem  <class IOHIDSystem>
    {
      "HIDIdleTime" = 2500000000
      "HIDParameters" = {}
    }`

	d, err := parseHIDIdleTime(out)
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, d)

	_, err = parseHIDIdleTime("nothing here")
	assert.Error(t, err)
}

func TestRunCommand(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	out, err := runCommand(context.Background(), "sh", "-c", "echo '  hello  '")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	_, err = runCommand(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestIdleQueryErrorMarksMissingTool(t *testing.T) {
	_, err := runCommand(context.Background(), "go-focus-monitor-no-such-tool")
	require.Error(t, err)

	err = idleQueryError(err)
	assert.ErrorIs(t, err, ErrIdleUnavailable)
	assert.Contains(t, err.Error(), "go-focus-monitor-no-such-tool")

	transient := errors.New("couldn't open display")
	assert.Same(t, transient, idleQueryError(transient))
}

type noIdleSampler struct{ quickSampler }

func (noIdleSampler) IdleDuration(ctx context.Context) (time.Duration, error) {
	return 0, idleQueryError(exec.ErrNotFound)
}

func TestAvailable(t *testing.T) {
	ok, reason := Available(context.Background(), quickSampler{})
	assert.True(t, ok)
	assert.Empty(t, reason)

	ok, reason = Available(context.Background(), noIdleSampler{})
	assert.False(t, ok)
	assert.Contains(t, reason, "idle time will not be tracked")

	// The timeout wrapper keeps the sentinel visible
	_, err := WithTimeout(noIdleSampler{}, time.Second).IdleDuration(context.Background())
	assert.ErrorIs(t, err, ErrIdleUnavailable)
}
