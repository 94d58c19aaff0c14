package probe

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortResponding(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	p := New(&Config{Timeout: 2 * time.Second})
	assert.True(t, p.PortResponding(context.Background(), port))
}

func TestPortNotResponding(t *testing.T) {
	// Find a free port and close it so nothing is listening.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	p := New(&Config{Timeout: time.Second})
	assert.False(t, p.PortResponding(context.Background(), port))
}

func TestProcessRunningMatchesSomething(t *testing.T) {
	p := New(nil)
	// "." matches any non-empty command line; some process besides the
	// test binary always exists.
	assert.True(t, p.ProcessRunning(context.Background(), "."))
}

func TestProcessRunningNoMatch(t *testing.T) {
	p := New(nil)
	assert.False(t, p.ProcessRunning(context.Background(), "no-such-process-zzqq-12345"))
}

func TestProcessRunningBadRegexFallsBackToSubstring(t *testing.T) {
	p := New(nil)
	// Unbalanced bracket does not compile; substring match finds nothing.
	assert.False(t, p.ProcessRunning(context.Background(), "[no-such-process-zzqq"))
}

func TestLogFresh(t *testing.T) {
	dir := t.TempDir()
	fresh := filepath.Join(dir, "fresh.log")
	require.NoError(t, os.WriteFile(fresh, []byte("ok\n"), 0644))

	stale := filepath.Join(dir, "stale.log")
	require.NoError(t, os.WriteFile(stale, []byte("ok\n"), 0644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	p := New(&Config{LogMaxAge: 5 * time.Minute})
	assert.True(t, p.LogFresh(fresh))
	assert.False(t, p.LogFresh(stale))
	assert.False(t, p.LogFresh(filepath.Join(dir, "missing.log")))
}

func TestLogAge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.log")
	require.NoError(t, os.WriteFile(path, []byte("ok\n"), 0644))

	p := New(nil)
	age, ok := p.LogAge(path)
	assert.True(t, ok)
	assert.Less(t, age, time.Minute)

	_, ok = p.LogAge(filepath.Join(dir, "missing.log"))
	assert.False(t, ok)
}

func TestRecentLogErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.log")
	var content string
	content += "INFO started\n"
	content += "ERROR bind failed\n"
	content += "info heartbeat\n"
	content += "WARN Failure talking to upstream\n"
	for i := 0; i < 10; i++ {
		content += fmt.Sprintf("error retry %d\n", i)
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	got := RecentLogErrors(path, 3)
	require.Len(t, got, 3)
	// Only the last n matches survive.
	assert.Equal(t, "error retry 7", got[0])
	assert.Equal(t, "error retry 9", got[2])
}

func TestRecentLogErrorsMissingFile(t *testing.T) {
	assert.Nil(t, RecentLogErrors(filepath.Join(t.TempDir(), "missing.log"), 5))
}
