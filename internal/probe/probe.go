// Package probe wraps the external OS queries the monitor relies on:
// process-table matches, TCP reachability, established-connection checks,
// and log-file freshness. Every operation is bounded by a timeout and
// reports failure as a negative result, never as an error state: a probe
// that cannot answer is indistinguishable from "not running".
package probe

import (
	"context"
	"fmt"
	"net"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	gopsnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

// Config holds probe settings.
type Config struct {
	// Timeout bounds each probe, including shell-mediated fallbacks.
	// Default: 10s.
	Timeout time.Duration
	// LogMaxAge is the freshness threshold for log files. Default: 5m.
	LogMaxAge time.Duration
}

// DefaultConfig returns default probe settings.
func DefaultConfig() *Config {
	return &Config{
		Timeout:   10 * time.Second,
		LogMaxAge: 5 * time.Minute,
	}
}

// Prober issues the OS-level checks. It prefers native process enumeration
// (gopsutil) and falls back to a shell helper when that fails.
type Prober struct {
	timeout   time.Duration
	logMaxAge time.Duration
}

// New creates a Prober.
func New(cfg *Config) *Prober {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.LogMaxAge <= 0 {
		cfg.LogMaxAge = 5 * time.Minute
	}
	return &Prober{timeout: cfg.Timeout, logMaxAge: cfg.LogMaxAge}
}

// ProcessRunning reports whether any process matches the pattern. The
// pattern is matched as a regular expression against the command line
// (falling back to substring match if it does not compile). Timeouts and
// enumeration failures report false.
func (p *Prober) ProcessRunning(ctx context.Context, pattern string) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	found, err := matchProcesses(ctx, pattern)
	if err == nil {
		return found
	}
	log.Debug().Err(err).Str("pattern", pattern).Msg("native process scan failed, using shell fallback")

	found, err = processFallback(ctx, pattern)
	if err != nil {
		log.Debug().Err(err).Str("pattern", pattern).Msg("process probe failed")
		return false
	}
	return found
}

// matchProcesses scans the process table natively.
func matchProcesses(ctx context.Context, pattern string) (bool, error) {
	re, reErr := regexp.Compile(pattern)

	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return false, fmt.Errorf("process enumeration failed: %w", err)
	}

	self := os.Getpid()
	for _, proc := range procs {
		if int(proc.Pid) == self {
			continue
		}
		cmdline, err := proc.CmdlineWithContext(ctx)
		if err != nil || cmdline == "" {
			// Fall back to the executable name for kernel-ish entries.
			cmdline, _ = proc.NameWithContext(ctx)
		}
		if cmdline == "" {
			continue
		}
		if reErr == nil {
			if re.MatchString(cmdline) {
				return true, nil
			}
		} else if strings.Contains(cmdline, pattern) {
			return true, nil
		}
	}
	return false, nil
}

// PortResponding reports whether a TCP connection to 127.0.0.1:port can be
// established within the probe timeout.
func (p *Prober) PortResponding(ctx context.Context, port int) bool {
	d := net.Dialer{Timeout: p.timeout}
	conn, err := d.DialContext(ctx, "tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// EstablishedConnection reports whether any TCP connection to the port is
// in the ESTABLISHED state. Used to tell a connected TUI from one that is
// merely running.
func (p *Prober) EstablishedConnection(ctx context.Context, port int) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conns, err := gopsnet.ConnectionsWithContext(ctx, "tcp")
	if err != nil {
		log.Debug().Err(err).Int("port", port).Msg("connection enumeration failed, using shell fallback")
		ok, err := connectionFallback(ctx, port)
		if err != nil {
			return false
		}
		return ok
	}

	for _, c := range conns {
		if c.Status != "ESTABLISHED" {
			continue
		}
		if c.Laddr.Port == uint32(port) || c.Raddr.Port == uint32(port) {
			return true
		}
	}
	return false
}

// LogFresh reports whether the file at path was modified within the
// freshness threshold. A missing file is stale.
func (p *Prober) LogFresh(path string) bool {
	age, ok := p.LogAge(path)
	return ok && age < p.logMaxAge
}

// LogAge returns the time since the file was last modified. The second
// return is false when the file does not exist.
func (p *Prober) LogAge(path string) (time.Duration, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	return time.Since(info.ModTime()), true
}
