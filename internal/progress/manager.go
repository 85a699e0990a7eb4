// Package progress provides a terminal progress bar for artifact generation.
package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Manager handles the progress display
type Manager struct {
	enabled   bool
	total     int
	completed int
	last      string
	mu        sync.Mutex
	bar       *progressbar.ProgressBar
	startTime time.Time
	out       io.Writer
}

// NewManager creates a progress manager for total artifacts. A nil writer
// means os.Stderr.
func NewManager(total int, enabled bool, out io.Writer) *Manager {
	if out == nil {
		out = os.Stderr
	}
	m := &Manager{
		enabled:   enabled && total > 0,
		total:     total,
		startTime: time.Now(),
		out:       out,
	}

	if m.enabled {
		m.setupProgressBar()
	}

	return m
}

// setupProgressBar initializes the progress bar
func (m *Manager) setupProgressBar() {
	m.bar = progressbar.NewOptions(m.total,
		progressbar.OptionSetDescription("Writing artifacts"),
		progressbar.OptionSetWriter(m.out),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "|",
			BarEnd:        "|",
		}),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(m.out)
		}),
	)
}

// Advance records one written artifact.
func (m *Manager) Advance(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.completed++
	m.last = path
	if !m.enabled {
		return
	}

	m.bar.Describe(fmt.Sprintf("%-30s", truncate(filepath.Base(path), 30)))
	_ = m.bar.Add(1)
}

// Completed returns how many artifacts have been recorded.
func (m *Manager) Completed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completed
}

// Finish completes the bar and returns a one-line summary.
func (m *Manager) Finish() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.enabled && m.completed < m.total {
		_ = m.bar.Finish()
	}
	return fmt.Sprintf("%d/%d artifacts written in %s", m.completed, m.total, formatDuration(time.Since(m.startTime)))
}

// IsEnabled returns whether progress display is enabled
func (m *Manager) IsEnabled() bool {
	return m.enabled
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}

// truncate truncates a string to max length with ellipsis
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
