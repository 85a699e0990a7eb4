package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestManager_Disabled(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager(3, false, &buf)

	m.Advance("plots/exp_x_approx.png")
	m.Advance("plots/exp_x_error.png")

	if m.IsEnabled() {
		t.Error("expected manager to be disabled")
	}
	if m.Completed() != 2 {
		t.Errorf("expected 2 completed, got %d", m.Completed())
	}
	summary := m.Finish()
	if !strings.HasPrefix(summary, "2/3 artifacts written") {
		t.Errorf("unexpected summary %q", summary)
	}
	if buf.Len() != 0 {
		t.Errorf("disabled manager should not write, got %q", buf.String())
	}
}

func TestManager_ZeroTotalDisables(t *testing.T) {
	m := NewManager(0, true, &bytes.Buffer{})
	if m.IsEnabled() {
		t.Error("expected manager with nothing to do to be disabled")
	}
}

func TestManager_Enabled(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager(2, true, &buf)

	m.Advance("reports/fd_tables.tex")
	m.Advance("plots/exp_x_approx.png")

	if m.Completed() != 2 {
		t.Errorf("expected 2 completed, got %d", m.Completed())
	}
	if !strings.HasPrefix(m.Finish(), "2/2 artifacts written") {
		t.Error("unexpected summary")
	}
	if buf.Len() == 0 {
		t.Error("expected progress output")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{125 * time.Second, "2m5s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("sqrt_x_plus_1_approx.png", 10); got != "sqrt_x_..." {
		t.Errorf("unexpected truncation %q", got)
	}
	if got := truncate("exp_x.png", 10); got != "exp_x.png" {
		t.Errorf("short string should be kept, got %q", got)
	}
}
