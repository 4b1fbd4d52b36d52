package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestCompiler_Disabled(t *testing.T) {
	c := NewCompiler(nil, time.Minute, zerolog.Nop())
	if c.Enabled() {
		t.Error("Empty argv should disable the compiler")
	}
	out, err := c.Run(context.Background())
	if err != nil || out != "" {
		t.Errorf("Disabled compiler should be a silent no-op, got %q, %v", out, err)
	}
}

func TestCompiler_Success(t *testing.T) {
	c := NewCompiler([]string{"true"}, time.Minute, zerolog.Nop())
	if _, err := c.Run(context.Background()); err != nil {
		t.Errorf("Expected success, got %v", err)
	}
}

func TestCompiler_FailureCapturesOutput(t *testing.T) {
	c := NewCompiler([]string{"sh", "-c", "echo missing l10n.yaml >&2; exit 1"}, time.Minute, zerolog.Nop())
	out, err := c.Run(context.Background())
	if err == nil {
		t.Fatal("Expected a non-zero exit to fail")
	}
	if !strings.Contains(out, "missing l10n.yaml") {
		t.Errorf("Expected captured stderr, got %q", out)
	}
}

func TestCompiler_Timeout(t *testing.T) {
	c := NewCompiler([]string{"sleep", "5"}, 50*time.Millisecond, zerolog.Nop())
	start := time.Now()
	_, err := c.Run(context.Background())
	if err == nil {
		t.Fatal("Expected a timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("Expected timeout error, got %v", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Error("Timeout did not interrupt the subprocess")
	}
}
