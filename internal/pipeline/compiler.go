package pipeline

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// Compiler invokes the external catalog compiler as a blocking subprocess.
// The contract is exit status only; output is captured for diagnostics.
type Compiler struct {
	argv    []string
	timeout time.Duration
	log     zerolog.Logger
}

// NewCompiler creates a compiler runner. An empty argv disables it.
func NewCompiler(argv []string, timeout time.Duration, log zerolog.Logger) *Compiler {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Compiler{argv: argv, timeout: timeout, log: log}
}

// Enabled reports whether a compiler command is configured.
func (c *Compiler) Enabled() bool {
	return len(c.argv) > 0
}

// Run executes the compiler with a bounded timeout; expiry counts as
// failure. Returns combined stdout/stderr.
func (c *Compiler) Run(ctx context.Context) (string, error) {
	if !c.Enabled() {
		return "", nil
	}

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.log.Info().Strs("command", c.argv).Msg("running catalog compiler")
	cmd := exec.CommandContext(runCtx, c.argv[0], c.argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return string(out), fmt.Errorf("compiler timed out after %v", c.timeout)
		}
		return string(out), fmt.Errorf("compiler: %w", err)
	}
	return string(out), nil
}
