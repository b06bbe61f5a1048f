// Package runner executes external commands for normalisers that
// shell out to system tools.
package runner

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/ampdesk/ampdesk/internal/core/ports/driven"
)

// Ensure Runner implements the interface.
var _ driven.CommandRunner = (*Runner)(nil)

// Runner runs commands through os/exec.
type Runner struct{}

// New creates a command runner.
func New() *Runner {
	return &Runner{}
}

// Run executes the command and returns its stdout. Stderr is folded
// into the error on failure.
func (r *Runner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return nil, fmt.Errorf("%s: %w: %s", name, err, ee.Stderr)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}
