// Package ffmpeg runs the external ffmpeg binary for the mute+trim pipeline.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"myreplays/internal/ports"
)

const defaultBinary = "ffmpeg"

type Runner struct {
	binary string
}

func New() *Runner {
	return &Runner{binary: defaultBinary}
}

// WithBinary overrides the executable name, mainly for tests.
func (r *Runner) WithBinary(binary string) *Runner {
	r.binary = binary
	return r
}

func (r *Runner) Check() error {
	if _, err := exec.LookPath(r.binary); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", r.binary, err)
	}
	return nil
}

func (r *Runner) Run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w\n%s", r.binary, err, stderrTail(stderr.String(), 6))
	}
	return nil
}

// stderrTail keeps the last n lines; ffmpeg puts the actual failure there,
// after pages of banner output.
func stderrTail(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

var _ ports.MediaRunner = (*Runner)(nil)
