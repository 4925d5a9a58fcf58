// Package synth hands a saved coDECLARE model to the external synthesis
// process.
package synth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/AreebJan/CoDeclare/pkg/config"
)

// waitDelay bounds how long output pipes are drained after the process is
// killed, since grandchildren may still hold them open.
const waitDelay = 500 * time.Millisecond

// Result captures one synthesis run.
type Result struct {
	Command  []string      `json:"command"`
	ExitCode int           `json:"exit_code"`
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	Duration time.Duration `json:"duration"`
}

// Runner runs the synthesis command.
type Runner struct {
	command []string
	timeout time.Duration
	stdout  io.Writer
	stderr  io.Writer
	logger  *slog.Logger
}

// NewRunner creates a runner for command; config.ModelPlaceholder in any
// argument is replaced by the model path. A zero timeout means no limit.
func NewRunner(command []string, timeout time.Duration, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{command: command, timeout: timeout, logger: logger}
}

// SetOutput mirrors the process output to the given writers as it runs.
func (r *Runner) SetOutput(stdout, stderr io.Writer) {
	r.stdout = stdout
	r.stderr = stderr
}

// Args returns the argv for modelPath. When no argument carries the
// placeholder the path is appended.
func (r *Runner) Args(modelPath string) []string {
	args := make([]string, 0, len(r.command)+1)
	substituted := false
	for _, arg := range r.command {
		if strings.Contains(arg, config.ModelPlaceholder) {
			arg = strings.ReplaceAll(arg, config.ModelPlaceholder, modelPath)
			substituted = true
		}
		args = append(args, arg)
	}
	if !substituted {
		args = append(args, modelPath)
	}
	return args
}

// Run executes the command for modelPath. A non-zero exit returns the result
// together with an error.
func (r *Runner) Run(ctx context.Context, modelPath string) (*Result, error) {
	if len(r.command) == 0 {
		return nil, fmt.Errorf("synthesis command is empty")
	}
	args := r.Args(modelPath)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = tee(&stdout, r.stdout)
	cmd.Stderr = tee(&stderr, r.stderr)

	r.logger.Info("Running synthesis", slog.String("command", strings.Join(args, " ")))
	start := time.Now()
	runErr := cmd.Run()

	result := &Result{
		Command:  args,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if runErr == nil {
		r.logger.Info("Synthesis finished", slog.Duration("duration", result.Duration))
		return result, nil
	}

	result.ExitCode = -1
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("synthesis interrupted after %s: %w", result.Duration.Round(time.Millisecond), ctxErr)
	}
	return result, fmt.Errorf("synthesis failed: %w", runErr)
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}
