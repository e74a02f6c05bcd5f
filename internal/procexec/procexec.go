// Package procexec runs an external tool and captures its output, the one
// piece of subprocess plumbing both the backend adapters and the
// orchestrator need (encoder invocation, backend invocation), grounded on
// _examples/theRebelliousNerd-codenerd/internal/tools/shell/execute.go's
// CommandContext/bytes.Buffer/WithTimeout shape.
package procexec

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// Result is one subprocess invocation's outcome.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
}

// Run invokes argv[0] with argv[1:], capturing stdout/stderr and enforcing
// timeout if nonzero.
func Run(ctx context.Context, argv []string, timeout time.Duration, logger *zap.Logger) (Result, error) {
	if len(argv) == 0 {
		return Result{}, nil
	}
	runCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if logger != nil {
		logger.Debug("exec", zap.Strings("argv", argv))
	}
	err := cmd.Run()

	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if runCtx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		return result, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if err != nil {
		return result, err
	}
	return result, nil
}
