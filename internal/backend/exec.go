package backend

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/labs-lang/sliver/internal/procexec"
)

// ExecResult is a backend subprocess invocation's outcome.
type ExecResult = procexec.Result

// RunSubprocess invokes argv via procexec, the shared subprocess runner
// the orchestrator also uses to invoke the encoder.
func RunSubprocess(ctx context.Context, argv []string, timeout time.Duration, logger *zap.Logger) (ExecResult, error) {
	return procexec.Run(ctx, argv, timeout, logger)
}
