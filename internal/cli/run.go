package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/brandonbloom/mkf/internal/capture"
	"github.com/brandonbloom/mkf/internal/dispatch"
	"github.com/brandonbloom/mkf/internal/workspace"
)

type runner struct {
	inv    invocation
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *zap.Logger

	phase phase
}

func (r *runner) advance(next phase, fields ...zap.Field) {
	if next != r.phase+1 {
		r.log.Error("unexpected phase transition", zap.Stringer("from", r.phase), zap.Stringer("to", next))
	}
	r.phase = next
	r.log.Debug(next.String(), fields...)
}

// run executes one capture-and-dispatch cycle. The workspace outlives the
// child on every path: removal is deferred until after dispatch.Run, which
// does not return before the child has been reaped.
func (r *runner) run(ctx context.Context) error {
	ws, err := withTraceRegion(ctx, "workspace", func() (*workspace.Workspace, error) {
		return workspace.Create(r.inv.TempDir)
	})
	if err != nil {
		return fail(ExitWorkspace, "cannot create temporary directory", err)
	}
	r.advance(phaseCreated, zap.String("dir", ws.Dir))
	defer func() {
		if err := ws.Remove(); err != nil {
			r.log.Warn("workspace left behind", zap.Error(err))
			return
		}
		r.log.Debug("removed workspace", zap.String("dir", ws.Dir))
	}()

	path := ws.FilePath(r.inv.Suffix)
	mode := capture.ModeFor(r.inv.EOFMarker)
	r.advance(phaseCapturing, zap.Stringer("mode", mode), zap.String("file", path))
	if r.inv.Verbose && readerIsTerminal(r.stdin) {
		showInputHint(r.stderr, mode)
	}
	n, err := withTraceRegion(ctx, "capture", func() (int64, error) {
		return capture.Fill(path, r.stdin, mode)
	})
	if err != nil {
		return fail(ExitCapture, "cannot capture stdin", err)
	}
	r.advance(phaseReady, zap.Int64("bytes", n))

	argv := dispatch.Rewrite(r.inv.Args, r.inv.Placeholder, path)
	if r.inv.Verbose {
		showPlan(r.stderr, r.inv.Utility, argv)
	}
	r.advance(phaseDispatching, zap.String("utility", r.inv.Utility), zap.Strings("args", argv))
	outcome, err := withTraceRegion(ctx, "dispatch", func() (dispatch.Outcome, error) {
		return dispatch.Run(dispatch.Command{
			Utility:   r.inv.Utility,
			Args:      argv,
			Stdin:     r.stdin,
			Stdout:    r.stdout,
			Stderr:    r.stderr,
			ReopenTTY: r.inv.ReopenTTY,
		})
	})
	var spawnErr *dispatch.SpawnError
	if errors.As(err, &spawnErr) {
		return fail(ExitSpawn, "", err)
	}
	if err != nil {
		return fail(ExitFailure, "", err)
	}
	r.advance(phaseTerminated, zap.Int("code", outcome.Code))

	if outcome.Signalled() {
		return &ExitCodeError{
			Code:    outcome.Code,
			Err:     fmt.Errorf("%s terminated by %s", r.inv.Utility, describeSignal(outcome.Signal)),
			warning: true,
		}
	}
	if outcome.Code != 0 {
		return &ExitCodeError{Code: outcome.Code}
	}
	return nil
}
