package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/brandonbloom/mkf/internal/dispatch"
)

// Exit statuses reserved by mkf. Any other status is the child's own.
const (
	ExitFailure   = 1
	ExitWorkspace = 2
	ExitSpawn     = 3
	ExitCapture   = 4
	ExitAbnormal  = dispatch.AbnormalExit
)

// ExitCodeError carries the process exit status out of the command.
// A nil Err means the child already reported whatever it had to say.
type ExitCodeError struct {
	Code int
	Msg  string
	Err  error

	warning bool
}

func (e *ExitCodeError) Error() string {
	switch {
	case e.Err == nil:
		return fmt.Sprintf("exit status %d", e.Code)
	case e.Msg == "":
		return e.Err.Error()
	default:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

func fail(code int, msg string, err error) error {
	return &ExitCodeError{Code: code, Msg: msg, Err: err}
}

var (
	colorErrorPrefix = color.New(color.FgRed, color.Bold).SprintFunc()
	colorWarnPrefix  = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// Report prints a diagnostic for err to w and returns the exit status the
// process should end with.
func Report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitCodeError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(w, "%s %v\n", colorErrorPrefix("mkf:"), err)
		return ExitFailure
	}
	if exitErr.Err != nil {
		if exitErr.warning {
			fmt.Fprintf(w, "%s %v\n", colorWarnPrefix("mkf: warning:"), exitErr)
		} else {
			fmt.Fprintf(w, "%s %v\n", colorErrorPrefix("mkf:"), exitErr)
		}
	}
	return exitErr.Code
}
