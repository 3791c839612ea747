// Package dispatch rewrites a template argument list around the captured
// file path and runs the target program to completion.
package dispatch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// AbnormalExit is reported when the child did not exit normally and so
// has no exit code of its own.
const AbnormalExit = 255

// Command describes one child invocation.
type Command struct {
	Utility string
	Args    []string

	// Stdin is inherited when ReopenTTY is false.
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	ReopenTTY bool
}

// Outcome is how the child terminated.
type Outcome struct {
	Code   int
	Signal syscall.Signal
}

// Signalled reports whether the child was terminated by a signal.
func (o Outcome) Signalled() bool {
	return o.Signal != 0
}

// SpawnError indicates the program could not be started at all.
type SpawnError struct {
	Utility string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("cannot execute %s: %v", e.Utility, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Rewrite builds the final argument list. With a placeholder every
// occurrence in every argument becomes path; without one, path is appended.
// args is never modified.
func Rewrite(args []string, placeholder *string, path string) []string {
	if placeholder == nil {
		out := make([]string, 0, len(args)+1)
		out = append(out, args...)
		return append(out, path)
	}
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = strings.ReplaceAll(arg, *placeholder, path)
	}
	return out
}

// Run starts the child and blocks until it exits. It never returns while
// the child may still be running.
func Run(c Command) (Outcome, error) {
	cmd := exec.Command(c.Utility, c.Args...)
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if c.ReopenTTY {
		tty, err := os.Open(controllingTerminal)
		if err != nil {
			return Outcome{}, &SpawnError{Utility: c.Utility, Err: fmt.Errorf("open %s: %w", controllingTerminal, err)}
		}
		defer tty.Close()
		cmd.Stdin = tty
	}

	if err := cmd.Start(); err != nil {
		return Outcome{}, &SpawnError{Utility: c.Utility, Err: err}
	}

	waitErr := cmd.Wait()
	if cmd.ProcessState == nil {
		return Outcome{}, fmt.Errorf("wait for %s: %w", c.Utility, waitErr)
	}
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		// The child exited but copying one of its streams failed.
		return outcomeOf(cmd.ProcessState), fmt.Errorf("wait for %s: %w", c.Utility, waitErr)
	}
	return outcomeOf(cmd.ProcessState), nil
}

func outcomeOf(state *os.ProcessState) Outcome {
	var out Outcome
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		out.Signal = ws.Signal()
	}
	out.Code = state.ExitCode()
	if out.Code < 0 {
		out.Code = AbnormalExit
	}
	return out
}
