package dispatch

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"syscall"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestRewrite(t *testing.T) {
	const path = "/tmp/mkf-1/stdin.txt"
	cases := []struct {
		name        string
		args        []string
		placeholder *string
		want        []string
	}{
		{"placeholder", []string{"value=X"}, strPtr("X"), []string{"value=" + path}},
		{"append", []string{"fixed"}, nil, []string{"fixed", path}},
		{"appendToEmpty", nil, nil, []string{path}},
		{"everyOccurrence", []string{"{}:{}", "-o", "{}"}, strPtr("{}"), []string{path + ":" + path, "-o", path}},
		{"noOccurrenceUnchanged", []string{"-n", "plain"}, strPtr("@@"), []string{"-n", "plain"}},
		{"placeholderWithoutMatchesDoesNotAppend", []string{"a"}, strPtr("ZZ"), []string{"a"}},
		{"nonOverlapping", []string{"XXX"}, strPtr("XX"), []string{path + "X"}},
		{"emptyArgsWithPlaceholder", []string{}, strPtr("X"), []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var orig []string
			if tc.args != nil {
				orig = append([]string{}, tc.args...)
			}
			got := Rewrite(tc.args, tc.placeholder, path)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Rewrite = %#v, want %#v", got, tc.want)
			}
			if tc.args != nil && !reflect.DeepEqual(tc.args, orig) {
				t.Fatalf("Rewrite mutated input: %#v", tc.args)
			}
		})
	}
}

func TestRewriteAppendsLast(t *testing.T) {
	for n := 0; n < 5; n++ {
		args := make([]string, n)
		for i := range args {
			args[i] = strings.Repeat("a", i+1)
		}
		got := Rewrite(args, nil, "P")
		if len(got) != n+1 || got[n] != "P" {
			t.Fatalf("n=%d: Rewrite = %#v, want path last", n, got)
		}
	}
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skipf("sh not found: %v", err)
	}
}

func TestRunPassesArgumentsAndOutput(t *testing.T) {
	requireShell(t)

	var stdout bytes.Buffer
	out, err := Run(Command{
		Utility: "sh",
		Args:    []string{"-c", `printf '%s|' "$@"`, "sh", "one", "two words"},
		Stdout:  &stdout,
		Stderr:  os.Stderr,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Code != 0 || out.Signalled() {
		t.Fatalf("outcome = %+v, want clean exit", out)
	}
	if got, want := stdout.String(), "one|two words|"; got != want {
		t.Fatalf("stdout = %q, want %q", got, want)
	}
}

func TestRunPropagatesExitCode(t *testing.T) {
	requireShell(t)

	out, err := Run(Command{Utility: "sh", Args: []string{"-c", "exit 7"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Code != 7 {
		t.Fatalf("Code = %d, want 7", out.Code)
	}
}

func TestRunReportsSignal(t *testing.T) {
	requireShell(t)

	out, err := Run(Command{Utility: "sh", Args: []string{"-c", "kill -KILL $$"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Code != AbnormalExit {
		t.Fatalf("Code = %d, want %d", out.Code, AbnormalExit)
	}
	if out.Signal != syscall.SIGKILL {
		t.Fatalf("Signal = %v, want SIGKILL", out.Signal)
	}
}

func TestRunWaitsForChild(t *testing.T) {
	requireShell(t)

	marker := filepath.Join(t.TempDir(), "done")
	_, err := Run(Command{
		Utility: "sh",
		Args:    []string{"-c", `sleep 0.2; : > "$0"`, marker},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Fatalf("Run returned before the child finished: %v", err)
	}
}

func TestRunFeedsStdin(t *testing.T) {
	requireShell(t)

	var stdout bytes.Buffer
	_, err := Run(Command{
		Utility: "sh",
		Args:    []string{"-c", "cat"},
		Stdin:   strings.NewReader("piped"),
		Stdout:  &stdout,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stdout.String() != "piped" {
		t.Fatalf("stdout = %q, want piped", stdout.String())
	}
}

func TestRunMissingUtility(t *testing.T) {
	_, err := Run(Command{Utility: "mkf-definitely-not-a-real-program"})
	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) {
		t.Fatalf("Run error = %v, want *SpawnError", err)
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Fatalf("Run error = %v, want exec.ErrNotFound in chain", err)
	}
}

func TestRunTerminalUnavailable(t *testing.T) {
	requireShell(t)

	old := controllingTerminal
	controllingTerminal = filepath.Join(t.TempDir(), "no-tty")
	t.Cleanup(func() { controllingTerminal = old })

	_, err := Run(Command{Utility: "sh", Args: []string{"-c", "true"}, ReopenTTY: true})
	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) {
		t.Fatalf("Run error = %v, want *SpawnError", err)
	}
	if !strings.Contains(err.Error(), "no-tty") {
		t.Fatalf("error %q should name the terminal device", err)
	}
}

func TestRunReopenedTerminalBecomesStdin(t *testing.T) {
	requireShell(t)

	fake := filepath.Join(t.TempDir(), "tty")
	if err := os.WriteFile(fake, []byte("from-terminal"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	old := controllingTerminal
	controllingTerminal = fake
	t.Cleanup(func() { controllingTerminal = old })

	var stdout bytes.Buffer
	_, err := Run(Command{
		Utility:   "sh",
		Args:      []string{"-c", "cat"},
		Stdin:     strings.NewReader("from-pipe"),
		Stdout:    &stdout,
		ReopenTTY: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stdout.String() != "from-terminal" {
		t.Fatalf("stdout = %q, want from-terminal", stdout.String())
	}
}
