package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/raphi011/mrb/internal/log"
)

func logCtx(buf *bytes.Buffer, verbose bool) context.Context {
	return log.WithLogger(context.Background(), log.New(buf, verbose, false))
}

func TestCommand_Output(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name string
		c    Command
		want string
	}{
		{"stdout captured", Command{Name: "echo", Args: []string{"dev"}}, "dev\n"},
		{"runs in dir", Command{Dir: dir, Name: "pwd"}, dir + "\n"},
		{"env appended", Command{Name: "sh", Args: []string{"-c", "echo $MRB_ROOT"}, Env: []string{"MRB_ROOT=api"}}, "api\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := tt.c.Output(logCtx(&bytes.Buffer{}, false))
			if err != nil {
				t.Fatalf("Output() error = %v", err)
			}
			if got := string(out); got != tt.want {
				t.Errorf("Output() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommand_KeepsProcessEnvironment(t *testing.T) {
	t.Setenv("MRB_INHERITED", "yes")

	out, err := Command{
		Name: "sh",
		Args: []string{"-c", "echo $MRB_INHERITED $MRB_EXTRA"},
		Env:  []string{"MRB_EXTRA=too"},
	}.Output(logCtx(&bytes.Buffer{}, false))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(out); got != "yes too\n" {
		t.Errorf("Output() = %q, want inherited and extra variables", got)
	}
}

func TestRunContext_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		script  string
		wantMsg string
	}{
		{"stderr becomes message", "echo 'error: pathspec dev did not match' >&2; exit 1", "error: pathspec dev did not match"},
		{"exit status without stderr", "exit 3", "exit status 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := RunContext(logCtx(&bytes.Buffer{}, false), "", "sh", "-c", tt.script)
			if err == nil {
				t.Fatal("RunContext() = nil, want error")
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantMsg)
			}
			var ce *Error
			if !errors.As(err, &ce) {
				t.Errorf("error type = %T, want *Error", err)
			}
		})
	}
}

func TestOutputContext_CancelledBeforeStart(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(logCtx(&bytes.Buffer{}, false))
	cancel()
	if _, err := OutputContext(ctx, "", "sleep", "10"); !errors.Is(err, context.Canceled) {
		t.Errorf("OutputContext() error = %v, want context.Canceled", err)
	}
}

func TestRunContext_EchoesInVerboseMode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := RunContext(logCtx(&buf, true), "", "true"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "true") {
		t.Errorf("verbose log = %q, want the command echoed", buf.String())
	}
}

func TestStderr(t *testing.T) {
	t.Parallel()

	err := RunContext(logCtx(&bytes.Buffer{}, false), "", "sh", "-c", "echo 'fatal: not a git repository' >&2; exit 128")
	if got := Stderr(err); got != "fatal: not a git repository" {
		t.Errorf("Stderr(err) = %q, want git's message", got)
	}
	if got := Stderr(errors.New("plain")); got != "" {
		t.Errorf("Stderr(plain) = %q, want empty", got)
	}
}
