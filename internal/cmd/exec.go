package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/raphi011/mrb/internal/log"
)

// Error is returned when a command exits unsuccessfully.
// Its message is the trimmed stderr output when there was any.
type Error struct {
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Stderr returns the captured stderr of a failed command, or "".
func Stderr(err error) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Stderr
	}
	return ""
}

// Command is an external command with its working directory and extra
// environment. Env entries are appended to the process environment.
type Command struct {
	Dir  string
	Env  []string
	Name string
	Args []string
}

// Run executes c and returns stderr in the error message if it fails.
func (c Command) Run(ctx context.Context) error {
	_, err := c.exec(ctx, false)
	return err
}

// Output executes c and returns stdout.
func (c Command) Output(ctx context.Context) ([]byte, error) {
	return c.exec(ctx, true)
}

// RunContext executes a command in dir and returns stderr in the error message if it fails.
// The command is echoed to the context logger in verbose mode.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	return Command{Dir: dir, Name: name, Args: args}.Run(ctx)
}

// OutputContext executes a command in dir and returns stdout, with stderr in the error if it fails.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	return Command{Dir: dir, Name: name, Args: args}.Output(ctx)
}

func (c Command) exec(ctx context.Context, capture bool) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := log.FromContext(ctx).Command(c.Dir, c.Name, c.Args...)
	start := time.Now()
	defer func() { done(time.Since(start)) }()

	ec := exec.CommandContext(ctx, c.Name, c.Args...)
	ec.Dir = c.Dir
	if len(c.Env) > 0 {
		ec.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	if capture {
		ec.Stdout = &stdout
	}
	ec.Stderr = &stderr

	if err := ec.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &Error{Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return stdout.Bytes(), nil
}
