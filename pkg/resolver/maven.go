package resolver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"time"

	"github.com/MarcinMoskala/kscript/pkg/events"
	"github.com/MarcinMoskala/kscript/pkg/manifest"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultCommand = "mvn"

	tempPattern = "__expandcp__temp__*_pom.xml"

	// Maven prints the whole classpath on one line.
	maxLineSize = 16 * 1024 * 1024

	// After a cancelled run is killed, output pipes still held open by its
	// children are force-closed once this elapses.
	DefaultWaitDelay = 2 * time.Second
)

// Maven resolves manifests by running `mvn -f <pom> <goal>`.
type Maven struct {
	command   string
	args      []string
	tempDir   string
	waitDelay time.Duration
	events    events.Handler
}

// MavenOption configures a Maven resolver.
type MavenOption func(*Maven)

// WithArgs adds arguments placed before -f.
func WithArgs(args ...string) MavenOption {
	return func(m *Maven) {
		m.args = append(m.args, args...)
	}
}

// WithTempDir sets where the temporary POM is written. Defaults to os.TempDir().
func WithTempDir(dir string) MavenOption {
	return func(m *Maven) {
		m.tempDir = dir
	}
}

// WithWaitDelay overrides DefaultWaitDelay.
func WithWaitDelay(d time.Duration) MavenOption {
	return func(m *Maven) {
		m.waitDelay = d
	}
}

// WithEventHandler receives every output line as a debug event as it is read.
func WithEventHandler(handler events.Handler) MavenOption {
	return func(m *Maven) {
		m.events = handler
	}
}

// NewMaven creates a Maven resolver running command, or DefaultCommand if empty.
func NewMaven(command string, opts ...MavenOption) *Maven {
	if command == "" {
		command = DefaultCommand
	}

	m := &Maven{command: command, waitDelay: DefaultWaitDelay}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Command returns the resolver executable name.
func (m *Maven) Command() string {
	return m.command
}

// Resolve writes the manifest to a fresh temp file and runs Maven on it.
// Stdout and stderr are merged. A non-zero exit status is reported in
// Output.ExitCode, not as an error.
func (m *Maven) Resolve(ctx context.Context, man manifest.Manifest, goal string) (*Output, error) {
	bin, err := exec.LookPath(m.command)
	if err != nil {
		return nil, &ProcessError{Command: m.command, Err: err}
	}

	pomPath, err := writeTemp(m.tempDir, man.Content)
	if err != nil {
		return nil, &ProcessError{Command: m.command, Err: err}
	}
	defer os.Remove(pomPath)

	args := append(slices.Clone(m.args), "-f", pomPath, goal)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.WaitDelay = m.waitDelay

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		return nil, &ProcessError{Command: m.command, Err: err}
	}

	var (
		lines   []string
		waitErr error
	)

	g := new(errgroup.Group)
	g.Go(func() error {
		waitErr = cmd.Wait()
		return pw.Close()
	})
	g.Go(func() error {
		sc := bufio.NewScanner(pr)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for sc.Scan() {
			line := sc.Text()
			lines = append(lines, line)
			events.Emit(m.events, events.Debug, line)
		}
		if err := sc.Err(); err != nil {
			// unblock the copy goroutine inside exec so Wait can return
			_ = pr.CloseWithError(err)
			return fmt.Errorf("reading resolver output: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, &ProcessError{Command: m.command, Err: err}
	}

	out := &Output{Lines: lines}
	if waitErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &ProcessError{Command: m.command, Err: ctxErr}
		}

		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, &ProcessError{Command: m.command, Err: waitErr}
		}
		out.ExitCode = exitErr.ExitCode()
	}

	return out, nil
}

func writeTemp(dir string, content []byte) (string, error) {
	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return "", fmt.Errorf("creating temp pom: %w", err)
	}

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("writing temp pom: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("closing temp pom: %w", err)
	}

	return tmp.Name(), nil
}
