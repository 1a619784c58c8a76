package resolver

import (
	"context"
	"fmt"

	"github.com/MarcinMoskala/kscript/pkg/manifest"
)

// BuildClasspathGoal makes Maven print the resolved classpath after ClasspathMarker.
const BuildClasspathGoal = "dependency:build-classpath"

// Resolver runs an external dependency resolver against a manifest.
type Resolver interface {
	Resolve(ctx context.Context, m manifest.Manifest, goal string) (*Output, error)
}

// Output is everything the resolver printed, in order, plus its exit code.
type Output struct {
	Lines    []string
	ExitCode int
}

// ProcessError means the resolver could not be run, or died without
// producing anything Interpret understands.
type ProcessError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *ProcessError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("resolver %q exited with status %d: %v", e.Command, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("resolver %q failed: %v", e.Command, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}
