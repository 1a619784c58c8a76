package resolver

import (
	"errors"
	"regexp"
	"strings"
)

// Markers Maven prints around the lines Interpret cares about.
const (
	ErrorMarker     = "[ERROR]"
	FailureMarker   = "Failure to find"
	ClasspathMarker = "[INFO] Dependencies classpath:"
)

const unknownCoordinate = "<unknown>"

var ErrMalformedOutput = errors.New("resolver output has no classpath announcement")

var failurePattern = regexp.MustCompile(regexp.QuoteMeta(FailureMarker) + ` ([^ ]*)`)

// Result is the outcome of one resolution. Exactly one of Classpath and
// Missing is meaningful: Missing is set when the resolver could not find a
// declared dependency.
type Result struct {
	Classpath string
	Missing   string
}

// Failed reports whether the resolver could not find a dependency.
func (r Result) Failed() bool {
	return r.Missing != ""
}

// Interpret reads resolver output. A "Failure to find" error line anywhere in
// the output wins over a classpath announcement.
func Interpret(lines []string) (Result, error) {
	if missing, ok := findFailure(lines); ok {
		return Result{Missing: missing}, nil
	}

	for i, line := range lines {
		if !strings.HasPrefix(line, ClasspathMarker) {
			continue
		}
		if i+1 >= len(lines) {
			return Result{}, ErrMalformedOutput
		}
		return Result{Classpath: lines[i+1]}, nil
	}

	return Result{}, ErrMalformedOutput
}

func findFailure(lines []string) (string, bool) {
	for _, line := range lines {
		if !strings.HasPrefix(line, ErrorMarker) || !strings.Contains(line, FailureMarker) {
			continue
		}
		m := failurePattern.FindStringSubmatch(line)
		if m == nil || m[1] == "" {
			// marker at the very end of the line, no coordinate follows
			return unknownCoordinate, true
		}
		return m[1], true
	}
	return "", false
}
