package expand

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MarcinMoskala/kscript/pkg/cache"
	"github.com/MarcinMoskala/kscript/pkg/events"
	"github.com/MarcinMoskala/kscript/pkg/locator"
	"github.com/MarcinMoskala/kscript/pkg/manifest"
	"github.com/MarcinMoskala/kscript/pkg/resolver"
)

type fakeResolver struct {
	calls    int
	goal     string
	manifest manifest.Manifest
	out      *resolver.Output
	err      error
}

func (f *fakeResolver) Resolve(_ context.Context, m manifest.Manifest, goal string) (*resolver.Output, error) {
	f.calls++
	f.goal = goal
	f.manifest = m
	return f.out, f.err
}

func classpathOutput(cp string) *resolver.Output {
	return &resolver.Output{Lines: []string{
		"[INFO] Scanning for projects...",
		resolver.ClasspathMarker,
		cp,
		"[INFO] BUILD SUCCESS",
	}}
}

type failingStore struct{}

func (failingStore) Lookup(string) (string, bool, error) { return "", false, errors.New("disk on fire") }
func (failingStore) Store(string, string) error          { return errors.New("disk on fire") }

func newCache(t *testing.T) *cache.Cache {
	t.Helper()
	return cache.New(filepath.Join(t.TempDir(), cache.DefaultFileName))
}

func TestExpandEmpty(t *testing.T) {
	c := newCache(t)
	r := &fakeResolver{}

	got, err := New(c, r).Expand(context.Background(), nil)
	if err != nil || got != "" {
		t.Fatalf("Expand(nil) = %q, %v", got, err)
	}
	if r.calls != 0 {
		t.Errorf("resolver called %d times", r.calls)
	}
	if _, err := os.Stat(c.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("cache file created for empty input: %v", err)
	}
}

func TestExpandCachesSuccess(t *testing.T) {
	c := newCache(t)
	r := &fakeResolver{out: classpathOutput("/a.jar:/b.jar")}
	e := New(c, r)
	raw := []string{"org.apache.commons:commons-csv:1.3", "log4j:log4j:1.2.14"}

	first, err := e.Expand(context.Background(), raw)
	if err != nil {
		t.Fatalf("first Expand() error = %v", err)
	}
	second, err := e.Expand(context.Background(), raw)
	if err != nil {
		t.Fatalf("second Expand() error = %v", err)
	}

	if first != "/a.jar:/b.jar" || second != first {
		t.Errorf("Expand() = %q then %q", first, second)
	}
	if r.calls != 1 {
		t.Errorf("resolver called %d times, want 1", r.calls)
	}
	if r.goal != resolver.BuildClasspathGoal {
		t.Errorf("goal = %q", r.goal)
	}
	if !strings.Contains(string(r.manifest.Content), "<artifactId>commons-csv</artifactId>") {
		t.Errorf("manifest missing dependency:\n%s", r.manifest.Content)
	}

	got, ok, err := c.Lookup(locator.Key(raw))
	if err != nil || !ok || got != first {
		t.Errorf("cache entry = %q, %v, %v", got, ok, err)
	}

	// different order is a different key
	if _, err := e.Expand(context.Background(), []string{raw[1], raw[0]}); err != nil {
		t.Fatal(err)
	}
	if r.calls != 2 {
		t.Errorf("reordered locators should miss the cache, resolver called %d times", r.calls)
	}
}

func TestExpandInvalidLocator(t *testing.T) {
	c := newCache(t)
	r := &fakeResolver{out: classpathOutput("/a.jar")}

	_, err := New(c, r).Expand(context.Background(), []string{"a:b:1", "log4j"})
	if !errors.Is(err, locator.ErrInvalidFormat) {
		t.Fatalf("Expand() error = %v, want ErrInvalidFormat", err)
	}
	if r.calls != 0 {
		t.Errorf("resolver called %d times", r.calls)
	}
}

func TestExpandNotFound(t *testing.T) {
	c := newCache(t)
	r := &fakeResolver{out: &resolver.Output{
		Lines:    []string{"[ERROR] Failed to execute goal: Failure to find com.foo:bar:1.0 in https://repo -> [Help 1]"},
		ExitCode: 1,
	}}
	raw := []string{"com.foo:bar:1.0"}

	_, err := New(c, r).Expand(context.Background(), raw)

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expand() error = %v, want *NotFoundError", err)
	}
	if nf.Coordinate != "com.foo:bar:1.0" {
		t.Errorf("Coordinate = %q", nf.Coordinate)
	}
	if err.Error() != "Failed to resolve: com.foo:bar:1.0" {
		t.Errorf("Error() = %q", err.Error())
	}

	if _, ok, _ := c.Lookup(locator.Key(raw)); ok {
		t.Error("failure was cached")
	}
}

func TestExpandMalformedOutput(t *testing.T) {
	tests := []struct {
		name        string
		exitCode    int
		wantProcErr bool
	}{
		{name: "clean exit", exitCode: 0},
		{name: "crashed", exitCode: 137, wantProcErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeResolver{out: &resolver.Output{Lines: []string{"[INFO] BUILD SUCCESS"}, ExitCode: tt.exitCode}}

			_, err := New(newCache(t), r).Expand(context.Background(), []string{"a:b:1"})
			if !errors.Is(err, resolver.ErrMalformedOutput) {
				t.Fatalf("Expand() error = %v, want ErrMalformedOutput", err)
			}

			var procErr *resolver.ProcessError
			if errors.As(err, &procErr) != tt.wantProcErr {
				t.Errorf("Expand() error = %v, ProcessError expected: %v", err, tt.wantProcErr)
			}

			var nf *NotFoundError
			if errors.As(err, &nf) {
				t.Error("malformed output reported as NotFoundError")
			}
		})
	}
}

func TestExpandResolverError(t *testing.T) {
	procErr := &resolver.ProcessError{Command: "mvn", Err: errors.New("executable file not found")}
	r := &fakeResolver{err: procErr}

	_, err := New(newCache(t), r).Expand(context.Background(), []string{"a:b:1"})
	if !errors.Is(err, procErr) {
		t.Fatalf("Expand() error = %v, want %v", err, procErr)
	}
}

func TestExpandCacheErrorsAreWarnings(t *testing.T) {
	r := &fakeResolver{out: classpathOutput("/a.jar")}
	collector := events.NewCollector(nil)

	got, err := New(failingStore{}, r, WithEventHandler(collector)).Expand(context.Background(), []string{"a:b:1"})
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if got != "/a.jar" {
		t.Errorf("Expand() = %q", got)
	}
	if warnings := collector.AtLevel(events.Warn); len(warnings) != 2 {
		t.Errorf("got %d warnings, want 2: %v", len(warnings), collector.Messages())
	}
}

func TestExpandOptions(t *testing.T) {
	r := &fakeResolver{out: classpathOutput("/a.jar")}
	e := New(newCache(t), r,
		WithGoal("dependency:custom"),
		WithManifestOptions(manifest.WithRepository(manifest.Repository{ID: "mirror", URL: "https://mirror.example.com/"})),
	)

	if _, err := e.Expand(context.Background(), []string{"a:b:1"}); err != nil {
		t.Fatal(err)
	}
	if r.goal != "dependency:custom" {
		t.Errorf("goal = %q", r.goal)
	}
	if !strings.Contains(string(r.manifest.Content), "<url>https://mirror.example.com/</url>") {
		t.Errorf("manifest missing repository override:\n%s", r.manifest.Content)
	}
}
