// Package expand turns dependency locators into a classpath, consulting the
// result cache before running the resolver.
package expand

import (
	"context"
	"errors"
	"fmt"

	"github.com/MarcinMoskala/kscript/pkg/cache"
	"github.com/MarcinMoskala/kscript/pkg/events"
	"github.com/MarcinMoskala/kscript/pkg/locator"
	"github.com/MarcinMoskala/kscript/pkg/manifest"
	"github.com/MarcinMoskala/kscript/pkg/resolver"
)

// NotFoundError is returned when the resolver could not find a dependency.
type NotFoundError struct {
	Coordinate string
}

func (e *NotFoundError) Error() string {
	return "Failed to resolve: " + e.Coordinate
}

// Store is the part of the result cache the Expander needs.
type Store interface {
	Lookup(key string) (string, bool, error)
	Store(key, value string) error
}

var _ Store = (*cache.Cache)(nil)

// Expander resolves locator lists, caching successful results.
type Expander struct {
	store    Store
	resolver resolver.Resolver
	goal     string
	manifest []manifest.Option
	events   events.Handler
}

// Option configures an Expander.
type Option func(*Expander)

// WithGoal overrides resolver.BuildClasspathGoal.
func WithGoal(goal string) Option {
	return func(e *Expander) {
		if goal != "" {
			e.goal = goal
		}
	}
}

// WithManifestOptions passes options through to manifest.Build.
func WithManifestOptions(opts ...manifest.Option) Option {
	return func(e *Expander) {
		e.manifest = append(e.manifest, opts...)
	}
}

// WithEventHandler sets the handler receiving progress events.
func WithEventHandler(handler events.Handler) Option {
	return func(e *Expander) {
		if handler != nil {
			e.events = handler
		}
	}
}

func New(store Store, r resolver.Resolver, opts ...Option) *Expander {
	e := &Expander{
		store:    store,
		resolver: r,
		goal:     resolver.BuildClasspathGoal,
		events:   events.NewNoopHandler(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand returns the classpath for raw. An empty list yields an empty
// classpath without touching the cache or the resolver.
func (e *Expander) Expand(ctx context.Context, raw []string) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	key := locator.Key(raw)

	cached, ok, err := e.store.Lookup(key)
	if err != nil {
		e.emitErr(events.Warn, "cache lookup failed", err)
	} else if ok {
		events.Emit(e.events, events.Info, "cache hit", "key", key)
		return cached, nil
	}
	events.Emit(e.events, events.Debug, "cache miss", "key", key)

	set, err := locator.ParseAll(raw)
	if err != nil {
		return "", err
	}

	m, err := manifest.Build(set, e.manifest...)
	if err != nil {
		return "", err
	}

	events.Emit(e.events, events.Info, "resolving dependencies", "count", len(set), "goal", e.goal)
	out, err := e.resolver.Resolve(ctx, m, e.goal)
	if err != nil {
		return "", err
	}
	events.Emit(e.events, events.Debug, "resolver finished", "exit", out.ExitCode, "lines", len(out.Lines))

	res, err := resolver.Interpret(out.Lines)
	if err != nil {
		if errors.Is(err, resolver.ErrMalformedOutput) && out.ExitCode != 0 {
			return "", &resolver.ProcessError{Command: e.resolverName(), ExitCode: out.ExitCode, Err: err}
		}
		return "", fmt.Errorf("interpreting resolver output: %w", err)
	}
	if res.Failed() {
		return "", &NotFoundError{Coordinate: res.Missing}
	}

	if err := e.store.Store(key, res.Classpath); err != nil {
		e.emitErr(events.Warn, "cache write failed", err)
	}

	return res.Classpath, nil
}

func (e *Expander) resolverName() string {
	if named, ok := e.resolver.(interface{ Command() string }); ok {
		return named.Command()
	}
	return "resolver"
}

func (e *Expander) emitErr(level events.Level, msg string, err error) {
	e.events.Handle(events.Event{Level: level, Message: msg, Error: err})
}
