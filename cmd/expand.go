package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/MarcinMoskala/kscript/pkg/cache"
	"github.com/MarcinMoskala/kscript/pkg/config"
	"github.com/MarcinMoskala/kscript/pkg/events"
	"github.com/MarcinMoskala/kscript/pkg/expand"
	"github.com/MarcinMoskala/kscript/pkg/manifest"
	"github.com/MarcinMoskala/kscript/pkg/resolver"
	"github.com/urfave/cli/v3"
)

func runExpand(ctx context.Context, cmd *cli.Command, stdout, stderr io.Writer) error {
	raw := cmd.Args().Slice()
	clearCache := cmd.Bool("clear-cache")

	if !clearCache && len(raw) == 0 {
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	c := cache.New(cfg.Cache.Path)

	if clearCache {
		if len(raw) > 0 {
			return errClearCacheArgs
		}
		if err := c.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(stderr, "Cleaning up dependency lookup cache... Done!")
		return nil
	}

	logger := newLogger(stderr, cmd.Bool("verbose"))
	mvnLog := logger.WithPrefix(filepath.Base(cfg.Resolver.Command))

	mvn := resolver.NewMaven(cfg.Resolver.Command,
		resolver.WithArgs(cfg.Resolver.Args...),
		resolver.WithEventHandler(events.NewHandlerFunc(func(event events.Event) {
			mvnLog.Debug(event.Message)
		})),
	)

	e := expand.New(c, mvn,
		expand.WithGoal(cfg.Resolver.Goal),
		expand.WithManifestOptions(manifest.WithRepository(cfg.ManifestRepository())),
		expand.WithEventHandler(newEventLogger(logger)),
	)

	classpath, err := e.Expand(ctx, raw)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, classpath)
	return nil
}

// loadConfig applies flag and env overrides on top of the config file, or the
// defaults when no file is given.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if path := strings.TrimSpace(cmd.String("config")); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if p := strings.TrimSpace(cmd.String("cache-file")); p != "" {
		cfg.Cache.Path = p
	}
	if m := strings.TrimSpace(cmd.String("mvn")); m != "" {
		cfg.Resolver.Command = m
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
