package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/MarcinMoskala/kscript/pkg/version"
	"github.com/urfave/cli/v3"
)

var Version = version.String()

var helpArgs = []string{"--help", "-help", "-h"}

var errClearCacheArgs = errors.New("--clear-cache does not take dependency locators")

// Execute runs expandcp with os.Args-style args against the process streams.
func Execute(ctx context.Context, args []string) error {
	return Run(ctx, args, os.Stdout, os.Stderr)
}

// Run is Execute with explicit output streams. The classpath goes to stdout,
// everything else to stderr.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) > 1 && slices.Contains(helpArgs, args[1]) {
		printUsage(stderr)
		return nil
	}

	app := &cli.Command{
		Name:      "expandcp",
		Usage:     "Resolve dependency locators into a classpath",
		ArgsUsage: "[group:artifact:version[:classifier] ...]",
		Version:   Version,
		HideHelp:  true,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     rootFlags(),
		OnUsageError: func(ctx context.Context, cmd *cli.Command, err error, isSubcommand bool) error {
			return fmt.Errorf("%w (see --help)", err)
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runExpand(ctx, cmd, stdout, stderr)
		},
	}

	return app.Run(ctx, args)
}

func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "clear-cache",
			Usage: "Delete the dependency lookup cache",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file (.toml, .yaml, .yml, .json)",
			Sources: cli.EnvVars("EXPANDCP_CONFIG"),
		},
		&cli.StringFlag{
			Name:    "cache-file",
			Usage:   "Cache file path (overrides config)",
			Sources: cli.EnvVars("EXPANDCP_CACHE_FILE"),
		},
		&cli.StringFlag{
			Name:    "mvn",
			Usage:   "Maven executable (overrides config)",
			Sources: cli.EnvVars("EXPANDCP_MVN"),
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Usage:   "Log cache decisions and Maven output to stderr",
			Sources: cli.EnvVars("EXPANDCP_VERBOSE"),
		},
	}
}
