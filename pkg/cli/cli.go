package cli

import (
	"context"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trio/pkg/cli/config"
	"github.com/secmon-lab/trio/pkg/utils/errutil"
	"github.com/secmon-lab/trio/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// env carries the global configuration to every command
type env struct {
	out        io.Writer
	configPath string
	logger     config.Logger
	sentry     config.Sentry
	storage    config.Storage
	dictionary config.Dictionary
}

func (e *env) flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "TOML configuration file",
			Sources:     cli.EnvVars("TRIO_CONFIG"),
			Destination: &e.configPath,
		},
	}
	flags = append(flags, e.logger.Flags()...)
	flags = append(flags, e.sentry.Flags()...)
	flags = append(flags, e.storage.Flags()...)
	flags = append(flags, e.dictionary.Flags()...)
	return flags
}

func (e *env) loadConfigFile() error {
	if e.configPath == "" {
		return nil
	}

	f, err := config.LoadFile(e.configPath)
	if err != nil {
		return err
	}
	e.storage.ApplyFile(&f.Storage)
	e.dictionary.ApplyFile(&f.Dictionary)
	return nil
}

func Run(ctx context.Context, args []string, version string) error {
	return run(ctx, args, version, os.Stdout)
}

func run(ctx context.Context, args []string, version string, out io.Writer) error {
	e := &env{out: out}

	// Closers must run after errutil.Handle below: the log file and the
	// Sentry transport are still needed to report a failed command.
	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	app := &cli.Command{
		Name:    "trio",
		Usage:   "Key-value dictionary of descriptions and briefings",
		Version: version,
		Flags:   e.flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			closeLogger, err := e.logger.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, closeLogger)

			closeSentry, err := e.sentry.Configure(version)
			if err != nil {
				return ctx, err
			}
			closers = append(closers, closeSentry)

			if err := e.loadConfigFile(); err != nil {
				return ctx, goerr.Wrap(err, "failed to load configuration file")
			}

			logging.Default().Debug("Starting trio",
				"logger", &e.logger,
				"sentry", &e.sentry,
				"storage", &e.storage,
			)
			return logging.With(ctx, logging.Default()), nil
		},
		Commands: []*cli.Command{
			cmdInsert(e),
			cmdGet(e),
			cmdRemove(e),
			cmdUpdate(e),
			cmdReplace(e),
			cmdSearch(e),
			cmdPrefix(e),
			cmdClosest(e),
			cmdIDs(e),
			cmdSort(e),
			cmdRandom(e),
			cmdList(e),
			cmdStats(e),
			cmdOptimize(e),
			cmdClear(e),
			cmdExport(e),
			cmdImport(e),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		return errutil.Handle(ctx, err, "failed to run trio")
	}

	return nil
}
