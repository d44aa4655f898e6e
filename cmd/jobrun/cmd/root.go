package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cywf/aliases/internal/config"
	"github.com/cywf/aliases/internal/env"
	"github.com/cywf/aliases/internal/logger"
	"github.com/cywf/aliases/internal/report"
	"github.com/cywf/aliases/internal/runner"
	"github.com/cywf/aliases/internal/store"
)

var (
	cfgFile  string
	rootFlag string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "jobrun",
	Short: "Run shell commands and track them as durable background jobs",
	Long: `jobrun executes opaque shell command strings on behalf of the wizard
front-ends, either inline or as tracked background jobs.

A background job gets its own directory under <root>/jobs/<job-id> holding
the job label, the captured combined stdout+stderr and, once the process has
terminated, the final exit status. The interactive session regains control
immediately; results are inspected later.

Common workflows:

  Run a command inline:
    jobrun run -- "docker ps"

  Run a command in the background with a label:
    jobrun run --background --name backup -- "docker save -o /tmp/img.tar myimage"

  List tracked jobs:
    jobrun jobs
    jobrun jobs --recent 5

  Inspect one job:
    jobrun status <job-id>
    jobrun tail <job-id> -n 50

Configuration:
  Values come from an optional YAML config file and ALIASES_* environment
  variables:
    ALIASES_ROOT_DIR             job-root override
    ALIASES_NON_INTERACTIVE      treat the session as non-interactive
    ALIASES_EXIT_ON_COMPLETION   exit with the command's code when non-interactive
    ALIASES_SHELL                shell used for command execution (default /bin/sh)`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// app wires the job subsystem together for one command invocation.
type app struct {
	cfg      *config.Config
	store    *store.Store
	runner   *runner.Runner
	reporter *report.Reporter
	log      *slog.Logger
}

func newApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	// Explicit flags win over environment and file.
	if rootFlag != "" {
		cfg.RootDir = rootFlag
	}
	if verbose {
		cfg.Verbose = true
	}

	root, err := env.ResolveRoot(cfg.RootDir)
	if err != nil {
		return nil, err
	}

	lg := logger.New(cfg.Verbose)
	st := store.New(root)

	return &app{
		cfg:      cfg,
		store:    st,
		runner:   runner.New(st, cfg.Shell, lg),
		reporter: report.New(st),
		log:      lg,
	}, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.aliases.yaml or $HOME/.aliases.yaml)")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "job-root directory (overrides ALIASES_ROOT_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
