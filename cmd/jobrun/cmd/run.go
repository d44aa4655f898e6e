package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cywf/aliases/internal/env"
	"github.com/cywf/aliases/internal/runner"
)

var (
	background bool
	jobName    string
)

var runCmd = &cobra.Command{
	Use:   "run [flags] -- <command>",
	Short: "Execute a shell command, inline or as a background job",
	Long: `Execute a shell command string through the configured shell.

Inline (default), run blocks until the command terminates. In an interactive
session, or when exit_on_completion is set, the host process then exits with
the command's exit code; otherwise the code is printed.

With --background a job record is created and the job id is printed as soon
as the process has been started. The process keeps running until the job's
status file is written, since the background task lives in this process.

The command string is passed to the shell verbatim. No quoting or escaping
is applied here; the caller is responsible for a safe command line.

Example:
  jobrun run -- "docker ps"
  jobrun run --background --name greet -- "echo hello"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		command := strings.Join(args, " ")

		a, err := newApp()
		if err != nil {
			return err
		}

		// Echo the command line the way the wizards always did.
		cmd.Printf("$ %s\n", command)

		res, err := a.runner.Execute(cmd.Context(), command, runner.Options{
			Background: background,
			Name:       jobName,
			Stdout:     cmd.OutOrStdout(),
			Stderr:     cmd.ErrOrStderr(),
		})

		if background {
			if err != nil {
				return err
			}
			cmd.Printf("job %s started in background\n", res.JobID)
			a.runner.Wait()
			return nil
		}

		if err != nil {
			return err
		}

		if env.IsInteractive(a.cfg.NonInteractive) || a.cfg.ExitOnCompletion {
			os.Exit(res.ExitCode)
		}
		cmd.Printf("exit %d\n", res.ExitCode)
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVarP(&background, "background", "b", false, "run as a tracked background job")
	runCmd.Flags().StringVarP(&jobName, "name", "n", "", "job label (defaults to the command string)")

	rootCmd.AddCommand(runCmd)
}
