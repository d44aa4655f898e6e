package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cywf/aliases/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status [job_id]",
	Short: "Show the status of a job",
	Long:  `Show a job's label, current state (running, succeeded, failed, unknown) and, once terminal, its exit code.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		job := a.store.Get(args[0])
		state, code := a.store.ReadStatus(job)

		cmd.Printf("%s %sJob Details%s\n", stateIcon(state), colorBold, colorReset)
		cmd.Println("──────────────────────────────")
		cmd.Printf("%sID:%s     %s\n", colorDim, colorReset, job.ID)
		cmd.Printf("%sName:%s   %s\n", colorDim, colorReset, job.Name)
		cmd.Printf("%sState:%s  %s\n", colorDim, colorReset, colorizeState(state))
		if code != nil {
			if *code == 0 {
				cmd.Printf("%sExit:%s   %s%d%s\n", colorDim, colorReset, colorGreen, *code, colorReset)
			} else {
				cmd.Printf("%sExit:%s   %s%d%s\n", colorDim, colorReset, colorRed, *code, colorReset)
			}
		} else {
			cmd.Printf("%sExit:%s   -\n", colorDim, colorReset)
		}
		return nil
	},
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

func stateIcon(state store.State) string {
	switch state {
	case store.StateSucceeded:
		return colorGreen + "✓" + colorReset
	case store.StateFailed:
		return colorRed + "✗" + colorReset
	case store.StateRunning:
		return colorYellow + "⏳" + colorReset
	default:
		return colorGray + "?" + colorReset
	}
}

func colorizeState(state store.State) string {
	s := string(state)
	switch state {
	case store.StateSucceeded:
		return colorGreen + s + colorReset
	case store.StateFailed:
		return colorRed + s + colorReset
	case store.StateRunning:
		return colorYellow + s + colorReset
	default:
		return colorGray + s + colorReset
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
