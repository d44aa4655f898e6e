package cmd

import (
	"github.com/spf13/cobra"
)

var tailLines int

var tailCmd = &cobra.Command{
	Use:   "tail [job_id]",
	Short: "Show the last lines of a job's log",
	Long:  `Show up to the last N lines of a job's captured output at this moment. Never follows and never blocks, whether or not the job is still running.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		n := tailLines
		if n <= 0 {
			n = a.cfg.TailLines
		}

		lines, err := a.store.TailLog(a.store.Get(args[0]), n)
		if err != nil {
			return err
		}
		for _, line := range lines {
			cmd.Println(line)
		}
		return nil
	},
}

func init() {
	tailCmd.Flags().IntVarP(&tailLines, "lines", "n", 0, "number of lines to show (default from config, 20)")

	rootCmd.AddCommand(tailCmd)
}
