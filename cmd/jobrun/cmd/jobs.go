package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cywf/aliases/internal/report"
)

var recentN int

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List tracked jobs",
	Long:  `List all tracked jobs in submission order, with their current state and exit code. Use --recent to show only the latest jobs, most recent first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		var rows []report.Row
		if recentN > 0 {
			rows, err = a.reporter.Recent(cmd.Context(), recentN)
		} else {
			rows, err = a.reporter.Summarize(cmd.Context())
		}
		if err != nil {
			return err
		}

		if len(rows) == 0 {
			cmd.Println("No jobs found.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTATE\tEXIT")
		for _, row := range rows {
			exit := "-"
			if row.ExitCode != nil {
				exit = fmt.Sprintf("%d", *row.ExitCode)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.ID, row.Name, colorizeState(row.State), exit)
		}
		return w.Flush()
	},
}

func init() {
	jobsCmd.Flags().IntVar(&recentN, "recent", 0, "show only the N most recent jobs, newest first")

	rootCmd.AddCommand(jobsCmd)
}
