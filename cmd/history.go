package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/priyank/bookquiz/internal/history"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <user>",
		Short: "Show a user's test history and trend",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistory,
	}
	f := cmd.Flags()
	f.String("data-dir", "data", "Directory for test history files")
	f.Bool("json", false, "Emit raw JSON instead of a table")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	store := history.NewStore(v.GetString("data-dir"))
	reports, err := store.Query(args[0])
	if err != nil {
		return err
	}
	trend := history.BuildTrend(reports)

	if v.GetBool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"trend":   trend,
			"reports": reports,
		})
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTEST\tSCORE\tPERCENT\tGRADE")
	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%s\t%d/%d\t%.1f%%\t%s\n",
			r.Summary.Timestamp.Format("2006-01-02 15:04"),
			r.Summary.TestName,
			r.Summary.TotalScore, r.Summary.MaxScore,
			r.Summary.Percentage,
			r.Summary.Grade)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d tests, average %.1f%%, best %.1f%%, latest grade %s\n",
		trend.Tests, trend.AveragePercentage, trend.BestPercentage, trend.LatestGrade)
	return nil
}
