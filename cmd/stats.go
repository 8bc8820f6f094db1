package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/wordquest/internal/store"
	"github.com/abhisek/wordquest/internal/ui/components"
	"github.com/abhisek/wordquest/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show daily win rates",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		progress, err := st.ProgressRepo().Progress(cmd.Context(), days)
		if err != nil {
			return fmt.Errorf("query progress: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(progress) == 0 {
			fmt.Fprintln(out, "No rounds played yet.")
			return nil
		}

		lipgloss.Fprintln(out, theme.Title.Render("Daily progress"))
		var total, wins int
		for _, d := range progress {
			total += d.Total
			wins += d.Wins
			bar := components.NewProgressBar(d.Day, winRate(d), true, 40)
			lipgloss.Fprintf(out, "%s  %d/%d\n", bar.View(), d.Wins, d.Total)
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%d rounds over %d days, %d won\n", total, len(progress), wins)
		return nil
	},
}

func winRate(d store.DayProgress) float64 {
	if d.Total == 0 {
		return 0
	}
	return float64(d.Wins) / float64(d.Total)
}

func init() {
	statsCmd.Flags().Int("days", 14, "Number of most recent days to show")
}
