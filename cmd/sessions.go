package cmd

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/wordquest/internal/feedback"
	"github.com/abhisek/wordquest/internal/history"
	"github.com/abhisek/wordquest/internal/store"
	"github.com/abhisek/wordquest/internal/ui/components"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		since, _ := cmd.Flags().GetDuration("since")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		opts := store.QueryOpts{Limit: limit}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		recs, err := st.SessionRepo().ListSessions(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(out, "No sessions recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-19s  %6s  %7s  %-6s  %s\n",
			"ID", "Started", "Length", "Guesses", "Solved", "Feedback")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for _, r := range recs {
			solved := "✓"
			if !r.Solved {
				solved = "✗"
			}
			if r.EndedAtMs == nil {
				solved = "…"
			}
			rows := make([]string, 0, len(r.History))
			for _, g := range r.History {
				rows = append(rows, feedback.Render(g.Feedback))
			}
			fmt.Fprintf(out, "%-36s  %-19s  %6d  %7d  %-6s  %s\n",
				r.ID,
				time.UnixMilli(r.StartedAtMs).Local().Format("2006-01-02 15:04:05"),
				r.WordLength,
				len(r.History),
				solved,
				strings.Join(rows, " "),
			)
		}
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the board of a recorded session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		rec, err := st.SessionRepo().GetSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		s := history.FromRecord(rec)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:       %s\n", s.ID)
		fmt.Fprintf(out, "Started:  %s\n", s.StartedAt.Local().Format("2006-01-02 15:04:05"))
		if s.EndedAt != nil {
			fmt.Fprintf(out, "Duration: %s\n", s.Duration(time.Now()).Round(time.Second))
		}
		fmt.Fprintf(out, "Solved:   %v\n\n", s.Solved)
		_, err = lipgloss.Fprintln(out, components.Board(s.History, s.TargetLength, 0))
		return err
	},
}

func init() {
	sessionsCmd.Flags().Int("limit", 20, "Maximum sessions to list (0 = all)")
	sessionsCmd.Flags().Duration("since", 0, "Only sessions started within this window, e.g. 168h")

	sessionsCmd.AddCommand(sessionsShowCmd)
}
