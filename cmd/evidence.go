package cmd

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/wordquest/internal/skillmap"
	"github.com/abhisek/wordquest/internal/store"
	"github.com/abhisek/wordquest/internal/ui/components"
	"github.com/abhisek/wordquest/internal/ui/theme"
)

var evidenceCmd = &cobra.Command{
	Use:   "evidence",
	Short: "Show skill evidence recorded for a student",
	RunE: func(cmd *cobra.Command, args []string) error {
		student, _ := cmd.Flags().GetString("student")
		limit, _ := cmd.Flags().GetInt("limit")
		totals, _ := cmd.Flags().GetBool("totals")
		if student == "" {
			student = cfg.Student.ID
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if totals {
			return printTotals(cmd, st.EvidenceRepo(), student)
		}

		recs, err := st.EvidenceRepo().ListEvidence(cmd.Context(), student, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query evidence: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintf(out, "No evidence for %s yet.\n", student)
			return nil
		}
		for _, r := range recs {
			fmt.Fprintf(out, "#%d  %s  session %s  (%s)\n",
				r.Sequence, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.SessionID, r.Source)
			for _, id := range r.SkillDelta.SkillIDs() {
				fmt.Fprintf(out, "    %-30s %+.3f\n", id, r.SkillDelta[id])
			}
		}
		return nil
	},
}

func printTotals(cmd *cobra.Command, repo store.EvidenceRepo, student string) error {
	totals, err := repo.SkillTotals(cmd.Context(), student)
	if err != nil {
		return fmt.Errorf("query skill totals: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(totals) == 0 {
		fmt.Fprintf(out, "No evidence for %s yet.\n", student)
		return nil
	}

	lipgloss.Fprintln(out, theme.Title.Render("Skill totals for "+student))
	limit := 0.0
	for _, t := range totals {
		limit = max(limit, t.Total, -t.Total)
	}
	limit = max(limit, skillmap.MaxDelta)
	for _, t := range totals {
		label := t.SkillID
		if s, ok := skillmap.SkillByID(t.SkillID); ok {
			label = s.Label
		}
		lipgloss.Fprintf(out, "  %-28s %s %+7.3f  (%d)\n",
			label, components.DeltaBar(t.Total, limit, 10), t.Total, t.Count)
	}
	fmt.Fprintln(out, strings.Repeat("─", 60))
	fmt.Fprintf(out, "as of %s\n", time.Now().Local().Format("2006-01-02 15:04"))
	return nil
}

func init() {
	evidenceCmd.Flags().String("student", "", "Student id (default student.id from config)")
	evidenceCmd.Flags().Int("limit", 20, "Maximum rows to list (0 = all)")
	evidenceCmd.Flags().Bool("totals", false, "Sum deltas per skill instead of listing rows")
}
