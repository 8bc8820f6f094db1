package cmd

import (
	"encoding/json"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/wordquest/internal/feedback"
	"github.com/abhisek/wordquest/internal/ui/components"
)

var evalCmd = &cobra.Command{
	Use:   "eval <guess> <target>",
	Short: "Score a guess against a target word",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")

		row, err := feedback.Evaluate(args[0], args[1])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case asJSON:
			enc := json.NewEncoder(out)
			return enc.Encode(map[string]any{
				"guess":    strings.ToLower(args[0]),
				"feedback": row,
				"solved":   feedback.Solved(row),
			})
		case plain:
			names := make([]string, len(row))
			for i, s := range row {
				names[i] = s.String()
			}
			_, err := lipgloss.Fprintln(out, feedback.Render(row), strings.Join(names, ","))
			return err
		default:
			_, err := lipgloss.Fprintln(out, components.Row(strings.ToLower(args[0]), row))
			return err
		}
	},
}

func init() {
	evalCmd.Flags().Bool("json", false, "Print JSON")
	evalCmd.Flags().Bool("plain", false, "Print emoji squares and status names")
}
