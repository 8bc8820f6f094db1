package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordquest/internal/constraint"
	"github.com/abhisek/wordquest/internal/feedback"
	"github.com/abhisek/wordquest/internal/history"
)

var checkCmd = &cobra.Command{
	Use:   "check <candidate>",
	Short: "Check a candidate against the feedback from earlier guesses",
	Long: `Build the constraints implied by earlier guesses and report how well
a candidate respects them.

Give each earlier guess with --guess. Either spell out its feedback
(--guess crane=correct,correct,correct,absent,correct, colour names work
too) or pass --target and let the feedback be computed.`,
	Example: `  wordquest check trace --guess crane=green,green,green,gray,green
  wordquest check trace --target crate --guess crane`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		guesses, _ := cmd.Flags().GetStringArray("guess")
		target, _ := cmd.Flags().GetString("target")

		var prefix []history.Guess
		for _, g := range guesses {
			parsed, err := parseGuessArg(g, target)
			if err != nil {
				return err
			}
			prefix = append(prefix, parsed)
		}

		candidate := strings.ToLower(args[0])
		known := constraint.Build(prefix)
		out := cmd.OutOrStdout()

		if known.Empty() {
			fmt.Fprintln(out, "No constraints.")
		}
		for _, line := range known.Describe() {
			fmt.Fprintln(out, line)
		}
		fmt.Fprintf(out, "respect: %.3f\n", constraint.Respect(candidate, known))
		for _, v := range constraint.Violations(candidate, known) {
			fmt.Fprintf(out, "  %s\n", v)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringArray("guess", nil, "Earlier guess as word=status,... or word with --target (repeatable)")
	checkCmd.Flags().String("target", "", "Target word used to score plain --guess words")
}

// parseGuessArg reads "word=statuses", or a bare word scored against target.
func parseGuessArg(arg, target string) (history.Guess, error) {
	word, statuses, explicit := strings.Cut(arg, "=")
	word = strings.ToLower(strings.TrimSpace(word))

	var (
		row []feedback.Status
		err error
	)
	switch {
	case explicit:
		row, err = feedback.ParseAll(statuses)
	case target != "":
		row, err = feedback.Evaluate(word, target)
	default:
		return history.Guess{}, fmt.Errorf("guess %q has no feedback: use word=status,... or --target", arg)
	}
	if err != nil {
		return history.Guess{}, fmt.Errorf("guess %q: %w", arg, err)
	}
	if len(row) != len(word) {
		return history.Guess{}, fmt.Errorf("guess %q: %d letters but %d statuses", arg, len(word), len(row))
	}
	return history.Guess{Letters: word, Feedback: row}, nil
}
