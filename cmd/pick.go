package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordquest/internal/catalog"
	"github.com/abhisek/wordquest/internal/wordpick"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Draw target words without playing",
	Long: `Draw words the way a round would. Draws advance the stored shuffle
bag for the filters, so the next round will not repeat them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		ephemeral, _ := cmd.Flags().GetBool("ephemeral")
		if count < 1 {
			return fmt.Errorf("--count must be at least 1")
		}

		cat, err := catalog.Embedded()
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		opts := roundOptions(cmd)
		res, err := cat.Resolve(catalog.Request{
			GradeBand:   opts.GradeBand,
			Length:      opts.Length,
			Phonics:     opts.Phonics,
			TeacherPool: opts.TeacherPool,
		})
		if err != nil {
			return err
		}

		var bags wordpick.BagRepository = wordpick.NewMemoryBags()
		if !ephemeral {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			bags = st.BagRepo()
		}

		sel := wordpick.NewSelector(bags, wordpick.WithLogger(logger))
		out := cmd.OutOrStdout()
		if res.Relaxed {
			fmt.Fprintln(out, "# no words at that length; drawing any length")
		}
		for i := 0; i < count; i++ {
			pick := sel.Next(cmd.Context(), res.Pool, res.Scope)
			if pick.Empty() {
				return fmt.Errorf("%w: the catalog has no playable words", catalog.ErrEmptyPool)
			}
			if pick.Reshuffled && i > 0 {
				fmt.Fprintln(out, "# bag reshuffled")
			}
			fmt.Fprintln(out, pick.Word)
		}
		return nil
	},
}

func init() {
	addRoundFlags(pickCmd)
	pickCmd.Flags().Int("count", 1, "Number of words to draw")
	pickCmd.Flags().Bool("ephemeral", false, "Use a throwaway bag instead of the stored one")
}
