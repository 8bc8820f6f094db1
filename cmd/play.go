package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/wordquest/internal/catalog"
	"github.com/abhisek/wordquest/internal/game"
	"github.com/abhisek/wordquest/internal/screens/play"
	"github.com/abhisek/wordquest/internal/skillmap"
	"github.com/abhisek/wordquest/internal/store"
	"github.com/abhisek/wordquest/internal/ui/components"
	"github.com/abhisek/wordquest/internal/ui/theme"
	"github.com/abhisek/wordquest/internal/wordpick"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a round",
	Long: `Play one round in the terminal.

Type a guess and press enter. Type ? to list what the feedback so far
rules in and out, or quit (or press esc) to give up the round.`,
	RunE: runPlay,
}

func init() {
	addRoundFlags(playCmd)
	playCmd.Flags().Bool("ephemeral", false, "Do not read or write the database")
}

// addRoundFlags registers the flags that shape which word is drawn.
func addRoundFlags(cmd *cobra.Command) {
	cmd.Flags().String("grade", "", "Grade band: all, K-2, G3-5, G6-8 or G9-12")
	cmd.Flags().Int("length", 0, "Word length (0 = any)")
	cmd.Flags().String("phonics", "", "Phonics pattern, e.g. vowel_team (all = any)")
	cmd.Flags().StringSlice("words", nil, "Teacher word list; overrides the catalog")
	cmd.Flags().Int("max-guesses", 0, "Guesses allowed per round")
	cmd.Flags().String("student", "", "Student id recorded with skill evidence")
}

// roundOptions merges round flags over the configured defaults.
func roundOptions(cmd *cobra.Command) game.Options {
	opts := game.Options{
		GradeBand:   cfg.Game.GradeBand,
		Length:      cfg.Game.Length,
		Phonics:     cfg.Game.Phonics,
		TeacherPool: cfg.Game.TeacherPool,
		MaxGuesses:  cfg.Game.MaxGuesses,
		StudentID:   cfg.Student.ID,
	}
	f := cmd.Flags()
	if f.Changed("grade") {
		opts.GradeBand, _ = f.GetString("grade")
	}
	if f.Changed("length") {
		opts.Length, _ = f.GetInt("length")
	}
	if f.Changed("phonics") {
		opts.Phonics, _ = f.GetString("phonics")
	}
	if f.Changed("words") {
		opts.TeacherPool, _ = f.GetStringSlice("words")
	}
	if f.Changed("max-guesses") {
		opts.MaxGuesses, _ = f.GetInt("max-guesses")
	}
	if f.Changed("student") {
		opts.StudentID, _ = f.GetString("student")
	}
	return opts
}

// loadMapper returns a mapper for the configured weight table.
func loadMapper() (*skillmap.Mapper, error) {
	if cfg.Skills.Weights == "" {
		return skillmap.NewMapper(nil), nil
	}
	table, err := skillmap.LoadTable(cfg.Skills.Weights)
	if err != nil {
		return nil, err
	}
	if unknown := table.UnknownSkills(); len(unknown) > 0 {
		logger.Warn().Strs("skills", unknown).Msg("weight table names skills outside the taxonomy; they are ignored")
	}
	return skillmap.NewMapper(table), nil
}

// newEngine builds a round engine. A nil store keeps everything in memory.
func newEngine(st *store.Store) (*game.Engine, error) {
	cat, err := catalog.Embedded()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	mapper, err := loadMapper()
	if err != nil {
		return nil, err
	}

	var bags wordpick.BagRepository = wordpick.NewMemoryBags()
	if st != nil {
		bags = st.BagRepo()
	}
	e := game.NewEngine(cat, wordpick.NewSelector(bags, wordpick.WithLogger(logger)))
	e.Mapper = mapper
	e.Logger = logger
	if st != nil {
		e.Sessions = st.SessionRepo()
		e.Evidence = st.EvidenceRepo()
		e.Progress = st.ProgressRepo()
	}
	return e, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ephemeral, _ := cmd.Flags().GetBool("ephemeral")

	var st *store.Store
	if !ephemeral {
		var err error
		if st, err = openStore(); err != nil {
			return err
		}
		defer st.Close()
	}

	engine, err := newEngine(st)
	if err != nil {
		return err
	}

	round, err := engine.Start(ctx, roundOptions(cmd))
	if errors.Is(err, game.ErrEmptyPool) {
		return fmt.Errorf("%w\n\nTry a wider grade band, --length 0 or --phonics all", err)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	lipgloss.Fprintln(out, theme.Title.Render("WordQuest"))
	intro := fmt.Sprintf("Guess the %d-letter word. You have %d guesses.", round.Length(), round.MaxGuesses())
	if round.Relaxed() {
		intro += " (No words at that length, so any length is in play.)"
	}
	lipgloss.Fprintln(out, theme.Subtitle.Render(intro))
	fmt.Fprintln(out)

	p := tea.NewProgram(play.New(ctx, round),
		tea.WithContext(ctx),
		tea.WithInput(guessInput(cmd.InOrStdin())),
		tea.WithOutput(out),
		tea.WithWindowSize(80, 24),
	)
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrInterrupted) {
		return fmt.Errorf("run round: %w", err)
	}
	if m, ok := final.(play.Model); ok && m.Err() != nil {
		return m.Err()
	}

	if !round.Done() {
		if _, err := round.Abandon(ctx); err != nil {
			return err
		}
	}
	fmt.Fprintln(out)
	lipgloss.Fprintln(out, components.Board(round.History(), round.Length(), 0))
	fmt.Fprintln(out)
	lipgloss.Fprintln(out, components.Keyboard(round.History()))
	fmt.Fprintln(out)

	outcome, _ := round.Outcome()
	printOutcome(out, outcome)
	return nil
}

// guessInput ends piped input with a ctrl+d so the round gives up instead
// of waiting for keys that never come. Terminals are passed through.
func guessInput(in io.Reader) io.Reader {
	if f, ok := in.(*os.File); ok {
		if fi, err := f.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
			return f
		}
	}
	return &eotReader{r: in}
}

type eotReader struct {
	r    io.Reader
	done bool
}

func (e *eotReader) Read(p []byte) (int, error) {
	if e.done {
		return 0, io.EOF
	}
	n, err := e.r.Read(p)
	if !errors.Is(err, io.EOF) {
		return n, err
	}
	if n < len(p) {
		p[n] = 0x04
		n++
		e.done = true
	}
	return n, nil
}

func printOutcome(out io.Writer, o game.Outcome) {
	word := strings.ToUpper(o.Word)
	if o.Solved {
		lipgloss.Fprintln(out, theme.Good.Render(fmt.Sprintf("Solved %s in %d!", word, o.Guesses)))
	} else {
		lipgloss.Fprintln(out, theme.Bad.Render("The word was "+word+"."))
	}
	if o.Entry != nil {
		if o.Entry.Definition != "" {
			fmt.Fprintf(out, "  %s: %s\n", o.Word, o.Entry.Definition)
		}
		if o.Entry.Sentence != "" {
			lipgloss.Fprintln(out, theme.Hint.Render("  \""+o.Entry.Sentence+"\""))
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Focus: %s\n", o.Signal.Focus.Label())
	fmt.Fprintln(out, o.Signal.NextStep)

	if ids := o.Deltas.SkillIDs(); len(ids) > 0 {
		fmt.Fprintln(out)
		for _, id := range ids {
			lipgloss.Fprintf(out, "  %-30s %s %+.3f\n", id,
				components.DeltaBar(o.Deltas[id], skillmap.MaxDelta, 8), o.Deltas[id])
		}
	}
}
