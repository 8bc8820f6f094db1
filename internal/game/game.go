// Package game runs one round of WordQuest: pick a target, score guesses,
// and when the round finishes turn the session into signals, skill
// evidence and a progress entry.
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/abhisek/wordquest/internal/catalog"
	"github.com/abhisek/wordquest/internal/feedback"
	"github.com/abhisek/wordquest/internal/history"
	"github.com/abhisek/wordquest/internal/session"
	"github.com/abhisek/wordquest/internal/signals"
	"github.com/abhisek/wordquest/internal/skillmap"
	"github.com/abhisek/wordquest/internal/store"
	"github.com/abhisek/wordquest/internal/wordpick"
)

// DefaultMaxGuesses is the number of guesses allowed when Options leaves
// MaxGuesses unset.
const DefaultMaxGuesses = 6

// DefaultStudentID tags evidence when no student is configured.
const DefaultStudentID = "local"

var (
	// ErrEmptyPool is returned by Start when nothing can be played. It
	// wraps *catalog.EmptyPoolError when filters caused it.
	ErrEmptyPool = errors.New("no words available to play")

	// ErrRoundOver is returned when submitting to a finished round.
	ErrRoundOver = errors.New("round is over")

	// ErrInvalidGuess is returned for guesses that are not all letters.
	ErrInvalidGuess = errors.New("guess must contain only letters a-z")
)

// Options configures a round.
type Options struct {
	GradeBand   string
	Length      int
	Phonics     string
	TeacherPool []string
	MaxGuesses  int
	StudentID   string
}

func (o Options) withDefaults() Options {
	if o.MaxGuesses <= 0 {
		o.MaxGuesses = DefaultMaxGuesses
	}
	if strings.TrimSpace(o.StudentID) == "" {
		o.StudentID = DefaultStudentID
	}
	return o
}

// Engine wires the catalog, selector, recorder and skill mapper together.
// The repositories are optional; a nil repository skips that write.
type Engine struct {
	Catalog  *catalog.Catalog
	Selector *wordpick.Selector
	Recorder *session.Recorder
	Mapper   *skillmap.Mapper

	Sessions store.SessionRepo
	Evidence store.EvidenceRepo
	Progress store.ProgressRepo

	Logger zerolog.Logger
}

// NewEngine returns an Engine with a default recorder and mapper and no
// persistence.
func NewEngine(cat *catalog.Catalog, sel *wordpick.Selector) *Engine {
	return &Engine{
		Catalog:  cat,
		Selector: sel,
		Recorder: session.NewRecorder(nil),
		Mapper:   skillmap.NewMapper(nil),
		Logger:   zerolog.Nop(),
	}
}

// Start resolves the word pool for opts, draws a target and opens a
// session for it.
func (e *Engine) Start(ctx context.Context, opts Options) (*Round, error) {
	opts = opts.withDefaults()

	res, err := e.Catalog.Resolve(catalog.Request{
		GradeBand:   opts.GradeBand,
		Length:      opts.Length,
		Phonics:     opts.Phonics,
		TeacherPool: opts.TeacherPool,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmptyPool, err)
	}
	if res.Relaxed {
		e.Logger.Info().
			Int("length", opts.Length).
			Str("phonics", res.Scope.Phonics).
			Msg("no words at requested length, playing any length")
	}

	pick := e.Selector.Next(ctx, res.Pool, res.Scope)
	if pick.Empty() {
		return nil, ErrEmptyPool
	}

	r := &Round{
		engine:  e,
		opts:    opts,
		target:  pick.Word,
		scope:   res.Scope,
		relaxed: res.Relaxed,
		session: e.Recorder.Create(len(pick.Word)),
	}
	if entry, ok := e.Catalog.Lookup(pick.Word); ok {
		r.entry = &entry
	}

	e.Logger.Debug().
		Str("session", r.session.ID).
		Str("scope", res.Scope.String()).
		Int("pool", len(res.Pool)).
		Bool("reshuffled", pick.Reshuffled).
		Msg("round started")
	return r, nil
}

// Turn is the result of one accepted guess.
type Turn struct {
	Guess    string
	Feedback []feedback.Status
	Attempt  int
	Won      bool
	Lost     bool
}

// Outcome summarizes a finished round.
type Outcome struct {
	Word    string
	Entry   *catalog.Entry
	Solved  bool
	Guesses int
	Signal  signals.Signal
	Deltas  skillmap.Deltas
}

// Round is one game in progress. Safe for concurrent use.
type Round struct {
	engine  *Engine
	opts    Options
	target  string
	entry   *catalog.Entry
	scope   wordpick.Scope
	relaxed bool

	mu      sync.Mutex
	session *history.Session
	outcome *Outcome
}

// ID returns the session id.
func (r *Round) ID() string { return r.session.ID }

// Length returns the target word length.
func (r *Round) Length() int { return len(r.target) }

// MaxGuesses returns the number of guesses allowed.
func (r *Round) MaxGuesses() int { return r.opts.MaxGuesses }

// Relaxed reports whether the length filter was dropped to find a word.
func (r *Round) Relaxed() bool { return r.relaxed }

// Scope returns the shuffle-bag scope the target came from.
func (r *Round) Scope() wordpick.Scope { return r.scope }

// History returns a copy of the guesses so far.
func (r *Round) History() []history.Guess {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]history.Guess, len(r.session.History))
	copy(out, r.session.History)
	return out
}

// Done reports whether the round has finished.
func (r *Round) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcome != nil
}

// Outcome returns the round summary once the round has finished.
func (r *Round) Outcome() (Outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcome == nil {
		return Outcome{}, false
	}
	return *r.outcome, true
}

// Submit scores guess against the target and records it. The round
// finishes on a solve or when the last allowed guess is used.
func (r *Round) Submit(ctx context.Context, guess string) (Turn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.outcome != nil {
		return Turn{}, ErrRoundOver
	}
	guess = strings.ToLower(strings.TrimSpace(guess))
	if !lettersOnly(guess) {
		return Turn{}, fmt.Errorf("%q: %w", guess, ErrInvalidGuess)
	}
	fb, err := feedback.Evaluate(guess, r.target)
	if err != nil {
		return Turn{}, err
	}
	if err := r.engine.Recorder.AddGuess(r.session, guess, fb); err != nil {
		return Turn{}, fmt.Errorf("record guess: %w", err)
	}

	turn := Turn{Guess: guess, Feedback: fb, Attempt: len(r.session.History)}
	switch {
	case feedback.Solved(fb):
		turn.Won = true
	case turn.Attempt >= r.opts.MaxGuesses:
		turn.Lost = true
	}
	if turn.Won || turn.Lost {
		if err := r.finish(ctx, turn.Won); err != nil {
			return turn, err
		}
	}
	return turn, nil
}

// Abandon ends an unfinished round as unsolved.
func (r *Round) Abandon(ctx context.Context) (Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.outcome != nil {
		return *r.outcome, ErrRoundOver
	}
	if err := r.finish(ctx, false); err != nil {
		return Outcome{}, err
	}
	return *r.outcome, nil
}

// finish ends the session and persists its artifacts. Store failures are
// logged; the outcome stands either way. Callers hold r.mu.
func (r *Round) finish(ctx context.Context, solved bool) error {
	e := r.engine
	sig, err := e.Recorder.End(r.session, solved)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	ev := e.Mapper.Evidence(r.opts.StudentID, sig, *r.session.EndedAt)

	r.outcome = &Outcome{
		Word:    r.target,
		Entry:   r.entry,
		Solved:  solved,
		Guesses: len(r.session.History),
		Signal:  sig,
		Deltas:  ev.SkillDelta,
	}

	log := e.Logger.With().Str("session", r.session.ID).Logger()
	if e.Sessions != nil {
		if err := e.Sessions.SaveSession(ctx, history.ToRecord(r.session)); err != nil {
			log.Warn().Err(err).Msg("failed to save session")
		}
	}
	if e.Evidence != nil {
		if err := e.Evidence.AppendEvidence(ctx, r.session.ID, ev); err != nil {
			log.Warn().Err(err).Msg("failed to save skill evidence")
		}
	}
	if e.Progress != nil {
		res := store.Result{Word: r.target, Won: solved, Guesses: r.outcome.Guesses, At: *r.session.EndedAt}
		if err := e.Progress.RecordResult(ctx, res); err != nil {
			log.Warn().Err(err).Msg("failed to record progress")
		}
	}

	log.Info().
		Bool("solved", solved).
		Int("guesses", r.outcome.Guesses).
		Str("focus", sig.Focus.ID()).
		Msg("round finished")
	return nil
}

func lettersOnly(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
