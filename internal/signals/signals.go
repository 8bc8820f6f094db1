// Package signals turns a finished session into diagnostic metrics and a
// recommended instructional focus.
package signals

import (
	"math"
	"strings"
	"time"

	"github.com/abhisek/wordquest/internal/constraint"
	"github.com/abhisek/wordquest/internal/feedback"
	"github.com/abhisek/wordquest/internal/history"
)

// Kind tags the signal payload version.
const Kind = "wq_signals_v1"

// MaxAffixTypes caps the distinct affixes kept on a signal.
const MaxAffixTypes = 6

// Vowels are the letters counted as vowels, y included.
const Vowels = "aeiouy"

// Affixes are matched in order; a guess counts only its first hit.
var Affixes = []string{
	"ING", "ED", "ER", "EST", "LY", "TION", "SION", "MENT", "NESS", "FUL",
	"LESS", "ABLE", "IBLE", "OUS", "IVE", "AL", "IC", "IST", "ISM", "PRE",
	"RE", "UN", "DIS", "MIS", "NON", "OVER", "UNDER", "SUB", "TRANS",
	"INTER", "SUPER",
}

// Signal is the diagnostic summary of one session.
type Signal struct {
	Kind                string   `json:"kind"`
	DurationSec         int      `json:"durSec"`
	Solved              bool     `json:"solved"`
	Guesses             int      `json:"guesses"`
	GuessesPerMin       float64  `json:"guessesPerMin"`
	TimeToFirstGuessSec int      `json:"timeToFirstGuessSec"`
	UniqueVowels        int      `json:"uniqueVowels"`
	VowelRatio          float64  `json:"vowelRatio"`
	UpdateRespect       float64  `json:"updateRespect"`
	UniqueLetters       int      `json:"uniqLetterCount"`
	RepetitionPenalty   float64  `json:"repetitionPenalty"`
	AffixAttempts       int      `json:"affixAttempts"`
	AffixTypes          []string `json:"affixTypes"`

	MisplaceRate         float64 `json:"misplaceRate"`
	AbsentRate           float64 `json:"absentRate"`
	VowelSwaps           int     `json:"vowelSwapCount"`
	RepeatSameSlot       int     `json:"repeatSameBadSlotCount"`
	ConstraintViolations int     `json:"constraintViolations"`
	Malformed            int     `json:"malformed"`

	Focus    FocusTag `json:"focusTag"`
	Rule     string   `json:"rule"`
	NextStep string   `json:"nextStep"`
}

// Computer derives signals from sessions.
type Computer struct {
	// Now is used as the end time of sessions that have not ended.
	Now   func() time.Time
	Rules []Rule
}

// NewComputer returns a Computer using the wall clock and DefaultRules.
func NewComputer() *Computer {
	return &Computer{Now: time.Now, Rules: DefaultRules()}
}

func (c *Computer) now() time.Time {
	if c == nil || c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Computer) rules() []Rule {
	if c == nil || c.Rules == nil {
		return DefaultRules()
	}
	return c.Rules
}

// Compute aggregates the session into a Signal. Every ratio is guarded so
// empty or malformed histories yield finite defaults.
func (c *Computer) Compute(s *history.Session) Signal {
	now := c.now()
	if s == nil {
		s = &history.Session{StartedAt: now}
	}
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}

	sig := Signal{
		Kind:       Kind,
		Solved:     s.Solved,
		Guesses:    len(s.History),
		AffixTypes: []string{},
	}
	sig.DurationSec = max(1, roundSeconds(end.Sub(s.StartedAt)))
	sig.GuessesPerMin = round(float64(sig.Guesses)/(float64(sig.DurationSec)/60), 2)
	if sig.Guesses == 0 {
		sig.TimeToFirstGuessSec = sig.DurationSec
	} else {
		sig.TimeToFirstGuessSec = max(0, roundSeconds(s.History[0].At.Sub(s.StartedAt)))
	}

	var (
		typed, vowelPlacements, present, absent int
		vowelsTried, lettersTried               constraint.LetterSet
		vowelSet                                = vowelLetters()
		prevVowels                              constraint.LetterSet
		havePrev                                bool
		seenAffix                               = map[string]bool{}
	)
	for _, g := range s.History {
		if !g.WellFormed() {
			sig.Malformed++
			continue
		}
		var rowVowels constraint.LetterSet
		for i := 0; i < len(g.Letters); i++ {
			l := g.Letters[i]
			typed++
			lettersTried = lettersTried.With(l)
			if vowelSet.Has(l) {
				vowelPlacements++
				vowelsTried = vowelsTried.With(l)
				rowVowels = rowVowels.With(l)
			}
			switch g.Feedback[i] {
			case feedback.Present:
				present++
			case feedback.Absent:
				absent++
			}
		}
		if havePrev && prevVowels != 0 && rowVowels != 0 && prevVowels != rowVowels {
			sig.VowelSwaps++
		}
		prevVowels, havePrev = rowVowels, true

		if affix := firstAffix(g.Letters); affix != "" {
			sig.AffixAttempts++
			if !seenAffix[affix] {
				seenAffix[affix] = true
				if len(sig.AffixTypes) < MaxAffixTypes {
					sig.AffixTypes = append(sig.AffixTypes, affix)
				}
			}
		}
	}

	sig.UniqueVowels = vowelsTried.Len()
	sig.UniqueLetters = lettersTried.Len()
	sig.VowelRatio = round(ratio(vowelPlacements, typed), 3)
	sig.MisplaceRate = round(ratio(present, typed), 3)
	sig.AbsentRate = round(ratio(absent, typed), 3)
	sig.RepetitionPenalty = round(ratio(repeatedRejections(s.History), typed), 3)

	respect, violations, sameSlot := feedbackUse(s.History)
	sig.UpdateRespect = round(respect, 3)
	sig.ConstraintViolations = violations
	sig.RepeatSameSlot = sameSlot

	sig.Focus, sig.Rule = Recommend(c.rules(), &sig)
	sig.NextStep = sig.Focus.NextStep()
	return sig
}

// feedbackUse scores every guess after the first against the constraints
// implied by the guesses before it. It returns the mean respect (1 when
// nothing was scored), the total violation count and how many letters
// were placed again at a slot already reported Present.
func feedbackUse(hist []history.Guess) (float64, int, int) {
	var sum float64
	scored, violations, sameSlot := 0, 0, 0
	for i := 1; i < len(hist); i++ {
		g := hist[i]
		if !g.WellFormed() {
			continue
		}
		prior := constraint.Build(hist[:i])
		sum += constraint.Respect(g.Letters, prior)
		scored++
		for _, v := range constraint.Violations(g.Letters, prior) {
			violations++
			if v.Rule == constraint.RuleExcludedAt {
				sameSlot++
			}
		}
	}
	if scored == 0 {
		return 1, violations, sameSlot
	}
	return sum / float64(scored), violations, sameSlot
}

// repeatedRejections counts typed letters that an earlier guess reported
// Absent and that no guess so far has confirmed.
func repeatedRejections(hist []history.Guess) int {
	var rejected, included constraint.LetterSet
	n := 0
	for _, g := range hist {
		if !g.WellFormed() {
			continue
		}
		for i, st := range g.Feedback {
			if st == feedback.Correct || st == feedback.Present {
				included = included.With(g.Letters[i])
			}
		}
		for i := 0; i < len(g.Letters); i++ {
			l := g.Letters[i]
			if rejected.Has(l) && !included.Has(l) {
				n++
			}
		}
		for i, st := range g.Feedback {
			l := g.Letters[i]
			if st == feedback.Absent && !included.Has(l) {
				rejected = rejected.With(l)
			}
		}
	}
	return n
}

func firstAffix(letters string) string {
	up := strings.ToUpper(letters)
	for _, a := range Affixes {
		if strings.Contains(up, a) {
			return a
		}
	}
	return ""
}

func vowelLetters() constraint.LetterSet {
	var s constraint.LetterSet
	for i := 0; i < len(Vowels); i++ {
		s = s.With(Vowels[i])
	}
	return s
}

func roundSeconds(d time.Duration) int {
	return int(math.Round(d.Seconds()))
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
