package signals

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wordquest/internal/feedback"
	"github.com/abhisek/wordquest/internal/history"
)

const (
	C = feedback.Correct
	P = feedback.Present
	A = feedback.Absent
)

var t0 = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func at(sec int) time.Time { return t0.Add(time.Duration(sec) * time.Second) }

func row(letters string, sec int, fb ...feedback.Status) history.Guess {
	return history.Guess{Letters: letters, Feedback: fb, At: at(sec)}
}

func absent(letters string, sec int) history.Guess {
	fb := make([]feedback.Status, len(letters))
	for i := range fb {
		fb[i] = feedback.Absent
	}
	return history.Guess{Letters: letters, Feedback: fb, At: at(sec)}
}

func ended(sec int, solved bool, hist ...history.Guess) *history.Session {
	end := at(sec)
	return &history.Session{
		ID:           "s1",
		StartedAt:    t0,
		EndedAt:      &end,
		TargetLength: 5,
		Solved:       solved,
		History:      hist,
	}
}

func compute(s *history.Session) Signal {
	return NewComputer().Compute(s)
}

func TestCompute_SolvedInTwo(t *testing.T) {
	s := ended(30, true,
		row("crane", 10, C, C, C, A, C),
		row("crate", 20, C, C, C, C, C),
	)
	sig := compute(s)

	assert.Equal(t, Kind, sig.Kind)
	assert.Equal(t, 2, sig.Guesses)
	assert.True(t, sig.Solved)
	assert.Equal(t, 30, sig.DurationSec)
	assert.Equal(t, 4.0, sig.GuessesPerMin)
	assert.Equal(t, 10, sig.TimeToFirstGuessSec)
	assert.Equal(t, 2, sig.UniqueVowels)
	assert.Equal(t, 0.4, sig.VowelRatio)
	assert.Equal(t, 1.0, sig.UpdateRespect)
	assert.Equal(t, 6, sig.UniqueLetters)
	assert.Equal(t, 0.0, sig.RepetitionPenalty)
	assert.Equal(t, 0, sig.AffixAttempts)
	assert.Empty(t, sig.AffixTypes)
	assert.Equal(t, 0.0, sig.MisplaceRate)
	assert.Equal(t, 0.1, sig.AbsentRate)
	assert.Equal(t, 0, sig.VowelSwaps)
	assert.Equal(t, 0, sig.ConstraintViolations)
	assert.Equal(t, FocusWritingReasoning, sig.Focus)
	assert.Equal(t, FocusWritingReasoning.NextStep(), sig.NextStep)
}

func TestCompute_ZeroGuesses(t *testing.T) {
	sig := compute(ended(0, false))

	assert.Equal(t, 0, sig.Guesses)
	assert.Equal(t, 1, sig.DurationSec)
	assert.Equal(t, 1, sig.TimeToFirstGuessSec)
	assert.Equal(t, 0.0, sig.GuessesPerMin)
	assert.Equal(t, 1.0, sig.UpdateRespect)
	assert.Equal(t, 0.0, sig.VowelRatio)
	assert.Equal(t, 0.0, sig.RepetitionPenalty)
	assert.NotNil(t, sig.AffixTypes)
	for _, v := range []float64{sig.GuessesPerMin, sig.VowelRatio, sig.UpdateRespect, sig.RepetitionPenalty, sig.MisplaceRate, sig.AbsentRate} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
	assert.Equal(t, FocusWritingReasoning, sig.Focus)
}

func TestCompute_NilSession(t *testing.T) {
	sig := compute(nil)
	assert.Equal(t, 1, sig.DurationSec)
	assert.Equal(t, 1.0, sig.UpdateRespect)
}

func TestCompute_OpenSessionUsesClock(t *testing.T) {
	c := &Computer{Now: func() time.Time { return at(90) }}
	s := &history.Session{StartedAt: t0, History: []history.Guess{absent("stone", 5)}}

	sig := c.Compute(s)
	assert.Equal(t, 90, sig.DurationSec)
	assert.Equal(t, 0.67, sig.GuessesPerMin)
}

func TestCompute_FirstGuessBeforeStartClampsToZero(t *testing.T) {
	sig := compute(ended(10, false, absent("stone", -3)))
	assert.Equal(t, 0, sig.TimeToFirstGuessSec)
}

func TestCompute_IgnoringFeedback(t *testing.T) {
	sig := compute(ended(60, false,
		row("crate", 10, C, A, C, A, C),
		row("trace", 20, A, A, C, A, C),
	))
	// crate forces c_a_e and bans r,t; trace fails the c slot and types r and t.
	assert.Equal(t, 0.4, sig.UpdateRespect)
	assert.Equal(t, 3, sig.ConstraintViolations)
	assert.Equal(t, FocusFeedbackUse, sig.Focus)
	assert.Equal(t, "feedback-use", sig.Rule)
}

func TestCompute_RepetitionPenalty(t *testing.T) {
	t.Run("counts letters banned by an earlier guess", func(t *testing.T) {
		sig := compute(ended(60, false, absent("stone", 5), absent("stone", 10)))
		assert.Equal(t, 0.5, sig.RepetitionPenalty)
	})
	t.Run("ignores the current row", func(t *testing.T) {
		sig := compute(ended(60, false, absent("stone", 5)))
		assert.Equal(t, 0.0, sig.RepetitionPenalty)
	})
	t.Run("confirmed letters are not penalized", func(t *testing.T) {
		sig := compute(ended(60, false,
			absent("stone", 5),
			row("notes", 10, P, A, A, A, A),
		))
		// n is confirmed in row two; o,t,e,s were banned by row one.
		assert.Equal(t, 0.4, sig.RepetitionPenalty)
	})
}

func TestCompute_Affixes(t *testing.T) {
	sig := compute(ended(60, false,
		absent("xing", 1),
		absent("xed", 2),
		absent("xer", 3),
		absent("xest", 4),
		absent("xly", 5),
		absent("xtion", 6),
		absent("xsion", 7),
		absent("zzing", 8),
	))
	assert.Equal(t, 8, sig.AffixAttempts)
	assert.Equal(t, []string{"ING", "ED", "ER", "EST", "LY", "TION"}, sig.AffixTypes)
}

func TestFirstAffix_ListOrder(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{"jumped", "ED"},
		{"rerun", "ER"},
		{"unite", "UN"},
		{"crane", ""},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, firstAffix(tt.word))
		})
	}
}

func TestCompute_VowelSwapsAndSameSlot(t *testing.T) {
	sig := compute(ended(60, false,
		row("crane", 5, A, A, P, A, A),
		row("moist", 10, A, A, A, A, A),
		row("pygmy", 15, A, A, A, A, A),
		row("brand", 20, A, A, P, A, A),
	))
	// {a,e} -> {i,o} -> {y} -> {a}
	assert.Equal(t, 3, sig.VowelSwaps)
	assert.Equal(t, 1, sig.RepeatSameSlot)
	assert.Equal(t, 0.1, sig.MisplaceRate)
}

func TestCompute_MalformedRecordsSkipped(t *testing.T) {
	sig := compute(ended(60, false,
		row("crane", 5, A, A),
		row("slate", 10, A, A, A, A, A),
	))
	assert.Equal(t, 2, sig.Guesses)
	assert.Equal(t, 1, sig.Malformed)
	assert.Equal(t, 5, sig.UniqueLetters)
	assert.Equal(t, 1.0, sig.UpdateRespect)
}

func TestCompute_UnknownStatusCountsAsMalformed(t *testing.T) {
	sig := compute(ended(60, false,
		row("crane", 5, A, feedback.Unknown, A, A, A),
		row("slate", 10, A, A, A, A, A),
	))
	assert.Equal(t, 2, sig.Guesses)
	assert.Equal(t, 1, sig.Malformed)
}

func TestRecommend_Priority(t *testing.T) {
	tests := []struct {
		name string
		sig  Signal
		want FocusTag
	}{
		{"feedback use first", Signal{UpdateRespect: 0.5, UniqueVowels: 1, Guesses: 6, RepetitionPenalty: 0.5}, FocusFeedbackUse},
		{"respect at threshold passes", Signal{UpdateRespect: 0.55, Guesses: 1, UniqueVowels: 3}, FocusWritingReasoning},
		{"narrow vowels", Signal{UpdateRespect: 1, UniqueVowels: 2, Guesses: 3, RepetitionPenalty: 0.5}, FocusVowels},
		{"narrow vowels but short", Signal{UpdateRespect: 1, UniqueVowels: 2, Guesses: 2}, FocusWritingReasoning},
		{"repetition", Signal{UpdateRespect: 1, UniqueVowels: 3, Guesses: 5, RepetitionPenalty: 0.19}, FocusWorkingMemory},
		{"repetition at threshold", Signal{UpdateRespect: 1, UniqueVowels: 3, Guesses: 3, RepetitionPenalty: 0.18}, FocusWritingReasoning},
		{"no affixes in long session", Signal{UpdateRespect: 1, UniqueVowels: 3, Guesses: 4}, FocusMorphology},
		{"affix tried", Signal{UpdateRespect: 1, UniqueVowels: 3, Guesses: 4, AffixAttempts: 1}, FocusWritingReasoning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Recommend(DefaultRules(), &tt.sig)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFocusTag(t *testing.T) {
	for _, f := range AllFocusTags {
		assert.NotEmpty(t, f.ID())
		assert.NotEmpty(t, f.NextStep())
		parsed, err := ParseFocusTag(f.ID())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}
	_, err := ParseFocusTag("nope")
	assert.Error(t, err)
	assert.Equal(t, "", FocusTag(42).ID())
}

func TestSignalJSON(t *testing.T) {
	sig := compute(ended(30, true, row("crate", 10, C, C, C, C, C)))
	raw, err := json.Marshal(sig)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Equal(t, "wq_signals_v1", generic["kind"])
	assert.Equal(t, "writing_reasoning", generic["focusTag"])
	assert.Contains(t, generic, "durSec")
	assert.Contains(t, generic, "uniqLetterCount")

	var back Signal
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, sig.Focus, back.Focus)
}
