package constraint

import (
	"testing"

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

func guess(letters string, fb ...feedback.Status) history.Guess {
	return history.Guess{Letters: letters, Feedback: fb}
}

func TestBuild_Crate(t *testing.T) {
	c := Build([]history.Guess{guess("crate", C, A, C, A, C)})

	assert.Equal(t, map[int]byte{0: 'c', 2: 'a', 4: 'e'}, c.MustPosition)
	assert.Empty(t, c.ExcludedAt)
	assert.Equal(t, "rt", c.AvoidGlobally.String())
	assert.Equal(t, "ace", c.IncludeGlobally.String())
}

func TestRespect_Crate(t *testing.T) {
	c := Build([]history.Guess{guess("crate", C, A, C, A, C)})

	tests := []struct {
		candidate string
		want      float64
	}{
		{"chafe", 1.0},
		{"CHAFE", 1.0},
		{"crane", 0.75},
		{"trace", 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.candidate, func(t *testing.T) {
			assert.InDelta(t, tt.want, Respect(tt.candidate, c), 1e-9)
		})
	}
}

func TestRespect_NoConstraints(t *testing.T) {
	assert.Equal(t, 1.0, Respect("anything", Build(nil)))
}

func TestBuild_ConfirmationBeatsAbsentInSameGuess(t *testing.T) {
	// absent e at slot 0 comes before the confirmed e at slot 4
	c := Build([]history.Guess{guess("eerie", A, P, A, A, C)})

	assert.False(t, c.AvoidGlobally.Has('e'))
	assert.True(t, c.IncludeGlobally.Has('e'))
	assert.True(t, c.ExcludedAt[1].Has('e'))
	assert.Equal(t, "ir", c.AvoidGlobally.String())
}

func TestBuild_SkipsMalformed(t *testing.T) {
	c := Build([]history.Guess{
		guess("crate", C, A),
		guess("cr4te", C, A, C, A, C),
		{Letters: "crate"},
	})
	assert.True(t, c.Empty())
}

func TestBuild_Monotonic(t *testing.T) {
	hist := []history.Guess{
		guess("slate", A, A, P, A, P),
		guess("crane", A, P, C, A, C),
		guess("arise", A, C, A, A, C),
		guess("grape", C, C, C, C, C),
	}
	prev := Build(nil)
	for i := 1; i <= len(hist); i++ {
		next := Build(hist[:i])
		assert.Truef(t, next.Covers(prev), "prefix %d relaxed a constraint", i)
		prev = next
	}
}

func TestBuild_AbsentAfterConfirmationInEarlierGuess(t *testing.T) {
	c := Build([]history.Guess{
		guess("crane", A, P, C, A, C),
		guess("rarer", A, A, C, A, A),
	})
	assert.False(t, c.AvoidGlobally.Has('r'))
}

func TestClone(t *testing.T) {
	c := Build([]history.Guess{guess("crate", C, A, P, A, C)})
	cp := c.Clone()
	cp.MustPosition[1] = 'z'
	cp.ExcludedAt[2] = cp.ExcludedAt[2].With('q')

	assert.NotContains(t, c.MustPosition, 1)
	assert.False(t, c.ExcludedAt[2].Has('q'))
	assert.True(t, cp.Covers(c))
	assert.False(t, c.Covers(cp))
}

func TestViolations(t *testing.T) {
	c := Build([]history.Guess{guess("crate", C, A, P, A, C)})

	v := Violations("trade", c)
	require.Len(t, v, 4)
	assert.Equal(t, Violation{Rule: RuleMustPosition, Position: 0, Letter: 't', Want: 'c'}, v[0])
	assert.Equal(t, Violation{Rule: RuleExcludedAt, Position: 2, Letter: 'a'}, v[1])
	assert.Equal(t, RuleAvoid, v[2].Rule)
	assert.Equal(t, byte('t'), v[2].Letter)
	assert.Equal(t, RuleAvoid, v[3].Rule)
	assert.Equal(t, byte('r'), v[3].Letter)

	assert.Empty(t, Violations("cbxae", c))
}

func TestViolations_ShortCandidate(t *testing.T) {
	c := Build([]history.Guess{guess("crate", C, A, A, A, C)})
	v := Violations("co", c)
	require.Len(t, v, 1)
	assert.Equal(t, byte(0), v[0].Letter)
	assert.Contains(t, v[0].String(), "missing")
	assert.InDelta(t, 0.5, Respect("co", c), 1e-9)
}

func TestDescribe(t *testing.T) {
	c := Build([]history.Guess{guess("crate", C, A, P, A, A)})
	assert.Equal(t, []string{
		"fixed: c",
		"not at: 3:a",
		"includes: ac",
		"avoid: ert",
	}, c.Describe())
}

func TestLetterSet(t *testing.T) {
	var s LetterSet
	s = s.With('z').With('a').With('a').With('!')
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "az", s.String())
	assert.True(t, s.Has('a'))
	assert.False(t, s.Has('A'))
	assert.True(t, s.Contains(LetterSet(0).With('z')))
}
