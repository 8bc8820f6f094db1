package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wordquest/internal/wordpick"
)

func embeddedCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Embedded()
	require.NoError(t, err)
	return c
}

func TestEmbedded(t *testing.T) {
	c := embeddedCatalog(t)
	assert.Greater(t, c.Len(), 30)

	e, ok := c.Lookup("BRAVE")
	require.True(t, ok)
	assert.Equal(t, BandG35, e.GradeBand)
	assert.Equal(t, "vowel_consonant_e", e.Phonics)
	assert.NotEmpty(t, e.Definition)

	assert.Contains(t, c.PhonicsPatterns(), "r_controlled")
}

func TestParse_Rejects(t *testing.T) {
	_, err := Parse([]byte(`{"words":[
		{"word":"ok","grade_band":"K-2"},
		{"word":"ok","grade_band":"K-2"},
		{"word":"b4d","grade_band":"K-2"},
		{"word":"fine","grade_band":"G13"}
	]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate word "ok"`)
	assert.Contains(t, err.Error(), `invalid word "b4d"`)
	assert.Contains(t, err.Error(), `unknown grade band "G13"`)
}

func TestPlayable(t *testing.T) {
	c := embeddedCatalog(t)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"k-2 three letters", Filter{GradeBand: BandK2, Length: 3}, []string{"cat", "map", "sun"}},
		{"lower bands", Filter{GradeBand: BandG35, Phonics: "vowel_consonant_e", IncludeLowerBands: true},
			[]string{"brave", "cake", "crate", "kite", "pride", "stone"}},
		{"exact band", Filter{GradeBand: BandG35, Phonics: "vowel_consonant_e"},
			[]string{"brave", "crate", "pride", "stone"}},
		{"phonics is case-insensitive", Filter{GradeBand: BandK2, Phonics: " Vowel_Team "}, []string{"boat", "rain"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Playable(tt.filter))
		})
	}

	assert.Len(t, c.Playable(Filter{}), c.Len())
}

func TestNormalizeTeacherPool(t *testing.T) {
	got := NormalizeTeacherPool([]string{" Apple", "apple", "x", "b4d", "Zebra", "abcdefghijklm", ""})
	assert.Equal(t, []string{"apple", "zebra"}, got)
}

func TestResolve_TeacherPoolWins(t *testing.T) {
	c := embeddedCatalog(t)
	res, err := c.Resolve(Request{GradeBand: BandG912, Length: 3, Phonics: "cvc", TeacherPool: []string{"Ocean", "river"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ocean", "river"}, res.Pool)
	assert.Equal(t, wordpick.SourceTeacher, res.Scope.Source)
	assert.Equal(t, PoolKey([]string{"ocean", "river"}), res.Scope.Pool)
}

func TestPoolKey(t *testing.T) {
	a := PoolKey([]string{"ocean", "river"})
	assert.Len(t, a, 16)
	assert.Equal(t, a, PoolKey([]string{"river", "ocean"}), "order must not matter")
	assert.NotEqual(t, a, PoolKey([]string{"ocean", "lake"}))
	assert.NotEqual(t, a, PoolKey([]string{"oceanriver"}))
}

func TestResolve_AlternatingTeacherPoolsKeepSeparateBags(t *testing.T) {
	c := embeddedCatalog(t)
	sel := wordpick.NewSelector(nil)
	ctx := context.Background()

	pools := [][]string{
		{"apple", "grape", "lemon", "mango"},
		{"cedar", "maple", "birch"},
	}
	drawn := make([][]string, len(pools))
	longest := max(len(pools[0]), len(pools[1]))
	for i := 0; i < longest; i++ {
		for p, words := range pools {
			if len(drawn[p]) == len(words) {
				continue
			}
			res, err := c.Resolve(Request{TeacherPool: words})
			require.NoError(t, err)
			got := sel.Next(ctx, res.Pool, res.Scope)
			require.False(t, got.Empty())
			require.Contains(t, words, got.Word)
			drawn[p] = append(drawn[p], got.Word)
		}
	}

	for p, words := range pools {
		assert.ElementsMatch(t, words, drawn[p], "pool %d repeated a word before covering it", p)
	}
}

func TestResolve_GradeBandIsCaseInsensitive(t *testing.T) {
	c := embeddedCatalog(t)

	res, err := c.Resolve(Request{GradeBand: "k-2", Length: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "map", "sun"}, res.Pool)
	assert.Equal(t, BandK2, res.Scope.GradeBand)

	res, err = c.Resolve(Request{GradeBand: " g3-5 ", Length: 4, Phonics: "vowel_consonant_e"})
	require.NoError(t, err)
	assert.Equal(t, []string{"cake", "kite"}, res.Pool)
	assert.Equal(t, BandG35, res.Scope.GradeBand)

	res, err = c.Resolve(Request{GradeBand: "ALL"})
	require.NoError(t, err)
	assert.Equal(t, Any, res.Scope.GradeBand)
	assert.Len(t, res.Pool, c.Len())

	assert.Equal(t, c.Playable(Filter{GradeBand: BandG912}), c.Playable(Filter{GradeBand: "g9-12"}))
}

func TestResolve_LowerBandsForPhonics(t *testing.T) {
	c := embeddedCatalog(t)
	res, err := c.Resolve(Request{GradeBand: BandG35, Length: 4, Phonics: "vowel_consonant_e"})
	require.NoError(t, err)
	assert.Equal(t, []string{"cake", "kite"}, res.Pool)
	assert.False(t, res.Relaxed)
	assert.Equal(t, wordpick.Scope{
		Source:            wordpick.SourceCatalog,
		GradeBand:         BandG35,
		IncludeLowerBands: true,
		Length:            4,
		Phonics:           "vowel_consonant_e",
	}, res.Scope)
}

func TestResolve_RelaxesLength(t *testing.T) {
	c := embeddedCatalog(t)
	res, err := c.Resolve(Request{GradeBand: BandG35, Length: 6, Phonics: "vowel_team"})
	require.NoError(t, err)
	assert.True(t, res.Relaxed)
	assert.Equal(t, []string{"boat", "feast", "float", "rain"}, res.Pool)
	assert.Equal(t, 0, res.Scope.Length)
}

func TestResolve_EmptyFilteredPool(t *testing.T) {
	c := embeddedCatalog(t)
	_, err := c.Resolve(Request{GradeBand: BandK2, Phonics: "vocab-academic"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyPool))

	var empty *EmptyPoolError
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, BandK2, empty.GradeBand)
	assert.Equal(t, "vocab-academic", empty.Phonics)
}

func TestResolve_EmptyUnfilteredPoolIsNotAnError(t *testing.T) {
	c, err := Parse([]byte(`{"words":[]}`))
	require.NoError(t, err)

	res, err := c.Resolve(Request{})
	require.NoError(t, err)
	assert.Empty(t, res.Pool)
	assert.Equal(t, Any, res.Scope.GradeBand)
}
