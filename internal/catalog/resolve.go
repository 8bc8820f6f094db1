package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/wordquest/internal/wordpick"
)

// ErrEmptyPool is wrapped by EmptyPoolError.
var ErrEmptyPool = errors.New("no words match the selected filters")

// EmptyPoolError reports the filters that left nothing to play.
type EmptyPoolError struct {
	GradeBand string
	Length    int
	Phonics   string
}

func (e *EmptyPoolError) Error() string {
	length := "any"
	if e.Length > 0 {
		length = fmt.Sprintf("%d", e.Length)
	}
	return fmt.Sprintf("%v (grade %s, length %s, phonics %s)", ErrEmptyPool, e.GradeBand, length, e.Phonics)
}

func (e *EmptyPoolError) Unwrap() error { return ErrEmptyPool }

// Request describes what the player asked for.
type Request struct {
	GradeBand   string
	Length      int
	Phonics     string
	TeacherPool []string
}

// Resolution is the pool to draw from and the shuffle-bag scope it
// belongs to.
type Resolution struct {
	Pool  []string
	Scope wordpick.Scope
	// Relaxed is true when the length filter was dropped to find words.
	Relaxed bool
}

// NormalizeTeacherPool trims and lowercases raw words, drops anything that
// is not a playable word and removes duplicates, keeping first occurrence
// order.
func NormalizeTeacherPool(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, w := range raw {
		w = strings.ToLower(strings.TrimSpace(w))
		if !ValidWord(w) || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// PoolKey identifies a teacher pool independent of word order: the first
// 16 hex digits of the SHA-256 of the sorted words.
func PoolKey(words []string) string {
	sorted := slices.Clone(words)
	slices.Sort(sorted)
	h := sha256.Sum256([]byte(strings.Join(sorted, "\n")))
	return hex.EncodeToString(h[:8])
}

// Resolve picks the pool for req. A non-empty teacher pool always wins.
// Otherwise the catalog is filtered; when that comes back empty and both
// a length and a phonics pattern were requested, the length is relaxed.
// A still-empty pool is an *EmptyPoolError if any filter was set.
func (c *Catalog) Resolve(req Request) (Resolution, error) {
	f := Filter{GradeBand: req.GradeBand, Length: req.Length, Phonics: req.Phonics}
	band, phonics := f.band(), f.phonics()
	f.GradeBand, f.Phonics = band, phonics
	f.IncludeLowerBands = phonics != Any && !strings.HasPrefix(phonics, "vocab-")

	if teacher := NormalizeTeacherPool(req.TeacherPool); len(teacher) > 0 {
		return Resolution{
			Pool:  teacher,
			Scope: wordpick.Scope{Source: wordpick.SourceTeacher, Phonics: phonics, Pool: PoolKey(teacher)},
		}, nil
	}

	res := Resolution{Pool: c.Playable(f)}
	if len(res.Pool) == 0 && f.Length > 0 && phonics != Any {
		relaxed := f
		relaxed.Length = 0
		if pool := c.Playable(relaxed); len(pool) > 0 {
			res.Pool, res.Relaxed = pool, true
			f = relaxed
		}
	}

	res.Scope = wordpick.Scope{
		Source:            wordpick.SourceCatalog,
		GradeBand:         band,
		IncludeLowerBands: f.IncludeLowerBands && band != Any,
		Length:            f.Length,
		Phonics:           phonics,
	}

	if len(res.Pool) == 0 && (band != Any || req.Length > 0 || phonics != Any) {
		return res, &EmptyPoolError{GradeBand: band, Length: req.Length, Phonics: phonics}
	}
	return res, nil
}
