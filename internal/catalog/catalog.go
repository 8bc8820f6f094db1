// Package catalog holds the embedded word list and resolves the playable
// pool for a set of filters.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed words.json
var wordsJSON []byte

// Any disables the grade band or phonics filter.
const Any = "all"

// Grade bands from youngest to oldest.
const (
	BandK2   = "K-2"
	BandG35  = "G3-5"
	BandG68  = "G6-8"
	BandG912 = "G9-12"
)

// GradeBands returns the bands in ascending order.
func GradeBands() []string {
	return []string{BandK2, BandG35, BandG68, BandG912}
}

func bandRank(band string) int {
	for i, b := range GradeBands() {
		if b == band {
			return i
		}
	}
	return -1
}

var wordPattern = regexp.MustCompile(`^[a-z]{2,12}$`)

// ValidWord reports whether w is a playable word: 2 to 12 lowercase letters.
func ValidWord(w string) bool {
	return wordPattern.MatchString(w)
}

// Entry is one catalog word with its teaching metadata.
type Entry struct {
	Word       string `json:"word"`
	GradeBand  string `json:"grade_band"`
	Phonics    string `json:"phonics"`
	Tier       string `json:"tier"`
	Syllables  int    `json:"syllables"`
	POS        string `json:"pos"`
	Definition string `json:"definition"`
	Sentence   string `json:"sentence"`
}

// Catalog is an immutable word list indexed by word.
type Catalog struct {
	Version string
	entries map[string]Entry
	words   []string
}

type catalogFile struct {
	Version string  `json:"version"`
	Words   []Entry `json:"words"`
}

var (
	embeddedOnce sync.Once
	embedded     *Catalog
	embeddedErr  error
)

// Embedded returns the catalog compiled into the binary.
func Embedded() (*Catalog, error) {
	embeddedOnce.Do(func() {
		embedded, embeddedErr = Parse(wordsJSON)
	})
	return embedded, embeddedErr
}

// Parse decodes and validates a catalog document. Every problem found is
// reported in one error.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{
		Version: f.Version,
		entries: make(map[string]Entry, len(f.Words)),
		words:   make([]string, 0, len(f.Words)),
	}
	var errs []string
	for _, e := range f.Words {
		e.Word = strings.ToLower(strings.TrimSpace(e.Word))
		e.Phonics = strings.ToLower(strings.TrimSpace(e.Phonics))
		if !ValidWord(e.Word) {
			errs = append(errs, fmt.Sprintf("invalid word %q", e.Word))
			continue
		}
		if _, dup := c.entries[e.Word]; dup {
			errs = append(errs, fmt.Sprintf("duplicate word %q", e.Word))
			continue
		}
		if bandRank(e.GradeBand) < 0 {
			errs = append(errs, fmt.Sprintf("word %q has unknown grade band %q", e.Word, e.GradeBand))
			continue
		}
		c.entries[e.Word] = e
		c.words = append(c.words, e.Word)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	sort.Strings(c.words)
	return c, nil
}

// Len returns the number of words.
func (c *Catalog) Len() int { return len(c.words) }

// Lookup returns the entry for word.
func (c *Catalog) Lookup(word string) (Entry, bool) {
	e, ok := c.entries[strings.ToLower(word)]
	return e, ok
}

// PhonicsPatterns returns the distinct phonics tags in the catalog.
func (c *Catalog) PhonicsPatterns() []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range c.words {
		p := c.entries[w].Phonics
		if p != "" && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Filter narrows the catalog. Zero values mean no filter.
type Filter struct {
	GradeBand         string
	IncludeLowerBands bool
	Length            int
	Phonics           string
}

// band returns the canonical spelling of the requested band, matched
// case-insensitively. An unrecognized band is returned trimmed as given.
func (f Filter) band() string {
	b := strings.TrimSpace(f.GradeBand)
	if b == "" || strings.EqualFold(b, Any) {
		return Any
	}
	for _, known := range GradeBands() {
		if strings.EqualFold(b, known) {
			return known
		}
	}
	return b
}

func (f Filter) phonics() string {
	p := strings.ToLower(strings.TrimSpace(f.Phonics))
	if p == "" {
		return Any
	}
	return p
}

// Playable returns the sorted words matching f.
func (c *Catalog) Playable(f Filter) []string {
	band, phonics := f.band(), f.phonics()
	rank := bandRank(band)

	out := make([]string, 0, len(c.words))
	for _, w := range c.words {
		e := c.entries[w]
		if band != Any {
			r := bandRank(e.GradeBand)
			if f.IncludeLowerBands {
				if rank < 0 || r > rank {
					continue
				}
			} else if e.GradeBand != band {
				continue
			}
		}
		if f.Length > 0 && len(w) != f.Length {
			continue
		}
		if phonics != Any && e.Phonics != phonics {
			continue
		}
		out = append(out, w)
	}
	return out
}
