package feedback

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the per-letter result of evaluating a guess against a target.
type Status int

const (
	Unknown Status = iota // Zero value; a status that could not be decoded
	Absent                // Letter does not occur in the remaining target letters
	Present               // Letter occurs in the target at another position
	Correct               // Letter is at the right position
)

// AllStatuses returns every status in display order.
func AllStatuses() []Status {
	return []Status{Correct, Present, Absent}
}

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Absent:
		return "absent"
	case Present:
		return "present"
	case Correct:
		return "correct"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Glyph returns a square emoji for plain-text rendering.
func (s Status) Glyph() string {
	switch s {
	case Absent:
		return "⬜"
	case Present:
		return "🟨"
	case Correct:
		return "🟩"
	default:
		return "?"
	}
}

// Valid reports whether s is Absent, Present or Correct.
func (s Status) Valid() bool {
	switch s {
	case Absent, Present, Correct:
		return true
	default:
		return false
	}
}

// ParseStatus parses a wire name. The colour names used by older clients
// (green, yellow, gray/grey) are accepted as aliases.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "correct", "green":
		return Correct, nil
	case "present", "yellow":
		return Present, nil
	case "absent", "gray", "grey":
		return Absent, nil
	default:
		return Unknown, fmt.Errorf("unknown feedback status %q", s)
	}
}

// MarshalJSON writes the wire name. Unknown round-trips as "unknown" so a
// stored row keeps its length.
func (s Status) MarshalJSON() ([]byte, error) {
	if s != Unknown && !s.Valid() {
		return nil, fmt.Errorf("marshal feedback status: invalid value %d", int(s))
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes names leniently: an unrecognized name or a
// non-string value becomes Unknown instead of failing the whole record.
// Rows carrying Unknown are not well formed and are skipped downstream.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		*s = Unknown
		return nil
	}
	parsed, err := ParseStatus(name)
	if err != nil {
		*s = Unknown
		return nil
	}
	*s = parsed
	return nil
}

// ParseAll parses a comma or space separated list of statuses, e.g.
// "correct,absent,present" or "green gray yellow".
func ParseAll(s string) ([]Status, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]Status, 0, len(fields))
	for _, f := range fields {
		st, err := ParseStatus(f)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// Render joins the glyphs of a feedback row.
func Render(row []Status) string {
	var b strings.Builder
	for _, s := range row {
		b.WriteString(s.Glyph())
	}
	return b.String()
}
