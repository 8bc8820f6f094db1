package signals

import (
	"encoding/json"
	"fmt"
)

// FocusTag is the recommended instructional focus for a finished session.
type FocusTag int

const (
	FocusFeedbackUse FocusTag = iota
	FocusVowels
	FocusWorkingMemory
	FocusMorphology
	FocusWritingReasoning
)

// AllFocusTags lists every tag in recommendation priority order.
var AllFocusTags = []FocusTag{
	FocusFeedbackUse,
	FocusVowels,
	FocusWorkingMemory,
	FocusMorphology,
	FocusWritingReasoning,
}

// ID returns the wire identifier.
func (f FocusTag) ID() string {
	switch f {
	case FocusFeedbackUse:
		return "strategy_feedback_use"
	case FocusVowels:
		return "decoding_vowels"
	case FocusWorkingMemory:
		return "executive_functioning_working_memory"
	case FocusMorphology:
		return "morphology_awareness"
	case FocusWritingReasoning:
		return "writing_reasoning"
	default:
		return ""
	}
}

// Label returns a short display name.
func (f FocusTag) Label() string {
	switch f {
	case FocusFeedbackUse:
		return "Strategy: feedback use"
	case FocusVowels:
		return "Decoding: vowels"
	case FocusWorkingMemory:
		return "Executive function: working memory"
	case FocusMorphology:
		return "Morphology awareness"
	case FocusWritingReasoning:
		return "Writing reasoning"
	default:
		return "Unknown"
	}
}

// NextStep returns the fixed instructional message for the tag.
func (f FocusTag) NextStep() string {
	switch f {
	case FocusFeedbackUse:
		return "Next step: Teach feedback-use strategy (greens stay, yellows move, grays avoid). Do 2 coached rounds with think-aloud."
	case FocusVowels:
		return "Next step: Target vowel patterns. Do a 3-minute vowel-swap mini-set (short/long, vowel teams) before next round."
	case FocusWorkingMemory:
		return "Next step: Improve letter elimination and working memory. Use a 'banned letters' tracker + one deliberate elimination guess."
	case FocusMorphology:
		return "Next step: Add morphology. Practice spotting common suffixes/prefixes (re-, un-, -tion, -ing) for smarter hypotheses."
	case FocusWritingReasoning:
		return "Next step: Run Sentence Surgery focusing on because/although to strengthen reasoning + sentence control."
	default:
		return ""
	}
}

func (f FocusTag) String() string { return f.ID() }

// ParseFocusTag maps a wire identifier back to its tag.
func ParseFocusTag(id string) (FocusTag, error) {
	for _, f := range AllFocusTags {
		if f.ID() == id {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown focus tag %q", id)
}

func (f FocusTag) MarshalJSON() ([]byte, error) {
	id := f.ID()
	if id == "" {
		return nil, fmt.Errorf("invalid focus tag %d", int(f))
	}
	return json.Marshal(id)
}

func (f *FocusTag) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	tag, err := ParseFocusTag(id)
	if err != nil {
		return err
	}
	*f = tag
	return nil
}
