package signals

// Rule thresholds.
const (
	MinUpdateRespect     = 0.55
	MaxUniqueVowels      = 2
	MinGuessesForVowels  = 3
	MaxRepetitionPenalty = 0.18
	MinGuessesForAffix   = 4
)

// Rule maps a computed signal to a focus tag when it applies.
type Rule interface {
	Name() string
	Match(sig *Signal) bool
	Focus() FocusTag
}

// DefaultRules returns the recommendation rules in priority order.
func DefaultRules() []Rule {
	return []Rule{
		&FeedbackUseRule{},
		&VowelRangeRule{},
		&RepetitionRule{},
		&MorphologyRule{},
	}
}

// Recommend returns the focus of the first matching rule, or
// FocusWritingReasoning when none apply.
func Recommend(rules []Rule, sig *Signal) (FocusTag, string) {
	for _, r := range rules {
		if r.Match(sig) {
			return r.Focus(), r.Name()
		}
	}
	return FocusWritingReasoning, "default"
}

// FeedbackUseRule fires when later guesses ignore earlier feedback.
type FeedbackUseRule struct{}

func (r *FeedbackUseRule) Name() string { return "feedback-use" }
func (r *FeedbackUseRule) Focus() FocusTag { return FocusFeedbackUse }
func (r *FeedbackUseRule) Match(sig *Signal) bool {
	return sig.UpdateRespect < MinUpdateRespect
}

// VowelRangeRule fires when several guesses explore very few vowels.
type VowelRangeRule struct{}

func (r *VowelRangeRule) Name() string { return "vowel-range" }
func (r *VowelRangeRule) Focus() FocusTag { return FocusVowels }
func (r *VowelRangeRule) Match(sig *Signal) bool {
	return sig.UniqueVowels <= MaxUniqueVowels && sig.Guesses >= MinGuessesForVowels
}

// RepetitionRule fires when eliminated letters keep coming back.
type RepetitionRule struct{}

func (r *RepetitionRule) Name() string { return "repetition" }
func (r *RepetitionRule) Focus() FocusTag { return FocusWorkingMemory }
func (r *RepetitionRule) Match(sig *Signal) bool {
	return sig.RepetitionPenalty > MaxRepetitionPenalty
}

// MorphologyRule fires when a long session never tried a common affix.
type MorphologyRule struct{}

func (r *MorphologyRule) Name() string { return "morphology" }
func (r *MorphologyRule) Focus() FocusTag { return FocusMorphology }
func (r *MorphologyRule) Match(sig *Signal) bool {
	return sig.AffixAttempts == 0 && sig.Guesses >= MinGuessesForAffix
}
