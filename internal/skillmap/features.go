package skillmap

import "github.com/abhisek/wordquest/internal/signals"

// Feature names a normalized session feature in [0,1].
type Feature string

const (
	FeatureVowelConfusion     Feature = "vowel_confusion_rate"
	FeatureRepeatSameSlot     Feature = "repeat_same_slot_error"
	FeatureGuessEfficiency    Feature = "guess_efficiency"
	FeatureCorrection         Feature = "correction_after_feedback"
	FeatureOrthographicMiss   Feature = "orthographic_pattern_miss"
	FeatureMorphologyHintUsed Feature = "morphology_hint_usage"
)

// AllFeatures returns every feature in evaluation order.
func AllFeatures() []Feature {
	return []Feature{
		FeatureVowelConfusion,
		FeatureRepeatSameSlot,
		FeatureGuessEfficiency,
		FeatureCorrection,
		FeatureOrthographicMiss,
		FeatureMorphologyHintUsed,
	}
}

// Known reports whether f is a feature the mapper can derive.
func (f Feature) Known() bool {
	for _, k := range AllFeatures() {
		if f == k {
			return true
		}
	}
	return false
}

// Features holds derived feature values.
type Features map[Feature]float64

// DeriveFeatures computes the normalized features of a signal.
func DeriveFeatures(sig signals.Signal) Features {
	guesses := float64(max(1, sig.Guesses))

	correction := 0.0
	if sig.Solved {
		correction = 1
	}

	return Features{
		FeatureVowelConfusion:     clamp01(clamp01(sig.MisplaceRate)*0.65 + (float64(sig.VowelSwaps)/guesses)*0.35),
		FeatureRepeatSameSlot:     clamp01(float64(sig.RepeatSameSlot) / guesses),
		FeatureGuessEfficiency:    clamp01(float64(sig.UniqueLetters) / (guesses * 2)),
		FeatureCorrection:         correction,
		FeatureOrthographicMiss:   clamp01((float64(sig.ConstraintViolations)/guesses)*0.7 + clamp01(sig.AbsentRate)*0.3),
		FeatureMorphologyHintUsed: clamp01(float64(sig.AffixAttempts) / max(1, guesses/2)),
	}
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v != v { // NaN
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
