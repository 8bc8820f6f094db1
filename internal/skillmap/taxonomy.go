package skillmap

import (
	"fmt"
	"sort"
	"strings"
)

// TaxonomyVersion is the semantic version of the compiled skill registry.
// Weight tables must target the same major version.
const TaxonomyVersion = "v1.2.0"

// Domain groups related skills.
type Domain string

const (
	DomainDecoding    Domain = "decoding"
	DomainOrthography Domain = "orthography"
	DomainMorphology  Domain = "morphology"
	DomainFluency     Domain = "fluency"
	DomainSentence    Domain = "sentence"
	DomainWriting     Domain = "writing"
	DomainNumeracy    Domain = "numeracy"
)

// AllDomains returns all domains in display order.
func AllDomains() []Domain {
	return []Domain{
		DomainDecoding,
		DomainOrthography,
		DomainMorphology,
		DomainFluency,
		DomainSentence,
		DomainWriting,
		DomainNumeracy,
	}
}

// DomainDisplayName returns a human-readable name for a domain.
func DomainDisplayName(d Domain) string {
	switch d {
	case DomainDecoding:
		return "Decoding"
	case DomainOrthography:
		return "Orthography"
	case DomainMorphology:
		return "Morphology"
	case DomainFluency:
		return "Fluency"
	case DomainSentence:
		return "Sentence Construction"
	case DomainWriting:
		return "Writing"
	case DomainNumeracy:
		return "Numeracy"
	default:
		return string(d)
	}
}

// Skill is one entry in the taxonomy.
type Skill struct {
	ID     string `json:"id"`
	Domain Domain `json:"domain"`
	Label  string `json:"label"`
}

var seedSkills = []Skill{
	{ID: "decoding.short_vowels", Domain: DomainDecoding, Label: "Short Vowels"},
	{ID: "decoding.long_vowels", Domain: DomainDecoding, Label: "Long Vowels / Silent-e"},
	{ID: "orthography.pattern_control", Domain: DomainOrthography, Label: "Pattern Control"},
	{ID: "morphology.inflectional", Domain: DomainMorphology, Label: "Inflectional Morphology"},
	{ID: "morphology.derivational", Domain: DomainMorphology, Label: "Derivational Morphology"},
	{ID: "fluency.pacing", Domain: DomainFluency, Label: "Fluency Pacing"},
	{ID: "sentence.syntax_clarity", Domain: DomainSentence, Label: "Syntax Clarity"},
	{ID: "writing.elaboration", Domain: DomainWriting, Label: "Writing Elaboration"},
	{ID: "numeracy.fact_fluency", Domain: DomainNumeracy, Label: "Fact Fluency"},
	{ID: "numeracy.strategy_use", Domain: DomainNumeracy, Label: "Strategy Use"},
}

var skillIndex map[string]Skill

func init() {
	if err := validateTaxonomy(seedSkills); err != nil {
		panic(err)
	}
	skillIndex = make(map[string]Skill, len(seedSkills))
	for _, s := range seedSkills {
		skillIndex[s.ID] = s
	}
}

// validateTaxonomy collects every structural problem in skills.
func validateTaxonomy(skills []Skill) error {
	var errs []string

	known := make(map[Domain]bool)
	for _, d := range AllDomains() {
		known[d] = true
	}

	seen := make(map[string]bool, len(skills))
	populated := make(map[Domain]bool)
	for _, s := range skills {
		if s.ID == "" {
			errs = append(errs, "skill with empty ID")
			continue
		}
		if seen[s.ID] {
			errs = append(errs, fmt.Sprintf("duplicate skill ID: %q", s.ID))
		}
		seen[s.ID] = true
		if !known[s.Domain] {
			errs = append(errs, fmt.Sprintf("skill %q has unknown domain %q", s.ID, s.Domain))
		}
		if !strings.HasPrefix(s.ID, string(s.Domain)+".") {
			errs = append(errs, fmt.Sprintf("skill %q is not namespaced by its domain %q", s.ID, s.Domain))
		}
		populated[s.Domain] = true
	}

	for _, d := range AllDomains() {
		if !populated[d] {
			errs = append(errs, fmt.Sprintf("domain %q has no skills", d))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("skill taxonomy validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Skills returns every skill in registry order.
func Skills() []Skill {
	out := make([]Skill, len(seedSkills))
	copy(out, seedSkills)
	return out
}

// SkillByID looks up a skill.
func SkillByID(id string) (Skill, bool) {
	s, ok := skillIndex[id]
	return s, ok
}

// SkillsByDomain returns the skills of one domain, sorted by ID.
func SkillsByDomain(d Domain) []Skill {
	var out []Skill
	for _, s := range seedSkills {
		if s.Domain == d {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
