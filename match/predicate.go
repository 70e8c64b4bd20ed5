package match

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// PredicateType tags the closed set of condition shapes. Conditions are
// plain data interpreted by the evaluator; there is no expression language
// and nothing is ever compiled or executed.
type PredicateType string

const (
	PredCompare    PredicateType = "compare"
	PredSkill      PredicateType = "skill"
	PredThreshold  PredicateType = "threshold"
	PredMembership PredicateType = "membership"
	PredAll        PredicateType = "all"
	PredAny        PredicateType = "any"
)

// CompareOp is the operator of a compare predicate.
type CompareOp string

const (
	OpEq CompareOp = "eq"
	OpNe CompareOp = "ne"
	OpLt CompareOp = "lt"
	OpLe CompareOp = "le"
	OpGt CompareOp = "gt"
	OpGe CompareOp = "ge"
)

// Predicate is a tagged union over candidate profile data. Which fields
// are meaningful depends on Type:
//
//	compare:    Field, Op, Value        numeric comparison
//	skill:      Skill, MinLevel        proficiency threshold, graded
//	threshold:  Field, Min, Tolerance  graded numeric minimum
//	membership: Field, Accepted        value within an accepted set
//	all, any:   Predicates             conjunction / disjunction
type Predicate struct {
	Type       PredicateType `json:"type"`
	Field      string        `json:"field,omitempty"`
	Op         CompareOp     `json:"op,omitempty"`
	Value      float64       `json:"value,omitempty"`
	Skill      string        `json:"skill,omitempty"`
	MinLevel   int           `json:"minLevel,omitempty"`
	Min        float64       `json:"min,omitempty"`
	Tolerance  float64       `json:"tolerance,omitempty"`
	Accepted   []string      `json:"accepted,omitempty"`
	Predicates []Predicate   `json:"predicates,omitempty"`
}

// UnmarshalJSON rejects unknown keys so criteria configuration stays a
// closed representation end to end.
func (p *Predicate) UnmarshalJSON(data []byte) error {
	type plain Predicate
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var v plain
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("invalid predicate: %w", err)
	}
	*p = Predicate(v)
	return nil
}

// fieldKind classifies what a profile field resolves to.
type fieldKind int

const (
	fieldNumeric fieldKind = iota
	fieldText
	fieldList
)

type fieldSpec struct {
	kind fieldKind
	// derived fields are inferred from a descriptor rather than read
	// directly, so verdicts based on them carry lower confidence.
	derived bool
}

// profileFields is the closed registry of addressable candidate fields.
// Predicates referencing anything else are rejected at validation time.
var profileFields = map[string]fieldSpec{
	"experience.years":             {kind: fieldNumeric},
	"softskills.communication":     {kind: fieldNumeric},
	"softskills.adaptation":        {kind: fieldNumeric},
	"softskills.teamwork":          {kind: fieldNumeric},
	"softskills.leadership":        {kind: fieldNumeric},
	"education.level":              {kind: fieldNumeric, derived: true},
	"education":                    {kind: fieldText},
	"location":                     {kind: fieldText},
	"accessibility.needs":          {kind: fieldList},
	"accessibility.accommodations": {kind: fieldList},
}

// educationLevels ranks education descriptors for the derived
// education.level field. Unknown descriptors resolve as missing data.
var educationLevels = map[string]float64{
	"highschool": 1,
	"associate":  2,
	"bachelor":   3,
	"master":     4,
	"doctorate":  5,
}

// Confidence bands: direct field reads are trusted, derived fields less
// so, and absent data caps confidence well below any real verdict.
const (
	confidenceDirect  = 95
	confidenceSkill   = 90
	confidenceDerived = 70
	confidenceMissing = 25
)

// outcome is the internal result of interpreting one predicate.
type outcome struct {
	met        bool
	score      int
	confidence int
	reasoning  string
}

func missingOutcome(what string) outcome {
	return outcome{
		met:        false,
		score:      0,
		confidence: confidenceMissing,
		reasoning:  fmt.Sprintf("%s: data missing, treated as not met with low confidence", what),
	}
}

// resolveNumeric reads a numeric field off the candidate profile.
func resolveNumeric(field string, c *CandidateProfile) (v float64, present bool) {
	switch field {
	case "experience.years":
		return c.YearsExperience, true
	case "softskills.communication":
		return float64(c.SoftSkills.Communication), true
	case "softskills.adaptation":
		return float64(c.SoftSkills.Adaptation), true
	case "softskills.teamwork":
		return float64(c.SoftSkills.Teamwork), true
	case "softskills.leadership":
		return float64(c.SoftSkills.Leadership), true
	case "education.level":
		lvl, ok := educationLevels[strings.ToLower(strings.TrimSpace(c.Education))]
		return lvl, ok
	}
	return 0, false
}

// resolveValues reads a text or list field as a slice of values.
func resolveValues(field string, c *CandidateProfile) []string {
	switch field {
	case "education":
		if c.Education == "" {
			return nil
		}
		return []string{c.Education}
	case "location":
		if c.Location == "" {
			return nil
		}
		return []string{c.Location}
	case "accessibility.needs":
		return c.AccessibilityNeeds
	case "accessibility.accommodations":
		return c.Accommodations
	}
	return nil
}

// eval interprets the predicate against a candidate profile. It never
// fails: absent data degrades to a low-confidence "not met" outcome.
func (p Predicate) eval(c *CandidateProfile) outcome {
	switch p.Type {
	case PredCompare:
		return p.evalCompare(c)
	case PredSkill:
		return p.evalSkill(c)
	case PredThreshold:
		return p.evalThreshold(c)
	case PredMembership:
		return p.evalMembership(c)
	case PredAll:
		return p.evalGroup(c, true)
	case PredAny:
		return p.evalGroup(c, false)
	}
	// Unknown types are rejected at validation time; an unvalidated
	// predicate degrades like missing data instead of crashing.
	return missingOutcome(fmt.Sprintf("unknown predicate type %q", p.Type))
}

func (p Predicate) fieldConfidence() int {
	if spec, ok := profileFields[p.Field]; ok && spec.derived {
		return confidenceDerived
	}
	return confidenceDirect
}

func (p Predicate) evalCompare(c *CandidateProfile) outcome {
	v, ok := resolveNumeric(p.Field, c)
	if !ok {
		return missingOutcome(p.Field)
	}

	met := compare(v, p.Op, p.Value)
	var score int
	switch p.Op {
	case OpEq, OpNe:
		// Presence-style checks are binary.
		if met {
			score = 100
		}
	case OpGe, OpGt:
		// Graded: proportional to how far short of the target the
		// candidate falls.
		if met {
			score = 100
		} else if p.Value > 0 {
			score = clamp(int(math.Round(100*v/p.Value)), 0, 99)
		}
	case OpLe, OpLt:
		if met {
			score = 100
		} else if v > 0 {
			score = clamp(int(math.Round(100*p.Value/v)), 0, 99)
		}
	}

	verdict := "not met"
	if met {
		verdict = "met"
	}
	return outcome{
		met:        met,
		score:      score,
		confidence: p.fieldConfidence(),
		reasoning:  fmt.Sprintf("%s is %s, required %s %s (%s)", p.Field, trimFloat(v), opSymbol(p.Op), trimFloat(p.Value), verdict),
	}
}

func (p Predicate) evalSkill(c *CandidateProfile) outcome {
	if len(c.Skills) == 0 {
		return missingOutcome("skills")
	}

	for _, s := range c.Skills {
		if !strings.EqualFold(s.Name, p.Skill) {
			continue
		}
		met := s.Proficiency >= p.MinLevel
		score := 100
		if !met && p.MinLevel > 0 {
			score = clamp(int(math.Round(100*float64(s.Proficiency)/float64(p.MinLevel))), 0, 99)
		}
		verdict := "below requirement"
		if met {
			verdict = "meets requirement"
		}
		return outcome{
			met:        met,
			score:      score,
			confidence: confidenceSkill,
			reasoning:  fmt.Sprintf("skill %q at %d%%, required %d%% (%s)", p.Skill, s.Proficiency, p.MinLevel, verdict),
		}
	}

	// The skills list is populated, so the absence itself is a confident
	// verdict rather than a data gap.
	return outcome{
		met:        false,
		score:      0,
		confidence: confidenceSkill,
		reasoning:  fmt.Sprintf("skill %q not listed in profile", p.Skill),
	}
}

func (p Predicate) evalThreshold(c *CandidateProfile) outcome {
	v, ok := resolveNumeric(p.Field, c)
	if !ok {
		return missingOutcome(p.Field)
	}

	met := v >= p.Min
	var score int
	switch {
	case met:
		score = 100
	case p.Tolerance > 0 && v > p.Min-p.Tolerance:
		// Linear ramp across the tolerance band below the minimum.
		score = clamp(int(math.Round(100*(1-(p.Min-v)/p.Tolerance))), 0, 99)
	}

	verdict := "not met"
	if met {
		verdict = "met"
	}
	return outcome{
		met:        met,
		score:      score,
		confidence: p.fieldConfidence(),
		reasoning:  fmt.Sprintf("%s is %s, minimum %s (%s)", p.Field, trimFloat(v), trimFloat(p.Min), verdict),
	}
}

func (p Predicate) evalMembership(c *CandidateProfile) outcome {
	values := resolveValues(p.Field, c)
	if len(values) == 0 {
		return missingOutcome(p.Field)
	}

	for _, v := range values {
		for _, accepted := range p.Accepted {
			if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(accepted)) {
				return outcome{
					met:        true,
					score:      100,
					confidence: confidenceDirect,
					reasoning:  fmt.Sprintf("%s value %q is within the accepted set", p.Field, v),
				}
			}
		}
	}
	return outcome{
		met:        false,
		score:      0,
		confidence: confidenceDirect,
		reasoning:  fmt.Sprintf("%s has no value within the accepted set", p.Field),
	}
}

func (p Predicate) evalGroup(c *CandidateProfile, conjunction bool) outcome {
	if len(p.Predicates) == 0 {
		return missingOutcome("empty predicate group")
	}

	subs := make([]outcome, len(p.Predicates))
	for i, sub := range p.Predicates {
		subs[i] = sub.eval(c)
	}

	var combined outcome
	parts := make([]string, len(subs))
	for i, o := range subs {
		parts[i] = o.reasoning
	}

	if conjunction {
		combined.met = true
		combined.score = 100
		combined.confidence = 100
		for _, o := range subs {
			combined.met = combined.met && o.met
			if o.score < combined.score {
				combined.score = o.score
			}
			if o.confidence < combined.confidence {
				combined.confidence = o.confidence
			}
		}
	} else {
		best := subs[0]
		for _, o := range subs[1:] {
			if o.score > best.score {
				best = o
			}
		}
		combined.met = false
		for _, o := range subs {
			if o.met {
				combined.met = true
			}
		}
		combined.score = best.score
		if combined.met {
			combined.confidence = best.confidence
		} else {
			combined.confidence = 100
			for _, o := range subs {
				if o.confidence < combined.confidence {
					combined.confidence = o.confidence
				}
			}
		}
	}

	joiner := " AND "
	if !conjunction {
		joiner = " OR "
	}
	combined.reasoning = strings.Join(parts, joiner)
	return combined
}

// validate checks the predicate is well-formed against the closed field
// registry. Called from criteria-set validation, never at evaluation time.
func (p Predicate) validate() error {
	switch p.Type {
	case PredCompare:
		spec, ok := profileFields[p.Field]
		if !ok {
			return fmt.Errorf("compare references unknown field %q", p.Field)
		}
		if spec.kind != fieldNumeric {
			return fmt.Errorf("compare requires a numeric field, %q is not", p.Field)
		}
		switch p.Op {
		case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		default:
			return fmt.Errorf("compare has unknown operator %q", p.Op)
		}
	case PredSkill:
		if strings.TrimSpace(p.Skill) == "" {
			return fmt.Errorf("skill predicate requires a skill name")
		}
		if p.MinLevel < 0 || p.MinLevel > 100 {
			return fmt.Errorf("skill minLevel %d out of range 0-100", p.MinLevel)
		}
	case PredThreshold:
		spec, ok := profileFields[p.Field]
		if !ok {
			return fmt.Errorf("threshold references unknown field %q", p.Field)
		}
		if spec.kind != fieldNumeric {
			return fmt.Errorf("threshold requires a numeric field, %q is not", p.Field)
		}
		if p.Tolerance < 0 {
			return fmt.Errorf("threshold tolerance must not be negative")
		}
	case PredMembership:
		spec, ok := profileFields[p.Field]
		if !ok {
			return fmt.Errorf("membership references unknown field %q", p.Field)
		}
		if spec.kind == fieldNumeric {
			return fmt.Errorf("membership requires a text or list field, %q is numeric", p.Field)
		}
		if len(p.Accepted) == 0 {
			return fmt.Errorf("membership requires a non-empty accepted set")
		}
	case PredAll, PredAny:
		if len(p.Predicates) == 0 {
			return fmt.Errorf("%s group requires at least one sub-predicate", p.Type)
		}
		for i, sub := range p.Predicates {
			if err := sub.validate(); err != nil {
				return fmt.Errorf("sub-predicate %d: %w", i, err)
			}
		}
	default:
		return fmt.Errorf("unknown predicate type %q", p.Type)
	}
	return nil
}

func compare(v float64, op CompareOp, target float64) bool {
	switch op {
	case OpEq:
		return v == target
	case OpNe:
		return v != target
	case OpLt:
		return v < target
	case OpLe:
		return v <= target
	case OpGt:
		return v > target
	case OpGe:
		return v >= target
	}
	return false
}

func opSymbol(op CompareOp) string {
	switch op {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	}
	return string(op)
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
