package muscles

import (
	"fmt"
	"math"
	"strings"
)

// MinScore is the lowest winning score that still counts as a match.
const MinScore = 2

// Attribution is the muscle-group guess for one exercise name.
type Attribution struct {
	LiftName        string   `json:"lift_name"`
	Primary         []Group  `json:"primary"`
	Secondary       []Group  `json:"secondary"`
	MatchedKeywords []string `json:"matched_keywords"`
	SourceRule      string   `json:"source_rule,omitempty"`
	Score           int      `json:"score"`
	Certainty       float64  `json:"certainty"`
	Comments        []string `json:"comments,omitempty"`
}

// IsUnknown reports whether no rule matched well enough.
func (a Attribution) IsUnknown() bool {
	return len(a.Primary) == 1 && a.Primary[0] == Unknown
}

// Attribute scores name against Rules and returns the best match.
//
// Rules are scanned in order and a later rule replaces the current best only
// with a strictly higher score. Each tie with the current best lowers the
// final certainty by 0.1, never below 0.8, and is noted in Comments.
func Attribute(name string) Attribution {
	return attributeWith(Rules, name)
}

func attributeWith(rules []Rule, name string) Attribution {
	normalized := strings.ToLower(strings.TrimSpace(name))

	var (
		best     *Rule
		bestKeys []string
		maxScore int
		ties     int
		comments []string
	)
	for i := range rules {
		rule := &rules[i]
		score := 0
		var matched []string
		for _, k := range rule.Keywords {
			if k.Matches(normalized) {
				score += k.Weight
				matched = append(matched, k.String())
			}
		}

		switch {
		case score > maxScore:
			best, bestKeys, maxScore = rule, matched, score
			ties = 0
			comments = nil
		case score > 0 && score == maxScore:
			ties++
			comments = append(comments, fmt.Sprintf("tied with %q at score %d", rule.Label, score))
		}
	}

	if best == nil || maxScore < MinScore {
		a := Attribution{
			LiftName:        name,
			Primary:         []Group{Unknown},
			Secondary:       []Group{},
			MatchedKeywords: []string{},
			Score:           maxScore,
		}
		if best != nil {
			a.Comments = append(comments, fmt.Sprintf("insufficient score %d, best candidate %q", maxScore, best.Label))
		} else {
			a.Comments = []string{"no keyword matched"}
		}
		return a
	}

	certainty := 0.9
	switch {
	case maxScore == MinScore:
		certainty = 0.8
	case maxScore > 3:
		certainty = 1.0
	}
	if ties > 0 {
		certainty = math.Max(0.8, certainty-0.1*float64(ties))
	}

	return Attribution{
		LiftName:        name,
		Primary:         clone(best.Primary),
		Secondary:       clone(best.Secondary),
		MatchedKeywords: bestKeys,
		SourceRule:      best.Label,
		Score:           maxScore,
		Certainty:       math.Round(certainty*10) / 10,
		Comments:        comments,
	}
}

func clone(groups []Group) []Group {
	out := make([]Group, len(groups))
	copy(out, groups)
	return out
}

// Override replaces the computed attribution of one lift.
type Override struct {
	Primary   []Group `json:"primary" yaml:"primary"`
	Secondary []Group `json:"secondary" yaml:"secondary"`
}

// Overrides maps exercise names to manual attributions.
type Overrides map[string]Override

// Memo caches attributions per exercise name for the duration of one
// computation. It is not safe for concurrent use.
type Memo struct {
	overrides Overrides
	cache     map[string]Attribution
}

// NewMemo creates a memo; overrides may be nil.
func NewMemo(overrides Overrides) *Memo {
	return &Memo{overrides: overrides, cache: make(map[string]Attribution)}
}

// Get returns the attribution for name, computing it on first use.
func (m *Memo) Get(name string) Attribution {
	if a, ok := m.cache[name]; ok {
		return a
	}
	var a Attribution
	if o, ok := m.overrides[name]; ok {
		a = Attribution{
			LiftName:        name,
			Primary:         clone(o.Primary),
			Secondary:       clone(o.Secondary),
			MatchedKeywords: []string{},
			SourceRule:      "Override",
			Certainty:       1,
			Comments:        []string{"manual override"},
		}
	} else {
		a = Attribute(name)
	}
	m.cache[name] = a
	return a
}

// All returns every attribution computed so far, keyed by name.
func (m *Memo) All() map[string]Attribution {
	out := make(map[string]Attribution, len(m.cache))
	for k, v := range m.cache {
		out[k] = v
	}
	return out
}
