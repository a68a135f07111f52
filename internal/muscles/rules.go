package muscles

import (
	"regexp"
	"strings"
)

// Rule labels.
const (
	RuleNeckIsolation       = "Neck Isolation"
	RuleShrugsAndTraps      = "Shrugs and Traps"
	RuleUpperBack           = "Upper Back"
	RuleLats                = "Lats"
	RuleChestCompounds      = "Chest Compounds"
	RuleChestIsolation      = "Chest Isolation"
	RuleOverheadPresses     = "Overhead Presses"
	RuleFrontDeltsIsolation = "Front Delts Isolation"
	RuleSideDeltsIsolation  = "Side Delts Isolation"
	RuleSideDeltsCompounds  = "Side Delts Compounds"
	RuleRearDeltsIsolation  = "Rear Delts Isolation"
	RuleBiceps              = "Biceps"
	RuleHammerCurl          = "Hammer Curl"
	RuleTriceps             = "Triceps"
	RuleForearmIsolation    = "Forearm Isolation"
	RuleAbs                 = "Abs"
	RuleObliques            = "Obliques"
	RuleQuadCompounds       = "Quad Compounds"
	RuleQuadsIsolation      = "Quads Isolation"
	RuleGlutes              = "Glutes"
	RuleHamstringsCompounds = "Hamstrings Compounds"
	RuleHamstringsIsolation = "Hamstrings Isolation"
	RuleCalvesIsolation     = "Calves Isolation"
	RuleDeadlift            = "Odd Lifts - Deadlift"
	RuleCloseGripBench      = "Odd Lifts - Close Grip Bench"
	RuleHyperextension      = "Odd Lifts - Hyperextension"
)

// Keyword is a weighted matcher: either a literal substring or a pattern,
// both applied to the lower-cased exercise name.
type Keyword struct {
	Text    string
	Pattern *regexp.Regexp
	Weight  int
}

// Matches reports whether the keyword occurs in the normalized name.
func (k Keyword) Matches(name string) bool {
	if k.Pattern != nil {
		return k.Pattern.MatchString(name)
	}
	return strings.Contains(name, k.Text)
}

// String returns the literal or the pattern source.
func (k Keyword) String() string {
	if k.Pattern != nil {
		return k.Pattern.String()
	}
	return k.Text
}

// Rule maps a set of keywords to the muscles an exercise trains.
type Rule struct {
	Label     string
	Keywords  []Keyword
	Primary   []Group
	Secondary []Group
}

func kw(text string, weight int) Keyword {
	return Keyword{Text: text, Weight: weight}
}

func re(pattern string, weight int) Keyword {
	return Keyword{Pattern: regexp.MustCompile(pattern), Weight: weight}
}

// Rules is evaluated top to bottom; on equal scores the earlier rule wins.
// Specific phrases carry weight 3, distinctive words 2, and generic words
// shared between rules 1, so a name needs more than one generic hit to match.
var Rules = []Rule{
	{
		Label:    RuleNeckIsolation,
		Keywords: []Keyword{kw("neck", 3)},
		Primary:  []Group{Neck},
	},
	{
		Label: RuleShrugsAndTraps,
		Keywords: []Keyword{
			kw("shrug", 3), kw("rack pull", 3), kw("high pull", 2),
			kw("farmer", 2), kw("carry", 2), kw("carries", 2),
		},
		Primary:   []Group{UpperTraps},
		Secondary: []Group{UpperBack, Forearms},
	},
	{
		Label: RuleUpperBack,
		Keywords: []Keyword{
			re(`face[\s-]?pulls?`, 3), kw("pendlay", 3),
			kw("seated row", 2), kw("cable row", 2), kw("barbell row", 2),
			kw("bent over", 2), kw("chest supported", 2), re(`\bt[\s-]?bar`, 2),
			re(`\brows?\b`, 1), kw("wide", 1),
		},
		Primary:   []Group{UpperBack},
		Secondary: []Group{Lats, RearDelts, Biceps},
	},
	{
		Label: RuleLats,
		Keywords: []Keyword{
			re(`pull[\s-]?overs?`, 3), re(`pull[\s-]?ups?`, 3), re(`chin[\s-]?ups?`, 3),
			re(`pull[\s-]?downs?`, 3), re(`\blats?\b`, 2),
			re(`\brows?\b`, 1), kw("narrow", 1),
		},
		Primary:   []Group{Lats},
		Secondary: []Group{UpperBack, Biceps, RearDelts},
	},
	{
		Label: RuleChestCompounds,
		Keywords: []Keyword{
			re(`push[\s-]?ups?`, 3), kw("bench", 2), kw("chest press", 2), re(`\bdips?\b`, 2),
			kw("incline", 1), kw("decline", 1), kw("press", 1),
		},
		Primary:   []Group{Chest},
		Secondary: []Group{FrontDelts, Triceps},
	},
	{
		Label: RuleChestIsolation,
		Keywords: []Keyword{
			re(`cross[\s-]?overs?`, 2), re(`\bfl(y|ys|ies|yes)\b`, 2), re(`pec\s?decks?`, 2),
			kw("chest", 1),
		},
		Primary: []Group{Chest},
	},
	{
		Label: RuleOverheadPresses,
		Keywords: []Keyword{
			kw("overhead press", 3), kw("ohp", 3), kw("shoulder press", 3), kw("military", 3),
			kw("arnold", 3), kw("push press", 3), kw("landmine", 2), kw("viking", 2),
			kw("log press", 2), kw("overhead", 2), kw("press", 1),
		},
		Primary:   []Group{FrontDelts},
		Secondary: []Group{Triceps, SideDelts},
	},
	{
		Label:    RuleFrontDeltsIsolation,
		Keywords: []Keyword{kw("front", 2), kw("raise", 1)},
		Primary:  []Group{FrontDelts},
	},
	{
		Label:     RuleSideDeltsIsolation,
		Keywords:  []Keyword{kw("lateral", 2), re(`\blu raises?`, 2), kw("y raise", 2), kw("raise", 1)},
		Primary:   []Group{SideDelts},
		Secondary: []Group{FrontDelts, RearDelts},
	},
	{
		Label:     RuleSideDeltsCompounds,
		Keywords:  []Keyword{kw("upright", 3)},
		Primary:   []Group{SideDelts},
		Secondary: []Group{UpperTraps, Biceps},
	},
	{
		Label: RuleRearDeltsIsolation,
		Keywords: []Keyword{
			re(`reverse[\s-]?fl(y|ys|ies|yes)\b`, 3), kw("rear delt", 3), kw("reverse pec", 3),
			kw("rear", 1), re(`\bfly`, 1),
		},
		Primary:   []Group{RearDelts},
		Secondary: []Group{UpperBack},
	},
	{
		Label: RuleBiceps,
		Keywords: []Keyword{
			kw("bicep", 3), kw("curl", 2), kw("zottman", 2),
			kw("preacher", 1), kw("concentration", 1), kw("spider", 1), kw("drag", 1), kw("bayesian", 1),
		},
		Primary: []Group{Biceps},
	},
	{
		Label:     RuleHammerCurl,
		Keywords:  []Keyword{kw("hammer", 3), kw("curl", 1)},
		Primary:   []Group{Forearms},
		Secondary: []Group{Biceps},
	},
	{
		Label: RuleTriceps,
		Keywords: []Keyword{
			kw("tricep", 3), kw("pushdown", 3), kw("push down", 3), re(`skull\s?crushers?`, 3),
			re(`\bjm\b`, 3), kw("kickback", 2), kw("extension", 1),
		},
		Primary: []Group{Triceps},
	},
	{
		Label:    RuleForearmIsolation,
		Keywords: []Keyword{kw("wrist", 3), kw("forearm", 3)},
		Primary:  []Group{Forearms},
	},
	{
		Label: RuleAbs,
		Keywords: []Keyword{
			kw("crunch", 3), kw("plank", 3), kw("rollout", 3), kw("ab wheel", 3), re(`sit[\s-]?ups?`, 3),
			kw("hanging", 2), re(`leg[\s-]?raises?`, 2), re(`knee[\s-]?raises?`, 2), kw("dragon", 2),
			kw("v-up", 2), re(`\babs?\b`, 2),
		},
		Primary: []Group{Abs},
	},
	{
		Label: RuleObliques,
		Keywords: []Keyword{
			kw("oblique", 3), kw("russian twist", 3), re(`wood[\s-]?chop`, 3), kw("side bend", 3),
			kw("windshield", 3), kw("side plank", 3), kw("twist", 2), kw("chopper", 2), kw("side", 1),
		},
		Primary:   []Group{Obliques},
		Secondary: []Group{Abs},
	},
	{
		Label: RuleQuadCompounds,
		Keywords: []Keyword{
			re(`leg[\s-]?press`, 3), kw("squat", 2), kw("lunge", 2), re(`step[\s-]?ups?`, 2),
			kw("hack", 1), kw("split", 1),
		},
		Primary:   []Group{Quads},
		Secondary: []Group{Glutes},
	},
	{
		Label:    RuleQuadsIsolation,
		Keywords: []Keyword{re(`leg[\s-]?extensions?`, 3), kw("sissy", 3), kw("extension", 1)},
		Primary:  []Group{Quads},
	},
	{
		Label: RuleGlutes,
		Keywords: []Keyword{
			re(`hip[\s-]?thrusts?`, 3), kw("abduct", 3), kw("glute", 2), kw("bridge", 2), kw("frog", 2),
			kw("hip", 1), kw("thrust", 1), kw("kickback", 1), kw("sumo", 1),
		},
		Primary:   []Group{Glutes},
		Secondary: []Group{Hamstrings},
	},
	{
		Label: RuleHamstringsCompounds,
		Keywords: []Keyword{
			kw("romanian", 3), kw("rdl", 3), re(`stiff[\s-]?leg`, 3), kw("good morning", 3),
			kw("ghr", 3), kw("ham raise", 3), kw("hamstring", 2), kw("deadlift", 1),
		},
		Primary:   []Group{Hamstrings},
		Secondary: []Group{Glutes, LowerBack},
	},
	{
		Label:    RuleHamstringsIsolation,
		Keywords: []Keyword{re(`leg[\s-]?curls?`, 3), kw("nordic", 3), kw("hamstring", 2)},
		Primary:  []Group{Hamstrings},
	},
	{
		Label:    RuleCalvesIsolation,
		Keywords: []Keyword{kw("calf", 3), kw("calves", 3)},
		Primary:  []Group{Calves},
	},
	{
		Label:     RuleDeadlift,
		Keywords:  []Keyword{kw("deadlift", 3), kw("conventional", 1)},
		Secondary: []Group{LowerBack, Glutes, Hamstrings, Quads, UpperTraps},
	},
	{
		Label:     RuleCloseGripBench,
		Keywords:  []Keyword{re(`close[\s-]?grip`, 3), kw("bench", 1)},
		Primary:   []Group{Chest, Triceps},
		Secondary: []Group{FrontDelts},
	},
	{
		Label:     RuleHyperextension,
		Keywords:  []Keyword{re(`hyper[\s-]?extensions?`, 3), kw("back extension", 3), kw("hyper", 1)},
		Primary:   []Group{LowerBack},
		Secondary: []Group{Glutes, Hamstrings},
	},
}
