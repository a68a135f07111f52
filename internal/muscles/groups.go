// Package muscles attributes free-text exercise names to the muscle groups
// they train, using a weighted keyword rule table.
package muscles

// Group is an opaque muscle-group id shared with API consumers.
type Group string

const (
	Unknown    Group = "Unknown"
	Neck       Group = "Neck"
	UpperTraps Group = "Upper Traps"
	UpperBack  Group = "Upper Back"
	Lats       Group = "Lats"
	LowerBack  Group = "Lower Back"
	Chest      Group = "Chest"
	FrontDelts Group = "Front Delts"
	SideDelts  Group = "Side Delts"
	RearDelts  Group = "Rear Delts"
	Biceps     Group = "Biceps"
	Triceps    Group = "Triceps"
	Forearms   Group = "Forearms"
	Abs        Group = "Abs"
	Obliques   Group = "Obliques"
	Quads      Group = "Quads"
	Glutes     Group = "Glutes"
	Hamstrings Group = "Hamstrings"
	Calves     Group = "Calves"
)

// All lists every known group in display order.
var All = []Group{
	Neck, UpperTraps, UpperBack, Lats, LowerBack, Chest,
	FrontDelts, SideDelts, RearDelts, Biceps, Triceps, Forearms,
	Abs, Obliques, Quads, Glutes, Hamstrings, Calves,
}
