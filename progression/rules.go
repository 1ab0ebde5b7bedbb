package progression

import (
	"maps"
	"slices"
)

// Rule recomputes a mission's progress from its stored progress and the
// latest game event. The tracker clamps the result, so a rule may return
// values above the target or below the stored progress.
type Rule func(stored int, ev Event) int

var rules = map[string]Rule{
	// Lines accumulate across locks and sessions.
	"lines": func(stored int, ev Event) int { return stored + ev.Lines },
	// Peak values of the current session.
	"score":    func(_ int, ev Event) int { return ev.Score },
	"level":    func(_ int, ev Event) int { return ev.Level },
	"tetrises": func(_ int, ev Event) int { return ev.Tetrises },
}

// Rules lists the known rule names in sorted order.
func Rules() []string {
	return slices.Sorted(maps.Keys(rules))
}

func lookupRule(name string) (Rule, bool) {
	r, ok := rules[name]
	return r, ok
}
