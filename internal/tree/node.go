package tree

import "github.com/sssomt/sssomt/internal/model"

// Rule is one compiled rule node: a tagged filter guarding either a flat
// action list or a nested rule list, never both (spec §3 Rule, §4.F).
type Rule[T any] struct {
	Tags    []string
	Filter  Filter
	Actions []Action[T] // nil when Nested is set
	Nested  []Rule[T]   // nil when Actions is set
}

// HasTag reports whether tags contains name.
func HasTag(tags []string, name string) bool {
	for _, t := range tags {
		if t == name {
			return true
		}
	}
	return false
}
