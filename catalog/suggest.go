package catalog

import (
	"strings"

	"github.com/qyinm/savorytui/types"
	"github.com/sahilm/fuzzy"
)

// itemNames adapts a menu to fuzzy.Source.
type itemNames []types.MenuItem

func (n itemNames) String(i int) string { return n[i].Name() }
func (n itemNames) Len() int            { return len(n) }

// Suggest returns up to limit item names that fuzzily resemble term, best
// match first. It backs the "did you mean" line of an empty search.
func Suggest(items []types.MenuItem, term string, limit int) []string {
	term = strings.TrimSpace(term)
	if term == "" || limit <= 0 {
		return nil
	}
	matches := fuzzy.FindFrom(term, itemNames(items))
	out := make([]string, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, items[m.Index].Name())
	}
	return out
}
