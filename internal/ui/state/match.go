package state

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/atomicstack/sleact-tui/internal/menu"
)

// CloneItems produces a shallow copy of the provided menu items.
func CloneItems(items []menu.Item) []menu.Item {
	dup := make([]menu.Item, len(items))
	copy(dup, items)
	return dup
}

// haystack is the text a query is matched against: the label, followed by
// the hint when there is one, so members can be found by email.
func haystack(item menu.Item) string {
	if item.Hint == "" {
		return item.Label
	}
	return item.Label + " " + item.Hint
}

func haystacks(items []menu.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = haystack(item)
	}
	return out
}

// FilterItems returns the items matching query in their original order.
// Fuzzy matches win; when there are none, a plain substring match on the
// label, ID or hint is tried.
func FilterItems(items []menu.Item, query string) []menu.Item {
	query = strings.TrimSpace(query)
	if query == "" {
		return CloneItems(items)
	}
	matched := make([]bool, len(items))
	hits := 0
	for _, rank := range fuzzy.RankFindNormalizedFold(query, haystacks(items)) {
		if !matched[rank.OriginalIndex] {
			matched[rank.OriginalIndex] = true
			hits++
		}
	}
	if hits == 0 {
		lower := strings.ToLower(query)
		for i, item := range items {
			if strings.Contains(strings.ToLower(item.ID), lower) || strings.Contains(strings.ToLower(haystack(item)), lower) {
				matched[i] = true
				hits++
			}
		}
	}
	out := make([]menu.Item, 0, hits)
	for i, item := range items {
		if matched[i] {
			out = append(out, item)
		}
	}
	return out
}

// BestMatchIndex picks the item the cursor should land on for query: an
// exact label or ID, then a label or ID prefix, then the closest fuzzy
// match. It returns 0 when nothing matches and -1 for no items.
func BestMatchIndex(items []menu.Item, query string) int {
	if len(items) == 0 {
		return -1
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return 0
	}
	lower := strings.ToLower(query)
	tiers := []func(menu.Item) bool{
		func(it menu.Item) bool { return strings.EqualFold(it.Label, query) || strings.EqualFold(it.ID, query) },
		func(it menu.Item) bool { return strings.HasPrefix(strings.ToLower(it.Label), lower) },
		func(it menu.Item) bool { return strings.HasPrefix(strings.ToLower(it.ID), lower) },
	}
	for _, match := range tiers {
		for i, item := range items {
			if match(item) {
				return i
			}
		}
	}
	best, bestDistance := 0, -1
	for _, rank := range fuzzy.RankFindNormalizedFold(query, haystacks(items)) {
		if bestDistance < 0 || rank.Distance < bestDistance ||
			(rank.Distance == bestDistance && rank.OriginalIndex < best) {
			best, bestDistance = rank.OriginalIndex, rank.Distance
		}
	}
	return best
}
