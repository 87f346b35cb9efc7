// Package suggest provides typo suggestions for unresolved names.
// It is pure computation: no I/O, no corpus access.
package suggest

import (
	"sort"
	"strings"
)

const (
	maxDistance    = 2
	maxSuggestions = 3
)

// Distance returns the Levenshtein edit distance between a and b.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for i := range prev {
		prev[i] = i
	}

	for i, ca := range ra {
		cur[0] = i + 1
		for j, cb := range rb {
			ins := prev[j+1] + 1
			del := cur[j] + 1
			sub := prev[j]
			if ca != cb {
				sub++
			}
			cur[j+1] = min(ins, del, sub)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// Closest returns up to three candidates within edit distance two of name,
// nearest first, ties broken lexicographically. Matching is case-insensitive;
// returned names keep their original case. The result does not depend on
// candidate order.
func Closest(name string, candidates []string) []string {
	type scored struct {
		name string
		dist int
	}

	lower := strings.ToLower(name)
	var matches []scored
	for _, c := range candidates {
		d := Distance(lower, strings.ToLower(c))
		if d <= maxDistance {
			matches = append(matches, scored{name: c, dist: d})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		return matches[i].name < matches[j].name
	})

	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.name)
	}
	return out
}
