// Package tags canonicalizes the comma separated tag field of a post.
package tags

import "strings"

// Normalize canonicalizes a free-text tag string: comma separated,
// trimmed, leading '#' stripped, lowercased, empty pieces dropped and
// duplicates removed keeping the first occurrence.
//
//	Normalize("#Calc, calc ,  CALC") == "calc"
func Normalize(raw string) string {
	return strings.Join(normalizeList(raw), ",")
}

// Split splits a canonical tag string into its elements.
func Split(canonical string) []string {
	if canonical == "" {
		return []string{}
	}
	return strings.Split(canonical, ",")
}

// HasAll reports whether every tag in want is an element of the canonical
// tag list. Matching is by whole element, so "trig" does not match
// "trigonometry".
func HasAll(canonical string, want []string) bool {
	if len(want) == 0 {
		return true
	}
	have := make(map[string]struct{})
	for _, t := range Split(canonical) {
		have[t] = struct{}{}
	}
	for _, t := range want {
		if _, ok := have[t]; !ok {
			return false
		}
	}
	return true
}

func normalizeList(raw string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, chunk := range strings.Split(raw, ",") {
		t := strings.ToLower(strings.TrimLeft(strings.TrimSpace(chunk), "#"))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
