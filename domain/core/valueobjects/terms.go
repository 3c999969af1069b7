package valueobjects

import "strings"

// TermList is the ordered list of terms extracted for a topic.
// Order is the order the model returned them in; duplicates are kept.
type TermList []string

// ParseTerms splits a comma-separated model reply into terms, trimming
// whitespace and dropping empty fragments. Any extra prose the model adds is
// kept as-is and will show up as terms.
func ParseTerms(raw string) TermList {
	terms := TermList{}
	for _, fragment := range strings.Split(raw, ",") {
		term := strings.TrimSpace(fragment)
		if term == "" {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// Distinct returns the terms with later duplicates removed, preserving order
func (l TermList) Distinct() TermList {
	seen := make(map[string]struct{}, len(l))
	out := make(TermList, 0, len(l))
	for _, term := range l {
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}

// Strings returns the terms as a plain slice, never nil
func (l TermList) Strings() []string {
	if l == nil {
		return []string{}
	}
	return []string(l)
}
