package domain

import "strings"

type Term string

const (
	TermFall   Term = "FALL"
	TermSpring Term = "SPRING"
	TermSummer Term = "SUMMER"
	TermWinter Term = "WINTER"
)

func ParseTerm(s string) (Term, bool) {
	switch Term(strings.ToUpper(strings.TrimSpace(s))) {
	case TermFall:
		return TermFall, true
	case TermSpring:
		return TermSpring, true
	case TermSummer:
		return TermSummer, true
	case TermWinter:
		return TermWinter, true
	default:
		return "", false
	}
}

// ValidNextTerms returns the terms allowed to follow the given one.
// The first semester of a plan is unconstrained; this applies from the
// second semester onward.
func ValidNextTerms(t Term) []Term {
	switch t {
	case TermFall:
		return []Term{TermWinter, TermSpring}
	case TermSpring:
		return []Term{TermSummer, TermFall}
	case TermWinter:
		return []Term{TermSpring}
	case TermSummer:
		return []Term{TermFall}
	default:
		return nil
	}
}

func IsValidNextTerm(prev, next Term) bool {
	for _, t := range ValidNextTerms(prev) {
		if t == next {
			return true
		}
	}
	return false
}
