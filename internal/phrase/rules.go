package phrase

import (
	"fmt"
	"strings"
)

// gapArgs is the material a gap question is built from: the known
// entity, the connecting predicate, and the human-readable name of the
// missing entity's type.
type gapArgs struct {
	Known     string
	Predicate string
	Types     string
}

// gapRule pairs a predicate lexical cue with a question template. Rules
// are evaluated in slice order and the first matching cue wins; the
// precedence is part of the design, so keep the tables ordered and do
// not fold them into conditionals.
type gapRule struct {
	cue    func(a gapArgs) bool
	render func(a gapArgs) string
}

func cueContains(sub string) func(gapArgs) bool {
	return func(a gapArgs) bool { return strings.Contains(a.Predicate, sub) }
}

func cueAny() func(gapArgs) bool {
	return func(gapArgs) bool { return true }
}

// subjectGapSubjectRules phrase questions about a missing subject seen
// from the subject side of the triple.
var subjectGapSubjectRules = []gapRule{
	{
		cue: func(a gapArgs) bool {
			return strings.Contains(a.Predicate, "is ") || strings.Contains(a.Predicate, " is")
		},
		render: func(a gapArgs) string {
			return fmt.Sprintf("Is there a %s that %s %s?", a.Types, a.Predicate, a.Known)
		},
	},
	{
		cue: cueContains("-of"),
		render: func(a gapArgs) string {
			return fmt.Sprintf("Is there a %s that %s is %s?", a.Types, a.Known, a.Predicate)
		},
	},
	{
		cue: cueContains(" "),
		render: func(a gapArgs) string {
			return fmt.Sprintf("Is there a %s that is %s %s?", a.Types, a.Predicate, a.Known)
		},
	},
	{
		cue: cueAny(),
		render: func(a gapArgs) string {
			return fmt.Sprintf("Has %s %s %s?", a.Known, a.Predicate, a.Types)
		},
	},
}

// subjectGapComplementRules phrase questions about a missing subject
// seen from the complement side.
var subjectGapComplementRules = []gapRule{
	{
		cue: func(a gapArgs) bool { return strings.Contains(a.Types, "#") },
		render: func(a gapArgs) string {
			return fmt.Sprintf("What is %s %s?", a.Known, a.Predicate)
		},
	},
	{
		cue: cueContains(" "),
		render: func(a gapArgs) string {
			return fmt.Sprintf("Has %s ever %s %s?", a.Types, a.Predicate, a.Known)
		},
	},
	{
		cue: cueAny(),
		render: func(a gapArgs) string {
			return fmt.Sprintf("Has %s ever %s a %s?", a.Known, a.Predicate, a.Types)
		},
	},
}

// complementGapSubjectRules phrase questions about a missing complement
// seen from the subject side.
var complementGapSubjectRules = []gapRule{
	{
		cue: cueContains(" in"),
		render: func(a gapArgs) string {
			return fmt.Sprintf("Is there a %s %s %s?", a.Types, a.Predicate, a.Known)
		},
	},
	{
		cue: cueAny(),
		render: func(a gapArgs) string {
			return fmt.Sprintf("Has %s %s by a %s?", a.Known, a.Predicate, a.Types)
		},
	},
}

// complementGapComplementRules phrase questions about a missing
// complement seen from the complement side.
var complementGapComplementRules = []gapRule{
	{
		cue: func(a gapArgs) bool { return strings.Contains(a.Types, "#") },
		render: func(a gapArgs) string {
			return fmt.Sprintf("What is %s %s?", a.Known, a.Predicate)
		},
	},
	{
		cue: cueContains(" by"),
		render: func(a gapArgs) string {
			return fmt.Sprintf("Has %s ever %s a %s?", a.Known, a.Predicate, a.Types)
		},
	},
	{
		cue: cueAny(),
		render: func(a gapArgs) string {
			return fmt.Sprintf("Has a %s ever %s %s?", a.Types, a.Predicate, a.Known)
		},
	},
}

func applyRules(rules []gapRule, a gapArgs) string {
	for _, r := range rules {
		if r.cue(a) {
			return r.render(a)
		}
	}
	return ""
}
