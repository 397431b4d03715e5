package lexicon

import (
	"fmt"
	"strings"
)

// Entry holds the grammatical properties of a closed-class word.
type Entry struct {
	Person string // first, second, third
	Number string // singular, plural
}

// entries is the closed person/number table used for copula agreement.
// Unknown subjects resolve to no entry and callers fall back to "is".
var entries = map[string]Entry{
	"i":    {Person: "first", Number: "singular"},
	"you":  {Person: "second", Number: "singular"},
	"he":   {Person: "third", Number: "singular"},
	"she":  {Person: "third", Number: "singular"},
	"it":   {Person: "third", Number: "singular"},
	"we":   {Person: "first", Number: "plural"},
	"they": {Person: "third", Number: "plural"},
}

// Lookup returns the grammatical entry for a subject label, if any.
func Lookup(label string) (Entry, bool) {
	e, ok := entries[strings.ToLower(strings.TrimSpace(label))]
	return e, ok
}

// TypeFilter turns a semantic type list into a human-readable category
// name. The default filter is replaceable so deployments with their own
// ontologies can supply different rules.
type TypeFilter func(types []string) string

// genericTypes are ontology roots too vague to say out loud.
var genericTypes = map[string]bool{
	"thing":    true,
	"entity":   true,
	"instance": true,
	"object":   true,
	"agent":    true,
}

// FilteredTypesNames is the default TypeFilter: namespace prefixes are
// stripped, generic roots dropped, duplicates removed, and the rest
// joined with " or ".
func FilteredTypesNames(types []string) string {
	seen := make(map[string]bool, len(types))
	var names []string
	for _, t := range types {
		name := stripNamespace(t)
		if name == "" || genericTypes[strings.ToLower(name)] || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return strings.Join(names, " or ")
}

func stripNamespace(t string) string {
	if i := strings.LastIndexAny(t, "#:"); i >= 0 && i+1 < len(t) {
		t = t[i+1:]
	}
	return strings.TrimSpace(t)
}

// DedupKey is the canonical join key for an answer clause. Two bindings
// that realize to the same subject, predicate, object and author must
// produce only one clause.
func DedupKey(subject, predicate, object, author string) string {
	return fmt.Sprintf("%s_%s_%s_%s", subject, predicate, object, author)
}

// FinalFormat is the last pass over a fully assembled sentence: residual
// hyphens widen to spaces and runs of spaces collapse. It must only run
// after assembly; hyphenated predicate labels are significant for
// question-template dispatch.
func FinalFormat(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return strings.TrimSpace(s)
}
