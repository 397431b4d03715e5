// Package lexicon resolves entity and author labels into pronouns and
// surface forms. The rules are closed lookup tables: grammatical
// person/number for copula agreement, a pronoun substitution table
// keyed on the current speaker and the agent's own name, and the label
// cleanup helpers shared by every phraser.
package lexicon

import "strings"

// Role selects which grammatical slot a label is being resolved for.
type Role string

const (
	RoleSubject    Role = "subject"
	RoleObject     Role = "object"
	RolePossessive Role = "pos"
)

// emptyLabels are author/entity values that mean "nobody".
var emptyLabels = map[string]bool{
	"":        true,
	"unknown": true,
	"none":    true,
}

// Resolver substitutes pronouns relative to a conversation. Agent is
// the label under which the agent itself appears in triples.
type Resolver struct {
	Agent string
}

// NewResolver returns a resolver for the given agent name.
func NewResolver(agent string) Resolver {
	return Resolver{Agent: strings.ToLower(agent)}
}

// Ref names the label to resolve. Author takes precedence over Entity;
// Role only matters for possessive resolution.
type Ref struct {
	Author string
	Entity string
	Role   Role
}

// Resolve maps a label to its pronoun given the current speaker. All
// comparisons are case-insensitive. With neither author nor entity set
// the speaker is returned unchanged; an author inside the empty set
// resolves to "" so callers can substitute their own placeholder.
func (r Resolver) Resolve(speaker string, ref Ref) string {
	if ref.Author == "" && ref.Entity == "" {
		return speaker
	}

	sp := strings.ToLower(speaker)

	if ref.Role == RolePossessive {
		ent := strings.ToLower(ref.Entity)
		switch {
		case sp == ent:
			return "your"
		case ent == r.Agent:
			return "my"
		default:
			// Third-person possessive stays unresolved; the literal
			// label reads acceptably in compound entities.
			return ref.Entity
		}
	}

	if ref.Author != "" && !emptyLabels[strings.ToLower(ref.Author)] {
		author := strings.ToLower(ref.Author)
		switch {
		case sp == author:
			return "you"
		case author == r.Agent:
			return "I"
		default:
			return titleCase(ref.Author)
		}
	}

	if ref.Entity != "" && !emptyLabels[strings.ToLower(ref.Entity)] {
		ent := strings.ToLower(ref.Entity)
		switch {
		case sp == ent, ent == "speaker":
			return "you"
		case ent == r.Agent:
			return "I"
		default:
			return ref.Entity
		}
	}

	return ""
}

// Author resolves an author label: "you" for the speaker, "I" for the
// agent, otherwise the title-cased label. Labels meaning "nobody"
// resolve to "" so callers can substitute their own placeholder.
func (r Resolver) Author(speaker, author string) string {
	if emptyLabels[strings.ToLower(author)] {
		return ""
	}
	return r.Resolve(speaker, Ref{Author: author})
}

// Entity resolves an entity label in subject or object position.
func (r Resolver) Entity(speaker, entity string) string {
	return r.Resolve(speaker, Ref{Entity: entity})
}

// Possessive resolves an entity label into a possessive determiner.
func (r Resolver) Possessive(speaker, entity string) string {
	return r.Resolve(speaker, Ref{Entity: entity, Role: RolePossessive})
}

// FixEntity resolves compound entity labels. Hyphenated labels such as
// "selene-s" are split and each token resolved as a possessive before
// rejoining with spaces; plain labels are resolved once as entities.
// The result carries no hyphens, which makes the operation idempotent.
func (r Resolver) FixEntity(entity, speaker string) string {
	if !strings.Contains(entity, "-") {
		return r.Entity(speaker, entity)
	}

	tokens := strings.Split(entity, "-")
	fixed := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		fixed = append(fixed, r.Possessive(speaker, tok))
	}
	return strings.Join(fixed, " ")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
