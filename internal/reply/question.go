package reply

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dialogkit/replygen/internal/capsule"
	"github.com/dialogkit/replygen/internal/lexicon"
	"github.com/dialogkit/replygen/internal/phrase"
)

// ReplyToQuestion assembles an answer from the query bindings attached
// to a question capsule. Unlike the statement path it always produces a
// sentence: with no bindings a "don't know" phrase is chosen instead.
func (r *Replier) ReplyToQuestion(resp *capsule.BrainResponse) string {
	if resp == nil || resp.Question == nil {
		return r.phraseNoAnswer(nil)
	}
	if len(resp.Response) == 0 {
		return r.phraseNoAnswer(resp.Question)
	}

	utt := resp.Question.Clone()
	utt.Casefold()
	speaker := utt.Author.Label

	// Grouping order only; an author's bindings end up adjacent so the
	// "told me" prefix is emitted once per author run.
	bindings := make([]capsule.Binding, len(resp.Response))
	copy(bindings, resp.Response)
	sort.SliceStable(bindings, func(i, j int) bool {
		return bindings[i].AuthorLabel() < bindings[j].AuthorLabel()
	})

	var (
		say               string
		previousAuthor    string
		previousPredicate string
		seen              = make(map[string]bool, len(bindings))
	)

	for _, b := range bindings {
		subject, predicate, object := assignSPO(utt, b)

		author := r.resolver.Author(speaker, b.AuthorLabel())
		if author == "" {
			author = "someone"
		}
		subject = r.resolver.FixEntity(r.resolver.Entity(speaker, subject), speaker)
		object = r.resolver.FixEntity(r.resolver.Entity(speaker, object), speaker)

		key := lexicon.DedupKey(subject, predicate, object, author)
		if seen[key] {
			continue
		}
		seen[key] = true

		if author != previousAuthor {
			say += author + " told me "
			previousAuthor = author
		} else if predicate != previousPredicate {
			say += " that "
		}
		previousPredicate = predicate

		// Copula-style predicates such as "mother-is" short-circuit the
		// whole loop: "Lenka told me bram is your mother".
		if strings.HasSuffix(predicate, "is") {
			say += object + " is"
			switch {
			case equalsFold(utt.Object.Label, speaker) || equalsFold(utt.Subject.Label, speaker):
				say += " your "
			case equalsFold(utt.Object.Label, r.resolver.Agent) || equalsFold(utt.Subject.Label, r.resolver.Agent):
				say += " my "
			}
			if len(predicate) > 3 {
				say += predicate[:len(predicate)-3]
			}
			return lexicon.FinalFormat(say)
		}

		predicate = conjugate(subject, predicate)
		if !strings.EqualFold(b.CertaintyValue(), "CERTAIN") {
			predicate = "maybe " + predicate
		}
		if !strings.EqualFold(b.PolarityValue(), "POSITIVE") {
			predicate = negate(predicate)
		}

		say += subject + " " + predicate + " " + object + " and "
	}

	say = strings.TrimSuffix(say, " and ")
	return lexicon.FinalFormat(say)
}

// assignSPO fills the answer slots from the question triple, falling
// back to the binding's own labels when a slot is empty or unknown.
func assignSPO(utt *capsule.Utterance, b capsule.Binding) (subject, predicate, object string) {
	predicate = utt.Predicate.Label

	subject = utt.Subject.Label
	if unresolved(subject) {
		subject = capsule.CasefoldText(b.SubjectLabel())
	}

	object = utt.Object.Label
	if unresolved(object) {
		object = capsule.CasefoldText(b.ObjectLabel())
	}
	return subject, predicate, object
}

func unresolved(label string) bool {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "unknown", "none":
		return true
	}
	return false
}

// conjugate resolves the copula to am/are/is by the subject's
// grammatical person and number, and adds third-person -s to regular
// predicates. Hyphenated predicates keep their citation form; the
// hyphen marks a compound that conjugation would mangle.
func conjugate(subject, predicate string) string {
	entry, known := lexicon.Lookup(subject)

	if predicate == "be" {
		if !known {
			return "is"
		}
		if entry.Number != "singular" {
			return "are"
		}
		switch entry.Person {
		case "first":
			return "am"
		case "second":
			return "are"
		default:
			return "is"
		}
	}

	if known && entry.Person == "third" && entry.Number == "singular" && !strings.Contains(predicate, "-") {
		return predicate + "s"
	}
	return predicate
}

// negate inserts "not" after the first token, or prefixes "do not "
// when the predicate is a single word.
func negate(predicate string) string {
	if i := strings.Index(predicate, " "); i >= 0 {
		return predicate[:i] + " not" + predicate[i:]
	}
	return "do not " + predicate
}

func equalsFold(a, b string) bool {
	return a != "" && strings.EqualFold(a, b)
}

// phraseNoAnswer covers the empty binding set. With type names for both
// question slots the reply names the usual pattern; otherwise a generic
// "don't know" phrase is drawn from the pool.
func (r *Replier) phraseNoAnswer(utt *capsule.Utterance) string {
	if utt != nil && len(utt.Subject.Types) > 0 && len(utt.Object.Types) > 0 && utt.Predicate.Label != "" {
		subjType := utt.Subject.Types[r.rng.Intn(len(utt.Subject.Types))]
		objType := utt.Object.Types[r.rng.Intn(len(utt.Object.Types))]
		return lexicon.FinalFormat(fmt.Sprintf(
			"I know %s usually %s %s, but I do not know this case",
			subjType, utt.Predicate.Label, objType))
	}
	return phrase.NoAnswer[r.rng.Intn(len(phrase.NoAnswer))]
}
