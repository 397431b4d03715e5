package phrase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dialogkit/replygen/internal/capsule"
	"github.com/dialogkit/replygen/internal/lexicon"
	"github.com/dialogkit/replygen/internal/llm"
	"github.com/dialogkit/replygen/internal/thought"
)

// System prompts per thought category. The model only paraphrases
// structured material handed to it; instructions keep it from
// explaining itself.
const (
	promptPreamble = "You are an intelligent assistant. " +
		"Only reply with the short paraphrase of the input. " +
		"When responding use the names from the triple and be specific. " +
		"Do not give an explanation. " +
		"Do not explain what the subject and object is. " +
		"The response should be just the paraphrased text and nothing else. "

	promptConflict = promptPreamble +
		"I will give you as input: a triple with a subject, a predicate and an object, " +
		"and provenance information of who confirmed and who denied it. " +
		"Paraphrase the input in plain English as a statement that acknowledges that the information is conflicting."

	promptNovelty = promptPreamble +
		"I will give you as input: a triple with a subject, a predicate and an object, " +
		"and optionally who already mentioned it and when. " +
		"Paraphrase the input in plain English as a statement that acknowledges whether the information is new to you."

	promptGap = promptPreamble +
		"I will give you as input: a known entity, a predicate and the type of a missing entity. " +
		"Paraphrase the input in plain English as a single short question asking about the missing entity."

	promptOverlap = promptPreamble +
		"I will give you as input: a triple with a subject, a predicate and an object, " +
		"and other entities that share the same relation. " +
		"Paraphrase the input in plain English as a statement that shares this connection enthusiastically."

	promptTrust = promptPreamble +
		"I will give you as input: a trust score between 0 and 1 for the current speaker. " +
		"Paraphrase it in plain English as a statement about how much you trust the speaker."
)

// LLMPhraser paraphrases thoughts through a chat model, keeping the
// pool opener. Any provider failure or empty completion degrades to
// the pattern templates for the same thought, so a bad model call can
// never take down a turn.
type LLMPhraser struct {
	provider llm.Provider
	model    string
	pattern  *PatternPhraser
	timeout  time.Duration
	log      *zap.Logger
}

// NewLLMPhraser builds a paraphrasing phraser that falls back to the
// given pattern phraser.
func NewLLMPhraser(provider llm.Provider, model string, pattern *PatternPhraser, log *zap.Logger) *LLMPhraser {
	if log == nil {
		log = zap.NewNop()
	}
	return &LLMPhraser{
		provider: provider,
		model:    model,
		pattern:  pattern,
		timeout:  20 * time.Second,
		log:      log.Named("llm-phraser"),
	}
}

// Fallback returns the out-of-words message.
func (p *LLMPhraser) Fallback() string {
	return p.pattern.Fallback()
}

// Phrase renders the thought through the model, or through the pattern
// templates when the model call fails.
func (p *LLMPhraser) Phrase(utt *capsule.Utterance, t thought.Type, rec *thought.Record, fallback bool) (string, bool) {
	// Entity novelty already reads as a plain sentence; paraphrasing
	// adds nothing.
	if t == thought.EntityNovelty {
		return p.pattern.Phrase(utt, t, rec, fallback)
	}

	system, material, opener, ok := p.material(utt, t, rec)
	if !ok {
		if fallback {
			return p.Fallback(), true
		}
		return "", false
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	resp, err := p.provider.Complete(ctx, llm.CompletionRequest{
		Model: p.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: material},
		},
		Temperature: 0.1,
	})
	if err != nil || resp == nil || strings.TrimSpace(resp.Content) == "" {
		p.log.Warn("paraphrase failed, using pattern templates",
			zap.String("thought", string(t)), zap.Error(err))
		return p.pattern.Phrase(utt, t, rec, fallback)
	}

	return lexicon.FinalFormat(opener + " " + strings.TrimSpace(resp.Content)), true
}

// material assembles the system prompt, the structured input and the
// pool opener for a thought. ok=false mirrors the pattern phraser's
// nothing-to-say conditions.
func (p *LLMPhraser) material(utt *capsule.Utterance, t thought.Type, rec *thought.Record) (system, material, opener string, ok bool) {
	if rec == nil || utt == nil {
		return "", "", "", false
	}

	tripleText := ""
	if utt.Triple != nil {
		tripleText = fmt.Sprintf("%s %s %s",
			utt.Triple.Subject.Label, utt.Triple.Predicate.Label, utt.Triple.Complement.Label)
	}

	switch t {
	case thought.StatementNovelty:
		if utt.Triple == nil || rec.StatementNovelty == nil {
			return "", "", "", false
		}
		material = tripleText
		opener = p.pattern.choice(NewKnowledge)
		if len(rec.StatementNovelty) > 0 {
			prov := rec.StatementNovelty[0].Provenance
			material += fmt.Sprintf(" AUTHOR: %s, DATE: %s", prov.Author.Label, prov.Date)
			opener = p.pattern.choice(ExistingKnowledge)
		}
		return promptNovelty, material, opener, true

	case thought.NegationConflict:
		var positive, negative *thought.ConflictItem
		for i := range rec.NegationConflicts {
			c := &rec.NegationConflicts[i]
			if c.Positive() && positive == nil {
				positive = c
			} else if !c.Positive() && negative == nil {
				negative = c
			}
		}
		if positive == nil || negative == nil || utt.Triple == nil {
			return "", "", "", false
		}
		material = fmt.Sprintf("%s CONFIRM: AUTHOR: %s, DATE: %s DENY: AUTHOR: %s, DATE: %s",
			tripleText,
			positive.Provenance.Author.Label, positive.Provenance.Date,
			negative.Provenance.Author.Label, negative.Provenance.Date)
		return promptConflict, material, p.pattern.choice(ConflictingKnowledge), true

	case thought.ComplementConflict:
		if len(rec.ComplementConflict) == 0 || utt.Triple == nil {
			return "", "", "", false
		}
		conflict := rec.ComplementConflict[0]
		material = fmt.Sprintf("%s %s %s %s AUTHOR: %s, DATE: %s",
			utt.Triple.Subject.Label, utt.Triple.Predicate.Label, conflict.Complement.Label,
			tripleText,
			conflict.Provenance.Author.Label, conflict.Provenance.Date)
		return promptConflict, material, p.pattern.choice(ConflictingKnowledge), true

	case thought.SubjectGap, thought.ComplementGap:
		set := rec.SubjectGaps
		if t == thought.ComplementGap {
			set = rec.ComplementGaps
		}
		gaps, _, ok := p.pattern.pickGapSide(set)
		if !ok {
			return "", "", "", false
		}
		gap := gaps[0]
		material = fmt.Sprintf("KNOWN: %s PREDICATE: %s MISSING TYPE: %s",
			gap.KnownEntity.Label, gap.Predicate.Label,
			p.pattern.types(gap.TargetEntityType.Types))
		return promptGap, material, p.pattern.choice(Curiosity), true

	case thought.Overlap:
		if rec.Overlaps.Empty() || utt.Triple == nil {
			return "", "", "", false
		}
		var entities []string
		for _, item := range append(rec.Overlaps.Subject, rec.Overlaps.Complement...) {
			entities = append(entities, item.Entity.Label)
		}
		material = fmt.Sprintf("%s SHARED WITH: %s", tripleText, strings.Join(entities, ", "))
		return promptOverlap, material, p.pattern.choice(Happy), true

	case thought.Trust:
		if rec.Trust == nil {
			return "", "", "", false
		}
		material = fmt.Sprintf("TRUST: %.2f", float64(*rec.Trust))
		opener = p.pattern.choice(TrustPhrases)
		if float64(*rec.Trust) < trustThreshold {
			opener = p.pattern.choice(NoTrustPhrases)
		}
		return promptTrust, material, opener, true
	}

	return "", "", "", false
}
