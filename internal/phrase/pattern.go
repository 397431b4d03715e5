package phrase

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dialogkit/replygen/internal/capsule"
	"github.com/dialogkit/replygen/internal/lexicon"
	"github.com/dialogkit/replygen/internal/thought"
)

// trustThreshold divides trusted from untrusted speakers.
const trustThreshold = 0.5

// PatternPhraser realizes thoughts through fixed sentence templates.
type PatternPhraser struct {
	resolver lexicon.Resolver
	types    lexicon.TypeFilter
	rng      *rand.Rand
	log      *zap.Logger
}

// Option configures a PatternPhraser.
type Option func(*PatternPhraser)

// WithRand pins the random source, which pins the pool openers and the
// subject/object framing coin flips. Used by tests.
func WithRand(rng *rand.Rand) Option {
	return func(p *PatternPhraser) { p.rng = rng }
}

// WithTypeFilter replaces the default semantic-type filter.
func WithTypeFilter(f lexicon.TypeFilter) Option {
	return func(p *PatternPhraser) { p.types = f }
}

// WithLogger attaches a logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *PatternPhraser) { p.log = log }
}

// NewPatternPhraser builds a template phraser for the given resolver.
func NewPatternPhraser(resolver lexicon.Resolver, opts ...Option) *PatternPhraser {
	p := &PatternPhraser{
		resolver: resolver,
		types:    lexicon.FilteredTypesNames,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fallback returns the out-of-words message.
func (p *PatternPhraser) Fallback() string {
	return p.choice(OutOfWords)
}

// Phrase dispatches to the template for the given thought type. ok is
// false when the payload offers nothing to say; with fallback set the
// out-of-words message is substituted instead.
func (p *PatternPhraser) Phrase(utt *capsule.Utterance, t thought.Type, rec *thought.Record, fallback bool) (string, bool) {
	if rec == nil {
		rec = &thought.Record{}
	}

	var say string
	var ok bool
	switch t {
	case thought.StatementNovelty:
		say, ok = p.statementNovelty(rec.StatementNovelty, utt)
	case thought.EntityNovelty:
		say, ok = p.entityNovelty(rec.EntityNovelty, utt)
	case thought.NegationConflict:
		say, ok = p.negationConflicts(rec.NegationConflicts, utt)
	case thought.ComplementConflict:
		say, ok = p.cardinalityConflicts(rec.ComplementConflict, utt)
	case thought.SubjectGap:
		say, ok = p.subjectGaps(rec.SubjectGaps)
	case thought.ComplementGap:
		say, ok = p.complementGaps(rec.ComplementGaps)
	case thought.Overlap:
		say, ok = p.overlaps(rec.Overlaps, utt)
	case thought.Trust:
		say, ok = p.trust(rec.Trust)
	default:
		p.log.Debug("unknown thought type", zap.String("type", string(t)))
	}

	if !ok {
		if fallback {
			return p.Fallback(), true
		}
		return "", false
	}
	return lexicon.FinalFormat(say), true
}

// statementNovelty is always renderable: an empty provenance list means
// the statement is news, a non-empty one names who said it before.
func (p *PatternPhraser) statementNovelty(novelties []thought.NoveltyItem, utt *capsule.Utterance) (string, bool) {
	if utt == nil || utt.Triple == nil {
		return "", false
	}
	triple := utt.Triple

	if len(novelties) == 0 {
		say := p.choice(NewKnowledge)
		if p.coin() {
			anyType := "anything"
			complementTypes := p.types(triple.Complement.Types)
			if strings.Contains(complementTypes, "person") {
				anyType = "anybody"
			} else if strings.Contains(complementTypes, "location") {
				anyType = "anywhere"
			}
			say += fmt.Sprintf(" I did not know %s that %s %s", anyType,
				triple.Subject.Label, triple.Predicate.Label)
		} else {
			say += fmt.Sprintf(" I did not know anybody who %s %s",
				triple.Predicate.Label, triple.Complement.Label)
		}
		return say, true
	}

	novelty := novelties[p.intn(len(novelties))]
	say := p.choice(ExistingKnowledge)
	say += fmt.Sprintf(" %s told me about it in %s",
		novelty.Provenance.Author.Label, novelty.Provenance.Date)
	return say, true
}

func (p *PatternPhraser) entityNovelty(pair *thought.EntityNoveltyPair, utt *capsule.Utterance) (string, bool) {
	if pair == nil || utt == nil {
		return "", false
	}

	subjectRole := p.coin()
	novel := bool(pair.Subject)
	if !subjectRole {
		novel = bool(pair.Complement)
	}

	var label string
	speaker := utt.Author.Label
	if utt.Entity != nil {
		if utt.SourceRef != nil {
			speaker = utt.SourceRef.Label
		}
		label = p.resolver.Entity(speaker, utt.Entity.Label)
	} else {
		if utt.Triple == nil {
			return "", false
		}
		if subjectRole {
			label = p.resolver.Entity(speaker, utt.Triple.Subject.Label)
		} else {
			label = p.resolver.Entity(speaker, utt.Triple.Complement.Label)
		}
	}

	if novel {
		return p.choice(NewKnowledge) + fmt.Sprintf(" I had never heard about %s before!", label), true
	}
	return p.choice(ExistingKnowledge) + fmt.Sprintf(" I have heard about %s before", label), true
}

func (p *PatternPhraser) negationConflicts(conflicts []thought.ConflictItem, utt *capsule.Utterance) (string, bool) {
	if len(conflicts) < 2 || utt == nil || utt.Triple == nil {
		return "", false
	}

	var positives, negatives []thought.ConflictItem
	for _, c := range conflicts {
		if c.Positive() {
			positives = append(positives, c)
		} else {
			negatives = append(negatives, c)
		}
	}
	if len(positives) == 0 || len(negatives) == 0 {
		return "", false
	}

	affirmative := positives[p.intn(len(positives))]
	negative := negatives[p.intn(len(negatives))]
	triple := utt.Triple

	say := p.choice(ConflictingKnowledge)
	say += fmt.Sprintf(" %s told me in %s that %s %s %s, but in %s %s told me that %s did not %s %s",
		affirmative.Provenance.Author.Label, affirmative.Provenance.Date,
		triple.Subject.Label, triple.Predicate.Label, triple.Complement.Label,
		negative.Provenance.Date, negative.Provenance.Author.Label,
		triple.Subject.Label, triple.Predicate.Label, triple.Complement.Label)
	return say, true
}

func (p *PatternPhraser) cardinalityConflicts(conflicts []thought.ConflictItem, utt *capsule.Utterance) (string, bool) {
	if len(conflicts) == 0 || utt == nil || utt.Triple == nil {
		return "", false
	}

	conflict := conflicts[p.intn(len(conflicts))]
	triple := utt.Triple

	x := conflict.Provenance.Author.Label
	if strings.EqualFold(x, utt.Author.Label) {
		x = "you"
	}
	y := triple.Subject.Label
	if strings.EqualFold(y, conflict.Provenance.Author.Label) {
		y = "you"
	}

	say := p.choice(ConflictingKnowledge)
	say += fmt.Sprintf(" %s told me in %s that %s %s %s, but now you tell me that %s %s %s",
		x, conflict.Provenance.Date,
		y, triple.Predicate.Label, conflict.Complement.Label,
		y, triple.Predicate.Label, triple.Complement.Label)
	return say, true
}

func (p *PatternPhraser) subjectGaps(set *thought.GapSet) (string, bool) {
	gaps, subjectRole, ok := p.pickGapSide(set)
	if !ok {
		return "", false
	}

	gap := gaps[p.intn(len(gaps))]
	args := gapArgs{
		Known:     gap.KnownEntity.Label,
		Predicate: gap.Predicate.Label,
		Types:     p.types(gap.TargetEntityType.Types),
	}

	rules := subjectGapComplementRules
	if subjectRole {
		rules = subjectGapSubjectRules
	}
	return p.choice(Curiosity) + " " + applyRules(rules, args), true
}

func (p *PatternPhraser) complementGaps(set *thought.GapSet) (string, bool) {
	gaps, subjectRole, ok := p.pickGapSide(set)
	if !ok {
		return "", false
	}

	gap := gaps[p.intn(len(gaps))]
	args := gapArgs{
		Known:     gap.KnownEntity.Label,
		Predicate: gap.Predicate.Label,
		Types:     p.types(gap.TargetEntityType.Types),
	}

	rules := complementGapComplementRules
	if subjectRole {
		rules = complementGapSubjectRules
	}
	return p.choice(Curiosity) + " " + applyRules(rules, args), true
}

// pickGapSide chooses uniformly among the non-empty sides of a gap set.
func (p *PatternPhraser) pickGapSide(set *thought.GapSet) ([]thought.Gap, bool, bool) {
	if set.Empty() {
		return nil, false, false
	}
	switch {
	case len(set.Subject) > 0 && len(set.Complement) > 0:
		if p.coin() {
			return set.Subject, true, true
		}
		return set.Complement, false, true
	case len(set.Subject) > 0:
		return set.Subject, true, true
	default:
		return set.Complement, false, true
	}
}

func (p *PatternPhraser) overlaps(set *thought.OverlapSet, utt *capsule.Utterance) (string, bool) {
	if set.Empty() || utt == nil || utt.Triple == nil {
		return "", false
	}

	var items []thought.OverlapItem
	subjectRole := false
	switch {
	case len(set.Subject) > 0 && len(set.Complement) > 0:
		subjectRole = p.coin()
		if subjectRole {
			items = set.Subject
		} else {
			items = set.Complement
		}
	case len(set.Subject) > 0:
		subjectRole = true
		items = set.Subject
	default:
		items = set.Complement
	}

	items = dedupOverlaps(items)
	triple := utt.Triple
	say := p.choice(Happy)

	if len(items) < 2 {
		pick := items[p.intn(len(items))]
		if subjectRole {
			say += fmt.Sprintf(" Did you know that %s also %s %s",
				triple.Subject.Label, triple.Predicate.Label, pick.Entity.Label)
		} else {
			say += fmt.Sprintf(" Did you know that %s also %s %s",
				pick.Entity.Label, triple.Predicate.Label, triple.Complement.Label)
		}
		return say, true
	}

	a, b := p.sampleTwo(items)
	if subjectRole {
		say += fmt.Sprintf(" Now I know %d items that %s %s, like %s and %s",
			len(items), triple.Subject.Label, triple.Predicate.Label,
			a.Entity.Label, b.Entity.Label)
	} else {
		types := p.types(a.Entity.Types)
		if types == "" {
			types = "things"
		}
		say += fmt.Sprintf(" Now I know %d %s that %s %s, like %s and %s",
			len(items), types, triple.Predicate.Label, triple.Complement.Label,
			a.Entity.Label, b.Entity.Label)
	}
	return say, true
}

func (p *PatternPhraser) trust(val *thought.TrustValue) (string, bool) {
	if val == nil {
		return "", false
	}
	if float64(*val) >= trustThreshold {
		return p.choice(TrustPhrases), true
	}
	return p.choice(NoTrustPhrases), true
}

// dedupOverlaps drops repeated entities, keeping first-seen order.
func dedupOverlaps(items []thought.OverlapItem) []thought.OverlapItem {
	seen := make(map[string]bool, len(items))
	var out []thought.OverlapItem
	for _, item := range items {
		key := strings.ToLower(item.Entity.Label)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

func (p *PatternPhraser) choice(pool []string) string {
	return pool[p.intn(len(pool))]
}

func (p *PatternPhraser) coin() bool {
	return p.intn(2) == 0
}

func (p *PatternPhraser) intn(n int) int {
	if n <= 1 {
		return 0
	}
	return p.rng.Intn(n)
}

func (p *PatternPhraser) sampleTwo(items []thought.OverlapItem) (thought.OverlapItem, thought.OverlapItem) {
	i := p.intn(len(items))
	j := p.intn(len(items) - 1)
	if j >= i {
		j++
	}
	return items[i], items[j]
}
