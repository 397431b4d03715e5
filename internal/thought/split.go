package thought

import (
	"math/rand"
	"strings"

	"github.com/dialogkit/replygen/internal/capsule"
)

// Candidate is one selectable thought instance. Name doubles as the
// bandit arm key and encodes the role and entity types involved, e.g.
// "overlap -subj animal" or "subject_gap -compl person location".
type Candidate struct {
	Name   string
	Type   Type
	Record *Record
}

// WholeCandidates wraps each available type as a single candidate
// carrying the full record. This is the view the random and priority
// selectors work on.
func WholeCandidates(rec *Record, options []Type) []Candidate {
	var out []Candidate
	for _, t := range rec.Available(options) {
		out = append(out, Candidate{Name: string(t), Type: t, Record: rec})
	}
	return out
}

// Split breaks a record into per-instance candidates: one per overlap
// (plus every pair), one per gap, one per novelty role, so selectors
// that learn per-arm values or score rendered variants can tell the
// instances apart. The result is shuffled to break ingestion order.
func Split(utt *capsule.Utterance, rec *Record, options []Type, rng *rand.Rand) []Candidate {
	var out []Candidate
	want := make(map[Type]bool, len(options))
	for _, t := range options {
		want[t] = true
	}

	if want[Trust] && rec.Trust != nil {
		out = append(out, Candidate{Name: "trust", Type: Trust, Record: &Record{Trust: rec.Trust}})
	}

	if want[StatementNovelty] && rec.StatementNovelty != nil {
		name := "statement_novelty"
		if len(rec.StatementNovelty) > 0 {
			name = "no_statement_novelty"
		}
		out = append(out, Candidate{Name: name, Type: StatementNovelty,
			Record: &Record{StatementNovelty: rec.StatementNovelty}})
	}

	if want[Overlap] && rec.Overlaps != nil {
		out = append(out, splitOverlaps(rec.Overlaps)...)
	}

	if want[EntityNovelty] && rec.EntityNovelty != nil {
		out = append(out, splitEntityNovelty(utt, rec.EntityNovelty)...)
	}

	if want[SubjectGap] && rec.SubjectGaps != nil {
		out = append(out, splitGaps(SubjectGap, "subject_gap", subjectTypeOf(utt), rec.SubjectGaps)...)
	}

	if want[ComplementGap] && rec.ComplementGaps != nil {
		out = append(out, splitGaps(ComplementGap, "object_gap", complementTypeOf(utt), rec.ComplementGaps)...)
	}

	if want[ComplementConflict] && len(rec.ComplementConflict) > 0 {
		out = append(out, Candidate{Name: "complement_conflict", Type: ComplementConflict,
			Record: &Record{ComplementConflict: rec.ComplementConflict[:1]}})
	}

	if want[NegationConflict] && len(rec.NegationConflicts) > 0 {
		if cand, ok := splitNegationConflict(rec.NegationConflicts, rng); ok {
			out = append(out, cand)
		}
	}

	shuffle(out, rng)
	return out
}

func splitOverlaps(set *OverlapSet) []Candidate {
	var out []Candidate

	single := func(role string, item OverlapItem, subject bool) Candidate {
		rec := &OverlapSet{}
		if subject {
			rec.Subject = []OverlapItem{item}
		} else {
			rec.Complement = []OverlapItem{item}
		}
		name := armName("overlap", role, lastType(item.Entity))
		return Candidate{Name: name, Type: Overlap, Record: &Record{Overlaps: rec}}
	}

	for _, item := range set.Subject {
		out = append(out, single("-subj", item, true))
	}
	for _, item := range set.Complement {
		out = append(out, single("-compl", item, false))
	}

	pair := func(role string, a, b OverlapItem, subject bool) Candidate {
		ta, tb := lastType(a.Entity), lastType(b.Entity)
		if ta > tb {
			ta, tb = tb, ta
		}
		rec := &OverlapSet{}
		if subject {
			rec.Subject = []OverlapItem{a, b}
		} else {
			rec.Complement = []OverlapItem{a, b}
		}
		return Candidate{Name: armName("overlap", role, ta, tb), Type: Overlap,
			Record: &Record{Overlaps: rec}}
	}

	for i := 0; i < len(set.Subject); i++ {
		for j := i + 1; j < len(set.Subject); j++ {
			out = append(out, pair("-subj", set.Subject[i], set.Subject[j], true))
		}
	}
	for i := 0; i < len(set.Complement); i++ {
		for j := i + 1; j < len(set.Complement); j++ {
			out = append(out, pair("-compl", set.Complement[i], set.Complement[j], false))
		}
	}

	return out
}

func splitEntityNovelty(utt *capsule.Utterance, pair *EntityNoveltyPair) []Candidate {
	var out []Candidate
	if pair.Subject {
		out = append(out, Candidate{
			Name: armName("entity_novelty", "-subj", subjectTypeOf(utt)),
			Type: EntityNovelty,
			Record: &Record{EntityNovelty: &EntityNoveltyPair{Subject: true}},
		})
	}
	if pair.Complement {
		out = append(out, Candidate{
			Name: armName("entity_novelty", "-compl", complementTypeOf(utt)),
			Type: EntityNovelty,
			Record: &Record{EntityNovelty: &EntityNoveltyPair{Complement: true}},
		})
	}
	// The no-novelty alternative is always on offer.
	out = append(out, Candidate{
		Name:   "entity_novelty -none",
		Type:   EntityNovelty,
		Record: &Record{EntityNovelty: &EntityNoveltyPair{}},
	})
	return out
}

func splitGaps(t Type, prefix, uttType string, set *GapSet) []Candidate {
	var out []Candidate

	add := func(role string, gap Gap, subject bool) {
		rec := &GapSet{}
		if subject {
			rec.Subject = []Gap{gap}
		} else {
			rec.Complement = []Gap{gap}
		}
		cand := Candidate{Name: armName(prefix, role, uttType, lastType(gap.TargetEntityType)), Type: t}
		if t == SubjectGap {
			cand.Record = &Record{SubjectGaps: rec}
		} else {
			cand.Record = &Record{ComplementGaps: rec}
		}
		out = append(out, cand)
	}

	for _, gap := range set.Subject {
		add("-subj", gap, true)
	}
	for _, gap := range set.Complement {
		add("-compl", gap, false)
	}

	none := Candidate{Name: prefix + " -none", Type: t}
	if t == SubjectGap {
		none.Record = &Record{SubjectGaps: &GapSet{}}
	} else {
		none.Record = &Record{ComplementGaps: &GapSet{}}
	}
	out = append(out, none)

	return out
}

func splitNegationConflict(conflicts []ConflictItem, rng *rand.Rand) (Candidate, bool) {
	var positives, negatives []ConflictItem
	for _, c := range conflicts {
		if c.Positive() {
			positives = append(positives, c)
		} else {
			negatives = append(negatives, c)
		}
	}
	if len(positives) == 0 || len(negatives) == 0 {
		return Candidate{}, false
	}
	pick := []ConflictItem{
		positives[intn(rng, len(positives))],
		negatives[intn(rng, len(negatives))],
	}
	return Candidate{Name: "negation_conflict", Type: NegationConflict,
		Record: &Record{NegationConflicts: pick}}, true
}

func armName(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func subjectTypeOf(utt *capsule.Utterance) string {
	if utt == nil || utt.Triple == nil || len(utt.Triple.Subject.Types) == 0 {
		return ""
	}
	return utt.Triple.Subject.Types[0]
}

func complementTypeOf(utt *capsule.Utterance) string {
	if utt == nil || utt.Triple == nil || len(utt.Triple.Complement.Types) == 0 {
		return ""
	}
	return utt.Triple.Complement.Types[0]
}

func lastType(n capsule.Node) string {
	if len(n.Types) == 0 {
		return ""
	}
	return n.Types[len(n.Types)-1]
}

func intn(rng *rand.Rand, n int) int {
	if n <= 1 {
		return 0
	}
	if rng != nil {
		return rng.Intn(n)
	}
	return rand.Intn(n)
}

func shuffle(cands []Candidate, rng *rand.Rand) {
	swap := func(i, j int) { cands[i], cands[j] = cands[j], cands[i] }
	if rng != nil {
		rng.Shuffle(len(cands), swap)
		return
	}
	rand.Shuffle(len(cands), swap)
}
