// Package thought models the observations the reasoning engine derives
// from an assertion: novelty, conflicts, knowledge gaps, overlaps and
// trust. The taxonomy is a closed enum with one payload shape per type,
// decoded and validated at ingestion so malformed records fail before
// they reach a template function.
package thought

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dialogkit/replygen/internal/capsule"
)

// Type identifies one observation category. The string values are the
// wire keys of the thoughts map, underscore prefix included.
type Type string

const (
	StatementNovelty   Type = "_statement_novelty"
	EntityNovelty      Type = "_entity_novelty"
	NegationConflict   Type = "_negation_conflicts"
	ComplementConflict Type = "_complement_conflict"
	SubjectGap         Type = "_subject_gaps"
	ComplementGap      Type = "_complement_gaps"
	Overlap            Type = "_overlaps"
	Trust              Type = "_trust"
)

// All lists every thought type in the default priority order used by
// the priority selector: conflicts first, bonding material last.
var All = []Type{
	NegationConflict,
	ComplementConflict,
	StatementNovelty,
	EntityNovelty,
	SubjectGap,
	ComplementGap,
	Overlap,
	Trust,
}

// DefaultOptions is the statement-reply candidate set.
var DefaultOptions = []Type{
	ComplementConflict,
	NegationConflict,
	StatementNovelty,
	EntityNovelty,
	Trust,
}

// EntityOptions is the candidate set when only entity-related thoughts
// should be voiced.
var EntityOptions = []Type{EntityNovelty, SubjectGap, ComplementGap}

// ProactiveOptions are added for agents that ask questions and bond
// over shared knowledge.
var ProactiveOptions = []Type{SubjectGap, ComplementGap, Overlap}

// MentionOptions is the default candidate set for mention replies.
var MentionOptions = []Type{EntityNovelty, ComplementGap}

// Valid reports whether t is a member of the closed taxonomy.
func (t Type) Valid() bool {
	for _, known := range All {
		if t == known {
			return true
		}
	}
	return false
}

// Provenance records who asserted something and when.
type Provenance struct {
	Author capsule.Node `json:"_author"`
	Date   string       `json:"_date"`
}

// NoveltyItem is one prior claim of the current statement. An empty
// novelty list means the statement is new to the agent.
type NoveltyItem struct {
	Provenance Provenance `json:"_provenance"`
}

// ConflictItem is one polarized claim involved in a conflict.
type ConflictItem struct {
	Provenance Provenance   `json:"_provenance"`
	Complement capsule.Node `json:"_complement"`
	Polarity   string       `json:"_polarity_value"`
}

// Positive reports whether the claim affirms the triple.
func (c ConflictItem) Positive() bool {
	return strings.EqualFold(c.Polarity, "POSITIVE")
}

// Flag is a per-role novelty marker. The engine serializes it as a
// bool, the strings "True"/"False", or a provenance object; anything
// non-empty counts as novel.
type Flag bool

// UnmarshalJSON accepts the flag encodings the reasoning engine emits.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		*f = false
	case bool:
		*f = Flag(val)
	case string:
		*f = Flag(strings.EqualFold(val, "true"))
	case map[string]any:
		*f = Flag(len(val) > 0)
	case []any:
		*f = Flag(len(val) > 0)
	default:
		return fmt.Errorf("entity novelty flag has unsupported type %T", v)
	}
	return nil
}

// EntityNoveltyPair marks whether the subject and complement entities
// were previously unknown.
type EntityNoveltyPair struct {
	Subject    Flag `json:"_subject"`
	Complement Flag `json:"_complement"`
}

// Gap is a candidate clarifying question: a known entity and predicate
// whose counterpart of the given type is missing.
type Gap struct {
	KnownEntity      capsule.Node `json:"_known_entity"`
	Predicate        capsule.Node `json:"_predicate"`
	TargetEntityType capsule.Node `json:"_target_entity_type"`
}

// GapSet groups gaps by which role of the triple they extend.
type GapSet struct {
	Subject    []Gap `json:"_subject"`
	Complement []Gap `json:"_complement"`
}

// Empty reports whether no gaps exist on either side.
func (g *GapSet) Empty() bool {
	return g == nil || (len(g.Subject) == 0 && len(g.Complement) == 0)
}

// OverlapItem is another entity sharing a relation with the triple.
type OverlapItem struct {
	Provenance Provenance   `json:"_provenance"`
	Entity     capsule.Node `json:"_entity"`
}

// OverlapSet groups overlaps by role.
type OverlapSet struct {
	Subject    []OverlapItem `json:"_subject"`
	Complement []OverlapItem `json:"_complement"`
}

// Empty reports whether no overlaps exist on either side.
func (o *OverlapSet) Empty() bool {
	return o == nil || (len(o.Subject) == 0 && len(o.Complement) == 0)
}

// TrustValue is a scalar in [0,1], decoded from a JSON number or a
// numeric string.
type TrustValue float64

// UnmarshalJSON accepts numbers and numeric strings.
func (t *TrustValue) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		var s string
		if serr := json.Unmarshal(data, &s); serr != nil {
			return fmt.Errorf("trust value is neither number nor string: %w", err)
		}
		num = json.Number(s)
	}
	f, err := strconv.ParseFloat(num.String(), 64)
	if err != nil {
		return fmt.Errorf("parsing trust value %q: %w", num, err)
	}
	*t = TrustValue(f)
	return nil
}

// Record is the per-turn thoughts map. A nil field means the engine
// suppressed that category this turn; a present-but-empty payload is a
// meaningful value (an empty statement-novelty list means "novel").
type Record struct {
	StatementNovelty   []NoveltyItem      `json:"_statement_novelty"`
	EntityNovelty      *EntityNoveltyPair `json:"_entity_novelty"`
	NegationConflicts  []ConflictItem     `json:"_negation_conflicts"`
	ComplementConflict []ConflictItem     `json:"_complement_conflict"`
	SubjectGaps        *GapSet            `json:"_subject_gaps"`
	ComplementGaps     *GapSet            `json:"_complement_gaps"`
	Overlaps           *OverlapSet        `json:"_overlaps"`
	Trust              *TrustValue        `json:"_trust"`
}

// ParseRecord decodes and casefolds a thoughts map from its raw JSON.
func ParseRecord(raw json.RawMessage) (*Record, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("capsule carries no thoughts")
	}
	var r Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decoding thoughts: %w", err)
	}
	r.Casefold()
	return &r, nil
}

// Has reports whether the record carries a payload for t at all. The
// candidate filter uses this; renderers still re-check emptiness.
func (r *Record) Has(t Type) bool {
	if r == nil {
		return false
	}
	switch t {
	case StatementNovelty:
		return r.StatementNovelty != nil
	case EntityNovelty:
		return r.EntityNovelty != nil
	case NegationConflict:
		return r.NegationConflicts != nil
	case ComplementConflict:
		return r.ComplementConflict != nil
	case SubjectGap:
		return r.SubjectGaps != nil
	case ComplementGap:
		return r.ComplementGaps != nil
	case Overlap:
		return r.Overlaps != nil
	case Trust:
		return r.Trust != nil
	}
	return false
}

// Available filters options down to the types this record can offer a
// selector. Selectors never see absent payloads.
func (r *Record) Available(options []Type) []Type {
	var out []Type
	for _, t := range options {
		if r.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (n *Provenance) casefold() {
	n.Author.Label = capsule.CasefoldText(n.Author.Label)
	n.Date = strings.TrimSpace(n.Date)
}

func casefoldNode(n *capsule.Node) {
	n.Label = capsule.CasefoldText(n.Label)
	for i, t := range n.Types {
		n.Types[i] = capsule.CasefoldText(t)
	}
}

// Casefold normalizes every label in the record for natural-language
// use.
func (r *Record) Casefold() {
	for i := range r.StatementNovelty {
		r.StatementNovelty[i].Provenance.casefold()
	}
	for i := range r.NegationConflicts {
		r.NegationConflicts[i].Provenance.casefold()
		casefoldNode(&r.NegationConflicts[i].Complement)
	}
	for i := range r.ComplementConflict {
		r.ComplementConflict[i].Provenance.casefold()
		casefoldNode(&r.ComplementConflict[i].Complement)
	}
	for _, gs := range []*GapSet{r.SubjectGaps, r.ComplementGaps} {
		if gs == nil {
			continue
		}
		for _, side := range [][]Gap{gs.Subject, gs.Complement} {
			for i := range side {
				casefoldNode(&side[i].KnownEntity)
				casefoldNode(&side[i].Predicate)
				casefoldNode(&side[i].TargetEntityType)
			}
		}
	}
	if r.Overlaps != nil {
		for _, side := range [][]OverlapItem{r.Overlaps.Subject, r.Overlaps.Complement} {
			for i := range side {
				side[i].Provenance.casefold()
				casefoldNode(&side[i].Entity)
			}
		}
	}
}
