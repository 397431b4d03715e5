// Package capsule defines the wire model for brain responses: the
// structured record the reasoning engine emits for every conversation
// turn. A capsule nests an utterance (the analyzed triple plus speaker
// perspective) together with the thoughts derived from it and, for
// questions, the candidate answer bindings.
package capsule

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Node is an entity or predicate inside a triple. The reasoning engine
// writes underscore-prefixed keys; they are preserved as opaque wire
// names.
type Node struct {
	Label string   `json:"_label"`
	Types []string `json:"_types,omitempty"`
}

// Triple is a subject-predicate-complement assertion.
type Triple struct {
	Subject    Node `json:"_subject"`
	Predicate  Node `json:"_predicate"`
	Complement Node `json:"_complement"`
}

// Source is an outer-level entity reference (author, subject, object)
// using the plain key convention of the utterance envelope.
type Source struct {
	Label string   `json:"label"`
	Types []string `json:"type,omitempty"`
}

// Perspective carries the speaker's stance on the asserted triple.
type Perspective struct {
	Certainty string `json:"certainty,omitempty"`
	Polarity  string `json:"polarity,omitempty"`
	Sentiment string `json:"sentiment,omitempty"`
	Emotion   string `json:"emotion,omitempty"`
}

// Utterance is the analyzed input turn: the raw text, the speaker, the
// extracted triple and its outer subject/predicate/object labels. For
// mention capsules Entity is set instead of a full triple.
type Utterance struct {
	Text        string       `json:"utterance,omitempty"`
	Chat        string       `json:"chat,omitempty"`
	Turn        json.Number  `json:"turn,omitempty"`
	Author      Source       `json:"author"`
	Subject     Source       `json:"subject,omitempty"`
	Predicate   Source       `json:"predicate,omitempty"`
	Object      Source       `json:"object,omitempty"`
	Triple      *Triple      `json:"triple,omitempty"`
	Entity      *Node        `json:"entity,omitempty"`
	SourceRef   *Source      `json:"source,omitempty"`
	Perspective *Perspective `json:"perspective,omitempty"`
}

// bindingValue is a single SPARQL-style result cell, {"value": "..."}.
type bindingValue struct {
	Value string `json:"value"`
}

// Binding is one candidate answer row for a question capsule.
type Binding struct {
	Subject   bindingValue `json:"slabel"`
	Object    bindingValue `json:"olabel"`
	Author    bindingValue `json:"authorlabel"`
	Certainty bindingValue `json:"certaintyValue"`
	Polarity  bindingValue `json:"polarityValue"`
}

// SubjectLabel returns the bound subject label.
func (b Binding) SubjectLabel() string { return b.Subject.Value }

// ObjectLabel returns the bound object label.
func (b Binding) ObjectLabel() string { return b.Object.Value }

// AuthorLabel returns the bound author label.
func (b Binding) AuthorLabel() string { return b.Author.Value }

// CertaintyValue returns the bound certainty marker, e.g. "CERTAIN".
func (b Binding) CertaintyValue() string { return b.Certainty.Value }

// PolarityValue returns the bound polarity marker, e.g. "POSITIVE".
func (b Binding) PolarityValue() string { return b.Polarity.Value }

// Kind discriminates the top-level capsule envelope.
type Kind string

const (
	KindStatement Kind = "statement"
	KindQuestion  Kind = "question"
	KindMention   Kind = "mention"
)

// BrainResponse is the top-level record produced by the reasoning
// engine per turn. Exactly one of Statement, Question or Mention is
// expected to be set; Thoughts accompanies statements and mentions,
// Response accompanies questions.
type BrainResponse struct {
	Statement *Utterance      `json:"statement,omitempty"`
	Question  *Utterance      `json:"question,omitempty"`
	Mention   *Utterance      `json:"mention,omitempty"`
	Thoughts  json.RawMessage `json:"thoughts,omitempty"`
	Response  []Binding       `json:"response,omitempty"`
}

// Detect reports which envelope this capsule carries. Statements win
// over mentions when both are present, matching how the repliers probe
// the record.
func (r *BrainResponse) Detect() (Kind, *Utterance, error) {
	switch {
	case r.Statement != nil:
		return KindStatement, r.Statement, nil
	case r.Question != nil:
		return KindQuestion, r.Question, nil
	case r.Mention != nil:
		return KindMention, r.Mention, nil
	}
	return "", nil, fmt.Errorf("capsule carries no statement, question or mention")
}

// Parse decodes a brain response from JSON.
func Parse(data []byte) (*BrainResponse, error) {
	var r BrainResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding brain response: %w", err)
	}
	return &r, nil
}

// Clone deep-copies the utterance. Capsules are read-only inputs; the
// pipeline casefolds a copy, never the original.
func (u *Utterance) Clone() *Utterance {
	if u == nil {
		return nil
	}
	data, err := json.Marshal(u)
	if err != nil {
		clone := *u
		return &clone
	}
	var clone Utterance
	if err := json.Unmarshal(data, &clone); err != nil {
		fallback := *u
		return &fallback
	}
	return &clone
}

// CasefoldText normalizes a label the way the triple store emits it for
// natural-language use: lowercased, underscores widened to spaces,
// surrounding whitespace dropped.
func CasefoldText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ToLower(s), "_", " "))
}

func casefoldSlice(ss []string) {
	for i, s := range ss {
		ss[i] = CasefoldText(s)
	}
}

func (n *Node) casefold() {
	if n == nil {
		return
	}
	n.Label = CasefoldText(n.Label)
	casefoldSlice(n.Types)
}

func (s *Source) casefold() {
	if s == nil {
		return
	}
	s.Label = CasefoldText(s.Label)
	casefoldSlice(s.Types)
}

// Casefold applies natural casefolding to every label in the utterance.
// Hyphens are left alone: compound labels such as "selene-s" are needed
// intact for possessive resolution and question-template dispatch.
func (u *Utterance) Casefold() {
	if u == nil {
		return
	}
	u.Author.casefold()
	u.Subject.casefold()
	u.Predicate.casefold()
	u.Object.casefold()
	u.SourceRef.casefold()
	u.Entity.casefold()
	if u.Triple != nil {
		u.Triple.Subject.casefold()
		u.Triple.Predicate.casefold()
		u.Triple.Complement.casefold()
	}
}
