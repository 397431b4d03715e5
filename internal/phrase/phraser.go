// Package phrase turns a chosen thought into a natural-language reply.
// The pattern phraser is a closed set of deterministic templates, one
// per thought type; the LLM phraser paraphrases the same material
// through a chat model and degrades to the patterns when the model
// misbehaves. Both prepend a sentiment-keyed pool opener and finish
// with the normalizer pass.
package phrase

import (
	"github.com/dialogkit/replygen/internal/capsule"
	"github.com/dialogkit/replygen/internal/thought"
)

// Phraser renders one thought category of a record into a sentence.
// ok=false means the payload had nothing to say; with fallback set the
// phraser substitutes the out-of-words message instead.
type Phraser interface {
	Phrase(utt *capsule.Utterance, t thought.Type, rec *thought.Record, fallback bool) (string, bool)
	Fallback() string
}
