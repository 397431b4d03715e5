package reply

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/dialogkit/replygen/internal/capsule"
	"github.com/dialogkit/replygen/internal/selector"
	"github.com/dialogkit/replygen/internal/thought"
)

// stubPhraser scripts Phrase results per thought type. A missing entry
// is a renderer miss regardless of the fallback flag, which is what the
// termination tests need.
type stubPhraser struct {
	replies map[thought.Type]string
	calls   int
}

func (s *stubPhraser) Phrase(_ *capsule.Utterance, t thought.Type, _ *thought.Record, _ bool) (string, bool) {
	s.calls++
	say, ok := s.replies[t]
	return say, ok
}

func (s *stubPhraser) Fallback() string { return "out of words" }

// firstSelector always picks the first candidate.
type firstSelector struct{}

func (firstSelector) Select(cands []thought.Candidate) (thought.Candidate, bool) {
	if len(cands) == 0 {
		return thought.Candidate{}, false
	}
	return cands[0], true
}

func statementResponse(t *testing.T, thoughts string) *capsule.BrainResponse {
	t.Helper()
	resp := &capsule.BrainResponse{
		Statement: &capsule.Utterance{
			Author: capsule.Source{Label: "stranger"},
			Triple: &capsule.Triple{
				Subject:    capsule.Node{Label: "joe"},
				Predicate:  capsule.Node{Label: "like"},
				Complement: capsule.Node{Label: "dogs"},
			},
		},
		Thoughts: json.RawMessage(thoughts),
	}
	return resp
}

func TestReplyToStatementNoTriple(t *testing.T) {
	r := NewReplier("nova", firstSelector{}, &stubPhraser{})

	resp := &capsule.BrainResponse{Statement: &capsule.Utterance{}}
	if say, ok := r.ReplyToStatement(context.Background(), resp, StatementOptions{}); ok {
		t.Errorf("no triple must yield no reply, got %q", say)
	}
}

func TestReplyToStatementMalformedThoughts(t *testing.T) {
	r := NewReplier("nova", firstSelector{}, &stubPhraser{})

	resp := statementResponse(t, `{"_trust": {"bad": true}}`)
	if say, ok := r.ReplyToStatement(context.Background(), resp, StatementOptions{}); ok {
		t.Errorf("malformed thoughts must yield no reply, got %q", say)
	}
}

func TestReplyToStatementNothingAvailable(t *testing.T) {
	phraser := &stubPhraser{}
	r := NewReplier("nova", firstSelector{}, phraser)

	resp := statementResponse(t, `{}`)
	say, ok := r.ReplyToStatement(context.Background(), resp, StatementOptions{})
	if !ok {
		t.Fatal("empty candidate set must produce the fallback, not a nil reply")
	}
	if say != "out of words" {
		t.Errorf("say = %q, want the fallback", say)
	}
	if phraser.calls != 0 {
		t.Errorf("phraser was consulted %d times for an empty set", phraser.calls)
	}
}

func TestReplyToStatementSuccess(t *testing.T) {
	phraser := &stubPhraser{replies: map[thought.Type]string{
		thought.StatementNovelty: "that is news to me",
	}}
	r := NewReplier("nova", firstSelector{}, phraser)

	resp := statementResponse(t, `{"_statement_novelty": []}`)
	say, ok := r.ReplyToStatement(context.Background(), resp, StatementOptions{})
	if !ok || say != "that is news to me" {
		t.Errorf("got (%q, %v)", say, ok)
	}
	if r.LastThought() != string(thought.StatementNovelty) {
		t.Errorf("LastThought = %q", r.LastThought())
	}
}

func TestReplyToStatementMissWithoutPersist(t *testing.T) {
	phraser := &stubPhraser{} // renders nothing
	r := NewReplier("nova", firstSelector{}, phraser)

	resp := statementResponse(t, `{"_statement_novelty": []}`)
	if say, ok := r.ReplyToStatement(context.Background(), resp, StatementOptions{}); ok {
		t.Errorf("a miss without persist must yield no reply, got %q", say)
	}
	if phraser.calls != 1 {
		t.Errorf("phraser consulted %d times, want exactly 1", phraser.calls)
	}
}

func TestReplyToStatementTerminatesUnderAdversarialNulls(t *testing.T) {
	phraser := &stubPhraser{} // always misses, even with the fallback flag set
	r := NewReplier("nova", firstSelector{}, phraser, WithMaxDepth(5))

	resp := statementResponse(t, `{"_statement_novelty": []}`)
	say, ok := r.ReplyToStatement(context.Background(), resp, StatementOptions{Persist: true})
	if !ok {
		t.Fatal("exhausted budget must resolve to the fallback string")
	}
	if say != "out of words" {
		t.Errorf("say = %q, want the fallback", say)
	}
	if phraser.calls != 6 {
		t.Errorf("phraser consulted %d times, want budget+1", phraser.calls)
	}
}

// roundRobinSelector cycles through the candidate list across calls.
type roundRobinSelector struct {
	turn int
}

func (s *roundRobinSelector) Select(cands []thought.Candidate) (thought.Candidate, bool) {
	if len(cands) == 0 {
		return thought.Candidate{}, false
	}
	c := cands[s.turn%len(cands)]
	s.turn++
	return c, true
}

func TestReplyToStatementPersistRetries(t *testing.T) {
	// The first pick misses; with persist the replier re-selects and
	// the second pick renders.
	phraser := &stubPhraser{replies: map[thought.Type]string{
		thought.Trust: "I trust you.",
	}}
	r := NewReplier("nova", &roundRobinSelector{}, phraser)

	resp := statementResponse(t, `{"_statement_novelty": [], "_trust": 0.9}`)
	say, ok := r.ReplyToStatement(context.Background(), resp, StatementOptions{Persist: true})
	if !ok {
		t.Fatal("expected a reply")
	}
	if say != "I trust you." {
		t.Errorf("say = %q, want the second pick's rendering", say)
	}
	if phraser.calls != 2 {
		t.Errorf("phraser consulted %d times, want 2", phraser.calls)
	}
}

func TestReplyToMention(t *testing.T) {
	phraser := &stubPhraser{replies: map[thought.Type]string{
		thought.EntityNovelty: "I had never heard about piek before!",
	}}
	r := NewReplier("nova", firstSelector{}, phraser)

	resp := &capsule.BrainResponse{
		Mention: &capsule.Utterance{
			Author: capsule.Source{Label: "selene"},
			Entity: &capsule.Node{Label: "piek"},
		},
		Thoughts: json.RawMessage(`{"_entity_novelty": {"_subject": true, "_complement": false}}`),
	}
	say, ok := r.ReplyToMention(resp)
	if !ok || say != "I had never heard about piek before!" {
		t.Errorf("got (%q, %v)", say, ok)
	}
}

func TestReplyToMentionNoEntity(t *testing.T) {
	r := NewReplier("nova", firstSelector{}, &stubPhraser{})

	resp := &capsule.BrainResponse{Mention: &capsule.Utterance{}}
	if say, ok := r.ReplyToMention(resp); ok {
		t.Errorf("no entity must yield no reply, got %q", say)
	}
}

// perTypeScorer scores rendered candidates by fixed reply strings.
type perTypeScorer struct {
	scores map[string]float64
}

func (s perTypeScorer) Score(_ context.Context, _, candidate string) (float64, error) {
	return s.scores[candidate], nil
}

func TestReplyToStatementCoherencePath(t *testing.T) {
	phraser := &stubPhraser{replies: map[thought.Type]string{
		thought.StatementNovelty: "novel reply",
		thought.Trust:            "trusting reply",
	}}
	ranker := selector.NewCoherence(perTypeScorer{scores: map[string]float64{
		"novel reply":    0.2,
		"trusting reply": 0.9,
	}}, nil)
	r := NewReplier("nova", firstSelector{}, phraser, WithCoherence(ranker))

	resp := statementResponse(t, `{"_statement_novelty": [], "_trust": 0.8}`)
	say, ok := r.ReplyToStatement(context.Background(), resp, StatementOptions{})
	if !ok {
		t.Fatal("expected a reply")
	}
	if say != "trusting reply" {
		t.Errorf("say = %q, want the best scored rendering", say)
	}
	if r.LastThought() != "trust" {
		t.Errorf("LastThought = %q, want the split arm name", r.LastThought())
	}
}

// rampEvaluator replays a fixed state sequence.
type rampEvaluator struct {
	states []float64
	next   int
}

func (e *rampEvaluator) State(context.Context) (float64, error) {
	v := e.states[e.next]
	if e.next < len(e.states)-1 {
		e.next++
	}
	return v, nil
}

func TestRewardTrackerRatio(t *testing.T) {
	ucb, err := selector.NewUCB(2, nil, nil)
	if err != nil {
		t.Fatalf("NewUCB failed: %v", err)
	}
	tracker := NewRewardTracker(ucb, &rampEvaluator{states: []float64{2, 3}}, nil)

	ctx := context.Background()
	if err := tracker.Observe(ctx, ""); err != nil {
		t.Fatalf("seeding observe failed: %v", err)
	}
	if err := tracker.Observe(ctx, "overlap -subj animal"); err != nil {
		t.Fatalf("rewarding observe failed: %v", err)
	}

	arm := ucb.Arms()["overlap -subj animal"]
	if arm.Count != 1 {
		t.Fatalf("arm count = %d, want 1", arm.Count)
	}
	if arm.Value != 1.5 {
		t.Errorf("arm value = %f, want the 3/2 state ratio", arm.Value)
	}

	if got := len(tracker.States()); got != 2 {
		t.Errorf("state history length = %d, want 2", got)
	}
}
