package coherence

import (
	"context"
	"fmt"
	"math"

	chromem "github.com/philippgille/chromem-go"

	"github.com/dialogkit/replygen/internal/embeddings"
)

const dialogueCollection = "dialogue"

// EmbeddingScorer rates candidates by cosine similarity against a
// bounded in-memory collection of recent dialogue turns. A candidate
// that echoes what was just talked about scores high; similarity is
// mapped from [-1,1] into [0,1].
type EmbeddingScorer struct {
	collection *chromem.Collection
	embedder   embeddings.Embedder
	history    int
	ids        []string
	seq        int
}

// NewEmbeddingScorer builds a scorer keeping at most history dialogue
// turns.
func NewEmbeddingScorer(embedder embeddings.Embedder, history int) (*EmbeddingScorer, error) {
	if history <= 0 {
		history = 8
	}
	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(dialogueCollection, nil, embeddings.ToChromemFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("creating dialogue collection: %w", err)
	}
	return &EmbeddingScorer{collection: col, embedder: embedder, history: history}, nil
}

// Observe adds one dialogue turn to the memory, evicting the oldest
// once the history bound is reached.
func (s *EmbeddingScorer) Observe(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	s.seq++
	id := fmt.Sprintf("turn-%d", s.seq)
	err := s.collection.AddDocuments(ctx, []chromem.Document{{ID: id, Content: text}}, 1)
	if err != nil {
		return fmt.Errorf("adding dialogue turn: %w", err)
	}
	s.ids = append(s.ids, id)
	if len(s.ids) > s.history {
		if err := s.collection.Delete(ctx, nil, nil, s.ids[0]); err != nil {
			return fmt.Errorf("evicting dialogue turn: %w", err)
		}
		s.ids = s.ids[1:]
	}
	return nil
}

// Score rates the candidate against the stored turns, falling back to
// direct similarity with the dialogue string while memory is empty.
func (s *EmbeddingScorer) Score(ctx context.Context, dialogue, candidate string) (float64, error) {
	if s.collection.Count() == 0 {
		return s.directScore(ctx, dialogue, candidate)
	}

	results, err := s.collection.Query(ctx, candidate, 1, nil, nil)
	if err != nil {
		return 0, fmt.Errorf("querying dialogue memory: %w", err)
	}
	if len(results) == 0 {
		return s.directScore(ctx, dialogue, candidate)
	}
	return clamp01((float64(results[0].Similarity) + 1) / 2), nil
}

func (s *EmbeddingScorer) directScore(ctx context.Context, dialogue, candidate string) (float64, error) {
	if dialogue == "" || candidate == "" {
		return 0, nil
	}
	vecs, err := s.embedder.Embed(ctx, []string{dialogue, candidate})
	if err != nil {
		return 0, fmt.Errorf("embedding dialogue pair: %w", err)
	}
	if len(vecs) != 2 {
		return 0, fmt.Errorf("embedding dialogue pair: got %d vectors", len(vecs))
	}
	return clamp01((cosine(vecs[0], vecs[1]) + 1) / 2), nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
