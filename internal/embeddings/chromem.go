package embeddings

import (
	"context"

	chromem "github.com/philippgille/chromem-go"
)

// ToChromemFunc adapts an Embedder to chromem's per-document embedding
// callback, so the dialogue-memory collection can embed one turn at a
// time through the same provider the batch API uses.
func ToChromemFunc(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, turn string) ([]float32, error) {
		vectors, err := e.Embed(ctx, []string{turn})
		if err != nil {
			return nil, err
		}
		if len(vectors) == 0 {
			return nil, nil
		}
		return vectors[0], nil
	}
}
