package embeddings

import "context"

// Embedder turns text into vectors for the passage index. The store embeds
// passage batches while seeding; the query path embeds one question at a
// time through the Gateway.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the vector width every Embed result must have.
	Dimensions() int

	// Name identifies the embedding model, for logs and diagnostics.
	Name() string
}
