package passages

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	chromem "github.com/philippgille/chromem-go"

	"github.com/daeunko/curator/internal/db"
	"github.com/daeunko/curator/internal/embeddings"
)

const collectionName = "passages"

// Store keeps passage documents in SQLite and their vectors in a chromem-go
// collection. Only passages with an attached embedding are present in the
// collection, so similarity queries can never return an unembedded passage.
type Store struct {
	db         *db.DB
	vdb        *chromem.DB
	collection *chromem.Collection
	embedder   embeddings.Embedder
	embedFunc  chromem.EmbeddingFunc
}

// NewStore creates a passage store over the given database and embedder.
func NewStore(database *db.DB, embedder embeddings.Embedder) (*Store, error) {
	vdb := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := vdb.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &Store{
		db:         database,
		vdb:        vdb,
		collection: col,
		embedder:   embedder,
		embedFunc:  ef,
	}, nil
}

// Seed inserts passage documents. Embeddings are not attached here; run
// Backfill afterwards. Seeding is the offline ingestion path, never the
// serving path.
func (s *Store) Seed(ctx context.Context, ps []Passage) error {
	for _, p := range ps {
		meta, err := json.Marshal(p.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata for %s: %w", p.ID, err)
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO passages (id, content, metadata, has_embedding)
			VALUES (?, ?, ?, 0)
			ON CONFLICT(id) DO NOTHING`,
			p.ID, p.Content, string(meta),
		)
		if err != nil {
			return fmt.Errorf("inserting passage %s: %w", p.ID, err)
		}
	}
	return nil
}

// Backfill embeds every passage that has no embedding yet and adds it to
// the vector collection. Attaching a missing embedding is the only update
// a passage ever receives. The optional progress callback is invoked after
// each passage with (done, total).
func (s *Store) Backfill(ctx context.Context, progress func(done, total int)) (int, error) {
	pending, err := s.listPending(ctx)
	if err != nil {
		return 0, err
	}

	for i, p := range pending {
		vecs, err := s.embedder.Embed(ctx, []string{p.Content})
		if err != nil {
			return i, fmt.Errorf("embedding passage %s: %w", p.ID, err)
		}

		doc := chromem.Document{
			ID:        p.ID,
			Content:   p.Content,
			Metadata:  metadataToMap(p.Metadata),
			Embedding: vecs[0],
		}
		if err := s.collection.AddDocuments(ctx, []chromem.Document{doc}, 1); err != nil {
			return i, fmt.Errorf("indexing passage %s: %w", p.ID, err)
		}

		if _, err := s.db.ExecContext(ctx,
			"UPDATE passages SET has_embedding = 1 WHERE id = ?", p.ID); err != nil {
			return i, fmt.Errorf("marking passage %s embedded: %w", p.ID, err)
		}

		if progress != nil {
			progress(i+1, len(pending))
		}
	}
	return len(pending), nil
}

// QueryByVector returns up to limit passages ordered by descending cosine
// similarity to the query vector.
func (s *Store) QueryByVector(ctx context.Context, vec []float32, limit int) ([]Scored, error) {
	if limit <= 0 {
		limit = 10
	}

	// chromem-go requires nResults <= collection size.
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := s.collection.QueryEmbedding(ctx, vec, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	scored := make([]Scored, len(results))
	for i, r := range results {
		scored[i] = Scored{
			Passage: Passage{
				ID:           r.ID,
				Content:      r.Content,
				Metadata:     mapToMetadata(r.Metadata),
				HasEmbedding: true,
			},
			Similarity: r.Similarity,
		}
	}
	return scored, nil
}

// SearchKeyword is the degraded retrieval path used when no query embedding
// is available: token overlap of the query against passage content and
// product name. Similarity is the fraction of query tokens matched.
func (s *Store) SearchKeyword(ctx context.Context, query string, limit int) ([]Scored, error) {
	if limit <= 0 {
		limit = 10
	}

	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, content, metadata, has_embedding FROM passages")
	if err != nil {
		return nil, fmt.Errorf("querying passages: %w", err)
	}
	defer rows.Close()

	var scored []Scored
	for rows.Next() {
		p, err := scanPassage(rows)
		if err != nil {
			return nil, err
		}

		haystack := strings.ToLower(p.Content + " " + p.Metadata.ProductName)
		matched := 0
		for _, tok := range tokens {
			if strings.Contains(haystack, tok) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		scored = append(scored, Scored{
			Passage:    p,
			Similarity: float32(matched) / float32(len(tokens)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanning passages: %w", err)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Similarity != scored[j].Similarity {
			return scored[i].Similarity > scored[j].Similarity
		}
		return scored[i].Passage.ID < scored[j].Passage.ID
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// Get retrieves a single passage by id. Returns nil when not found.
func (s *Store) Get(ctx context.Context, id string) (*Passage, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, content, metadata, has_embedding FROM passages WHERE id = ?", id)
	p, err := scanPassage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Count returns the number of stored passages and how many are retrievable
// by similarity (embedded).
func (s *Store) Count(ctx context.Context) (total, embedded int, err error) {
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(has_embedding), 0) FROM passages").Scan(&total, &embedded)
	if err != nil {
		return 0, 0, fmt.Errorf("counting passages: %w", err)
	}
	return total, embedded, nil
}

// Persist saves the vector index to the given directory.
func (s *Store) Persist(dir string) error {
	return s.vdb.ExportToFile(dir+"/passages.gob.gz", true, "")
}

// Load restores the vector index from the given directory.
func (s *Store) Load(dir string) error {
	if err := s.vdb.ImportFromFile(dir+"/passages.gob.gz", ""); err != nil {
		return fmt.Errorf("import from file: %w", err)
	}

	// Re-acquire collection reference after import.
	col := s.vdb.GetCollection(collectionName, s.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	s.collection = col
	return nil
}

func (s *Store) listPending(ctx context.Context) ([]Passage, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, content, metadata, has_embedding FROM passages WHERE has_embedding = 0 ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying pending passages: %w", err)
	}
	defer rows.Close()

	var pending []Passage
	for rows.Next() {
		p, err := scanPassage(rows)
		if err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPassage(sc scanner) (Passage, error) {
	var (
		p        Passage
		metaJSON string
		embedded int
	)
	if err := sc.Scan(&p.ID, &p.Content, &metaJSON, &embedded); err != nil {
		return Passage{}, fmt.Errorf("scanning passage: %w", err)
	}
	if err := json.Unmarshal([]byte(metaJSON), &p.Metadata); err != nil {
		return Passage{}, fmt.Errorf("unmarshalling metadata: %w", err)
	}
	p.HasEmbedding = embedded == 1
	return p, nil
}

// tokenize lowercases and splits on whitespace, dropping single-rune latin
// noise tokens.
func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	out := fields[:0]
	for _, f := range fields {
		if len(f) == 1 && f[0] < 0x80 {
			continue
		}
		out = append(out, f)
	}
	return out
}
