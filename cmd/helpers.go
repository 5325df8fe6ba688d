package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/daeunko/curator/internal/cache"
	"github.com/daeunko/curator/internal/config"
	"github.com/daeunko/curator/internal/curator"
	"github.com/daeunko/curator/internal/db"
	"github.com/daeunko/curator/internal/embeddings"
	"github.com/daeunko/curator/internal/learning"
	"github.com/daeunko/curator/internal/llm"
	"github.com/daeunko/curator/internal/passages"
	"github.com/daeunko/curator/internal/ranker"
)

// deps bundles the wired pipeline shared by serve, seed, stats and mcp.
type deps struct {
	cfg      *config.Config
	database *db.DB
	gateway  *embeddings.Gateway
	store    *passages.Store
	logger   *learning.Logger
}

func (d *deps) Close() {
	if d.database != nil {
		d.database.Close()
	}
}

// openDeps loads config and wires the storage side of the pipeline.
func openDeps() (*deps, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	database, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	base, err := embeddings.New(string(cfg.EmbeddingProvider), cfg.EmbeddingModel)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	gateway := embeddings.NewGateway(base, time.Duration(cfg.Limits.TimeoutSeconds)*time.Second)

	store, err := passages.NewStore(database, gateway)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("creating passage store: %w", err)
	}

	return &deps{
		cfg:      cfg,
		database: database,
		gateway:  gateway,
		store:    store,
		logger:   learning.NewLogger(database),
	}, nil
}

// buildCurator wires the full answer pipeline on top of the storage deps.
func buildCurator(d *deps) (*curator.Curator, error) {
	cfg := d.cfg

	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("creating generation provider: %w", err)
	}
	paced := llm.NewPacer(provider, time.Duration(cfg.Limits.MinIntervalMS)*time.Millisecond)

	rk := ranker.New(d.gateway, d.store, ranker.Options{
		TopK:        cfg.Ranking.TopK,
		Candidates:  cfg.Ranking.Candidates,
		BoostWeight: cfg.Ranking.BoostWeight,
	})

	respCache := cache.NewMemoryCache(time.Duration(cfg.Limits.CacheTTLSeconds) * time.Second)

	return curator.New(rk, respCache, paced, d.logger, curator.DefaultFallback(), curator.Options{
		Model:           cfg.Model,
		MaxSources:      cfg.Ranking.TopK,
		PresetThreshold: cfg.Limits.PresetThreshold,
		MaxTokens:       cfg.Limits.MaxTokens,
		Temperature:     cfg.Limits.Temperature,
	}), nil
}

// loadVectors restores the persisted vector index, warning instead of
// failing when it is missing: an empty index just means keyword retrieval
// until seed runs.
func loadVectors(d *deps) {
	if err := d.store.Load(d.cfg.VectorDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load vector index from %s: %v\n", d.cfg.VectorDir, err)
		fmt.Fprintf(os.Stderr, "Similarity search will be empty. Run `curator seed` first.\n")
	}
}
