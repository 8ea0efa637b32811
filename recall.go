// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package recall is a personal memory retrieval engine: store memory
// records, then search them with hybrid lexical, semantic, and date-aware
// ranking. Store wires the snapshot store, the embedding provider, the
// embedding cache, and the search service together for embedding use.
package recall

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/ai/openai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/embedcache"
	"github.com/poiesic/recall/search"
	"github.com/poiesic/recall/storage"
	badgerstore "github.com/poiesic/recall/storage/badger"
)

// Store is the top-level handle over a persisted memory corpus.
type Store struct {
	backend  *badgerstore.Backend
	repo     storage.MemoryRepository
	provider ai.Provider
	cache    *embedcache.Cache
	service  *search.Service
	logger   *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	aiConfig   *ai.Config
	provider   ai.Provider
	noProvider bool
	inMemory   bool
}

// WithAIConfig sets the embedding provider configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) StoreOption {
	return func(o *storeOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects an already constructed provider, bypassing the
// OpenAI-compatible default. Used for tests and custom adapters.
func WithProvider(provider ai.Provider) StoreOption {
	return func(o *storeOptions) {
		o.provider = provider
	}
}

// WithoutProvider disables embeddings entirely. Every search runs
// lexical-only.
func WithoutProvider() StoreOption {
	return func(o *storeOptions) {
		o.noProvider = true
	}
}

// WithInMemory keeps the whole store in memory, with no files on disk.
func WithInMemory() StoreOption {
	return func(o *storeOptions) {
		o.inMemory = true
	}
}

// cachedProvider puts the embedding cache in front of a provider's
// embedder, so identical texts hit the provider at most once.
type cachedProvider struct {
	inner ai.Provider
	cache *embedcache.Cache
}

func (p *cachedProvider) Embedder() ai.Embedder { return p.cache }
func (p *cachedProvider) Close() error          { return p.inner.Close() }

// Open opens (or creates) a memory store at filePath.
func Open(filePath string, opts ...StoreOption) (*Store, error) {
	options := &storeOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badgerstore.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	repo, err := badgerstore.NewMemoryRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	store := &Store{
		backend: backend,
		repo:    repo,
		logger:  slog.Default(),
	}

	if !options.noProvider {
		provider := options.provider
		if provider == nil {
			provider, err = openai.NewProvider(options.aiConfig)
			if err != nil {
				repo.Close()
				backend.Close()
				return nil, err
			}
		}

		cache, err := embedcache.NewCache(provider.Embedder())
		if err != nil {
			provider.Close()
			repo.Close()
			backend.Close()
			return nil, err
		}

		store.cache = cache
		store.provider = &cachedProvider{inner: provider, cache: cache}
	}

	service, err := search.NewService(store.provider)
	if err != nil {
		store.Close()
		return nil, err
	}
	store.service = service

	return store, nil
}

// Close releases the provider and the underlying database.
func (s *Store) Close() error {
	if s.provider != nil {
		if err := s.provider.Close(); err != nil {
			s.logger.Error("error closing AI provider", "err", err)
		}
	}
	if err := s.repo.Close(); err != nil {
		s.logger.Error("error closing memory repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Repository returns the underlying memory repository.
func (s *Store) Repository() storage.MemoryRepository {
	return s.repo
}

// Remember validates and persists memory records.
func (s *Store) Remember(ctx context.Context, records ...*core.MemoryRecord) ([]*core.MemoryRecord, error) {
	for _, record := range records {
		if record.CreatedAt.IsZero() {
			record.CreatedAt = time.Now().UTC()
		}
		if err := core.ValidateMemoryRecord(record); err != nil {
			return nil, err
		}
	}
	return s.repo.AddMemories(ctx, records...)
}

// Search ranks the whole stored corpus against the query, anchored at the
// current time.
func (s *Store) Search(ctx context.Context, rawQuery string, opts search.Options) (*core.SearchOutcome, error) {
	return s.SearchAt(ctx, rawQuery, time.Now().UTC(), opts)
}

// SearchAt ranks the stored corpus with an explicit anchor time, which
// relative date phrases ("tomorrow") resolve against.
func (s *Store) SearchAt(ctx context.Context, rawQuery string, anchor time.Time, opts search.Options) (*core.SearchOutcome, error) {
	records, err := s.repo.ListMemories(ctx)
	if err != nil {
		return nil, err
	}
	return s.service.Search(ctx, rawQuery, records, anchor, opts)
}

// Warm embeds every stored record that lacks an embedding and persists the
// results, so subsequent searches have a semantic signal for the whole
// corpus. A no-op when the store has no provider.
func (s *Store) Warm(ctx context.Context, opts ...embedcache.WarmerOption) (embedcache.WarmStats, error) {
	if s.provider == nil {
		return embedcache.WarmStats{}, nil
	}

	records, err := s.repo.ListMemories(ctx)
	if err != nil {
		return embedcache.WarmStats{}, err
	}

	warmer, err := embedcache.NewWarmer(s.provider.Embedder(), opts...)
	if err != nil {
		return embedcache.WarmStats{}, err
	}
	defer warmer.Release()

	stats, err := warmer.Warm(ctx, records)
	if err != nil {
		return stats, err
	}

	if stats.Embedded > 0 {
		warmed := make([]*core.MemoryRecord, 0, stats.Embedded)
		for _, record := range records {
			if len(record.Embedding) > 0 {
				warmed = append(warmed, record)
			}
		}
		if _, err := s.repo.UpdateMemories(ctx, warmed...); err != nil {
			return stats, err
		}
	}
	return stats, nil
}
