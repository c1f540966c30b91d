package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// embeddingCacheSize bounds the query-embedding cache. Repeated queries for
// the same text skip the embedding API round trip.
const embeddingCacheSize = 1000

// QueryEmbedder produces an embedding vector for a free-text query.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

type vectorEntry struct {
	id     string
	vector []float32
	norm   float64
}

// VectorStore is a nearest-neighbor index over precomputed event
// embeddings. The vector map is loaded once from a persisted JSON artifact
// and is immutable afterwards; Retrieve only embeds the query.
type VectorStore struct {
	entries  []vectorEntry
	dim      int
	embedder QueryEmbedder

	mu    sync.Mutex
	cache *lru.Cache[string, []float32]
}

// NewVectorStore loads the persisted {eventID: vector} map from path. An
// unreadable or malformed file is an error; callers treat that as "semantic
// retrieval unavailable" rather than failing startup.
func NewVectorStore(path string, embedder QueryEmbedder) (*VectorStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("query embedder is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read embeddings file: %w", err)
	}

	var raw map[string][]float32
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode embeddings file: %w", err)
	}

	store := &VectorStore{embedder: embedder}
	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	// Stable entry order keeps similarity ties deterministic across runs.
	sort.Strings(ids)

	for _, id := range ids {
		vector := raw[id]
		if len(vector) == 0 {
			continue
		}
		if store.dim == 0 {
			store.dim = len(vector)
		}
		if len(vector) != store.dim {
			return nil, fmt.Errorf("inconsistent embedding dimension for %q: got %d, want %d", id, len(vector), store.dim)
		}
		store.entries = append(store.entries, vectorEntry{
			id:     id,
			vector: vector,
			norm:   vectorNorm(vector),
		})
	}

	cache, err := lru.New[string, []float32](embeddingCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding cache: %w", err)
	}
	store.cache = cache

	return store, nil
}

// Size returns the number of indexed vectors.
func (s *VectorStore) Size() int {
	return len(s.entries)
}

// Retrieve returns up to k event ids ordered by cosine similarity to the
// query. No similarity threshold is applied: a non-empty index always
// yields up to k results.
func (s *VectorStore) Retrieve(ctx context.Context, query string, k int) ([]string, error) {
	if k <= 0 || len(s.entries) == 0 {
		return nil, nil
	}

	queryVector, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	queryNorm := vectorNorm(queryVector)

	type ranked struct {
		id    string
		score float64
	}
	scores := make([]ranked, len(s.entries))
	for i, entry := range s.entries {
		scores[i] = ranked{
			id:    entry.id,
			score: cosineSimilarity(queryVector, queryNorm, entry.vector, entry.norm),
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	if k > len(scores) {
		k = len(scores)
	}
	ids := make([]string, k)
	for i := 0; i < k; i++ {
		ids[i] = scores[i].id
	}
	return ids, nil
}

func (s *VectorStore) embedQuery(ctx context.Context, query string) ([]float32, error) {
	key := hashText(query)

	s.mu.Lock()
	cached, ok := s.cache.Get(key)
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache.Add(key, vector)
	s.mu.Unlock()

	return vector, nil
}

func hashText(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

func vectorNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func cosineSimilarity(a []float32, normA float64, b []float32, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (normA * normB)
}
