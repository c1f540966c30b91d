package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eventseekr/backend/internal/adapters/cache"
	"github.com/eventseekr/backend/internal/adapters/search"
	"github.com/eventseekr/backend/internal/domain/entities"
	"github.com/eventseekr/backend/internal/domain/providers"
	"github.com/eventseekr/backend/internal/infrastructure/observability"
	apperrors "github.com/eventseekr/backend/pkg/errors"
)

// semanticMinResults is the threshold below which a thin semantic
// intersection is challenged by the lexical ranker, provided the candidate
// set itself was bigger than the threshold.
const semanticMinResults = 5

// defaultRetrievalK caps how many neighbors are requested per search.
const defaultRetrievalK = 50

// maxQueryLength bounds the raw query before any processing happens.
const maxQueryLength = 1000

// SearchService owns the event store and composes the search pipeline:
// interpret the query, apply filters, retrieve semantically with lexical
// fallback, and cache the finished list. All state that the original design
// kept in module-level globals lives here so tests can build fresh
// instances.
type SearchService struct {
	source      providers.EventSource
	parser      providers.QueryParser
	retriever   providers.SemanticRetriever
	resultCache *cache.Memory
	metrics     *observability.Metrics
	retrievalK  int
	startedAt   time.Time

	initOnce sync.Once
	initDone atomic.Bool
	initErr  error

	// Immutable after initialization.
	events     []entities.Event
	categories []string
}

// NewSearchService creates a search service. The event list is loaded on
// the first call to Initialize or to any serving method; concurrent callers
// block until the single in-flight load completes.
func NewSearchService(source providers.EventSource, parser providers.QueryParser, resultCache *cache.Memory) *SearchService {
	if resultCache == nil {
		resultCache = cache.NewMemory(cache.DefaultCapacity)
	}
	return &SearchService{
		source:      source,
		parser:      parser,
		resultCache: resultCache,
		retrievalK:  defaultRetrievalK,
		startedAt:   time.Now(),
	}
}

// SetRetriever wires the optional semantic retriever. A nil retriever
// leaves keyword ranking as the only retrieval strategy.
func (s *SearchService) SetRetriever(retriever providers.SemanticRetriever) {
	s.retriever = retriever
}

// SetMetrics wires optional application metrics.
func (s *SearchService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// SetRetrievalK overrides the neighbor-count cap.
func (s *SearchService) SetRetrievalK(k int) {
	if k > 0 {
		s.retrievalK = k
	}
}

// Initialize loads the event store. Safe for concurrent use; the load runs
// exactly once and every caller observes its outcome.
func (s *SearchService) Initialize(ctx context.Context) error {
	s.initOnce.Do(func() {
		defer s.initDone.Store(true)
		events, err := s.source.Load(ctx)
		if err != nil {
			s.initErr = apperrors.NewInternalError("failed to load event store", err)
			return
		}
		s.events = events
		s.categories = collectCategories(events)
	})
	return s.initErr
}

// Events returns the full event store in ingestion order.
func (s *SearchService) Events(ctx context.Context) ([]entities.Event, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	return s.events, nil
}

// Categories returns the distinct category labels observed in the store.
func (s *SearchService) Categories(ctx context.Context) ([]string, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	return s.categories, nil
}

// Search runs the full pipeline for a raw query string and returns a
// ranked, filtered event list.
//
// The pipeline is a fixed sequence of single-attempt steps. Every failure
// has exactly one fallback path and nothing is retried: an AI parse failure
// falls back to the heuristic parser (inside the parser chain), and a
// semantic retrieval failure falls back to the lexical ranker for that
// request only.
func (s *SearchService) Search(ctx context.Context, rawQuery string) ([]entities.Event, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}

	// An empty query bypasses the whole pipeline, including the cache.
	if strings.TrimSpace(rawQuery) == "" {
		return s.events, nil
	}
	if len(rawQuery) > maxQueryLength {
		return nil, apperrors.NewValidationError("query exceeds maximum length")
	}

	if cached, ok := s.resultCache.Get(rawQuery); ok {
		observability.RecordCacheHit(ctx, s.metrics)
		return cached, nil
	}
	observability.RecordCacheMiss(ctx, s.metrics)

	start := time.Now()
	parsed := s.interpret(ctx, rawQuery)

	candidates := s.events
	if !parsed.Filters.Empty() {
		candidates = search.Apply(s.events, parsed.Filters)
	}

	strategy := "filter-only"
	results := candidates
	if parsed.SemanticQuery != "" {
		results, strategy = s.retrieve(ctx, parsed.SemanticQuery, candidates)
	}

	s.resultCache.Set(rawQuery, results)
	observability.RecordSearchMetric(ctx, s.metrics, strategy, len(results), time.Since(start))

	log.Debug().
		Str("query", rawQuery).
		Str("strategy", strategy).
		Int("results", len(results)).
		Dur("elapsed", time.Since(start)).
		Msg("Search completed")

	return results, nil
}

// interpret runs the parser chain. If every strategy fails the raw query is
// used verbatim as the semantic query with no filters.
func (s *SearchService) interpret(ctx context.Context, rawQuery string) *entities.ParsedQuery {
	parsed, err := s.parser.Parse(ctx, rawQuery, s.categories)
	if err != nil {
		log.Warn().Err(err).Msg("Query interpretation failed, using raw query")
		return &entities.ParsedQuery{SemanticQuery: rawQuery}
	}
	return parsed
}

// retrieve narrows candidates by semantic similarity when a retriever is
// available, otherwise ranks them lexically. A thin semantic intersection
// (fewer than semanticMinResults out of more than semanticMinResults
// candidates) is replaced by the lexical ranking when that list is longer.
func (s *SearchService) retrieve(ctx context.Context, semanticQuery string, candidates []entities.Event) ([]entities.Event, string) {
	if s.retriever == nil || len(candidates) == 0 {
		return search.RankLexical(semanticQuery, candidates), "lexical"
	}

	k := s.retrievalK
	if len(candidates) < k {
		k = len(candidates)
	}

	ids, err := s.retriever.Retrieve(ctx, semanticQuery, k)
	if err != nil {
		log.Warn().Err(err).Msg("Semantic retrieval failed, using lexical ranking")
		return search.RankLexical(semanticQuery, candidates), "lexical"
	}

	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	intersection := make([]entities.Event, 0, len(ids))
	for _, event := range candidates {
		if _, ok := idSet[event.ID]; ok {
			intersection = append(intersection, event)
		}
	}

	if len(intersection) < semanticMinResults && len(candidates) > semanticMinResults {
		lexical := search.RankLexical(semanticQuery, candidates)
		if len(lexical) > len(intersection) {
			return lexical, "lexical"
		}
	}

	return intersection, "semantic"
}

// Stats describes the service's runtime state for the health endpoint.
type Stats struct {
	Initialized   bool    `json:"isInitialized"`
	EventCount    int     `json:"eventCount"`
	VectorCount   int     `json:"vectorCount"`
	CacheSize     int     `json:"cacheSize"`
	UptimeSeconds float64 `json:"uptime"`
}

// Stats reports counters for diagnostics. It does not trigger
// initialization.
func (s *SearchService) Stats() Stats {
	stats := Stats{
		Initialized:   s.initialized(),
		CacheSize:     s.resultCache.Len(),
		UptimeSeconds: time.Since(s.startedAt).Seconds(),
	}
	if stats.Initialized {
		stats.EventCount = len(s.events)
	}
	if s.retriever != nil {
		stats.VectorCount = s.retriever.Size()
	}
	return stats
}

func (s *SearchService) initialized() bool {
	return s.initDone.Load() && s.initErr == nil
}

func collectCategories(events []entities.Event) []string {
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, event := range events {
		category := strings.TrimSpace(event.Category)
		if category == "" {
			continue
		}
		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}
