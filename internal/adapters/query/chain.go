package query

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/eventseekr/backend/internal/domain/entities"
	"github.com/eventseekr/backend/internal/domain/providers"
)

// Chain tries parser strategies in order and returns the first successful
// interpretation. Each strategy gets exactly one attempt per request; there
// are no retries.
type Chain struct {
	strategies []providers.QueryParser
}

// NewChain creates a parser chain. Strategies are tried in the given order.
func NewChain(strategies ...providers.QueryParser) *Chain {
	return &Chain{strategies: strategies}
}

// Name identifies the strategy in logs.
func (c *Chain) Name() string { return "chain" }

// Parse runs the chain. A strategy failure is logged and the next strategy
// is tried; only when every strategy fails does Parse return an error.
func (c *Chain) Parse(ctx context.Context, raw string, categories []string) (*entities.ParsedQuery, error) {
	var lastErr error
	for _, strategy := range c.strategies {
		parsed, err := strategy.Parse(ctx, raw, categories)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
		log.Warn().Err(err).Str("strategy", strategy.Name()).Msg("Query parsing strategy failed, trying next")
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no query parsing strategies configured")
	}
	return nil, lastErr
}
