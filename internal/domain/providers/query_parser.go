package providers

import (
	"context"

	"github.com/eventseekr/backend/internal/domain/entities"
)

// QueryParser derives a semantic query and structured filters from raw user
// input. Implementations may call external services and fail; callers fall
// back to the next strategy in their chain on error.
type QueryParser interface {
	// Parse interprets the raw query. categories is the closed set of
	// category labels observed in the loaded dataset.
	Parse(ctx context.Context, raw string, categories []string) (*entities.ParsedQuery, error)

	// Name identifies the strategy in logs.
	Name() string
}
