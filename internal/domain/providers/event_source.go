package providers

import (
	"context"

	"github.com/eventseekr/backend/internal/domain/entities"
)

// EventSource provides the parsed event list at startup. The search core
// never re-reads the source; a load failure aborts startup.
type EventSource interface {
	Load(ctx context.Context) ([]entities.Event, error)
}
