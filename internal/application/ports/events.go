package ports

import (
	"context"

	"identity-api/internal/domain/user"
)

// EventPublisher must not block the caller.
type EventPublisher interface {
	Publish(ctx context.Context, e user.Event)
}
