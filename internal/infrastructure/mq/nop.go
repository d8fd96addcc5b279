package mq

import (
	"context"

	"identity-api/internal/domain/user"
)

// Nop is the publisher used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, user.Event) {}
