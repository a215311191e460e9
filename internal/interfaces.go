package internal

import (
	"context"
)

type PlayerSource interface {
	FetchPlayers(ctx context.Context) ([]PlayerRecord, error)
}

type EventPublisher interface {
	PublishLoadEvent(event LoadEvent) error
}

type RateLimiterInterface interface {
	Allow(ctx context.Context, key string) (bool, error)
}
