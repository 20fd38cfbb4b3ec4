package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/pathsampling/pkg/adapters/memory"
	redisadapter "github.com/aretw0/pathsampling/pkg/adapters/redis"
	"github.com/aretw0/pathsampling/pkg/ports"
	goredis "github.com/redis/go-redis/v9"
)

// journal bundles the step store of a run with its optional lock.
type journal struct {
	store  ports.StepStore
	locker ports.RunLocker
	close  func() error
}

// openJournal connects to Redis when url is set and falls back to an
// in-memory journal otherwise.
func openJournal(ctx context.Context, url string) (*journal, error) {
	if url == "" {
		return &journal{store: memory.NewStore(), close: func() error { return nil }}, nil
	}

	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := goredis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	store := redisadapter.NewFromClient(client)
	return &journal{
		store:  store,
		locker: redisadapter.NewLocker(client, redisadapter.DefaultPrefix),
		close:  store.Close,
	}, nil
}
