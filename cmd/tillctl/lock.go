package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var errAlreadyRunning = errors.New("already running")

// withLock runs fn while holding key in Redis. The lock is refreshed every
// half TTL so long jobs keep it; fn's context is cancelled if a refresh
// fails, since another worker may then take over.
func withLock(ctx context.Context, rdb *redis.Client, key string, ttl time.Duration, log *zap.Logger, fn func(context.Context) error) error {
	lock, err := redislock.New(rdb).Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return fmt.Errorf("%s: %w", key, errAlreadyRunning)
	}

	if err != nil {
		return fmt.Errorf("obtaining lock %s: %w", key, err)
	}

	defer func() {
		// A fresh context: the job's own may already be cancelled.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := lock.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			log.Warn("failed to release lock", zap.String("key", key), zap.Error(err))
		}
	}()

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		ticker := time.NewTicker(ttl / 2)
		defer ticker.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-ticker.C:
				if err := lock.Refresh(jobCtx, ttl, nil); err != nil {
					log.Error("lost lock", zap.String("key", key), zap.Error(err))
					cancel()

					return
				}
			}
		}
	}()

	return fn(jobCtx)
}
