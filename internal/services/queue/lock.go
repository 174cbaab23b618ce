package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultLockTTL  = 30 * time.Second
	lockPollEvery   = 50 * time.Millisecond
	lockKeyTemplate = "game-lock:%s"
)

// ErrLocked is returned when a game stays locked for longer than the wait.
var ErrLocked = errors.New("game is locked by another writer")

// Only delete if we own the lock
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// GameLock serialises writers of one game across processes.
type GameLock struct {
	client *Client
	ttl    time.Duration
}

func NewGameLock(client *Client) *GameLock {
	return &GameLock{client: client, ttl: DefaultLockTTL}
}

// WithTTL sets how long an abandoned lock survives.
func (l *GameLock) WithTTL(ttl time.Duration) *GameLock {
	l.ttl = ttl
	return l
}

func lockKey(gameID uuid.UUID) string {
	return fmt.Sprintf(lockKeyTemplate, gameID.String())
}

// Acquire reports false if someone else holds the lock.
func (l *GameLock) Acquire(ctx context.Context, gameID uuid.UUID, owner string) (bool, error) {
	ok, err := l.client.rdb.SetNX(ctx, lockKey(gameID), owner, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire game lock: %w", err)
	}
	return ok, nil
}

// Release is a no-op if owner no longer holds the lock.
func (l *GameLock) Release(ctx context.Context, gameID uuid.UUID, owner string) error {
	if err := releaseScript.Run(ctx, l.client.rdb, []string{lockKey(gameID)}, owner).Err(); err != nil {
		return fmt.Errorf("failed to release game lock: %w", err)
	}
	return nil
}

// Do runs fn while holding the lock, polling for up to wait to get it.
func (l *GameLock) Do(ctx context.Context, gameID uuid.UUID, owner string, wait time.Duration, fn func() error) error {
	deadline := time.Now().Add(wait)
	for {
		ok, err := l.Acquire(ctx, gameID, owner)
		if err != nil {
			return err
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return ErrLocked
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockPollEvery):
		}
	}

	defer func() {
		if err := l.Release(context.WithoutCancel(ctx), gameID, owner); err != nil && l.client.logger != nil {
			l.client.logger.Error("Failed to release game lock", "error", err, "game_id", gameID)
		}
	}()
	return fn()
}
