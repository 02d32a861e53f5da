// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VA7DBI/bookstack-testtoken/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockTimeout = errors.New("timed out waiting for seed lock")

// Deletes the key only if it still holds our owner value.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SeedLock serialises seed runs from parallel test jobs sharing one database.
type SeedLock struct {
	client   *redis.Client
	key      string
	owner    string
	ttl      time.Duration
	timeout  time.Duration
	interval time.Duration
}

func NewSeedLock(ctx context.Context, cfg *config.Config) (*SeedLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Lock.Host, cfg.Lock.Port),
		Password: cfg.Lock.Password,
		DB:       cfg.Lock.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &SeedLock{
		client:   client,
		key:      cfg.Lock.Key,
		owner:    uuid.NewString(),
		ttl:      time.Duration(cfg.Lock.TTL) * time.Second,
		timeout:  time.Duration(cfg.Lock.Timeout) * time.Second,
		interval: 250 * time.Millisecond,
	}, nil
}

// Acquire makes a single attempt to take the lock.
func (l *SeedLock) Acquire(ctx context.Context) (bool, error) {
	return l.client.SetNX(ctx, l.key, l.owner, l.ttl).Result()
}

// Wait retries Acquire until it succeeds, ctx ends or the timeout passes.
func (l *SeedLock) Wait(ctx context.Context) error {
	deadline := time.NewTimer(l.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		ok, err := l.Acquire(ctx)
		if err != nil {
			return fmt.Errorf("acquire seed lock: %w", err)
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return ErrLockTimeout
		case <-ticker.C:
		}
	}
}

func (l *SeedLock) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, l.client, []string{l.key}, l.owner).Err()
}

func (l *SeedLock) Close() error {
	return l.client.Close()
}
