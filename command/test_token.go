// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	"context"
	"errors"
	"time"

	"github.com/VA7DBI/bookstack-testtoken/auth"
	"github.com/VA7DBI/bookstack-testtoken/config"
	"github.com/VA7DBI/bookstack-testtoken/hashing"
	"github.com/VA7DBI/bookstack-testtoken/metrics"
	"github.com/VA7DBI/bookstack-testtoken/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

const TestTokenSignature = "bookstack:test-api-token"

// Locker serialises concurrent seed runs. *auth.SeedLock satisfies it.
type Locker interface {
	Wait(ctx context.Context) error
	Release(ctx context.Context) error
}

// TestTokenSettings selects the admin account and the token to seed.
type TestTokenSettings struct {
	AdminEmail  string
	TokenName   string
	TokenID     string
	TokenSecret string
}

// TestTokenCommand creates a fixed API token for the admin account unless
// one with the same name already exists.
type TestTokenCommand struct {
	Users    users.UserRepo
	Tokens   auth.TokenStore
	Hasher   hashing.Hasher
	Lock     Locker // optional
	Settings TestTokenSettings
	LogE     *logrus.Entry
	Now      func() time.Time
}

func (c *TestTokenCommand) Signature() string {
	return TestTokenSignature
}

func (c *TestTokenCommand) Description() string {
	return "Generate API tokens for testing."
}

func (c *TestTokenCommand) Handle(ctx context.Context) int {
	timer := prometheus.NewTimer(metrics.SeedDuration)
	defer timer.ObserveDuration()

	outcome := c.run(ctx)
	metrics.SeedRuns.WithLabelValues(outcome).Inc()

	switch outcome {
	case metrics.OutcomeCreated, metrics.OutcomeExists:
		return Success
	default:
		return Failure
	}
}

func (c *TestTokenCommand) run(ctx context.Context) string {
	logE := c.logEntry()

	if c.Lock != nil {
		start := time.Now()
		err := c.Lock.Wait(ctx)
		metrics.LockWait.Observe(time.Since(start).Seconds())
		if errors.Is(err, auth.ErrLockTimeout) {
			logE.Error("another seed run is holding the lock.")
			return metrics.OutcomeLockTimeout
		}
		if err != nil {
			logerr.WithError(logE, err).Error("acquire seed lock")
			return metrics.OutcomeError
		}
		defer func() {
			if err := c.Lock.Release(context.WithoutCancel(ctx)); err != nil {
				logerr.WithError(logE, err).Warn("release seed lock")
			}
		}()
	}

	return c.seed(ctx, logE)
}

func (c *TestTokenCommand) seed(ctx context.Context, logE *logrus.Entry) string {
	email := withDefault(c.Settings.AdminEmail, config.DefaultAdminEmail)
	name := withDefault(c.Settings.TokenName, config.DefaultTokenName)

	admin, err := c.Users.GetByEmail(ctx, email)
	if err != nil {
		logerr.WithError(logE, err).WithField("email", email).Error("look up admin user")
		return metrics.OutcomeError
	}
	if admin == nil {
		logE.WithField("email", email).Error("admin user not found.")
		return metrics.OutcomeNoAdmin
	}

	existing, err := c.Tokens.FindByName(ctx, admin.ID, name)
	if err != nil {
		logerr.WithError(logE, err).Error("look up test token")
		return metrics.OutcomeError
	}
	if existing != nil {
		logE.Infof("Test token '%s' already exists", name)
		return metrics.OutcomeExists
	}

	tokenID := withDefault(c.Settings.TokenID, config.DefaultTokenID)
	secret := withDefault(c.Settings.TokenSecret, config.DefaultTokenSecret)

	taken, err := c.Tokens.TokenIDExists(ctx, tokenID)
	if err != nil {
		logerr.WithError(logE, err).Error("check token id")
		return metrics.OutcomeError
	}
	if taken {
		logE.WithField("token_id", tokenID).Error("Cannot be created because the token ID already exists.")
		return metrics.OutcomeIDConflict
	}

	hash, err := c.Hasher.Make(secret)
	if err != nil {
		logerr.WithError(logE, err).Error("hash token secret")
		return metrics.OutcomeError
	}

	now := c.now()
	token := &auth.APIToken{
		Name:      name,
		TokenID:   tokenID,
		Secret:    hash,
		UserID:    admin.ID,
		ExpiresAt: auth.DefaultExpiry(now),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Tokens.Create(ctx, token); err != nil {
		logerr.WithError(logE, err).Error("save test token")
		return metrics.OutcomeError
	}

	logE.WithField("token_db_id", token.ID).Infof("Test token '%s' successfully created.", name)
	return metrics.OutcomeCreated
}

func (c *TestTokenCommand) logEntry() *logrus.Entry {
	if c.LogE != nil {
		return c.LogE.WithField("command", TestTokenSignature)
	}
	return logrus.NewEntry(logrus.StandardLogger()).WithField("command", TestTokenSignature)
}

func (c *TestTokenCommand) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
