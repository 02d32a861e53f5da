// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"

	"github.com/VA7DBI/bookstack-testtoken/auth"
	"github.com/VA7DBI/bookstack-testtoken/command"
	"github.com/VA7DBI/bookstack-testtoken/config"
	"github.com/VA7DBI/bookstack-testtoken/database"
	"github.com/VA7DBI/bookstack-testtoken/hashing"
	"github.com/VA7DBI/bookstack-testtoken/metrics"
	"github.com/VA7DBI/bookstack-testtoken/users"
	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

// seedCommand wires TestTokenCommand to the configured database once the
// global flags have been parsed.
type seedCommand struct {
	opts *options
	logE *logrus.Entry
}

func (s *seedCommand) Signature() string {
	return command.TestTokenSignature
}

func (s *seedCommand) Description() string {
	return "Generate API tokens for testing."
}

func (s *seedCommand) Handle(ctx context.Context) int {
	cfg, err := config.LoadConfig(s.opts.configFile)
	if err != nil {
		logerr.WithError(s.logE, err).Error("load configuration")
		return command.Failure
	}

	db, err := database.Open(ctx, cfg)
	if err != nil {
		logerr.WithError(s.logE, err).Error("connect to database")
		return command.Failure
	}
	defer db.Close()

	hasher, err := hashing.NewBcryptHasher(cfg.Seed.BcryptCost)
	if err != nil {
		logerr.WithError(s.logE, err).Error("configure hasher")
		return command.Failure
	}

	cmd := &command.TestTokenCommand{
		Users:  users.NewSQLUserRepo(db),
		Tokens: auth.NewSQLTokenStore(db),
		Hasher: hasher,
		Settings: command.TestTokenSettings{
			AdminEmail:  cfg.Seed.AdminEmail,
			TokenName:   cfg.Seed.TokenName,
			TokenID:     cfg.Seed.TokenID,
			TokenSecret: cfg.Seed.TokenSecret,
		},
		LogE: s.logE,
	}

	if cfg.Lock.Enabled {
		lock, err := auth.NewSeedLock(ctx, cfg)
		if err != nil {
			logerr.WithError(s.logE, err).Error("connect to lock store")
			return command.Failure
		}
		defer lock.Close()
		cmd.Lock = lock
	}

	code := cmd.Handle(ctx)

	if cfg.Metrics.Enabled && cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logerr.WithError(s.logE, err).WithField("path", cfg.Metrics.Textfile).Warn("write metrics textfile")
		}
	}
	return code
}
