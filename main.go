// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/VA7DBI/bookstack-testtoken/command"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

type options struct {
	configFile string
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	logger := logrus.New()
	logE := logrus.NewEntry(logger).WithField("program", "bookstack-testtoken")

	registry, err := newRegistry(logger, logE)
	if err != nil {
		logerr.WithError(logE, err).Error("register commands")
		return command.Failure
	}

	code, err := registry.Execute(ctx, args)
	if err != nil {
		logerr.WithError(logE, err).Error("run command")
	}
	return code
}

func newRegistry(logger *logrus.Logger, logE *logrus.Entry) (*command.Registry, error) {
	opts := &options{}

	root := &cobra.Command{
		Use:   "bookstack-testtoken",
		Short: "Console commands that prepare a BookStack database for API tests",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			level, err := logrus.ParseLevel(opts.logLevel)
			if err != nil {
				return fmt.Errorf("parse log level: %w", err)
			}
			logger.SetLevel(level)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Path to configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level")

	registry := command.NewRegistry(root)
	if err := registry.Register(&seedCommand{opts: opts, logE: logE}); err != nil {
		return nil, err
	}
	return registry, nil
}
