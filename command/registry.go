// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Exit codes returned by Handle.
const (
	Success = 0
	Failure = 1
)

// Command is a named operation invoked from the console.
type Command interface {
	Signature() string
	Description() string
	Handle(ctx context.Context) int
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Registry attaches commands to a cobra root command.
type Registry struct {
	root     *cobra.Command
	commands map[string]Command
}

// NewRegistry takes over root's Args and RunE: invoking root without a
// command name prints help and exits with Failure.
func NewRegistry(root *cobra.Command) *Registry {
	root.SilenceErrors = true
	root.SilenceUsage = true
	root.Args = cobra.NoArgs
	root.RunE = func(c *cobra.Command, _ []string) error {
		_ = c.Help()
		return &exitError{code: Failure}
	}
	return &Registry{
		root:     root,
		commands: make(map[string]Command),
	}
}

func (r *Registry) Register(cmd Command) error {
	name := cmd.Signature()
	if name == "" {
		return errors.New("command signature is empty")
	}
	if _, ok := r.commands[name]; ok {
		return fmt.Errorf("command %q is already registered", name)
	}
	r.commands[name] = cmd

	r.root.AddCommand(&cobra.Command{
		Use:   name,
		Short: cmd.Description(),
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			if code := cmd.Handle(c.Context()); code != Success {
				return &exitError{code: code}
			}
			return nil
		},
	})
	return nil
}

// Lookup returns the command registered under signature.
func (r *Registry) Lookup(signature string) (Command, bool) {
	cmd, ok := r.commands[signature]
	return cmd, ok
}

// Execute runs the command named by args and returns its exit code. Errors
// raised by cobra itself, such as an unknown command, are returned along
// with Failure.
func (r *Registry) Execute(ctx context.Context, args []string) (int, error) {
	// cobra falls back to os.Args on a nil slice.
	if args == nil {
		args = []string{}
	}
	r.root.SetArgs(args)
	err := r.root.ExecuteContext(ctx)
	if err == nil {
		return Success, nil
	}

	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code, nil
	}
	return Failure, err
}
