// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/VA7DBI/bookstack-testtoken/database"
)

type User struct {
	ID    int64
	Name  string
	Email string
}

// UserRepo looks up accounts in the host application. Emails compare
// case-insensitively and GetByEmail returns nil, nil when no account matches.
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// SQLUserRepo reads the host's users table.
type SQLUserRepo struct {
	db *database.DB
}

func NewSQLUserRepo(db *database.DB) *SQLUserRepo {
	return &SQLUserRepo{db: db}
}

func (r *SQLUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := r.db.Rebind("SELECT id, name, email FROM users WHERE lower(email) = lower(?) LIMIT 1")

	var u User
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Name, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// MemoryUserRepo is an in-memory UserRepo for testing
type MemoryUserRepo struct {
	users map[string]User
}

func NewMemoryUserRepo(users ...User) *MemoryUserRepo {
	r := &MemoryUserRepo{users: make(map[string]User)}
	for _, u := range users {
		r.users[strings.ToLower(u.Email)] = u
	}
	return r
}

func (r *MemoryUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return &u, nil
}
