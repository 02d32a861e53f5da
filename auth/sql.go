// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/VA7DBI/bookstack-testtoken/database"
)

// SQLTokenStore implements TokenStore over the host's api_tokens table
type SQLTokenStore struct {
	db *database.DB
}

func NewSQLTokenStore(db *database.DB) *SQLTokenStore {
	return &SQLTokenStore{db: db}
}

func (s *SQLTokenStore) FindByName(ctx context.Context, userID int64, name string) (*APIToken, error) {
	// Only identifying columns: the host leaves the timestamp columns nullable.
	query := s.db.Rebind(`SELECT id, name, token_id, user_id
		FROM api_tokens WHERE user_id = ? AND name = ? ORDER BY id LIMIT 1`)

	var t APIToken
	err := s.db.QueryRowContext(ctx, query, userID, name).Scan(&t.ID, &t.Name, &t.TokenID, &t.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find token %q: %w", name, err)
	}
	return &t, nil
}

func (s *SQLTokenStore) TokenIDExists(ctx context.Context, tokenID string) (bool, error) {
	query := s.db.Rebind("SELECT EXISTS(SELECT 1 FROM api_tokens WHERE token_id = ?)")

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, tokenID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check token id: %w", err)
	}
	return exists, nil
}

const insertToken = `INSERT INTO api_tokens (name, token_id, secret, user_id, expires_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

func (s *SQLTokenStore) Create(ctx context.Context, token *APIToken) error {
	args := []any{
		token.Name,
		token.TokenID,
		token.Secret,
		token.UserID,
		token.ExpiresAt,
		token.CreatedAt,
		token.UpdatedAt,
	}

	// MySQL has no RETURNING clause.
	if s.db.Dialect == database.MySQL {
		res, err := s.db.ExecContext(ctx, insertToken, args...)
		if err != nil {
			return fmt.Errorf("insert token %q: %w", token.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert token %q: %w", token.Name, err)
		}
		token.ID = id
		return nil
	}

	query := s.db.Rebind(insertToken + " RETURNING id")
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&token.ID); err != nil {
		return fmt.Errorf("insert token %q: %w", token.Name, err)
	}
	return nil
}
