// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/VA7DBI/bookstack-testtoken/database"
	"github.com/stretchr/testify/assert"
)

func setupSQLTest(t *testing.T, dialect database.Dialect) (*SQLTokenStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewSQLTokenStore(database.New(db, dialect)), mock
}

var tokenColumns = []string{"id", "name", "token_id", "user_id"}

func TestSQLTokenStore(t *testing.T) {
	store, mock := setupSQLTest(t, database.Postgres)
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	t.Run("FindExistingToken", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, name, token_id, user_id\s+FROM api_tokens WHERE user_id = \$1 AND name = \$2`).
			WithArgs(int64(1), "TestToken").
			WillReturnRows(sqlmock.NewRows(tokenColumns).
				AddRow(3, "TestToken", "00001111222233334444555566667777", 1))

		token, err := store.FindByName(ctx, 1, "TestToken")
		assert.NoError(t, err)
		if assert.NotNil(t, token) {
			assert.Equal(t, int64(3), token.ID)
			assert.Equal(t, "00001111222233334444555566667777", token.TokenID)
		}
	})

	t.Run("FindIgnoresTimestampColumns", func(t *testing.T) {
		// Rows with NULL created_at/updated_at must still count as existing.
		mock.ExpectQuery(`^SELECT id, name, token_id, user_id FROM api_tokens`).
			WithArgs(int64(1), "TestToken").
			WillReturnRows(sqlmock.NewRows(tokenColumns).
				AddRow(4, "TestToken", "abc", 1))

		token, err := store.FindByName(ctx, 1, "TestToken")
		assert.NoError(t, err)
		if assert.NotNil(t, token) {
			assert.Equal(t, int64(4), token.ID)
			assert.Equal(t, "abc", token.TokenID)
		}
	})

	t.Run("FindMissingToken", func(t *testing.T) {
		mock.ExpectQuery(`FROM api_tokens WHERE user_id`).
			WithArgs(int64(1), "TestToken").
			WillReturnRows(sqlmock.NewRows(tokenColumns))

		token, err := store.FindByName(ctx, 1, "TestToken")
		assert.NoError(t, err)
		assert.Nil(t, token)
	})

	t.Run("TokenIDExists", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM api_tokens WHERE token_id = \$1\)`).
			WithArgs("taken").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		exists, err := store.TokenIDExists(ctx, "taken")
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("TokenIDFree", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("free").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		exists, err := store.TokenIDExists(ctx, "free")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Create", func(t *testing.T) {
		token := &APIToken{
			Name:      "TestToken",
			TokenID:   "00001111222233334444555566667777",
			Secret:    "$2a$10$hash",
			UserID:    1,
			ExpiresAt: DefaultExpiry(now),
			CreatedAt: now,
			UpdatedAt: now,
		}

		mock.ExpectQuery(`INSERT INTO api_tokens \(name, token_id, secret, user_id, expires_at, created_at, updated_at\)\s+VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7\) RETURNING id`).
			WithArgs("TestToken", "00001111222233334444555566667777", "$2a$10$hash", int64(1), token.ExpiresAt, now, now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

		err := store.Create(ctx, token)
		assert.NoError(t, err)
		assert.Equal(t, int64(9), token.ID)
	})

	t.Run("DatabaseError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("error-token").
			WillReturnError(sqlmock.ErrCancelled)

		exists, err := store.TokenIDExists(ctx, "error-token")
		assert.Error(t, err)
		assert.False(t, exists)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLTokenStoreMySQLCreate(t *testing.T) {
	store, mock := setupSQLTest(t, database.MySQL)
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	token := &APIToken{
		Name:      "TestToken",
		TokenID:   "00001111222233334444555566667777",
		Secret:    "$2a$10$hash",
		UserID:    1,
		ExpiresAt: DefaultExpiry(now),
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec(`INSERT INTO api_tokens \(name, token_id, secret, user_id, expires_at, created_at, updated_at\)\s+VALUES \(\?, \?, \?, \?, \?, \?, \?\)$`).
		WithArgs("TestToken", "00001111222233334444555566667777", "$2a$10$hash", int64(1), token.ExpiresAt, now, now).
		WillReturnResult(sqlmock.NewResult(12, 1))

	err := store.Create(context.Background(), token)
	assert.NoError(t, err)
	assert.Equal(t, int64(12), token.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLTokenStoreMySQLCreateError(t *testing.T) {
	store, mock := setupSQLTest(t, database.MySQL)

	mock.ExpectExec(`INSERT INTO api_tokens`).
		WillReturnError(sqlmock.ErrCancelled)

	err := store.Create(context.Background(), &APIToken{Name: "TestToken"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLTokenStoreSQLitePlaceholders(t *testing.T) {
	store, mock := setupSQLTest(t, database.SQLite)

	mock.ExpectQuery(`token_id = \?\)`).
		WithArgs("abc").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := store.TokenIDExists(context.Background(), "abc")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
