// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package auth

import (
	"context"
	"time"
)

// TokenLifetimeYears is how far ahead DefaultExpiry places a new token.
const TokenLifetimeYears = 100

// APIToken is a row of the host's api_tokens table. Secret holds the hash,
// never the plain secret.
type APIToken struct {
	ID        int64
	Name      string
	TokenID   string
	Secret    string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TokenStore defines the token operations the seeder needs
type TokenStore interface {
	// FindByName returns the user's token with the given name, or nil. Only
	// ID, Name, TokenID and UserID are filled in.
	FindByName(ctx context.Context, userID int64, name string) (*APIToken, error)
	// TokenIDExists reports whether any user owns a token with tokenID.
	TokenIDExists(ctx context.Context, tokenID string) (bool, error)
	// Create inserts token and sets its ID.
	Create(ctx context.Context, token *APIToken) error
}

// DefaultExpiry is midnight, TokenLifetimeYears after now.
func DefaultExpiry(now time.Time) time.Time {
	y, m, d := now.AddDate(TokenLifetimeYears, 0, 0).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
