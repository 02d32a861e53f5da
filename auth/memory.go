// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package auth

import (
	"context"
	"sync"
)

// MemoryTokenStore is an in-memory TokenStore for testing
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens []APIToken
	nextID int64
}

func NewMemoryTokenStore(tokens ...APIToken) *MemoryTokenStore {
	m := &MemoryTokenStore{nextID: 1}
	for _, t := range tokens {
		if t.ID >= m.nextID {
			m.nextID = t.ID + 1
		}
		m.tokens = append(m.tokens, t)
	}
	return m
}

func (m *MemoryTokenStore) FindByName(_ context.Context, userID int64, name string) (*APIToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.tokens {
		if t.UserID == userID && t.Name == name {
			found := t
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MemoryTokenStore) TokenIDExists(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.tokens {
		if t.TokenID == tokenID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryTokenStore) Create(_ context.Context, token *APIToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	token.ID = m.nextID
	m.nextID++
	m.tokens = append(m.tokens, *token)
	return nil
}

// Tokens returns a copy of the stored tokens.
func (m *MemoryTokenStore) Tokens() []APIToken {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]APIToken(nil), m.tokens...)
}
