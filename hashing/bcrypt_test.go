// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package hashing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := h.Make("88889999aaaabbbbccccddddeeeeffff")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$2a$04$"))
	assert.NotEqual(t, "88889999aaaabbbbccccddddeeeeffff", hash)
	assert.True(t, h.Check("88889999aaaabbbbccccddddeeeeffff", hash))
	assert.False(t, h.Check("wrong-secret", hash))
}

func TestBcryptHasherRejectsBadCost(t *testing.T) {
	_, err := NewBcryptHasher(2)
	assert.Error(t, err)

	_, err = NewBcryptHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)
}
