package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mfreitas/studypilot/internal/store"
)

// NewTestStore creates an in-memory local state store with all migrations
// applied, closed automatically when the test ends.
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { MustClose(t, st) })
	return st
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	t.Helper()
	require.NoError(t, closer.Close())
}

// Status is a manually switched connectivity source for tests.
type Status struct {
	mu     sync.Mutex
	online bool
}

// NewStatus creates a Status with the given initial state.
func NewStatus(online bool) *Status {
	return &Status{online: online}
}

func (s *Status) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

// Set flips the reported state.
func (s *Status) Set(online bool) {
	s.mu.Lock()
	s.online = online
	s.mu.Unlock()
}
