package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockLookupCache is a mock implementation of port.LookupCache.
type MockLookupCache struct {
	mock.Mock
}

func (m *MockLookupCache) Get(ctx context.Context, key string) ([]byte, bool) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]byte), args.Bool(1)
}

func (m *MockLookupCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	m.Called(ctx, key, value, ttl)
}
