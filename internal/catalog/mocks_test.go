package catalog

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetByNaturalKey(ctx context.Context, key NaturalKey) (Entry, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(Entry), args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, e *Entry, provider string, raw []byte) error {
	args := m.Called(ctx, e, provider, raw)
	return args.Error(0)
}

func (m *mockRepo) Update(ctx context.Context, e *Entry, provider string, raw []byte) error {
	args := m.Called(ctx, e, provider, raw)
	return args.Error(0)
}

func (m *mockRepo) TopByScore(ctx context.Context, since time.Time, limit int) ([]Entry, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Entry), args.Error(1)
}

func (m *mockRepo) Search(ctx context.Context, q SearchQuery) ([]Entry, int, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]Entry), args.Int(1), args.Error(2)
}

func (m *mockRepo) Featured(ctx context.Context, limit int) ([]Entry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Entry), args.Error(1)
}

func (m *mockRepo) NewReleases(ctx context.Context, since time.Time, limit int) ([]Entry, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Entry), args.Error(1)
}

type mockTrender struct {
	mock.Mock
}

func (m *mockTrender) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockTrender) Trending(ctx context.Context, limit int) ([]Entry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Entry), args.Error(1)
}
