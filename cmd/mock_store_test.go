package main

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/waypoint-cli/internal/model"
)

// mockStore is a testify mock of store.Store.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) UpsertCache(ctx context.Context, cache *model.Cache) error {
	args := m.Called(ctx, cache)
	return args.Error(0)
}

func (m *mockStore) GetCache(ctx context.Context, geocode string) (*model.Cache, error) {
	args := m.Called(ctx, geocode)
	if c := args.Get(0); c != nil {
		return c.(*model.Cache), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) ListWaypoints(ctx context.Context, geocode string) ([]model.Waypoint, error) {
	args := m.Called(ctx, geocode)
	if wps := args.Get(0); wps != nil {
		return wps.([]model.Waypoint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) ReplaceWaypoints(ctx context.Context, geocode string, wps []model.Waypoint) error {
	args := m.Called(ctx, geocode, wps)
	return args.Error(0)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}
