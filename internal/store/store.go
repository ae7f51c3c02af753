// Package store persists caches and their waypoints in SQLite or Postgres.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/waypoint-cli/internal/model"
)

// ErrNotFound is returned when a cache does not exist.
var ErrNotFound = eris.New("store: not found")

// Store defines the persistence interface for cache notes and waypoints.
type Store interface {
	// Caches
	UpsertCache(ctx context.Context, cache *model.Cache) error
	GetCache(ctx context.Context, geocode string) (*model.Cache, error)

	// Waypoints, kept in the order they were written.
	ListWaypoints(ctx context.Context, geocode string) ([]model.Waypoint, error)
	ReplaceWaypoints(ctx context.Context, geocode string, wps []model.Waypoint) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
