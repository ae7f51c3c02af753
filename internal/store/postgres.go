package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/waypoint-cli/internal/db"
	"github.com/sells-group/waypoint-cli/internal/model"
	"github.com/sells-group/waypoint-cli/internal/resilience"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool. The first ping
// is retried while the server refuses connections.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := resilience.Do(ctx, resilience.DefaultPolicy(), "postgres: ping", pool.Ping); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS caches (
	geocode                     TEXT PRIMARY KEY,
	personal_note               TEXT NOT NULL DEFAULT '',
	prevent_waypoints_from_note BOOLEAN NOT NULL DEFAULT false,
	updated_at                  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS waypoints (
	id                    TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	geocode               TEXT NOT NULL REFERENCES caches(geocode) ON DELETE CASCADE,
	position              INTEGER NOT NULL,
	name                  TEXT NOT NULL,
	prefix                TEXT NOT NULL DEFAULT '',
	wp_type               TEXT NOT NULL,
	coords                BYTEA,
	calc_state            JSONB,
	user_note             TEXT NOT NULL DEFAULT '',
	user_defined          BOOLEAN NOT NULL DEFAULT false,
	original_coords_empty BOOLEAN NOT NULL DEFAULT false
);

CREATE INDEX IF NOT EXISTS idx_waypoints_geocode ON waypoints(geocode, position);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) UpsertCache(ctx context.Context, cache *model.Cache) error {
	cache.UpdatedAt = time.Now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO caches (geocode, personal_note, prevent_waypoints_from_note, updated_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (geocode) DO UPDATE SET
			personal_note = EXCLUDED.personal_note,
			prevent_waypoints_from_note = EXCLUDED.prevent_waypoints_from_note,
			updated_at = EXCLUDED.updated_at`,
		cache.Geocode, cache.PersonalNote, cache.PreventWaypointsFromNote, cache.UpdatedAt,
	)
	return eris.Wrapf(err, "postgres: upsert cache %s", cache.Geocode)
}

func (s *PostgresStore) GetCache(ctx context.Context, geocode string) (*model.Cache, error) {
	var c model.Cache
	err := s.pool.QueryRow(ctx,
		`SELECT geocode, personal_note, prevent_waypoints_from_note, updated_at FROM caches WHERE geocode = $1`,
		geocode,
	).Scan(&c.Geocode, &c.PersonalNote, &c.PreventWaypointsFromNote, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: cache %s", geocode)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get cache %s", geocode)
	}
	return &c, nil
}

func (s *PostgresStore) ListWaypoints(ctx context.Context, geocode string) ([]model.Waypoint, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, geocode, position, name, prefix, wp_type, COALESCE(coords, ''::bytea), COALESCE(calc_state::text, ''),
			user_note, user_defined, original_coords_empty
		 FROM waypoints WHERE geocode = $1 ORDER BY position`,
		geocode,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list waypoints %s", geocode)
	}
	defer rows.Close()

	var wps []model.Waypoint
	for rows.Next() {
		var r waypointRow
		if err := rows.Scan(&r.ID, &r.Geocode, &r.Position, &r.Name, &r.Prefix, &r.Type,
			&r.Coords, &r.CalcState, &r.UserNote, &r.UserDefined, &r.OriginalCoordsEmpty); err != nil {
			return nil, eris.Wrap(err, "postgres: scan waypoint")
		}

		wp, err := r.toWaypoint()
		if err != nil {
			return nil, err
		}
		wps = append(wps, wp)
	}
	return wps, eris.Wrap(rows.Err(), "postgres: iterate waypoints")
}

// ReplaceWaypoints deletes the cache's waypoints and copies the new list in
// one transaction.
func (s *PostgresStore) ReplaceWaypoints(ctx context.Context, geocode string, wps []model.Waypoint) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM waypoints WHERE geocode = $1`, geocode); err != nil {
		return eris.Wrapf(err, "postgres: delete waypoints %s", geocode)
	}

	rows := make([][]any, 0, len(wps))
	for i, wp := range wps {
		row, err := toRow(geocode, i, wp)
		if err != nil {
			return err
		}
		rows = append(rows, row.values())
	}
	if _, err := db.CopyFrom(ctx, tx, "waypoints", waypointColumns, rows); err != nil {
		return eris.Wrapf(err, "postgres: insert waypoints %s", geocode)
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit")
}
