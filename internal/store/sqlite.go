package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/waypoint-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS caches (
	geocode                     TEXT PRIMARY KEY,
	personal_note               TEXT NOT NULL DEFAULT '',
	prevent_waypoints_from_note INTEGER NOT NULL DEFAULT 0,
	updated_at                  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS waypoints (
	id                    TEXT PRIMARY KEY,
	geocode               TEXT NOT NULL REFERENCES caches(geocode) ON DELETE CASCADE,
	position              INTEGER NOT NULL,
	name                  TEXT NOT NULL,
	prefix                TEXT NOT NULL DEFAULT '',
	wp_type               TEXT NOT NULL,
	coords                BLOB,
	calc_state            TEXT,
	user_note             TEXT NOT NULL DEFAULT '',
	user_defined          INTEGER NOT NULL DEFAULT 0,
	original_coords_empty INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_waypoints_geocode ON waypoints(geocode, position);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertCache(ctx context.Context, cache *model.Cache) error {
	cache.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO caches (geocode, personal_note, prevent_waypoints_from_note, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(geocode) DO UPDATE SET
			personal_note = excluded.personal_note,
			prevent_waypoints_from_note = excluded.prevent_waypoints_from_note,
			updated_at = excluded.updated_at`,
		cache.Geocode, cache.PersonalNote, cache.PreventWaypointsFromNote, cache.UpdatedAt,
	)
	return eris.Wrapf(err, "sqlite: upsert cache %s", cache.Geocode)
}

func (s *SQLiteStore) GetCache(ctx context.Context, geocode string) (*model.Cache, error) {
	var c model.Cache
	err := s.db.QueryRowContext(ctx,
		`SELECT geocode, personal_note, prevent_waypoints_from_note, updated_at FROM caches WHERE geocode = ?`,
		geocode,
	).Scan(&c.Geocode, &c.PersonalNote, &c.PreventWaypointsFromNote, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: cache %s", geocode)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get cache %s", geocode)
	}
	return &c, nil
}

func (s *SQLiteStore) ListWaypoints(ctx context.Context, geocode string) ([]model.Waypoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, geocode, position, name, prefix, wp_type, coords, calc_state, user_note, user_defined, original_coords_empty
		 FROM waypoints WHERE geocode = ? ORDER BY position`,
		geocode,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list waypoints %s", geocode)
	}
	defer rows.Close() //nolint:errcheck

	var wps []model.Waypoint
	for rows.Next() {
		var r waypointRow
		var calcState sql.NullString
		if err := rows.Scan(&r.ID, &r.Geocode, &r.Position, &r.Name, &r.Prefix, &r.Type,
			&r.Coords, &calcState, &r.UserNote, &r.UserDefined, &r.OriginalCoordsEmpty); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan waypoint")
		}
		r.CalcState = calcState.String

		wp, err := r.toWaypoint()
		if err != nil {
			return nil, err
		}
		wps = append(wps, wp)
	}
	return wps, eris.Wrap(rows.Err(), "sqlite: iterate waypoints")
}

func (s *SQLiteStore) ReplaceWaypoints(ctx context.Context, geocode string, wps []model.Waypoint) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM waypoints WHERE geocode = ?`, geocode); err != nil {
		return eris.Wrapf(err, "sqlite: delete waypoints %s", geocode)
	}

	insert := `INSERT INTO waypoints (` + strings.Join(waypointColumns, ", ") + `) VALUES (` +
		strings.TrimSuffix(strings.Repeat("?, ", len(waypointColumns)), ", ") + `)`
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert waypoint")
	}
	defer stmt.Close() //nolint:errcheck

	for i, wp := range wps {
		row, err := toRow(geocode, i, wp)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, row.values()...); err != nil {
			return eris.Wrapf(err, "sqlite: insert waypoint %q", wp.Name)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}
