package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/waypoint-cli/internal/geopoint"
	"github.com/sells-group/waypoint-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS caches`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetCache_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT geocode, personal_note, prevent_waypoints_from_note, updated_at FROM caches WHERE geocode = \$1`).
		WithArgs("GCNONE").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetCache(context.Background(), "GCNONE")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetCache(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	updated := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM caches WHERE geocode = \$1`).
		WithArgs("GC1234").
		WillReturnRows(pgxmock.NewRows([]string{"geocode", "personal_note", "prevent_waypoints_from_note", "updated_at"}).
			AddRow("GC1234", "N 52 12.345 E 013 12.345", true, updated))

	c, err := s.GetCache(context.Background(), "GC1234")
	require.NoError(t, err)
	assert.Equal(t, "GC1234", c.Geocode)
	assert.Equal(t, "N 52 12.345 E 013 12.345", c.PersonalNote)
	assert.True(t, c.PreventWaypointsFromNote)
	assert.Equal(t, updated, c.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetCache_Error(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM caches`).
		WithArgs("GC1234").
		WillReturnError(fmt.Errorf("connection reset"))

	_, err := s.GetCache(context.Background(), "GC1234")
	require.Error(t, err)
	assert.False(t, eris.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "get cache GC1234")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertCache(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`ON CONFLICT \(geocode\) DO UPDATE`).
		WithArgs("GC1234", "note", false, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	c := &model.Cache{Geocode: "GC1234", PersonalNote: "note"}
	require.NoError(t, s.UpsertCache(context.Background(), c))
	assert.False(t, c.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ReplaceWaypoints(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM waypoints WHERE geocode = \$1`).
		WithArgs("GC1234").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectCopyFrom(pgx.Identifier{"waypoints"}, waypointColumns).WillReturnResult(3)
	mock.ExpectCommit()

	require.NoError(t, s.ReplaceWaypoints(context.Background(), "GC1234", sampleWaypoints()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ReplaceWaypoints_Empty(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM waypoints`).
		WithArgs("GC1234").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectCommit()

	require.NoError(t, s.ReplaceWaypoints(context.Background(), "GC1234", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ReplaceWaypoints_CopyError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM waypoints`).
		WithArgs("GC1234").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"waypoints"}, waypointColumns).WillReturnError(fmt.Errorf("fk violation"))
	mock.ExpectRollback()

	err := s.ReplaceWaypoints(context.Background(), "GC1234", sampleWaypoints())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert waypoints GC1234")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListWaypoints(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	p := geopoint.Point{Lat: 52.20575, Lon: 13.20575}
	coords, err := encodeCoords(&p)
	require.NoError(t, err)

	cols := []string{"id", "geocode", "position", "name", "prefix", "wp_type", "coords", "calc_state",
		"user_note", "user_defined", "original_coords_empty"}
	mock.ExpectQuery(`FROM waypoints WHERE geocode = \$1 ORDER BY position`).
		WithArgs("GC1234").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("id-1", "GC1234", 0, "Lot", "PK", "PARKING", coords, "", "gravel", true, false).
			AddRow("id-2", "GC1234", 1, "Final", "", "FINAL", []byte{},
				`{"format":"plain","plainLat":"N 52 A","plainLon":"E 013 B","freeVariables":[{"name":"A"},{"name":"B"}]}`,
				"", true, false))

	wps, err := s.ListWaypoints(context.Background(), "GC1234")
	require.NoError(t, err)
	require.Len(t, wps, 2)

	assert.Equal(t, model.TypeParking, wps[0].Type)
	require.NotNil(t, wps[0].Coords)
	assert.True(t, wps[0].Coords.EqualsDecMinute(p))
	assert.Nil(t, wps[0].CalcState)

	assert.Nil(t, wps[1].Coords)
	require.NotNil(t, wps[1].CalcState)
	assert.Equal(t, "N 52 A", wps[1].CalcState.PlainLat)
	assert.Equal(t, []string{"A", "B"}, wps[1].CalcState.Unresolved())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Close(t *testing.T) {
	closed := false
	s := &PostgresStore{closeFn: func() { closed = true }}
	require.NoError(t, s.Close())
	assert.True(t, closed)

	assert.NoError(t, (&PostgresStore{}).Close())
}
