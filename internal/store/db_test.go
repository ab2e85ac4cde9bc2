package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return Wrap(db, PoolConfig{}), mock
}

func assertReleased(t *testing.T, d *DB) {
	t.Helper()
	assert.Equal(t, 0, d.Client.Stats().InUse, "connection not returned to pool")
}

func TestWrapBoundsPool(t *testing.T) {
	d, _ := newMock(t)
	assert.Equal(t, 10, d.Client.Stats().MaxOpenConnections)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	d = Wrap(db, PoolConfig{MaxOpen: 50, MaxIdle: 80, MaxLifetime: time.Minute})
	assert.Equal(t, 10, d.Client.Stats().MaxOpenConnections)
}

func TestQueryKeepsColumnOrder(t *testing.T) {
	d, mock := newMock(t)
	created := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT \* FROM reports WHERE created_at >= \$1`).
		WithArgs(created).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hostel_name", "image_url"}).
			AddRow(int64(1), "North", nil).
			AddRow(int64(2), "South", "https://example.com/a.jpg"))

	table, err := d.Query(context.Background(), `SELECT * FROM reports WHERE created_at >= $1`, created)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "hostel_name", "image_url"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "North", table.Rows[0][1])
	assert.Nil(t, table.Rows[0][2])
	assertReleased(t, d)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryErrorReleasesConnection(t *testing.T) {
	d, mock := newMock(t)
	mock.ExpectQuery(`SELECT id, name FROM teachers`).WillReturnError(errors.New("relation missing"))

	_, err := d.Query(context.Background(), `SELECT id, name FROM teachers`)
	assert.EqualError(t, err, "relation missing")
	assertReleased(t, d)
}

func TestExecCommits(t *testing.T) {
	d, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM teachers WHERE id = \$1`).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := d.Exec(context.Background(), `DELETE FROM teachers WHERE id = $1`, int64(7))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assertReleased(t, d)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecRollsBackOnError(t *testing.T) {
	d, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO admins`).WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	_, err := d.Exec(context.Background(), `INSERT INTO admins (name, password) VALUES ($1, $2)`, "a", "b")
	assert.EqualError(t, err, "duplicate key")
	assertReleased(t, d)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithConnReleasesOnPanic(t *testing.T) {
	d, _ := newMock(t)
	assert.Panics(t, func() {
		_ = d.WithConn(context.Background(), func(*sql.Conn) error {
			panic("boom")
		})
	})
	assertReleased(t, d)
}

func TestHealthyNil(t *testing.T) {
	var d *DB
	assert.False(t, d.Healthy(context.Background()))
	assert.NoError(t, d.Close())
}
