package hostel_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostelreport/internal/hostel"
	"hostelreport/internal/store"
)

func newRepo(t *testing.T) (*hostel.Repository, sqlmock.Sqlmock, *store.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	d := store.Wrap(db, store.PoolConfig{})
	return hostel.NewRepository(d), mock, d
}

func TestRepositoryListAccountsEmpty(t *testing.T) {
	repo, mock, _ := newRepo(t)
	mock.ExpectQuery(`SELECT id, name FROM admins ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	accounts, err := repo.ListAccounts(context.Background(), hostel.Admins)
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryPasswords(t *testing.T) {
	repo, mock, _ := newRepo(t)
	mock.ExpectQuery(`SELECT password FROM teachers WHERE name = \$1`).
		WithArgs("asha").
		WillReturnRows(sqlmock.NewRows([]string{"password"}).AddRow("h1").AddRow("h2"))

	got, err := repo.Passwords(context.Background(), hostel.Teachers, "asha")
	require.NoError(t, err)
	assert.Equal(t, []string{"h1", "h2"}, got)
}

func TestRepositoryInsertReportStoresNulls(t *testing.T) {
	repo, mock, d := newRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO reports .* VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, NOW\(\)\)`).
		WithArgs("Asha", "Ravi", "North", "ok", nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.InsertReport(context.Background(), hostel.ReportInput{
		TeacherName: "Asha", SubordinateTeacherName: "Ravi", HostelName: "North", GeneralComments: "ok",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, d.Client.Stats().InUse)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryDeleteMissingReport(t *testing.T) {
	repo, mock, _ := newRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM reports WHERE id = \$1`).WithArgs(int64(42)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	assert.NoError(t, repo.DeleteReport(context.Background(), 42))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryReportsSince(t *testing.T) {
	repo, mock, _ := newRepo(t)
	cutoff := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT \* FROM reports WHERE created_at >= \$1`).
		WithArgs(cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hostel_name", "created_at"}).
			AddRow(int64(3), "North", cutoff.Add(time.Hour)))

	table, err := repo.ReportsSince(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "hostel_name", "created_at"}, table.Columns)
	assert.Len(t, table.Rows, 1)
}
