package database

import (
	"io/fs"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMigrator(t *testing.T, files fstest.MapFS) (*Migrator, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return &Migrator{db: mock, files: files, dir: "migrations"}, mock
}

func TestRunMigrations(t *testing.T) {
	t.Parallel()
	files := fstest.MapFS{
		"migrations/001_init.sql":       {Data: []byte("CREATE TABLE users (id SERIAL)")},
		"migrations/002_more.sql":       {Data: []byte("CREATE TABLE activities (id SERIAL)")},
		"migrations/003_reset_data.sql": {Data: []byte("TRUNCATE users")},
		"migrations/README.md":          {Data: []byte("docs")},
	}

	t.Run("success - runs only pending migrations", func(t *testing.T) {
		t.Parallel()
		m, mock := newTestMigrator(t, files)

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
			WillReturnResult(pgxmock.NewResult("CREATE", 0))
		mock.ExpectQuery("SELECT filename FROM schema_migrations").
			WillReturnRows(pgxmock.NewRows([]string{"filename"}).AddRow("001_init.sql"))
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE activities (id SERIAL)")).
			WillReturnResult(pgxmock.NewResult("CREATE", 0))
		mock.ExpectExec("INSERT INTO schema_migrations").
			WithArgs("002_more.sql").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := m.RunMigrations(t.Context())

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - migration fails", func(t *testing.T) {
		t.Parallel()
		m, mock := newTestMigrator(t, files)

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
			WillReturnResult(pgxmock.NewResult("CREATE", 0))
		mock.ExpectQuery("SELECT filename FROM schema_migrations").
			WillReturnRows(pgxmock.NewRows([]string{"filename"}))
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE users (id SERIAL)")).
			WillReturnError(assert.AnError)

		err := m.RunMigrations(t.Context())

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to run migration 001_init.sql")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - tracking table", func(t *testing.T) {
		t.Parallel()
		m, mock := newTestMigrator(t, files)

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnError(assert.AnError)

		err := m.RunMigrations(t.Context())

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to create migrations table")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEmbeddedMigrations(t *testing.T) {
	t.Parallel()
	m := NewMigrator(nil)

	data, err := fs.ReadFile(m.files, "migrations/001_init.sql")

	require.NoError(t, err)
	assert.Contains(t, string(data), "GENERATED ALWAYS AS")
	assert.Contains(t, string(data), "'Nouveau', 'Récurrent'")
}
