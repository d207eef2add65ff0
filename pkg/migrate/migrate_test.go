package migrate

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/config"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, Validate())
}

func TestValidateFSRejectsBadFiles(t *testing.T) {
	bad := fstest.MapFS{
		"m/create.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	assert.Error(t, validateFS(bad, "m"))

	missingDown := fstest.MapFS{
		"m/20260101000000_x.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")},
	}
	assert.Error(t, validateFS(missingDown, "m"))

	dup := fstest.MapFS{
		"m/20260101000000_a.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"m/20260101000000_b.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	assert.Error(t, validateFS(dup, "m"))
}

func TestDialect(t *testing.T) {
	d, err := Dialect(config.DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", d)

	d, err = Dialect(config.DriverPostgres)
	require.NoError(t, err)
	assert.Equal(t, "postgres", d)

	_, err = Dialect("mysql")
	assert.Error(t, err)
}

func TestRunUpCreatesCartSnapshots(t *testing.T) {
	ctx := context.Background()
	client, err := db.New(ctx, config.DBConfig{Driver: config.DriverSQLite, DSN: "file:migrate_test?mode=memory&cache=shared"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.SQLDB()
	require.NoError(t, err)

	require.NoError(t, Run(ctx, sqlDB, client.Driver(), "up"))

	version, err := CurrentVersion(ctx, sqlDB, client.Driver())
	require.NoError(t, err)
	assert.Equal(t, int64(20260301120000), version)

	assert.True(t, client.DB().Migrator().HasTable("cart_snapshots"))
}
