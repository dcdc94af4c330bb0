package persistence

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingExecer struct {
	statements []string
	failOn     int
}

func (r *recordingExecer) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	r.statements = append(r.statements, sql)
	if r.failOn > 0 && len(r.statements) == r.failOn {
		return pgconn.CommandTag{}, errors.New("syntax error")
	}
	return pgconn.CommandTag{}, nil
}

func TestApplyMigrationsRunsInOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_b.sql":   {Data: []byte("SELECT 2;")},
		"0001_a.sql":   {Data: []byte("SELECT 1;")},
		"README.md":    {Data: []byte("ignored")},
		"0003_c.sql":   {Data: []byte("  \n")},
		"nested/x.sql": {Data: []byte("SELECT 9;")},
	}
	db := &recordingExecer{}

	err := ApplyMigrations(context.Background(), db, fsys, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"SELECT 1;", "SELECT 2;"}, db.statements)
}

func TestApplyMigrationsStopsOnError(t *testing.T) {
	fsys := fstest.MapFS{
		"0001_a.sql": {Data: []byte("SELECT 1;")},
		"0002_b.sql": {Data: []byte("SELEC 2;")},
		"0003_c.sql": {Data: []byte("SELECT 3;")},
	}
	db := &recordingExecer{failOn: 2}

	err := ApplyMigrations(context.Background(), db, fsys, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0002_b.sql")
	assert.Len(t, db.statements, 2)
}

func TestRunMigrationsUsesEmbeddedFiles(t *testing.T) {
	db := &recordingExecer{}

	require.NoError(t, RunMigrations(context.Background(), db, zap.NewNop()))
	require.NotEmpty(t, db.statements)
	assert.Contains(t, db.statements[0], "CREATE TABLE IF NOT EXISTS utilisateurs")
}

func TestApplyMigrationsWithoutPool(t *testing.T) {
	assert.NoError(t, ApplyMigrations(context.Background(), nil, fstest.MapFS{}, zap.NewNop()))
}
