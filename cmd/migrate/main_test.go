package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/trinity/internal/config"
	"github.com/cory-johannsen/trinity/internal/testutil"
)

func TestMigrateDB_RejectsBadArguments(t *testing.T) {
	logger := zaptest.NewLogger(t)
	assert.ErrorContains(t, migrateDB(config.DatabaseConfig{}, "../../migrations", "sideways", 0, logger), "invalid direction")
	assert.ErrorContains(t, migrateDB(config.DatabaseConfig{}, "../../migrations", "up", -1, logger), "invalid steps")
}

func TestMigrateDB_UpDownUp(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	logger := zaptest.NewLogger(t)
	dir := testutil.MigrationsDir()

	require.NoError(t, migrateDB(pc.Config, dir, "up", 0, logger))
	require.NoError(t, migrateDB(pc.Config, dir, "up", 0, logger), "second up is a no-op")

	var exists bool
	require.NoError(t, pc.RawPool.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'monsters')`).Scan(&exists))
	assert.True(t, exists)

	require.NoError(t, migrateDB(pc.Config, dir, "down", 0, logger))
	require.NoError(t, pc.RawPool.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'monsters')`).Scan(&exists))
	assert.False(t, exists)

	require.NoError(t, migrateDB(pc.Config, dir, "up", 1, logger))
}
