package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/trinity/internal/config"
	"github.com/cory-johannsen/trinity/internal/storage/postgres"
	"github.com/cory-johannsen/trinity/internal/testutil"
)

func TestNewPool_UnreachableDatabaseFails(t *testing.T) {
	cfg := config.DatabaseConfig{
		Enabled:  true,
		Host:     "127.0.0.1",
		Port:     1,
		User:     "nobody",
		Password: "nobody",
		Name:     "trinity",
		SSLMode:  "disable",
		MaxConns: 1,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, pool)
}

func TestPool_MonstersAndHealth(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	ctx := context.Background()

	assert.Equal(t, pc.Config.HealthInterval, pc.Pool.HealthInterval())
	require.NoError(t, pc.Pool.Ping(ctx))

	m := makeMonster(uniqueID("owner"), "Gloomfin")
	_, err := pc.Pool.Monsters().Upsert(ctx, m)
	require.NoError(t, err)
	got, err := pc.Pool.Monsters().Get(ctx, m.ObjectID)
	require.NoError(t, err)
	assert.Equal(t, "Gloomfin", got.Name)
}

func TestPool_CheckHealthLogsFailure(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	core, logs := observer.New(zap.WarnLevel)

	pool, err := postgres.NewPool(context.Background(), pc.Config, zap.New(core))
	require.NoError(t, err)

	pool.CheckHealth(context.Background())
	assert.Zero(t, logs.Len(), "healthy database must not warn")

	pool.Close()
	pool.CheckHealth(context.Background())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "monster store health check failed", logs.All()[0].Message)
}
