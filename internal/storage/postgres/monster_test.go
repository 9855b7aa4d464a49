package postgres_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/trinity/internal/game/battle"
	"github.com/cory-johannsen/trinity/internal/storage/postgres"
	"github.com/cory-johannsen/trinity/internal/testutil"
)

var idSeq atomic.Int64

func uniqueID(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixNano(), idSeq.Add(1))
}

func makeMonster(owner, name string) postgres.Monster {
	return postgres.Monster{
		ObjectID:     uniqueID("0xobj"),
		Owner:        owner,
		Name:         name,
		Strength:     44,
		Agility:      31,
		Intelligence: 27,
		Level:        3,
	}
}

func TestMonster_Combatant(t *testing.T) {
	m := postgres.Monster{ObjectID: "0xabc", Owner: "0xowner", Name: "Shellback", Strength: 5, Agility: 6, Intelligence: 7, Level: 2}
	c := m.Combatant()
	assert.Equal(t, battle.Combatant{
		ID: "0xabc", Name: "Shellback", Strength: 5, Agility: 6, Intelligence: 7, Level: 2,
		Origin: battle.OriginWallet,
	}, c)
	assert.NoError(t, c.Validate())
}

func TestMonsterRepository(t *testing.T) {
	repo := postgres.NewMonsterRepository(testutil.NewPool(t))
	ctx := context.Background()

	t.Run("upsert inserts and returns timestamps", func(t *testing.T) {
		m := makeMonster(uniqueID("owner"), "Shellback")
		got, err := repo.Upsert(ctx, m)
		require.NoError(t, err)
		assert.Equal(t, m.ObjectID, got.ObjectID)
		assert.Equal(t, 44, got.Strength)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("upsert replaces existing stats", func(t *testing.T) {
		m := makeMonster(uniqueID("owner"), "Shellback")
		_, err := repo.Upsert(ctx, m)
		require.NoError(t, err)

		m.Level = 4
		m.Agility = 60
		got, err := repo.Upsert(ctx, m)
		require.NoError(t, err)
		assert.Equal(t, 4, got.Level)
		assert.Equal(t, 60, got.Agility)

		fetched, err := repo.Get(ctx, m.ObjectID)
		require.NoError(t, err)
		assert.Equal(t, 60, fetched.Agility)
	})

	t.Run("get unknown returns ErrMonsterNotFound", func(t *testing.T) {
		_, err := repo.Get(ctx, "0xmissing")
		assert.ErrorIs(t, err, postgres.ErrMonsterNotFound)
	})

	t.Run("list by owner keeps insertion order", func(t *testing.T) {
		owner := uniqueID("owner")
		first, err := repo.Upsert(ctx, makeMonster(owner, "First"))
		require.NoError(t, err)
		second, err := repo.Upsert(ctx, makeMonster(owner, "Second"))
		require.NoError(t, err)
		_, err = repo.Upsert(ctx, makeMonster(uniqueID("other"), "Stranger"))
		require.NoError(t, err)

		got, err := repo.ListByOwner(ctx, owner)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, first.ObjectID, got[0].ObjectID)
		assert.Equal(t, second.ObjectID, got[1].ObjectID)

		combatants, err := repo.Combatants(ctx, owner)
		require.NoError(t, err)
		require.Len(t, combatants, 2)
		assert.Equal(t, battle.OriginWallet, combatants[0].Origin)
	})

	t.Run("list by unknown owner is empty", func(t *testing.T) {
		got, err := repo.ListByOwner(ctx, uniqueID("nobody"))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("negative stats are rejected by the schema", func(t *testing.T) {
		m := makeMonster(uniqueID("owner"), "Broken")
		m.Strength = -1
		_, err := repo.Upsert(ctx, m)
		assert.Error(t, err)
	})
}

// Property: any stored monster round-trips through Get unchanged.
func TestMonsterRepository_PropertyUpsertGet(t *testing.T) {
	repo := postgres.NewMonsterRepository(testutil.NewPool(t))
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		m := postgres.Monster{
			ObjectID:     uniqueID("0x") + rapid.StringMatching(`[a-f0-9]{8}`).Draw(rt, "suffix"),
			Owner:        rapid.StringMatching(`0x[a-f0-9]{6}`).Draw(rt, "owner"),
			Name:         rapid.StringMatching(`[A-Z][a-z]{2,10}`).Draw(rt, "name"),
			Strength:     rapid.IntRange(0, 300).Draw(rt, "str"),
			Agility:      rapid.IntRange(0, 300).Draw(rt, "agi"),
			Intelligence: rapid.IntRange(0, 300).Draw(rt, "int"),
			Level:        rapid.IntRange(1, 50).Draw(rt, "level"),
		}
		if _, err := repo.Upsert(ctx, m); err != nil {
			rt.Fatalf("upsert: %v", err)
		}
		got, err := repo.Get(ctx, m.ObjectID)
		if err != nil {
			rt.Fatalf("get: %v", err)
		}
		if got.Combatant() != m.Combatant() {
			rt.Fatalf("round trip mismatch: %+v vs %+v", got.Combatant(), m.Combatant())
		}
	})
}
