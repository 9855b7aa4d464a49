package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/trinity/internal/game/battle"
)

// ErrMonsterNotFound is returned when a monster lookup yields no results.
var ErrMonsterNotFound = errors.New("monster not found")

// Monster is a wallet-owned creature as stored in the monsters table.
type Monster struct {
	ObjectID     string
	Owner        string
	Name         string
	Strength     int
	Agility      int
	Intelligence int
	Level        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Combatant converts the stored monster into a battle participant.
func (m Monster) Combatant() battle.Combatant {
	return battle.Combatant{
		ID:           m.ObjectID,
		Name:         m.Name,
		Strength:     m.Strength,
		Agility:      m.Agility,
		Intelligence: m.Intelligence,
		Level:        m.Level,
		Origin:       battle.OriginWallet,
	}
}

// MonsterRepository provides monster persistence operations.
type MonsterRepository struct {
	db *pgxpool.Pool
}

// NewMonsterRepository creates a MonsterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewMonsterRepository(db *pgxpool.Pool) *MonsterRepository {
	return &MonsterRepository{db: db}
}

const monsterColumns = `object_id, owner, name, strength, agility, intelligence, level, created_at, updated_at`

func scanMonster(row pgx.Row) (Monster, error) {
	var m Monster
	err := row.Scan(
		&m.ObjectID, &m.Owner, &m.Name,
		&m.Strength, &m.Agility, &m.Intelligence, &m.Level,
		&m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

// Upsert inserts the monster or, when the object id exists, replaces its
// owner, name, stats and level.
//
// Precondition: m.ObjectID and m.Owner must be non-empty; stats must be >= 0; level >= 1.
// Postcondition: Returns the stored row with timestamps set.
func (r *MonsterRepository) Upsert(ctx context.Context, m Monster) (Monster, error) {
	out, err := scanMonster(r.db.QueryRow(ctx, `
		INSERT INTO monsters (object_id, owner, name, strength, agility, intelligence, level)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (object_id) DO UPDATE SET
			owner = EXCLUDED.owner,
			name = EXCLUDED.name,
			strength = EXCLUDED.strength,
			agility = EXCLUDED.agility,
			intelligence = EXCLUDED.intelligence,
			level = EXCLUDED.level,
			updated_at = NOW()
		RETURNING `+monsterColumns,
		m.ObjectID, m.Owner, m.Name, m.Strength, m.Agility, m.Intelligence, m.Level,
	))
	if err != nil {
		return Monster{}, fmt.Errorf("upserting monster %s: %w", m.ObjectID, err)
	}
	return out, nil
}

// Get retrieves a monster by object id.
//
// Postcondition: Returns the Monster or ErrMonsterNotFound.
func (r *MonsterRepository) Get(ctx context.Context, objectID string) (Monster, error) {
	m, err := scanMonster(r.db.QueryRow(ctx,
		`SELECT `+monsterColumns+` FROM monsters WHERE object_id = $1`, objectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Monster{}, ErrMonsterNotFound
		}
		return Monster{}, fmt.Errorf("getting monster %s: %w", objectID, err)
	}
	return m, nil
}

// ListByOwner returns every monster held by owner, oldest first.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *MonsterRepository) ListByOwner(ctx context.Context, owner string) ([]Monster, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+monsterColumns+` FROM monsters WHERE owner = $1 ORDER BY created_at ASC, object_id ASC`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("listing monsters: %w", err)
	}
	defer rows.Close()

	monsters := make([]Monster, 0)
	for rows.Next() {
		m, err := scanMonster(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning monster row: %w", err)
		}
		monsters = append(monsters, m)
	}
	return monsters, rows.Err()
}

// Combatants returns the owner's monsters as battle participants.
func (r *MonsterRepository) Combatants(ctx context.Context, owner string) ([]battle.Combatant, error) {
	monsters, err := r.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]battle.Combatant, len(monsters))
	for i, m := range monsters {
		out[i] = m.Combatant()
	}
	return out, nil
}
