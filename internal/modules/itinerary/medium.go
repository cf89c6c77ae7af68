// README: Key-value media backing the itinerary store (memory, Redis, Postgres).
package itinerary

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Medium is one persisted key-value slot per key. Load returns nil, nil for an empty slot.
type Medium interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

type MemoryMedium struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{slots: map[string][]byte{}}
}

func (m *MemoryMedium) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryMedium) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = append([]byte(nil), value...)
	return nil
}

type RedisMedium struct {
	redis *redis.Client
}

func NewRedisMedium(redis *redis.Client) *RedisMedium {
	return &RedisMedium{redis: redis}
}

func (m *RedisMedium) Load(ctx context.Context, key string) ([]byte, error) {
	val, err := m.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return val, err
}

func (m *RedisMedium) Save(ctx context.Context, key string, value []byte) error {
	return m.redis.Set(ctx, key, value, 0).Err()
}

// PostgresMedium keeps each slot as one row of kv_slots (see migrations/0001_kv_slots.sql).
type PostgresMedium struct {
	db *pgxpool.Pool
}

func NewPostgresMedium(db *pgxpool.Pool) *PostgresMedium {
	return &PostgresMedium{db: db}
}

func (m *PostgresMedium) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := m.db.QueryRow(ctx, `SELECT value FROM kv_slots WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (m *PostgresMedium) Save(ctx context.Context, key string, value []byte) error {
	_, err := m.db.Exec(ctx, `
		INSERT INTO kv_slots (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`, key, value)
	return err
}
