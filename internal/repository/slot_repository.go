package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// ErrSlotNotFound is returned when a named slot has never been written.
var ErrSlotNotFound = errors.New("storage slot not found")

// SlotRepository stores opaque payloads under a name.
type SlotRepository interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, payload []byte) error
}

type memorySlotRepository struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemorySlotRepository keeps slots in process memory.
func NewMemorySlotRepository() SlotRepository {
	return &memorySlotRepository{slots: make(map[string][]byte)}
}

func (r *memorySlotRepository) Read(_ context.Context, name string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	payload, ok := r.slots[name]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return append([]byte(nil), payload...), nil
}

func (r *memorySlotRepository) Write(_ context.Context, name string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[name] = append([]byte(nil), payload...)
	return nil
}

type redisSlotRepository struct {
	client *redis.Client
}

// NewRedisSlotRepository stores each slot as a plain Redis string key.
func NewRedisSlotRepository(client *redis.Client) SlotRepository {
	return &redisSlotRepository{client: client}
}

func (r *redisSlotRepository) Read(ctx context.Context, name string) ([]byte, error) {
	payload, err := r.client.Get(ctx, name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (r *redisSlotRepository) Write(ctx context.Context, name string, payload []byte) error {
	return r.client.Set(ctx, name, payload, 0).Err()
}

type postgresSlotRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSlotRepository stores slots in the storage_slots table.
func NewPostgresSlotRepository(pool *pgxpool.Pool) SlotRepository {
	return &postgresSlotRepository{pool: pool}
}

func (r *postgresSlotRepository) Read(ctx context.Context, name string) ([]byte, error) {
	const query = `SELECT payload FROM storage_slots WHERE name=$1`
	var payload []byte
	if err := r.pool.QueryRow(ctx, query, name).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return payload, nil
}

func (r *postgresSlotRepository) Write(ctx context.Context, name string, payload []byte) error {
	const query = `
        INSERT INTO storage_slots (name, payload, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (name) DO UPDATE SET payload=EXCLUDED.payload, updated_at=NOW()`
	_, err := r.pool.Exec(ctx, query, name, string(payload))
	return err
}
