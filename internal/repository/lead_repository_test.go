package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/intent-score/internal/domain"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func sampleLead(id string) domain.Lead {
	return domain.NewLead(id, domain.LeadAttributes{
		PhoneNumber:      "+1 555 123 4567",
		Email:            "jane@example.com",
		CreditScore:      720,
		Income:           450000,
		AgeGroup:         domain.AgeGroup26To35,
		FamilyBackground: domain.FamilyMarried,
		Comments:         "interested",
	}, domain.ScoreResult{InitialScore: 77, RerankedScore: 81}, domain.ScoreSourceFallback,
		time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
}

func TestLeadRepository_AbsentSlotIsEmpty(t *testing.T) {
	repo := NewLeadRepository(NewMemorySlotRepository(), "lead-storage")

	leads, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestLeadRepository_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewLeadRepository(NewMemorySlotRepository(), "lead-storage")

	require.NoError(t, repo.Save(ctx, []domain.Lead{sampleLead("a"), sampleLead("b")}))

	leads, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "a", leads[0].ID)
	assert.Equal(t, 77, *leads[0].InitialScore)
	assert.Equal(t, 81, *leads[0].RerankedScore)
	assert.Equal(t, domain.ScoreSourceFallback, leads[0].ScoreSource)
}

func TestLeadRepository_CorruptSlot(t *testing.T) {
	ctx := context.Background()
	slots := NewMemorySlotRepository()
	require.NoError(t, slots.Write(ctx, "lead-storage", []byte("{not json")))

	leads, err := NewLeadRepository(slots, "lead-storage").Load(ctx)
	assert.ErrorIs(t, err, ErrCorruptSlot)
	assert.Nil(t, leads)
}

func TestLeadRepository_HalfScoredRecordIsCorrupt(t *testing.T) {
	ctx := context.Background()
	slots := NewMemorySlotRepository()
	payload := `{"state":{"leads":[{"id":"x","initialScore":50}]},"version":0}`
	require.NoError(t, slots.Write(ctx, "lead-storage", []byte(payload)))

	_, err := NewLeadRepository(slots, "lead-storage").Load(ctx)
	assert.ErrorIs(t, err, ErrCorruptSlot)
}

func TestLeadRepository_SnapshotFormat(t *testing.T) {
	ctx := context.Background()
	slots := NewMemorySlotRepository()
	repo := NewLeadRepository(slots, "lead-storage")

	require.NoError(t, repo.Save(ctx, nil))

	payload, err := slots.Read(ctx, "lead-storage")
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":{"leads":[]},"version":0}`, string(payload))
}

func TestRedisSlotRepository(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	slots := NewRedisSlotRepository(client)

	_, err := slots.Read(ctx, "lead-storage")
	assert.ErrorIs(t, err, ErrSlotNotFound)

	repo := NewLeadRepository(slots, "lead-storage")
	require.NoError(t, repo.Save(ctx, []domain.Lead{sampleLead("r1")}))
	assert.True(t, mr.Exists("lead-storage"))

	leads, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "r1", leads[0].ID)
}

func TestRedisSlotRepository_Unreachable(t *testing.T) {
	mr, client := setupRedis(t)
	mr.Close()

	_, err := NewLeadRepository(NewRedisSlotRepository(client), "lead-storage").Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCorruptSlot)
}
