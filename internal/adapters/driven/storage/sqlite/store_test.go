package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyforge/studyforge-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testPlan(id, cacheKey string) *domain.LearningPlan {
	return &domain.LearningPlan{
		ID:       id,
		CacheKey: cacheKey,
		Meta: domain.PlanMeta{
			Title:     "A Field Guide",
			Author:    "J. Doe",
			FileName:  "guide.txt",
			WordCount: 12345,
		},
		Topics: []domain.TopicPassages{
			{
				Topic: domain.Topic{
					ID:          "topic-1",
					Position:    1,
					Title:       "Migration Patterns",
					Description: "Seasonal movement of birds.",
					Importance:  domain.ImportanceHigh,
				},
				Passages: []domain.Passage{
					{Text: "Birds migrate in autumn.", Start: 100, Score: 3, Rank: 1},
					{Text: "Routes follow coastlines.", Start: 900, Score: 1, Rank: 2},
				},
			},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestSaveAndGetPlan(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	plan := testPlan("plan-1", "key-1")
	require.NoError(t, store.SavePlan(ctx, plan))

	got, err := store.GetPlan(ctx, "plan-1")
	require.NoError(t, err)

	assert.Equal(t, plan.ID, got.ID)
	assert.Equal(t, plan.CacheKey, got.CacheKey)
	assert.Equal(t, plan.Meta, got.Meta)
	require.Len(t, got.Topics, 1)
	assert.Equal(t, plan.Topics[0].Topic, got.Topics[0].Topic)
	assert.Equal(t, plan.Topics[0].Passages, got.Topics[0].Passages)
}

func TestGetPlanNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetPlan(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetPlanByCacheKey(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePlan(ctx, testPlan("plan-1", "key-1")))

	got, err := store.GetPlanByCacheKey(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "plan-1", got.ID)

	_, err = store.GetPlanByCacheKey(ctx, "unknown-key")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSavePlanReplacesSameCacheKey(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePlan(ctx, testPlan("plan-old", "shared-key")))
	require.NoError(t, store.SavePlan(ctx, testPlan("plan-new", "shared-key")))

	got, err := store.GetPlanByCacheKey(ctx, "shared-key")
	require.NoError(t, err)
	assert.Equal(t, "plan-new", got.ID)

	// The old row is gone, not shadowed.
	_, err = store.GetPlan(ctx, "plan-old")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	plans, err := store.ListPlans(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 1)
}

func TestListPlansNewestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	older := testPlan("plan-old", "key-old")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := testPlan("plan-new", "key-new")

	require.NoError(t, store.SavePlan(ctx, older))
	require.NoError(t, store.SavePlan(ctx, newer))

	plans, err := store.ListPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "plan-new", plans[0].ID)
	assert.Equal(t, "plan-old", plans[1].ID)

	// Summaries carry metadata only.
	assert.Equal(t, "A Field Guide", plans[0].Meta.Title)
	assert.Empty(t, plans[0].Topics)
}

func TestListPlansEmpty(t *testing.T) {
	store := setupTestStore(t)

	plans, err := store.ListPlans(context.Background())
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestDeletePlan(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePlan(ctx, testPlan("plan-1", "key-1")))
	require.NoError(t, store.DeletePlan(ctx, "plan-1"))

	_, err := store.GetPlan(ctx, "plan-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, store.DeletePlan(ctx, "plan-1"), domain.ErrNotFound)
}

func TestStoreReopenKeepsPlans(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.SavePlan(ctx, testPlan("plan-1", "key-1")))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetPlan(ctx, "plan-1")
	require.NoError(t, err)
	assert.Equal(t, "plan-1", got.ID)
}
