package persist_test

import (
	"context"
	"testing"
	"time"

	"github.com/findable-ai/findable-score/internal/persist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CreateAndGetSite(t *testing.T) {
	store := persist.NewMemoryStore()
	ctx := context.Background()

	created, err := store.CreateSite(ctx, persist.Site{Domain: "acme.example", UserID: "u1"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := store.GetSite(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme.example", got.Domain)
}

func TestMemoryStore_GetSite_MissingErrors(t *testing.T) {
	store := persist.NewMemoryStore()
	_, err := store.GetSite(context.Background(), "missing")
	assert.Error(t, err)
}

func TestMemoryStore_CreateRunDefaultsToQueued(t *testing.T) {
	store := persist.NewMemoryStore()
	ctx := context.Background()

	run, err := store.CreateRun(ctx, persist.Run{SiteID: "site-1", RunType: "audit"})
	require.NoError(t, err)
	assert.Equal(t, persist.RunStatusQueued, run.Status)
	assert.False(t, run.CreatedAt.IsZero())
}

func TestMemoryStore_UpdateRunStatus(t *testing.T) {
	store := persist.NewMemoryStore()
	ctx := context.Background()
	run, err := store.CreateRun(ctx, persist.Run{SiteID: "site-1", RunType: "audit"})
	require.NoError(t, err)

	done := time.Now().UTC()
	require.NoError(t, store.UpdateRunStatus(ctx, run.ID, persist.RunStatusCompleted, &done))

	updated, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, persist.RunStatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
}

func TestMemoryStore_UpsertEmbedding_DedupesByContentHashAndSite(t *testing.T) {
	store := persist.NewMemoryStore()
	ctx := context.Background()

	e := persist.StoredEmbedding{SiteID: "site-1", ContentHash: "hash-1", ModelName: "hashing-v1", Dimensions: 4, Embedding: []float32{1, 0, 0, 0}}
	require.NoError(t, store.UpsertEmbedding(ctx, e))
	e.Content = "updated content"
	require.NoError(t, store.UpsertEmbedding(ctx, e))

	embeddings, err := store.ListEmbeddingsForSite(ctx, "site-1")
	require.NoError(t, err)
	require.Len(t, embeddings, 1)
	assert.Equal(t, "updated content", embeddings[0].Content)
}

func TestMemoryStore_AppendSample_NeverOverwrites(t *testing.T) {
	store := persist.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.AppendSample(ctx, persist.CalibrationSampleRow{QuestionID: "q1", Predicted: 80}))
	require.NoError(t, store.AppendSample(ctx, persist.CalibrationSampleRow{QuestionID: "q1", Predicted: 82}))

	samples, err := store.SamplesSince(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Len(t, samples, 2)
}

func TestMemoryStore_ActiveConfig_NoneSavedErrors(t *testing.T) {
	store := persist.NewMemoryStore()
	_, err := store.ActiveConfig(context.Background())
	assert.Error(t, err)
}

func TestMemoryStore_SaveConfig_MarksActive(t *testing.T) {
	store := persist.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.SaveConfig(ctx, persist.CalibrationConfigRow{ID: "cfg-1", Status: "active"}))

	active, err := store.ActiveConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cfg-1", active.ID)
}

func TestMemoryStore_DriftAlerts_FilterByStatus(t *testing.T) {
	store := persist.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.SaveDriftAlert(ctx, persist.DriftAlertRow{ID: "a1", Status: "open"}))
	require.NoError(t, store.SaveDriftAlert(ctx, persist.DriftAlertRow{ID: "a2", Status: "resolved"}))

	open, err := store.ListDriftAlerts(ctx, "open")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "a1", open[0].ID)
}
