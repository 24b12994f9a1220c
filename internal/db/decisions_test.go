package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicesync-ai/servicesync/internal/models"
)

func newDecision(ts time.Time, requiresApproval bool) *models.DecisionLog {
	return &models.DecisionLog{
		Timestamp:           ts,
		EngineSerial:        "ENG-X15-001",
		FaultCodeInput:      "SPN 157 FMI 18",
		TechID:              "TECH-002",
		TechSkillLevel:      models.SkillIntermediate,
		Symptoms:            "low power",
		TriageDiagnosis:     "Clogged fuel filter",
		TriageConfidence:    78,
		TriageReasoning:     "Pressure pattern",
		RecentRepairs:       []string{"fuel filter replacement"},
		EscalationDecision:  models.DecisionProceedWithGuidance,
		EscalationReasoning: "Medium complexity, intermediate tech can handle with guidance",
		RequiresApproval:    requiresApproval,
		OnlineStatus:        "online",
		LLMModel:            "llama3.2",
	}
}

func TestDecisionLogStore_InsertAndGet(t *testing.T) {
	conn := testDB(t)
	store := &SQLiteDecisionLogStore{DB: conn}
	ctx := context.Background()

	ts := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	id, err := store.Insert(ctx, newDecision(ts, true))
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ts, got.Timestamp)
	assert.Equal(t, "ENG-X15-001", got.EngineSerial)
	assert.Equal(t, "SPN 157 FMI 18", got.FaultCodeInput)
	assert.Equal(t, models.SkillIntermediate, got.TechSkillLevel)
	assert.Equal(t, 78, got.TriageConfidence)
	assert.Equal(t, []string{"fuel filter replacement"}, got.RecentRepairs)
	assert.True(t, got.RequiresApproval)
	assert.Empty(t, got.ApprovedBy)
	assert.Nil(t, got.RepairSuccessful)
	assert.True(t, got.IsPending())
}

func TestDecisionLogStore_Get_Unknown(t *testing.T) {
	conn := testDB(t)
	store := &SQLiteDecisionLogStore{DB: conn}

	got, err := store.Get(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestDecisionLogStore_Pending(t *testing.T) {
	conn := testDB(t)
	store := &SQLiteDecisionLogStore{DB: conn}
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	older, err := store.Insert(ctx, newDecision(base, true))
	require.NoError(t, err)
	_, err = store.Insert(ctx, newDecision(base.Add(time.Hour), false))
	require.NoError(t, err)
	newer, err := store.Insert(ctx, newDecision(base.Add(2*time.Hour), true))
	require.NoError(t, err)
	approved, err := store.Insert(ctx, newDecision(base.Add(3*time.Hour), true))
	require.NoError(t, err)
	require.NoError(t, store.Approve(ctx, approved, "TECH-001"))

	pending, err := store.Pending(ctx)
	require.NoError(t, err)
	// Only unapproved approval-required decisions, newest first.
	require.Len(t, pending, 2)
	assert.Equal(t, newer, pending[0].ID)
	assert.Equal(t, older, pending[1].ID)
}

func TestDecisionLogStore_Approve(t *testing.T) {
	conn := testDB(t)
	store := &SQLiteDecisionLogStore{DB: conn}
	ctx := context.Background()

	id, err := store.Insert(ctx, newDecision(time.Now().UTC(), true))
	require.NoError(t, err)

	require.NoError(t, store.Approve(ctx, id, "TECH-001"))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "TECH-001", got.ApprovedBy)
	require.NotNil(t, got.ApprovalTimestamp)
	assert.False(t, got.IsPending())

	t.Run("unknown id returns ErrNotFound", func(t *testing.T) {
		err := store.Approve(ctx, 9999, "TECH-001")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDecisionLogStore_RecordOutcome(t *testing.T) {
	conn := testDB(t)
	store := &SQLiteDecisionLogStore{DB: conn}
	ctx := context.Background()

	id, err := store.Insert(ctx, newDecision(time.Now().UTC(), false))
	require.NoError(t, err)

	require.NoError(t, store.RecordOutcome(ctx, id, "Replaced fuel filter", []string{"FF5320"}, true))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Replaced fuel filter", got.ActualRepair)
	assert.Equal(t, []string{"FF5320"}, got.PartsUsed)
	require.NotNil(t, got.RepairSuccessful)
	assert.True(t, *got.RepairSuccessful)

	t.Run("second report overwrites the first", func(t *testing.T) {
		require.NoError(t, store.RecordOutcome(ctx, id, "Replaced lift pump", []string{"LP940", "FF5320"}, false))

		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Replaced lift pump", got.ActualRepair)
		assert.Equal(t, []string{"LP940", "FF5320"}, got.PartsUsed)
		require.NotNil(t, got.RepairSuccessful)
		assert.False(t, *got.RepairSuccessful)
	})

	t.Run("unknown id returns ErrNotFound", func(t *testing.T) {
		err := store.RecordOutcome(ctx, 9999, "x", nil, true)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDecisionLogStore_Recent(t *testing.T) {
	conn := testDB(t)
	store := &SQLiteDecisionLogStore{DB: conn}
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		_, err := store.Insert(ctx, newDecision(base.Add(time.Duration(i)*time.Minute), false))
		require.NoError(t, err)
	}

	t.Run("default limit", func(t *testing.T) {
		logs, err := store.Recent(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, logs, 20)
		// Newest first.
		assert.Equal(t, base.Add(24*time.Minute), logs[0].Timestamp)
	})

	t.Run("explicit limit", func(t *testing.T) {
		logs, err := store.Recent(ctx, 5)
		require.NoError(t, err)
		assert.Len(t, logs, 5)
	})
}
