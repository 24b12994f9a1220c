package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicesync-ai/servicesync/internal/models"
)

func seedEngine(t *testing.T, store *SQLiteEngineStore, serial string) {
	t.Helper()
	_, err := store.Insert(context.Background(), models.Engine{
		EngineSerial: serial,
		EngineModel:  "X15",
		Year:         2022,
		Mileage:      250000,
	})
	require.NoError(t, err)
}

func TestHistoryStore_LimitAndOrder(t *testing.T) {
	conn := testDB(t)
	engines := &SQLiteEngineStore{DB: conn}
	store := &SQLiteServiceHistoryStore{DB: conn}
	ctx := context.Background()
	seedEngine(t, engines, "ENG-X15-001")

	// 15 qualifying records, one per recent day.
	for i := 1; i <= 15; i++ {
		_, err := store.Add(ctx, models.ServiceRecord{
			EngineSerial: "ENG-X15-001",
			ServiceDate:  time.Now().UTC().AddDate(0, 0, -i),
			RepairType:   fmt.Sprintf("repair-%d", i),
		})
		require.NoError(t, err)
	}

	records, err := store.History(ctx, "ENG-X15-001", 6)
	require.NoError(t, err)
	// Capped at 10 even though all 15 fall in the window.
	require.Len(t, records, 10)
	// Most recent first.
	for i := 0; i < 10; i++ {
		assert.Equal(t, fmt.Sprintf("repair-%d", i+1), records[i].RepairType)
	}
}

func TestHistoryStore_WindowFilter(t *testing.T) {
	conn := testDB(t)
	engines := &SQLiteEngineStore{DB: conn}
	store := &SQLiteServiceHistoryStore{DB: conn}
	ctx := context.Background()
	seedEngine(t, engines, "ENG-X15-001")

	_, err := store.Add(ctx, models.ServiceRecord{
		EngineSerial: "ENG-X15-001",
		ServiceDate:  time.Now().UTC().AddDate(0, 0, -30),
		RepairType:   "recent",
	})
	require.NoError(t, err)
	_, err = store.Add(ctx, models.ServiceRecord{
		EngineSerial: "ENG-X15-001",
		ServiceDate:  time.Now().UTC().AddDate(0, -8, 0),
		RepairType:   "stale",
	})
	require.NoError(t, err)

	records, err := store.History(ctx, "ENG-X15-001", 6)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "recent", records[0].RepairType)

	// Widening the window brings the old record back.
	records, err = store.History(ctx, "ENG-X15-001", 12)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestHistoryStore_UnknownSerial(t *testing.T) {
	conn := testDB(t)
	store := &SQLiteServiceHistoryStore{DB: conn}

	records, err := store.History(context.Background(), "NO-SUCH-ENGINE", 6)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestHistoryStore_Add(t *testing.T) {
	conn := testDB(t)
	engines := &SQLiteEngineStore{DB: conn}
	store := &SQLiteServiceHistoryStore{DB: conn}
	ctx := context.Background()
	seedEngine(t, engines, "ENG-X15-001")

	t.Run("defaults warranty to none", func(t *testing.T) {
		id, err := store.Add(ctx, models.ServiceRecord{
			EngineSerial: "ENG-X15-001",
			ServiceDate:  time.Now().UTC(),
			RepairType:   "oil change",
		})
		require.NoError(t, err)
		assert.Positive(t, id)

		records, err := store.History(ctx, "ENG-X15-001", 6)
		require.NoError(t, err)
		require.NotEmpty(t, records)
		assert.Equal(t, "none", records[0].WarrantyStatus)
	})

	t.Run("rejects missing repair type", func(t *testing.T) {
		_, err := store.Add(ctx, models.ServiceRecord{
			EngineSerial: "ENG-X15-001",
			ServiceDate:  time.Now().UTC(),
		})
		assert.Error(t, err)
	})
}
