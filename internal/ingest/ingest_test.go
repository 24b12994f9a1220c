package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSerialFromTopic(t *testing.T) {
	tests := []struct {
		topic      string
		wantSerial string
		wantOK     bool
	}{
		{"servicesync/tools/ENG-X15-001/snapshot", "ENG-X15-001", true},
		{"servicesync/tools/ENG-X15-001/other", "", false},
		{"servicesync/tools//snapshot", "", false},
		{"other/tools/ENG-X15-001/snapshot", "", false},
		{"servicesync/tools/snapshot", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			serial, ok := SerialFromTopic(tt.topic)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantSerial, serial)
		})
	}
}

func TestSnapshotCache(t *testing.T) {
	cache := NewSnapshotCache()

	_, found := cache.Latest("ENG-X15-001")
	assert.False(t, found)

	first := &ToolSnapshot{
		EngineSerial: "ENG-X15-001",
		CapturedAt:   time.Now().Add(-time.Minute),
		Parameters:   map[string]string{"coolant_temp_c": "88.0"},
	}
	cache.Put(first)

	got, found := cache.Latest("ENG-X15-001")
	assert.True(t, found)
	assert.Equal(t, first, got)

	// Newer snapshot replaces the old one.
	second := &ToolSnapshot{
		EngineSerial: "ENG-X15-001",
		CapturedAt:   time.Now(),
		Parameters:   map[string]string{"coolant_temp_c": "91.5"},
	}
	cache.Put(second)

	got, _ = cache.Latest("ENG-X15-001")
	assert.Equal(t, second, got)

	// Snapshots without a serial are dropped.
	cache.Put(&ToolSnapshot{})
	_, found = cache.Latest("")
	assert.False(t, found)
}

func TestToolSnapshot_Summary(t *testing.T) {
	empty := &ToolSnapshot{}
	assert.Empty(t, empty.Summary())

	snap := &ToolSnapshot{
		Parameters: map[string]string{"fuel_rail_psi": "26000"},
	}
	assert.Equal(t, "fuel_rail_psi=26000", snap.Summary())

	multi := &ToolSnapshot{
		Parameters: map[string]string{"a": "1", "b": "2"},
	}
	assert.Contains(t, multi.Summary(), "a=1")
	assert.Contains(t, multi.Summary(), "b=2")
}
