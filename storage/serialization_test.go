package storage

import (
	"testing"
	"time"

	"github.com/poiesic/artguide/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("57726d7fedc2cb3d5c00d7a1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalRecord(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name   string
		record *core.Record
	}{
		{
			name: "minimal record",
			record: &core.Record{
				Key: "1",
			},
		},
		{
			name: "stored record with fields",
			record: &core.Record{
				Id:  core.IDFromContent("57726d7fedc2cb3d5c00d7a1"),
				Key: "57726d7fedc2cb3d5c00d7a1",
				Fields: core.Fields{
					"title":     "The Starry Night",
					"artist":    "Vincent van Gogh",
					"image_url": "https://uploads.wikiart.org/starry-night.jpg",
				},
				InsertedAt: now,
				UpdatedAt:  now,
			},
		},
		{
			name: "record with vector",
			record: &core.Record{
				Id:         core.ID(3),
				Key:        "3",
				Fields:     core.Fields{"title": "Guernica"},
				Vector:     []float32{0.1, -0.2, 0.3, 0.4, 0.5},
				InsertedAt: now,
				UpdatedAt:  now,
			},
		},
		{
			name: "unicode fields",
			record: &core.Record{
				Key:    "4",
				Fields: core.Fields{"title": "La Liberté guidant le peuple", "museum": "ルーヴル美術館"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalRecord(tt.record)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalRecord(data)
			require.NoError(t, err)
			require.NotNil(t, decoded)

			assert.Equal(t, tt.record.Id, decoded.Id)
			assert.Equal(t, tt.record.Key, decoded.Key)
			assert.True(t, tt.record.InsertedAt.Equal(decoded.InsertedAt))
			assert.True(t, tt.record.UpdatedAt.Equal(decoded.UpdatedAt))
			if len(tt.record.Fields) == 0 {
				assert.Empty(t, decoded.Fields)
			} else {
				assert.Equal(t, tt.record.Fields, decoded.Fields)
			}
			if len(tt.record.Vector) == 0 {
				assert.Empty(t, decoded.Vector)
			} else {
				assert.Equal(t, tt.record.Vector, decoded.Vector)
			}
		})
	}
}

func TestMarshalRecord_Deterministic(t *testing.T) {
	record := &core.Record{
		Key:    "1",
		Fields: core.Fields{"a": "1", "b": "2", "c": "3", "d": "4", "e": "5"},
	}
	first := MarshalRecord(record)
	for range 10 {
		assert.Equal(t, first, MarshalRecord(record))
	}
}

func TestUnmarshalRecord_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"invalid data", []byte{0xFF, 0xFF, 0xFF}},
		{"partial data", []byte{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalRecord(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestMarshalUnmarshalCheckpoint(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	checkpoint := &core.Checkpoint{
		ProcessorType: "enrichment",
		LastID:        core.ID(12345),
		UpdatedAt:     now,
	}

	decoded, err := UnmarshalCheckpoint(MarshalCheckpoint(checkpoint))
	require.NoError(t, err)
	assert.Equal(t, checkpoint.ProcessorType, decoded.ProcessorType)
	assert.Equal(t, checkpoint.LastID, decoded.LastID)
	assert.True(t, checkpoint.UpdatedAt.Equal(decoded.UpdatedAt))
}

func TestUnmarshalCheckpoint_Invalid(t *testing.T) {
	_, err := UnmarshalCheckpoint([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
