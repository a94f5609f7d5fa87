package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jct-tools/moodleboard/internal/domain"
)

func TestMigrateSchedules_LegacyArrayEntry(t *testing.T) {
	raw := json.RawMessage(`{"101":["sunday","tuesday"]}`)
	m, changed, err := MigrateSchedules(raw)
	require.NoError(t, err)
	assert.True(t, changed)

	rec, ok := m["101"]
	require.True(t, ok)
	assert.Equal(t, domain.DefaultCourseName("101"), rec.Name)
	assert.Equal(t, []domain.Weekday{domain.Sunday, domain.Tuesday}, rec.Days)
}

func TestMigrateSchedules_StripsSaturday(t *testing.T) {
	raw := json.RawMessage(`{"101":{"name":"אלגברה","days":["monday","saturday"],"url":"u"}}`)
	m, changed, err := MigrateSchedules(raw)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []domain.Weekday{domain.Monday}, m["101"].Days)
	assert.Equal(t, "אלגברה", m["101"].Name)
	assert.Equal(t, "u", m["101"].URL)
}

func TestMigrateSchedules_DropsEmptyRecords(t *testing.T) {
	raw := json.RawMessage(`{"101":{"name":"x","days":["saturday"]},"102":["saturday"],"103":{"name":"y","days":[]}}`)
	m, changed, err := MigrateSchedules(raw)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Empty(t, m)
}

func TestMigrateSchedules_ModernShapeUnchanged(t *testing.T) {
	raw := json.RawMessage(`{"101":{"name":"x","days":["monday"],"url":"u"}}`)
	m, changed, err := MigrateSchedules(raw)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, m, 1)
}

func TestMigrateSchedules_Idempotent(t *testing.T) {
	raw := json.RawMessage(`{"101":["sunday"],"102":{"name":"x","days":["monday","saturday"]}}`)
	m, changed, err := MigrateSchedules(raw)
	require.NoError(t, err)
	require.True(t, changed)

	encoded, err := EncodeSchedules(m)
	require.NoError(t, err)

	again, changed, err := MigrateSchedules(encoded)
	require.NoError(t, err)
	assert.False(t, changed, "second migration must report no change")
	assert.Equal(t, m, again)
}

func TestMigrateSchedules_EmptyAndMalformed(t *testing.T) {
	m, changed, err := MigrateSchedules(nil)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, m)

	_, _, err = MigrateSchedules(json.RawMessage(`"not a map"`))
	assert.Error(t, err)

	_, _, err = MigrateSchedules(json.RawMessage(`{"101":42}`))
	assert.Error(t, err)
}
