package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRefUnmarshalString(t *testing.T) {
	var ref EmployeeRef
	require.NoError(t, json.Unmarshal([]byte(`"e1"`), &ref))
	assert.Equal(t, "e1", ref.ID)
	assert.False(t, ref.IsKey)
}

func TestEmployeeRefUnmarshalObject(t *testing.T) {
	var ref EmployeeRef
	require.NoError(t, json.Unmarshal([]byte(`{"id":"e2","is_key":true}`), &ref))
	assert.Equal(t, "e2", ref.ID)
	assert.True(t, ref.IsKey)
}

func TestEmployeeRefUnmarshalMixedList(t *testing.T) {
	var refs []EmployeeRef
	payload := `["e1", {"id":"e2","is_key":true}, "e3"]`
	require.NoError(t, json.Unmarshal([]byte(payload), &refs))
	require.Len(t, refs, 3)
	assert.Equal(t, EmployeeRef{ID: "e1"}, refs[0])
	assert.Equal(t, EmployeeRef{ID: "e2", IsKey: true}, refs[1])
	assert.Equal(t, EmployeeRef{ID: "e3"}, refs[2])
}

func TestNormalizeEmployeeRefsDedup(t *testing.T) {
	refs := []EmployeeRef{
		{ID: "e1", IsKey: true},
		{ID: "e2"},
		{ID: "e1"}, // duplicate, first occurrence wins
		{ID: ""},   // dropped
	}
	out := NormalizeEmployeeRefs(refs)
	require.Len(t, out, 2)
	assert.Equal(t, "e1", out[0].ID)
	assert.True(t, out[0].IsKey)
	assert.Equal(t, "e2", out[1].ID)
}

func TestEmployeeIDs(t *testing.T) {
	refs := []EmployeeRef{{ID: "a"}, {ID: "b", IsKey: true}}
	assert.Equal(t, []string{"a", "b"}, EmployeeIDs(refs))
}
