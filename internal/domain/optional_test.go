package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type optionalEnvelope struct {
	Name Optional[string] `json:"name"`
}

func TestOptionalAbsent(t *testing.T) {
	var env optionalEnvelope
	require.NoError(t, json.Unmarshal([]byte(`{}`), &env))
	assert.False(t, env.Name.Present())
	assert.False(t, env.Name.IsNull())
	_, ok := env.Name.Get()
	assert.False(t, ok)
}

func TestOptionalExplicitNull(t *testing.T) {
	var env optionalEnvelope
	require.NoError(t, json.Unmarshal([]byte(`{"name":null}`), &env))
	assert.True(t, env.Name.Present())
	assert.True(t, env.Name.IsNull())
	_, ok := env.Name.Get()
	assert.False(t, ok)
}

func TestOptionalValue(t *testing.T) {
	var env optionalEnvelope
	require.NoError(t, json.Unmarshal([]byte(`{"name":"hq"}`), &env))
	assert.True(t, env.Name.Present())
	assert.False(t, env.Name.IsNull())
	value, ok := env.Name.Get()
	assert.True(t, ok)
	assert.Equal(t, "hq", value)
}

func TestOptionalConstructors(t *testing.T) {
	set := Set("x")
	assert.True(t, set.Present())
	value, ok := set.Get()
	assert.True(t, ok)
	assert.Equal(t, "x", value)

	null := Null[string]()
	assert.True(t, null.Present())
	assert.True(t, null.IsNull())
}

func TestOptionalMarshal(t *testing.T) {
	data, err := json.Marshal(Set(7))
	require.NoError(t, err)
	assert.JSONEq(t, `7`, string(data))

	data, err = json.Marshal(Null[int]())
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(data))
}
