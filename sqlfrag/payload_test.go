package sqlfrag_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/jobly/sqlfrag"
)

func TestPayload_SetKeepsFirstPosition(t *testing.T) {
	p := sqlfrag.NewPayload()
	p.Set("b", 1).Set("a", 2).Set("b", 3)

	assert.Equal(t, 2, p.Len())
	assert.Equal(t, []string{"b", "a"}, p.Fields())
	assert.Equal(t, []any{3, 2}, p.Values())

	v, ok := p.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.False(t, p.Has("c"))
}

func TestPayload_NilIsEmpty(t *testing.T) {
	var p *sqlfrag.Payload
	assert.Equal(t, 0, p.Len())
	assert.Empty(t, p.Fields())
	assert.False(t, p.Has("x"))
}

func TestPayload_UnmarshalJSONKeepsDocumentOrder(t *testing.T) {
	var p sqlfrag.Payload
	err := json.Unmarshal([]byte(`{"zeta": "z", "numEmployees": 50, "alpha": null, "equity": 0.25}`), &p)
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "numEmployees", "alpha", "equity"}, p.Fields())
	assert.Equal(t, []any{"z", int64(50), nil, 0.25}, p.Values())
}

func TestPayload_UnmarshalJSONRejectsNonObject(t *testing.T) {
	var p sqlfrag.Payload
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &p))
	assert.Error(t, json.Unmarshal([]byte(`"name"`), &p))
}

func TestPayload_MarshalJSON(t *testing.T) {
	p := sqlfrag.NewPayload(
		sqlfrag.Assignment{Field: "title", Value: "Engineer"},
		sqlfrag.Assignment{Field: "salary", Value: 100},
	)
	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Engineer","salary":100}`, string(out))
}
