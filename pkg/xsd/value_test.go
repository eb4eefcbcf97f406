package xsd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToValue(t *testing.T) {
	n := userNode()
	require.NoError(t, Merge(n, map[string]any{"id": 3, "tag": []any{"x"}}, MergeOptions{}))

	v, ok := ToValue(n)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"id": int64(3), "tag": []any{"x"}}, v)

	_, ok = ToValue(userNode())
	assert.False(t, ok, "an unbound node carries nothing")

	nilled := userNode()
	nilled.Nil = true
	v, ok = ToValue(nilled)
	assert.True(t, ok)
	assert.Nil(t, v)

	leaf := stringLeaf()
	leaf.Bind(Nil)
	v, ok = ToValue(leaf)
	assert.True(t, ok)
	assert.Nil(t, v)

	simple := NewNode()
	text := stringLeaf()
	text.Bind("hello")
	simple.Set(TextKey, text)
	v, ok = ToValue(simple)
	assert.True(t, ok)
	assert.Equal(t, "hello", v)
}
