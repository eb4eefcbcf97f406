package xsd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtinLeaf(t *testing.T, tree *Tree, name string) *Leaf {
	t.Helper()
	e, ok := tree.Get(Key(Namespace, name))
	require.True(t, ok, "missing built-in %s", name)
	l, ok := e.(*Leaf)
	require.True(t, ok)
	return l
}

func TestRegisterBuiltins(t *testing.T) {
	tree := NewTree()
	n := RegisterBuiltins(tree)
	assert.Equal(t, len(builtins), n)
	assert.Equal(t, 0, RegisterBuiltins(tree), "registration is idempotent")

	tests := []struct {
		name string
		kind Kind
		ok   []any
		bad  []any
	}{
		{"byte", KindInteger, []any{int64(-128), int64(127)}, []any{int64(-129), int64(128)}},
		{"short", KindInteger, []any{int64(32767)}, []any{int64(32768)}},
		{"int", KindInteger, []any{int64(-2147483648)}, []any{int64(2147483648)}},
		{"unsignedByte", KindUnsignedInteger, []any{uint64(0), uint64(255)}, []any{uint64(256)}},
		{"unsignedShort", KindUnsignedInteger, []any{uint64(65535)}, []any{uint64(65536)}},
		{"unsignedInt", KindUnsignedInteger, []any{uint64(4294967295)}, []any{uint64(4294967296)}},
		{"positiveInteger", KindUnsignedInteger, []any{uint64(1)}, []any{uint64(0)}},
		{"nonNegativeInteger", KindUnsignedInteger, []any{uint64(0)}, nil},
		{"negativeInteger", KindInteger, []any{int64(-1)}, []any{int64(0)}},
		{"nonPositiveInteger", KindInteger, []any{int64(0)}, []any{int64(1)}},
		{"language", KindString, []any{"en-GB"}, []any{"not a language"}},
		{"boolean", KindBoolean, []any{true}, nil},
		{"decimal", KindDecimal, nil, nil},
		{"dateTime", KindDateTime, nil, nil},
		{"duration", KindDuration, nil, nil},
		{"anyType", KindAnySimpleType, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := builtinLeaf(t, tree, tt.name)
			assert.Equal(t, tt.kind, l.Kind())
			facets := l.Facets()
			for _, v := range tt.ok {
				assert.NoError(t, facets.Check(v), "%v", v)
			}
			for _, v := range tt.bad {
				assert.Error(t, facets.Check(v), "%v", v)
			}
		})
	}

	unsignedByte := builtinLeaf(t, tree, "unsignedByte").Facets()
	assert.Equal(t, "0", unsignedByte.MinInclusive)
	assert.Equal(t, "256", unsignedByte.MaxExclusive)
	assert.NotEmpty(t, builtinLeaf(t, tree, "anyURI").Facets().Custom)
}

func TestKeyHelpers(t *testing.T) {
	key := Key("urn:a", "Order")
	assert.Equal(t, "{urn:a}Order", key)
	ns, local := SplitKey(key)
	assert.Equal(t, "urn:a", ns)
	assert.Equal(t, "Order", local)
	assert.Equal(t, "int", LocalName("xsd:int"))
	assert.Equal(t, "line", LocalName("{urn:a}Order/{urn:a}line"))
	assert.Equal(t, "string", LocalName(Key(Namespace, "string")))
	assert.Equal(t, "line", LocalName("{http://ex.com/a}Order/{http://ex.com/a}line"))
	assert.Equal(t, "@id", LocalName("{http://ex.com/a}Order/{http://ex.com/a}@id"))
	assert.True(t, IsBuiltin("unsignedByte"))
	assert.False(t, IsBuiltin("Order"))
}
