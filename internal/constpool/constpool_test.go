package constpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordIntSingletons(t *testing.T) {
	p := New()
	assert.Equal(t, "PyInt.singleton_0", p.RecordInt(0))
	assert.Equal(t, "PyInt.singleton_1", p.RecordInt(1))
	assert.Empty(t, p.Ints(), "singletons must not be pooled")
}

func TestRecordIntDedup(t *testing.T) {
	p := New()
	a := p.RecordInt(42)
	b := p.RecordInt(42)
	require.Equal(t, a, b)
	assert.Equal(t, "int_singleton_42", a)
	assert.Equal(t, "int_singleton_neg7", p.RecordInt(-7))
}

func TestIntsSortedNumerically(t *testing.T) {
	p := New()
	p.RecordInt(30)
	p.RecordInt(-5)
	p.RecordInt(2)
	entries := p.Ints()
	require.Len(t, entries, 3)
	want := []int64{-5, 2, 30}
	for i, v := range want {
		assert.Equal(t, v, entries[i].Value)
	}
}

func TestRecordStrEmptySingleton(t *testing.T) {
	p := New()
	assert.Equal(t, "PyString.empty_singleton", p.RecordStr(""))
	assert.Empty(t, p.Strs())
}

func TestRecordStrDedupAndSortedEmission(t *testing.T) {
	p := New()
	nameB := p.RecordStr("banana")
	nameA := p.RecordStr("apple")
	again := p.RecordStr("banana")
	require.Equal(t, nameB, again)

	entries := p.Strs()
	require.Len(t, entries, 2)
	assert.Equal(t, "apple", entries[0].Value)
	assert.Equal(t, "banana", entries[1].Value)
	// Names assigned at insertion time must still resolve correctly even
	// though emission order differs from insertion order.
	assert.Equal(t, nameA, entries[0].Name)
	assert.Equal(t, nameB, entries[1].Name)
}

func TestRecordBytesNeverDedupesAgainstSingleton(t *testing.T) {
	p := New()
	name := p.RecordBytes(nil)
	assert.NotEmpty(t, name)
	assert.Len(t, p.Bytes(), 1)
}

func TestRecordBytesDedup(t *testing.T) {
	p := New()
	a := p.RecordBytes([]byte{1, 2, 3})
	b := p.RecordBytes([]byte{1, 2, 3})
	assert.Equal(t, a, b)
	c := p.RecordBytes([]byte{1, 2, 4})
	assert.NotEqual(t, a, c)
}
