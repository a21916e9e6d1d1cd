package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndex_Lookup(t *testing.T) {
	ix := NewIndex()
	ix.Replace([]Entry{
		{Identifier: "12345678", Name: "Maria Lopez", Benefit: "PAMI"},
		{Identifier: " 87654321 ", Name: "Juan Perez", Benefit: "IOMA"},
	})

	t.Run("exact match", func(t *testing.T) {
		name, benefit := ix.Lookup("12345678")
		assert.Equal(t, "Maria Lopez", name)
		assert.Equal(t, "PAMI", benefit)
	})

	t.Run("input is trimmed", func(t *testing.T) {
		name, _ := ix.Lookup("  12345678  ")
		assert.Equal(t, "Maria Lopez", name)
	})

	t.Run("stored identifier is trimmed", func(t *testing.T) {
		name, benefit := ix.Lookup("87654321")
		assert.Equal(t, "Juan Perez", name)
		assert.Equal(t, "IOMA", benefit)
	})

	t.Run("miss returns empty fields", func(t *testing.T) {
		name, benefit := ix.Lookup("00000000")
		assert.Empty(t, name)
		assert.Empty(t, benefit)
	})

	t.Run("no fuzzy or partial matching", func(t *testing.T) {
		name, _ := ix.Lookup("1234567")
		assert.Empty(t, name)
	})
}

func TestIndex_EmptyRoster(t *testing.T) {
	ix := NewIndex()
	for _, id := range []string{"", "12345678", "anything"} {
		name, benefit := ix.Lookup(id)
		assert.Empty(t, name)
		assert.Empty(t, benefit)
	}
}

func TestIndex_DuplicateIdentifiers(t *testing.T) {
	ix := NewIndex()
	duplicates := ix.Replace([]Entry{
		{Identifier: "111", Name: "First", Benefit: "A"},
		{Identifier: "111", Name: "Second", Benefit: "B"},
		{Identifier: "222", Name: "Other", Benefit: "C"},
	})

	assert.Equal(t, 1, duplicates)

	name, benefit := ix.Lookup("111")
	assert.Equal(t, "First", name, "first occurrence wins")
	assert.Equal(t, "A", benefit)
}

func TestIndex_Replace(t *testing.T) {
	ix := NewIndex()
	ix.Replace([]Entry{{Identifier: "111", Name: "Old", Benefit: "A"}})
	ix.Replace([]Entry{{Identifier: "222", Name: "New", Benefit: "B"}})

	name, _ := ix.Lookup("111")
	assert.Empty(t, name, "replacement is wholesale, not additive")

	name, _ = ix.Lookup("222")
	assert.Equal(t, "New", name)
	assert.Equal(t, 1, ix.Len())
}

func TestIndex_EntriesKeepsEmptyIdentifierRows(t *testing.T) {
	ix := NewIndex()
	ix.Replace([]Entry{
		{Identifier: "", Name: "Sin Documento", Benefit: ""},
		{Identifier: "333", Name: "Con Documento", Benefit: "OSDE"},
	})

	assert.Len(t, ix.Entries(), 2)

	name, _ := ix.Lookup("")
	assert.Empty(t, name, "empty identifier never resolves")
}
