package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []Item {
	return []Item{
		{Name: "Wrench", Rarity: "common", Tier: 1},
		{Name: "Health Potion", Rarity: "uncommon", Tier: 2},
		{Name: "Medkit", Rarity: "rare", Tier: 3},
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Wrench", "wrench"},
		{"  Health   Potion  ", "health potion"},
		{"MEDKIT", "medkit"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeName(tt.in))
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "health_potion", Slug("Health Potion"))
	assert.Equal(t, "wrench", Slug(" Wrench "))
}

func TestNew_DerivesIDsAndSkipsDuplicates(t *testing.T) {
	c := New([]Item{
		{Name: "Wrench"},
		{Name: "wrench", Rarity: "should be dropped"},
		{Name: "   "},
	})
	require.Equal(t, 1, c.Len())
	it, ok := c.ByID("wrench")
	require.True(t, ok)
	assert.Equal(t, "Wrench", it.Name)
	assert.Empty(t, it.Rarity)
}

func TestByName_Normalizes(t *testing.T) {
	c := New(sampleItems())
	it, ok := c.ByName("  HEALTH potion ")
	require.True(t, ok)
	assert.Equal(t, "Health Potion", it.Name)
}

func TestMatch(t *testing.T) {
	c := New(sampleItems())

	t.Run("exact", func(t *testing.T) {
		it, ok := c.Match("Health Potion")
		require.True(t, ok)
		assert.Equal(t, "health_potion", it.ID)
	})

	t.Run("contained in noisy line", func(t *testing.T) {
		it, ok := c.Match("1x Health Potion (restores 20 HP)")
		require.True(t, ok)
		assert.Equal(t, "health_potion", it.ID)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := c.Match("completely unrelated text")
		assert.False(t, ok)
	})

	t.Run("empty line", func(t *testing.T) {
		_, ok := c.Match("   ")
		assert.False(t, ok)
	})
}

func TestItems_SortedByName(t *testing.T) {
	c := New(sampleItems())
	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "Health Potion", items[0].Name)
	assert.Equal(t, "Medkit", items[1].Name)
	assert.Equal(t, "Wrench", items[2].Name)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("bare array", func(t *testing.T) {
		path := filepath.Join(dir, "items.json")
		data := `[{"name":"Wrench","rarity":"common"},{"name":"Medkit"}]`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
		c, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("wrapped object", func(t *testing.T) {
		path := filepath.Join(dir, "wrapped.json")
		data := `{"items":[{"name":"Health Potion","tier":2}]}`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
		c, err := Load(path)
		require.NoError(t, err)
		it, ok := c.ByName("health potion")
		require.True(t, ok)
		assert.Equal(t, 2, it.Tier)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.json"))
		assert.Error(t, err)
	})

	t.Run("empty catalog", func(t *testing.T) {
		path := filepath.Join(dir, "empty.json")
		require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))
		_, err := Load(path)
		assert.Error(t, err)
	})
}
