// Package catalog holds the game item catalog: the list of known items with
// their display names and wiki metadata, indexed for lookup by normalized
// name. Detection components only read the ID and Name fields.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Item is one catalog entry. ID is a stable lower-case slug derived from the
// name; Image points at the template asset for the item, relative to the
// templates directory.
type Item struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Rarity string `json:"rarity,omitempty"`
	Tier   int    `json:"tier,omitempty"`
	Image  string `json:"image,omitempty"`
}

// Catalog is an immutable set of items indexed by normalized name and by ID.
type Catalog struct {
	items  []Item
	byID   map[string]Item
	byName map[string]Item
}

// NormalizeName folds an item name for matching: trimmed, lower-cased, with
// interior whitespace runs collapsed to a single space.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Slug derives a catalog ID from a display name ("Health Potion" -> "health_potion").
func Slug(name string) string {
	return strings.ReplaceAll(NormalizeName(name), " ", "_")
}

// New builds a catalog from a list of items. Items missing an ID get one
// derived from their name. Duplicate normalized names keep the first entry.
func New(items []Item) *Catalog {
	c := &Catalog{
		items:  make([]Item, 0, len(items)),
		byID:   make(map[string]Item, len(items)),
		byName: make(map[string]Item, len(items)),
	}
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			continue
		}
		if it.ID == "" {
			it.ID = Slug(it.Name)
		}
		key := NormalizeName(it.Name)
		if _, ok := c.byName[key]; ok {
			continue
		}
		c.items = append(c.items, it)
		c.byID[it.ID] = it
		c.byName[key] = it
	}
	return c
}

// Load reads a catalog JSON file: either a bare array of items or an object
// with an "items" field, which is what the wiki scraper emits.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return nil, errors.New("catalog path cannot be empty")
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-provided catalog path is expected
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		var wrapper struct {
			Items []Item `json:"items"`
		}
		if err2 := json.Unmarshal(data, &wrapper); err2 != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
		}
		items = wrapper.Items
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("catalog %s contains no items", path)
	}
	return New(items), nil
}

// Len returns the number of items in the catalog.
func (c *Catalog) Len() int { return len(c.items) }

// Items returns all items sorted by display name (case-insensitive).
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// ByID looks up an item by its catalog ID.
func (c *Catalog) ByID(id string) (Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// ByName looks up an item by display name after normalization.
func (c *Catalog) ByName(name string) (Item, bool) {
	it, ok := c.byName[NormalizeName(name)]
	return it, ok
}

// Match maps a recognized text line to a catalog item. Exact normalized
// matches win; otherwise the longest item name fully contained in the line
// is accepted. Lines matching nothing return ok=false.
func (c *Catalog) Match(line string) (Item, bool) {
	norm := NormalizeName(line)
	if norm == "" {
		return Item{}, false
	}
	if it, ok := c.byName[norm]; ok {
		return it, true
	}
	best := Item{}
	bestLen := 0
	for key, it := range c.byName {
		if len(key) > bestLen && strings.Contains(norm, key) {
			best = it
			bestLen = len(key)
		}
	}
	return best, bestLen > 0
}
