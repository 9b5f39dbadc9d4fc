// Package layout infers where to look in a screenshot before any scoring
// happens: it classifies the frame resolution, picks candidate icon sizes and
// generates the hotbar grid cells plus the sub-region each cell reserves for
// its stack-count overlay.
package layout

import (
	"fmt"
	"math"

	"github.com/bonktools/itemscan/internal/geometry"
)

// Category identifies a supported screen resolution class.
type Category string

const (
	Category720p      Category = "720p"
	Category1080p     Category = "1080p"
	Category1440p     Category = "1440p"
	Category4K        Category = "4K"
	CategorySteamDeck Category = "steam_deck"
	CategoryUnknown   Category = "unknown"
)

const (
	// MaxGridCells bounds the number of hotbar cells generated per frame.
	MaxGridCells = 30

	// CountSubregionMaxSize caps the stack-count overlay square in pixels.
	CountSubregionMaxSize = 25.0

	// CountSubregionFraction of the cell's smaller dimension used for the
	// stack-count overlay.
	CountSubregionFraction = 0.25

	// hotbarEdgeMargin keeps cells off the frame border.
	hotbarEdgeMargin = 16.0

	// hotbarCellGap separates adjacent cells.
	hotbarCellGap = 4.0
)

// IconSizes is an ascending small/medium/large triple of square icon pixel
// sizes worth probing at a given resolution.
type IconSizes [3]int

// Small returns the smallest probe size.
func (s IconSizes) Small() int { return s[0] }

// Medium returns the middle probe size, used as the hotbar cell size.
func (s IconSizes) Medium() int { return s[1] }

// Large returns the largest probe size.
func (s IconSizes) Large() int { return s[2] }

var iconSizeTable = map[Category]IconSizes{
	Category720p:      {28, 36, 44},
	Category1080p:     {40, 50, 60},
	Category1440p:     {52, 64, 78},
	Category4K:        {80, 100, 120},
	CategorySteamDeck: {34, 44, 54},
}

// defaultIconSizes is used for any category without a table entry.
var defaultIconSizes = IconSizes{40, 50, 60}

// PickIconSizes returns the icon probe sizes for a resolution category,
// falling back to the defaults for unknown categories.
func PickIconSizes(cat Category) IconSizes {
	if sizes, ok := iconSizeTable[cat]; ok {
		return sizes
	}
	return defaultIconSizes
}

// GenerateGridRegions places a single row of square cells along the bottom of
// the frame where the game renders its item hotbar. Generation stops at
// MaxGridCells or when the row runs out of horizontal space. Degenerate
// dimensions (zero, negative, NaN, infinite) yield an empty slice.
func GenerateGridRegions(width, height float64) []geometry.Region {
	if !isFiniteDim(width) || !isFiniteDim(height) {
		return []geometry.Region{}
	}

	cat := Classify(width, height).Category
	cell := float64(PickIconSizes(cat).Medium())

	y := height - hotbarEdgeMargin - cell
	if y < 0 {
		return []geometry.Region{}
	}

	regions := make([]geometry.Region, 0, MaxGridCells)
	x := hotbarEdgeMargin
	for i := 0; i < MaxGridCells; i++ {
		if x+cell > width-hotbarEdgeMargin {
			break
		}
		r := geometry.NewRegion(x, y, cell, cell)
		r.Label = fmt.Sprintf("cell_%d", i)
		regions = append(regions, r)
		x += cell + hotbarCellGap
	}
	return regions
}

// CountSubregion derives the bottom-right square of a cell reserved for the
// stack-count text overlay. The side is 25% of the cell's smaller dimension,
// capped at 25 px, so the result is always contained in the parent cell.
func CountSubregion(cell geometry.Region) geometry.Region {
	side := CountSubregionFraction * math.Min(cell.Width, cell.Height)
	if side > CountSubregionMaxSize {
		side = CountSubregionMaxSize
	}
	if side < 0 {
		side = 0
	}
	sub := geometry.NewRegion(cell.MaxX()-side, cell.MaxY()-side, side, side)
	if cell.Label != "" {
		sub.Label = cell.Label + "_count"
	} else {
		sub.Label = "cell_count"
	}
	return sub
}

func isFiniteDim(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
