package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonktools/itemscan/internal/catalog"
	"github.com/bonktools/itemscan/internal/geometry"
)

func positioned(id string, conf float64, r geometry.Region) Candidate {
	return Candidate{
		Item:       catalog.Item{ID: id, Name: id},
		Confidence: conf,
		Region:     &r,
	}
}

func unpositioned(id string, conf float64) Candidate {
	return Candidate{Item: catalog.Item{ID: id, Name: id}, Confidence: conf}
}

func TestNonMaxSuppression_Empty(t *testing.T) {
	assert.Empty(t, NonMaxSuppression(nil, DefaultNMSIoUThreshold))
	assert.Empty(t, NonMaxSuppression([]Candidate{}, DefaultNMSIoUThreshold))
}

func TestNonMaxSuppression_SingleKept(t *testing.T) {
	in := []Candidate{positioned("wrench", 0.4, geometry.NewRegion(0, 0, 10, 10))}
	kept := NonMaxSuppression(in, DefaultNMSIoUThreshold)
	require.Len(t, kept, 1)
	assert.Equal(t, "wrench", kept[0].Item.ID)
}

func TestNonMaxSuppression_HeavyOverlapCollapses(t *testing.T) {
	in := []Candidate{
		positioned("a", 0.8, geometry.NewRegion(1, 1, 9, 9)),
		positioned("b", 0.9, geometry.NewRegion(0, 0, 10, 10)),
	}
	kept := NonMaxSuppression(in, 0.3)
	require.Len(t, kept, 1)
	assert.Equal(t, "b", kept[0].Item.ID)
	assert.Equal(t, 0.9, kept[0].Confidence)
}

func TestNonMaxSuppression_DisjointBothKept(t *testing.T) {
	in := []Candidate{
		positioned("a", 0.9, geometry.NewRegion(0, 0, 10, 10)),
		positioned("b", 0.1, geometry.NewRegion(50, 50, 10, 10)),
	}
	kept := NonMaxSuppression(in, 0.0)
	assert.Len(t, kept, 2)
}

func TestNonMaxSuppression_UnpositionedNeverSuppressed(t *testing.T) {
	in := []Candidate{
		positioned("a", 0.9, geometry.NewRegion(0, 0, 10, 10)),
		unpositioned("b", 0.1),
		unpositioned("c", 0.05),
	}
	kept := NonMaxSuppression(in, 0.3)
	assert.Len(t, kept, 3)
}

func TestNonMaxSuppression_SortedByConfidence(t *testing.T) {
	in := []Candidate{
		positioned("low", 0.2, geometry.NewRegion(0, 0, 10, 10)),
		positioned("high", 0.9, geometry.NewRegion(100, 0, 10, 10)),
		positioned("mid", 0.5, geometry.NewRegion(200, 0, 10, 10)),
	}
	kept := NonMaxSuppression(in, 0.3)
	require.Len(t, kept, 3)
	assert.Equal(t, "high", kept[0].Item.ID)
	assert.Equal(t, "mid", kept[1].Item.ID)
	assert.Equal(t, "low", kept[2].Item.ID)
}

func TestNonMaxSuppression_StableTieBreak(t *testing.T) {
	in := []Candidate{
		positioned("first", 0.5, geometry.NewRegion(0, 0, 10, 10)),
		positioned("second", 0.5, geometry.NewRegion(100, 0, 10, 10)),
	}
	kept := NonMaxSuppression(in, 0.3)
	require.Len(t, kept, 2)
	assert.Equal(t, "first", kept[0].Item.ID)
	assert.Equal(t, "second", kept[1].Item.ID)
}

func TestNonMaxSuppression_DoesNotMutateInput(t *testing.T) {
	in := []Candidate{
		positioned("low", 0.1, geometry.NewRegion(0, 0, 10, 10)),
		positioned("high", 0.9, geometry.NewRegion(100, 0, 10, 10)),
	}
	_ = NonMaxSuppression(in, 0.3)
	assert.Equal(t, "low", in[0].Item.ID)
}

// No pair of surviving positioned candidates may overlap past the threshold.
func TestNonMaxSuppression_NoResidualOverlap(t *testing.T) {
	var in []Candidate
	for i := 0; i < 20; i++ {
		in = append(in, positioned(
			string(rune('a'+i)),
			float64(i)/20.0,
			geometry.NewRegion(float64(i)*3, 0, 10, 10),
		))
	}
	kept := NonMaxSuppression(in, 0.3)
	for i := range kept {
		for j := i + 1; j < len(kept); j++ {
			iou := geometry.IoU(*kept[i].Region, *kept[j].Region)
			require.LessOrEqual(t, iou, 0.3, "kept candidates %d and %d still overlap", i, j)
		}
	}
}
