package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonktools/itemscan/internal/catalog"
	"github.com/bonktools/itemscan/internal/fusion"
)

func TestAnalyze_MissedItemIsFalseNegative(t *testing.T) {
	res := Analyze(
		[]DetectedItem{{Name: "Wrench", Confidence: 0.9}},
		[]string{"Wrench", "Medkit"},
	)

	require.Len(t, res.FalseNegatives, 1)
	fn := res.FalseNegatives[0]
	assert.Equal(t, "medkit", fn.ItemName)
	assert.Equal(t, 1, fn.ExpectedCount)
	assert.Equal(t, 0, fn.DetectedCount)
	assert.Equal(t, 1, fn.Difference)
	assert.NotEmpty(t, fn.PossibleReasons)

	assert.InDelta(t, 50.0, res.Summary.ErrorRate, 1e-9)

	require.Len(t, res.TruePositives, 1)
	assert.Equal(t, "wrench", res.TruePositives[0].ItemName)
	assert.InDelta(t, 0.9, res.TruePositives[0].Confidence, 1e-9)
}

func TestAnalyze_CaseFoldingAndTrimming(t *testing.T) {
	res := Analyze(
		[]DetectedItem{{Name: "  WRENCH  ", Confidence: 0.8}},
		[]string{"wrench"},
	)
	require.Len(t, res.TruePositives, 1)
	assert.Empty(t, res.FalsePositives)
	assert.Empty(t, res.FalseNegatives)
	assert.Equal(t, "wrench", res.TruePositives[0].ItemName)
}

func TestAnalyze_UnexpectedItemIsFalsePositive(t *testing.T) {
	res := Analyze(
		[]DetectedItem{{Name: "Battery", Confidence: 0.4}},
		[]string{},
	)
	require.Len(t, res.FalsePositives, 1)
	fp := res.FalsePositives[0]
	assert.Equal(t, "battery", fp.ItemName)
	assert.Equal(t, 0, fp.ExpectedCount)
	assert.Equal(t, 1, fp.DetectedCount)
	assert.Equal(t, 1, fp.Difference)
	assert.Contains(t, fp.PossibleReasons, ReasonNotInExpected)
	assert.Contains(t, fp.PossibleReasons, ReasonLowConfidence)

	// No expected items at all: error rate defined as zero.
	assert.Equal(t, 0.0, res.Summary.ErrorRate)
}

func TestAnalyze_OverDetectionIsFalsePositive(t *testing.T) {
	res := Analyze(
		[]DetectedItem{
			{Name: "Wrench", Confidence: 0.9},
			{Name: "Wrench", Confidence: 0.85},
			{Name: "Wrench", Confidence: 0.7},
		},
		[]string{"Wrench"},
	)
	require.Len(t, res.FalsePositives, 1)
	fp := res.FalsePositives[0]
	assert.Equal(t, 2, fp.Difference)
	assert.Contains(t, fp.PossibleReasons, ReasonDuplicateDetection)
}

func TestAnalyze_TruePositiveAveragesConfidence(t *testing.T) {
	res := Analyze(
		[]DetectedItem{
			{Name: "Wrench", Confidence: 0.6},
			{Name: "Wrench"}, // missing confidence counts as zero
		},
		[]string{"Wrench", "Wrench"},
	)
	require.Len(t, res.TruePositives, 1)
	assert.InDelta(t, 0.3, res.TruePositives[0].Confidence, 1e-9)
}

func TestAnalyze_EmptyInputs(t *testing.T) {
	res := Analyze(nil, nil)
	assert.Empty(t, res.TruePositives)
	assert.Empty(t, res.FalsePositives)
	assert.Empty(t, res.FalseNegatives)
	assert.Equal(t, 0.0, res.Summary.ErrorRate)
	assert.Equal(t, []string{RecommendQualityGood}, res.Recommendations)
}

func TestAnalyze_Recommendations(t *testing.T) {
	t.Run("missed items dominate", func(t *testing.T) {
		res := Analyze(nil, []string{"Wrench", "Medkit", "Battery"})
		assert.Contains(t, res.Summary.CommonPatterns, PatternMissedItems)
		assert.Contains(t, res.Recommendations, RecommendLowerThreshold)
	})

	t.Run("duplicates dominate", func(t *testing.T) {
		res := Analyze(
			[]DetectedItem{
				{Name: "Wrench", Confidence: 0.9}, {Name: "Wrench", Confidence: 0.9}, {Name: "Wrench", Confidence: 0.9},
				{Name: "Medkit", Confidence: 0.9}, {Name: "Medkit", Confidence: 0.9}, {Name: "Medkit", Confidence: 0.9},
			},
			[]string{"Wrench", "Medkit"},
		)
		assert.Contains(t, res.Summary.CommonPatterns, PatternDuplicates)
		assert.Contains(t, res.Recommendations, RecommendTightenNMS)
	})

	t.Run("low confidence spurious detections", func(t *testing.T) {
		res := Analyze(
			[]DetectedItem{{Name: "Ghost", Confidence: 0.3}},
			[]string{},
		)
		assert.Contains(t, res.Summary.CommonPatterns, PatternLowConfidence)
		assert.Contains(t, res.Recommendations, RecommendRaiseThreshold)
	})

	t.Run("clean run", func(t *testing.T) {
		res := Analyze(
			[]DetectedItem{{Name: "Wrench", Confidence: 0.9}},
			[]string{"Wrench"},
		)
		assert.Empty(t, res.Summary.CommonPatterns)
		assert.Equal(t, []string{RecommendQualityGood}, res.Recommendations)
	})
}

func TestAnalyze_MostProblematicItems(t *testing.T) {
	res := Analyze(
		[]DetectedItem{
			{Name: "Wrench", Confidence: 0.9},
			{Name: "Wrench", Confidence: 0.9},
			{Name: "Wrench", Confidence: 0.9},
			{Name: "Ghost", Confidence: 0.9},
		},
		[]string{"Wrench", "Medkit"},
	)
	// Wrench over-detected by 2, Ghost spurious, Medkit missed.
	assert.Contains(t, res.Summary.MostProblematicItems, "wrench")
}

func TestFromAggregated(t *testing.T) {
	in := []fusion.Aggregated{
		{
			Detection: fusion.Detection{Item: catalog.Item{ID: "wrench", Name: "Wrench"}, Confidence: 0.9},
			Count:     3,
		},
		{
			Detection: fusion.Detection{Item: catalog.Item{ID: "medkit", Name: "Medkit"}, Confidence: 0.7},
			Count:     1,
		},
	}
	got := FromAggregated(in)
	require.Len(t, got, 4)
	assert.Equal(t, "Wrench", got[0].Name)
	assert.Equal(t, "Medkit", got[3].Name)
}
