package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeReport_DefaultDataset(t *testing.T) {
	report := ComputeReport(DefaultDataset())

	assert.Equal(t, ScorePair{A: 76, B: 82}, report.Overall)
	assert.Equal(t, "Very Good", report.OverallRatingA)
	assert.Equal(t, "Excellent", report.OverallRatingB)

	want := []CategoryScore{
		{Name: "Scientific Impact", ScorePair: ScorePair{A: 88, B: 73}},
		{Name: "Business Value", ScorePair: ScorePair{A: 78, B: 83}},
		{Name: "Humanitarian Value", ScorePair: ScorePair{A: 73, B: 82}},
		{Name: "Technical Viability", ScorePair: ScorePair{A: 67, B: 92}},
	}
	assert.Equal(t, want, report.CategoryScores)

	var criteria int
	for _, c := range report.Categories {
		criteria += len(c.Criteria)
	}
	assert.Equal(t, 18, criteria)
	assert.Len(t, report.BusinessRecommendations, 5)
	assert.Len(t, report.ScientificRecommendations, 4)
	assert.Len(t, report.HumanitarianRecommendations, 4)
	assert.NotEmpty(t, report.ConclusionA)
	assert.NotEmpty(t, report.ConclusionB)
}

func TestComputeReport_DoesNotAliasDataset(t *testing.T) {
	ds := DefaultDataset()
	report := ComputeReport(ds)
	report.Categories[0].Criteria[0].ScoreA = 0
	report.BusinessRecommendations[0] = "changed"

	assert.Equal(t, 92, ds.Categories[0].Criteria[0].ScoreA)
	assert.NotEqual(t, "changed", ds.BusinessRecommendations[0])
}

func TestComputeReport_RoundsHalfAwayFromZero(t *testing.T) {
	ds := Dataset{Categories: []Category{
		{Name: "half", Criteria: []Criterion{{ScoreA: 1, ScoreB: 2}, {ScoreA: 2, ScoreB: 2}}},
		{Name: "empty"},
	}}
	report := ComputeReport(ds)
	require.Len(t, report.CategoryScores, 2)
	assert.Equal(t, ScorePair{A: 2, B: 2}, report.CategoryScores[0].ScorePair)
	assert.Equal(t, ScorePair{}, report.CategoryScores[1].ScorePair)
}

func TestStaticScorerIsDeterministic(t *testing.T) {
	s := NewStatic()
	assert.Equal(t, s.Score(), s.Score())
}

func TestRatingBands(t *testing.T) {
	cases := []struct {
		score int
		label string
		color string
	}{
		{95, "Exceptional", "#22c55e"},
		{90, "Exceptional", "#22c55e"},
		{89, "Excellent", "#84cc16"},
		{76, "Very Good", "#3b82f6"},
		{60, "Good", "#6366f1"},
		{50, "Average", "#f59e0b"},
		{49, "Below Average", "#ef4444"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.label, RatingLabel(tc.score), tc.score)
		assert.Equal(t, tc.color, ScoreColor(tc.score), tc.score)
	}
}
