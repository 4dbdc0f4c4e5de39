// Package scoring produces the comparison report from a criteria dataset.
// It never sees document content.
package scoring

import "math"

// Criterion is one scored dimension.
type Criterion struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DescriptionA string `json:"description_a"`
	DescriptionB string `json:"description_b"`
	ScoreA       int    `json:"score_a"`
	ScoreB       int    `json:"score_b"`
}

// Category groups criteria.
type Category struct {
	Name     string      `json:"name"`
	Criteria []Criterion `json:"criteria"`
}

// Dataset is the scorer input.
type Dataset struct {
	Categories                  []Category
	BusinessRecommendations     []string
	ScientificRecommendations   []string
	HumanitarianRecommendations []string
	ConclusionA                 string
	ConclusionB                 string
}

// ScorePair holds the A and B averages.
type ScorePair struct {
	A int `json:"a"`
	B int `json:"b"`
}

// CategoryScore is a category's averaged pair.
type CategoryScore struct {
	Name string `json:"name"`
	ScorePair
}

// Report is the full comparison result.
type Report struct {
	Overall                     ScorePair       `json:"overall"`
	OverallRatingA              string          `json:"overall_rating_a"`
	OverallRatingB              string          `json:"overall_rating_b"`
	CategoryScores              []CategoryScore `json:"category_scores"`
	Categories                  []Category      `json:"categories"`
	BusinessRecommendations     []string        `json:"business_recommendations"`
	ScientificRecommendations   []string        `json:"scientific_recommendations"`
	HumanitarianRecommendations []string        `json:"humanitarian_recommendations"`
	ConclusionA                 string          `json:"conclusion_a"`
	ConclusionB                 string          `json:"conclusion_b"`
}

// Scorer computes reports. The default implementation is Static.
type Scorer interface {
	Score() Report
}

// Static scores a fixed dataset.
type Static struct {
	Dataset Dataset
}

// NewStatic returns a scorer over DefaultDataset.
func NewStatic() Static { return Static{Dataset: DefaultDataset()} }

func (s Static) Score() Report { return ComputeReport(s.Dataset) }

// ComputeReport averages every category and the whole table. Averages are
// rounded half away from zero.
func ComputeReport(ds Dataset) Report {
	var totalA, totalB, count int
	categoryScores := make([]CategoryScore, 0, len(ds.Categories))
	for _, cat := range ds.Categories {
		var a, b int
		for _, c := range cat.Criteria {
			a += c.ScoreA
			b += c.ScoreB
		}
		n := len(cat.Criteria)
		categoryScores = append(categoryScores, CategoryScore{
			Name:      cat.Name,
			ScorePair: ScorePair{A: average(a, n), B: average(b, n)},
		})
		totalA += a
		totalB += b
		count += n
	}

	overall := ScorePair{A: average(totalA, count), B: average(totalB, count)}
	return Report{
		Overall:                     overall,
		OverallRatingA:              RatingLabel(overall.A),
		OverallRatingB:              RatingLabel(overall.B),
		CategoryScores:              categoryScores,
		Categories:                  cloneCategories(ds.Categories),
		BusinessRecommendations:     append([]string(nil), ds.BusinessRecommendations...),
		ScientificRecommendations:   append([]string(nil), ds.ScientificRecommendations...),
		HumanitarianRecommendations: append([]string(nil), ds.HumanitarianRecommendations...),
		ConclusionA:                 ds.ConclusionA,
		ConclusionB:                 ds.ConclusionB,
	}
}

func average(total, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(n)))
}

func cloneCategories(in []Category) []Category {
	out := make([]Category, len(in))
	for i, c := range in {
		out[i] = Category{Name: c.Name, Criteria: append([]Criterion(nil), c.Criteria...)}
	}
	return out
}

// RatingLabel names the band a score falls in.
func RatingLabel(score int) string {
	switch {
	case score >= 90:
		return "Exceptional"
	case score >= 80:
		return "Excellent"
	case score >= 70:
		return "Very Good"
	case score >= 60:
		return "Good"
	case score >= 50:
		return "Average"
	}
	return "Below Average"
}

// ScoreColor returns the display colour for a score band.
func ScoreColor(score int) string {
	switch {
	case score >= 90:
		return "#22c55e"
	case score >= 80:
		return "#84cc16"
	case score >= 70:
		return "#3b82f6"
	case score >= 60:
		return "#6366f1"
	case score >= 50:
		return "#f59e0b"
	}
	return "#ef4444"
}
