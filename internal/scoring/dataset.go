package scoring

// DefaultDataset returns the fixed evaluation table. Scores do not depend on
// the documents being compared.
func DefaultDataset() Dataset {
	return Dataset{
		Categories: []Category{
			{
				Name: "Scientific Impact",
				Criteria: []Criterion{
					{ID: "novelty", Name: "Scientific Novelty", DescriptionA: "Highly novel quantum-enhanced graph structures", DescriptionB: "Incremental improvements to existing neural architectures", ScoreA: 92, ScoreB: 68},
					{ID: "advancement", Name: "Field Advancement", DescriptionA: "Potential paradigm shift in AI reasoning capabilities", DescriptionB: "Significant but expected progress along established research lines", ScoreA: 88, ScoreB: 72},
					{ID: "foundation", Name: "Foundational Science", DescriptionA: "New theoretical framework for AI consciousness", DescriptionB: "Enhanced mathematical model for existing approaches", ScoreA: 95, ScoreB: 64},
					{ID: "verification", Name: "Empirical Verification", DescriptionA: "Strong theoretical basis with early empirical validation", DescriptionB: "Extensive empirical results on established benchmarks", ScoreA: 78, ScoreB: 86},
				},
			},
			{
				Name: "Business Value",
				Criteria: []Criterion{
					{ID: "roi", Name: "Return on Investment", DescriptionA: "High potential return but longer time horizon (3-5 years)", DescriptionB: "Moderate but immediate returns (6-18 months)", ScoreA: 76, ScoreB: 89},
					{ID: "competitive", Name: "Competitive Advantage", DescriptionA: "Potentially disruptive with 2-3 year market exclusivity", DescriptionB: "Incremental advantage with immediate market differentiation", ScoreA: 94, ScoreB: 71},
					{ID: "operational", Name: "Operational Efficiency", DescriptionA: "Transformative efficiency gains requiring significant process changes", DescriptionB: "Moderate efficiency improvements with minimal process disruption", ScoreA: 82, ScoreB: 87},
					{ID: "marketability", Name: "Commercial Marketability", DescriptionA: "Challenging to communicate value proposition to mainstream market", DescriptionB: "Readily understandable value proposition with established market demand", ScoreA: 65, ScoreB: 92},
					{ID: "implementation", Name: "Implementation Cost", DescriptionA: "High initial investment with significant integration requirements", DescriptionB: "Moderate investment with straightforward integration path", ScoreA: 58, ScoreB: 86},
					{ID: "scalability", Name: "Business Scalability", DescriptionA: "Exponential value scaling once threshold adoption is achieved", DescriptionB: "Linear value scaling with predictable growth model", ScoreA: 91, ScoreB: 74},
				},
			},
			{
				Name: "Humanitarian Value",
				Criteria: []Criterion{
					{ID: "accessibility", Name: "Global Accessibility", DescriptionA: "Requires specialized quantum hardware limited to developed nations", DescriptionB: "Can run on widely available computational resources", ScoreA: 45, ScoreB: 92},
					{ID: "equity", Name: "Equitable Benefits", DescriptionA: "Potential for broad societal benefits but initial access barriers", DescriptionB: "Immediate benefits with more equitable distribution", ScoreA: 62, ScoreB: 84},
					{ID: "problems", Name: "Critical Problem Solving", DescriptionA: "Could address previously unsolvable complex systems challenges", DescriptionB: "Incremental improvements to existing problem-solving capabilities", ScoreA: 96, ScoreB: 70},
					{ID: "risk", Name: "Safety & Risk Mitigation", DescriptionA: "Novel architectural safeguards against emergent risks", DescriptionB: "Well-understood risk profile with established mitigations", ScoreA: 87, ScoreB: 81},
				},
			},
			{
				Name: "Technical Viability",
				Criteria: []Criterion{
					{ID: "feasibility", Name: "Implementation Feasibility", DescriptionA: "Challenging implementation requiring significant new infrastructure", DescriptionB: "Readily implementable with existing technology stack", ScoreA: 54, ScoreB: 94},
					{ID: "tech-scalability", Name: "Technical Scalability", DescriptionA: "Theoretical scalability advantages but unproven at scale", DescriptionB: "Demonstrated scalability with predictable resource requirements", ScoreA: 72, ScoreB: 88},
					{ID: "integration", Name: "Ecosystem Integration", DescriptionA: "Requires fundamental shifts in integration approaches", DescriptionB: "Compatible with existing AI/ML ecosystems", ScoreA: 58, ScoreB: 96},
					{ID: "validation", Name: "Validation Methodology", DescriptionA: "Novel validation approaches with strong theoretical basis", DescriptionB: "Well-established validation methodology with broad acceptance", ScoreA: 82, ScoreB: 90},
				},
			},
		},
		BusinessRecommendations: []string{
			"Technology A offers significant long-term competitive advantage and market disruption potential",
			"Technology B provides faster time-to-market and immediate ROI on existing infrastructure",
			"For organizations with strong financial positions, Technology A represents a strategic investment in future market leadership",
			"For organizations requiring immediate returns, Technology B offers a safer path with predictable outcomes",
			"Consider a phased approach: implement Technology B for immediate gains while investing in Technology A R&D",
		},
		ScientificRecommendations: []string{
			"Technology A shows exceptional promise for advancing fundamental AI science with breakthrough approaches",
			"Technology B offers reliable advancement along established scientific directions",
			"Consider collaborative research combining A's theoretical innovations with B's empirical validation methods",
			"Prioritize additional research to validate A's theoretical advantages in practical applications",
		},
		HumanitarianRecommendations: []string{
			"Technology B can address immediate humanitarian needs with wider accessibility",
			"Technology A has potential for solving previously intractable humanitarian challenges in the longer term",
			"Develop transition strategies to make Technology A's benefits more widely accessible over time",
			"Establish partnerships to mitigate implementation barriers for Technology A in developing regions",
		},
		ConclusionA: "Revolutionary potential with significant market disruption and scientific advancement, requiring substantial investment and longer time horizon",
		ConclusionB: "Evolutionary advancement with immediate practical benefits, faster ROI, and broader accessibility",
	}
}
