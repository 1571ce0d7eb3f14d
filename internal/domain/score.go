package domain

// Rubric category names. Fixed: the scorer always emits all six.
const (
	CategoryEducation  = "education"
	CategoryTrajectory = "trajectory"
	CategoryCompany    = "company"
	CategorySkills     = "skills"
	CategoryLocation   = "location"
	CategoryTenure     = "tenure"
)

// Categories lists the rubric categories in reporting order.
var Categories = []string{
	CategoryEducation,
	CategoryTrajectory,
	CategoryCompany,
	CategorySkills,
	CategoryLocation,
	CategoryTenure,
}

// ScoreBreakdown is the scorer's output: one 0-10 sub-score per category, a
// weighted aggregate (weights sum to 1.0, so also 0-10) and a confidence in
// [0.5, 1.0] discounting for missing profile data. Never mutated after
// creation; recomputable from the same profile and query.
type ScoreBreakdown struct {
	Categories map[string]float64 `json:"categories"`
	Aggregate  float64            `json:"aggregate"`
	Confidence float64            `json:"confidence"`
}
