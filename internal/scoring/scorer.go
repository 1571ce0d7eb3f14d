// Package scoring implements the deterministic weighted-rubric fit scorer.
// Absent profile data always maps to a category's floor value, never an
// error: the scorer must be able to rank whatever the resolver produced.
package scoring

import (
	"math"
	"math/rand"
	"strings"
	"sync"

	"sourcing-engine/internal/config"
	"sourcing-engine/internal/domain"
)

// seniority markers counted toward the trajectory category
var seniorityMarkers = []string{"lead", "manager", "head", "principal", "director", "staff"}

// skill keywords mined from free-text descriptions when the query carries no
// explicit requirement list
var knownSkills = []string{
	"python", "javascript", "java", "go", "react", "node.js", "aws", "docker",
	"kubernetes", "machine learning", "deep learning", "llm", "ai",
	"data science", "sql", "postgresql", "mongodb", "backend", "api",
}

type Scorer struct {
	weights   config.Weights
	elite     map[string]bool
	strong    map[string]bool
	top       map[string]bool
	industry  map[string]bool
	jitter    bool
	jitterMag float64

	mu  sync.Mutex
	rng *rand.Rand
}

func New(sc config.ScoringConfig) *Scorer {
	s := &Scorer{
		weights:   sc.Weights,
		elite:     lowerSet(sc.EliteSchools),
		strong:    lowerSet(sc.StrongSchools),
		top:       lowerSet(sc.TopCompanies),
		industry:  lowerSet(sc.IndustryCompanies),
		jitter:    sc.Jitter,
		jitterMag: 0.05,
	}
	if sc.Jitter {
		s.rng = rand.New(rand.NewSource(sc.JitterSeed))
	}
	return s
}

func lowerSet(xs []string) map[string]bool {
	m := make(map[string]bool, len(xs))
	for _, x := range xs {
		m[strings.ToLower(strings.TrimSpace(x))] = true
	}
	return m
}

// Score is a pure function of profile and query (plus the opt-in seeded
// jitter on the aggregate). Every sub-score lies in [0,10]; with weights
// summing to 1.0 the aggregate does too. Confidence discounts 0.15 per
// missing field among education/experience/skills, floored at 0.5.
func (s *Scorer) Score(p domain.CandidateProfile, q domain.JobQuery) domain.ScoreBreakdown {
	cats := map[string]float64{
		domain.CategoryEducation:  s.scoreEducation(p),
		domain.CategoryTrajectory: scoreTrajectory(p),
		domain.CategoryCompany:    s.scoreCompany(p),
		domain.CategorySkills:     scoreSkills(p, q),
		domain.CategoryLocation:   scoreLocation(p, q),
		domain.CategoryTenure:     scoreTenure(p),
	}

	agg := cats[domain.CategoryEducation]*s.weights.Education +
		cats[domain.CategoryTrajectory]*s.weights.Trajectory +
		cats[domain.CategoryCompany]*s.weights.Company +
		cats[domain.CategorySkills]*s.weights.Skills +
		cats[domain.CategoryLocation]*s.weights.Location +
		cats[domain.CategoryTenure]*s.weights.Tenure

	if s.jitter {
		s.mu.Lock()
		agg += (s.rng.Float64()*2 - 1) * s.jitterMag
		s.mu.Unlock()
		agg = math.Max(0, math.Min(10, agg))
	}

	missing := 0
	if len(p.Education) == 0 {
		missing++
	}
	if len(p.Experience) == 0 {
		missing++
	}
	if len(p.Skills) == 0 {
		missing++
	}

	return domain.ScoreBreakdown{
		Categories: cats,
		Aggregate:  round2(agg),
		Confidence: math.Max(0.5, 1.0-0.15*float64(missing)),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Education: best school wins; a second degree entry signals progression and
// lifts the bucket by one.
func (s *Scorer) scoreEducation(p domain.CandidateProfile) float64 {
	if len(p.Education) == 0 {
		return 2
	}
	best := 0.0
	for _, e := range p.Education {
		school := strings.ToLower(strings.TrimSpace(e.School))
		var v float64
		switch {
		case school == "":
			continue
		case s.elite[school]:
			v = 9
		case s.strong[school]:
			v = 7
		default:
			v = 5
		}
		if v > best {
			best = v
		}
	}
	if best == 0 {
		// entries existed but carried no school names
		best = 2
	}
	if len(p.Education) >= 2 && best > 0 {
		best = math.Min(10, best+1)
	}
	return best
}

func scoreTrajectory(p domain.CandidateProfile) float64 {
	switch n := len(p.Experience); {
	case n >= 2:
		markers := 0
		for _, e := range p.Experience {
			title := strings.ToLower(e.Title)
			for _, m := range seniorityMarkers {
				if strings.Contains(title, m) {
					markers++
					break
				}
			}
		}
		if markers >= 2 {
			return 8
		}
		return 6
	case n == 1:
		return 4
	default:
		return 3
	}
}

func (s *Scorer) scoreCompany(p domain.CandidateProfile) float64 {
	employer := strings.ToLower(strings.TrimSpace(p.EmployerOrDefault("")))
	switch {
	case employer == "":
		return 2
	case s.top[employer]:
		return 9
	case s.industry[employer]:
		return 7
	default:
		return 5
	}
}

func scoreSkills(p domain.CandidateProfile, q domain.JobQuery) float64 {
	want := querySkills(q)
	if len(p.Skills) == 0 || len(want) == 0 {
		return 3
	}

	have := map[string]bool{}
	for _, sk := range p.Skills {
		have[strings.ToLower(strings.TrimSpace(sk))] = true
	}
	overlap := 0
	for sk := range want {
		if have[sk] {
			overlap++
		}
	}

	switch {
	case overlap > 0 && overlap == len(want):
		return 10
	case overlap >= 3:
		return 9
	case overlap == 2:
		return 7
	case overlap == 1:
		return 5
	default:
		return 3
	}
}

// querySkills collects requirement entries plus known skill keywords found
// in the description.
func querySkills(q domain.JobQuery) map[string]bool {
	want := map[string]bool{}
	for _, r := range q.Requirements {
		r = strings.ToLower(strings.TrimSpace(r))
		if r != "" && len(r) < 30 {
			want[r] = true
		}
	}
	desc := strings.ToLower(q.Description)
	for _, sk := range knownSkills {
		if strings.Contains(desc, sk) {
			want[sk] = true
		}
	}
	return want
}

func scoreLocation(p domain.CandidateProfile, q domain.JobQuery) float64 {
	qLoc := strings.ToLower(strings.TrimSpace(q.Location))
	pLoc := strings.ToLower(strings.TrimSpace(p.Location))

	if qLoc == "" {
		// no target location: neutral baseline
		return 6
	}
	if pLoc != "" && strings.Contains(pLoc, qLoc) {
		return 10
	}
	if pLoc != "" {
		for _, tok := range strings.FieldsFunc(qLoc, func(r rune) bool { return r == ' ' || r == ',' }) {
			if len(tok) >= 3 && strings.Contains(pLoc, tok) {
				return 7
			}
		}
	}
	if strings.Contains(qLoc, "remote") || strings.Contains(pLoc, "remote") {
		return 6
	}
	return 2
}

// Tenure: average entries per employer as a proxy for years per role.
func scoreTenure(p domain.CandidateProfile) float64 {
	if len(p.Experience) == 0 {
		return 2
	}
	employers := map[string]bool{}
	for _, e := range p.Experience {
		if emp := strings.ToLower(strings.TrimSpace(e.Employer)); emp != "" {
			employers[emp] = true
		}
	}
	if len(employers) == 0 {
		// entries without employer names tell us very little
		return 4
	}
	avg := float64(len(p.Experience)) / float64(len(employers))
	switch {
	case avg >= 2:
		return 9
	case avg > 1:
		return 7
	default:
		return 6
	}
}
