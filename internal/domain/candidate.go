package domain

import "strings"

// JobQuery is the immutable input to one discovery run. Only Description is
// required; the structured fields sharpen search and scoring when present.
type JobQuery struct {
	Title        string   `json:"title,omitempty"`
	Company      string   `json:"company,omitempty"`
	Location     string   `json:"location,omitempty"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements,omitempty"`
}

// SearchText builds the free-text query handed to the source adapters:
// title, location, then the first few requirements. Falls back to the raw
// description when nothing structured is set.
func (q JobQuery) SearchText() string {
	var parts []string
	if q.Title != "" {
		parts = append(parts, q.Title)
	}
	if q.Location != "" {
		parts = append(parts, q.Location)
	}
	for i, r := range q.Requirements {
		if i >= 3 {
			break
		}
		parts = append(parts, r)
	}
	if len(parts) == 0 {
		return strings.TrimSpace(q.Description)
	}
	return strings.Join(parts, " ")
}

// CandidateStub is the minimal record a source adapter produces. Locator is
// the profile URL and the dedup key: two stubs with the same locator are the
// same candidate.
type CandidateStub struct {
	Locator  string `json:"locator"`
	Name     string `json:"name,omitempty"`
	Headline string `json:"headline,omitempty"`
	Source   string `json:"source,omitempty"`
}

type Education struct {
	School string `json:"school"`
	Degree string `json:"degree,omitempty"`
}

type Experience struct {
	Title    string `json:"title"`
	Employer string `json:"employer,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// CandidateProfile is a resolved candidate. Every field except Locator is
// optional; a profile whose page could not be fetched or parsed is still a
// valid profile with zero values everywhere.
type CandidateProfile struct {
	Locator         string       `json:"locator"`
	Name            string       `json:"name,omitempty"`
	Headline        string       `json:"headline,omitempty"`
	CurrentEmployer string       `json:"current_employer,omitempty"`
	Location        string       `json:"location,omitempty"`
	Education       []Education  `json:"education,omitempty"`
	Experience      []Experience `json:"experience,omitempty"`
	Skills          []string     `json:"skills,omitempty"`
	GitHubURL       string       `json:"github_url,omitempty"`
	TwitterURL      string       `json:"twitter_url,omitempty"`
	Website         string       `json:"website,omitempty"`
}

// DisplayName returns the name or a neutral salutation for outreach.
func (p CandidateProfile) DisplayName() string {
	if n := strings.TrimSpace(p.Name); n != "" {
		return n
	}
	return "there"
}

// EmployerOrDefault returns the current employer, falling back to the first
// experience entry's employer, then to the given default.
func (p CandidateProfile) EmployerOrDefault(def string) string {
	if p.CurrentEmployer != "" {
		return p.CurrentEmployer
	}
	for _, e := range p.Experience {
		if e.Employer != "" {
			return e.Employer
		}
	}
	return def
}

// TopSkill returns the first listed skill, or the headline as a weak proxy.
func (p CandidateProfile) TopSkill() string {
	if len(p.Skills) > 0 {
		return p.Skills[0]
	}
	return p.Headline
}

// FirstSchool returns the first listed school, if any.
func (p CandidateProfile) FirstSchool() string {
	if len(p.Education) > 0 {
		return p.Education[0].School
	}
	return ""
}
