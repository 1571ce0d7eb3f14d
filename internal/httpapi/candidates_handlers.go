package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"sourcing-engine/internal/domain"
	"sourcing-engine/internal/pipeline"
)

type CandidatesHandler struct {
	Batch BatchRunner
}

type batchJob struct {
	JobID        string   `json:"job_id,omitempty"`
	Title        string   `json:"title,omitempty"`
	Company      string   `json:"company,omitempty"`
	Location     string   `json:"location,omitempty"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements,omitempty"`
}

type batchRequest struct {
	Jobs []batchJob `json:"jobs"`
	TopN int        `json:"top_n"`
}

type rankedCandidate struct {
	Name            string             `json:"name"`
	Locator         string             `json:"locator"`
	FitScore        float64            `json:"fit_score"`
	ScoreBreakdown  map[string]float64 `json:"score_breakdown"`
	Confidence      float64            `json:"confidence"`
	OutreachMessage string             `json:"outreach_message"`
	GitHubURL       string             `json:"github_url,omitempty"`
	TwitterURL      string             `json:"twitter_url,omitempty"`
}

type jobResult struct {
	JobID           string            `json:"job_id"`
	CandidatesFound int               `json:"candidates_found"`
	TopCandidates   []rankedCandidate `json:"top_candidates"`
}

type batchResponse struct {
	Results []jobResult `json:"results"`
}

func (h CandidatesHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid JSON: "+err.Error(), "")
		return
	}
	if len(req.Jobs) == 0 {
		WriteError(w, r, http.StatusBadRequest, "jobs is required", "")
		return
	}
	for _, j := range req.Jobs {
		if strings.TrimSpace(j.Description) == "" && strings.TrimSpace(j.Title) == "" {
			WriteError(w, r, http.StatusBadRequest, "every job needs a title or description", "")
			return
		}
	}

	specs := make([]pipeline.JobSpec, len(req.Jobs))
	for i, j := range req.Jobs {
		specs[i] = pipeline.JobSpec{
			JobID: j.JobID,
			TopN:  req.TopN,
			Query: domain.JobQuery{
				Title:        j.Title,
				Company:      j.Company,
				Location:     j.Location,
				Description:  j.Description,
				Requirements: j.Requirements,
			},
		}
	}

	results := h.Batch.RunBatch(r.Context(), RequestIDFrom(r.Context()), specs)

	resp := batchResponse{Results: make([]jobResult, len(results))}
	for i, res := range results {
		out := jobResult{
			JobID:           res.JobID,
			CandidatesFound: res.CandidatesFound,
			TopCandidates:   make([]rankedCandidate, 0, len(res.TopCandidates)),
		}
		for _, c := range res.TopCandidates {
			out.TopCandidates = append(out.TopCandidates, rankedCandidate{
				Name:            c.Profile.DisplayName(),
				Locator:         c.Profile.Locator,
				FitScore:        c.Score.Aggregate,
				ScoreBreakdown:  c.Score.Categories,
				Confidence:      c.Score.Confidence,
				OutreachMessage: c.Message,
				GitHubURL:       c.Profile.GitHubURL,
				TwitterURL:      c.Profile.TwitterURL,
			})
		}
		resp.Results[i] = out
	}
	WriteJSON(w, http.StatusOK, resp)
}
