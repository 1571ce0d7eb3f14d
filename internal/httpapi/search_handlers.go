package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"sourcing-engine/internal/domain"
	"sourcing-engine/internal/pipeline"
)

type SearchHandler struct {
	Discoverer pipeline.Discoverer
}

type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResponse struct {
	Results []domain.CandidateStub `json:"results"`
}

func (h SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid JSON: "+err.Error(), "")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		WriteError(w, r, http.StatusBadRequest, "query is required", "")
		return
	}
	if req.MaxResults <= 0 {
		req.MaxResults = 10
	}

	stubs := h.Discoverer.Discover(r.Context(), req.Query, req.MaxResults)
	if stubs == nil {
		stubs = []domain.CandidateStub{}
	}
	WriteJSON(w, http.StatusOK, searchResponse{Results: stubs})
}
