package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"sourcing-engine/internal/pipeline"
)

type ProfileHandler struct {
	Resolver pipeline.ProfileResolver
}

// Resolve accepts the locator as a query parameter (GET) or a JSON body
// (POST). An empty locator is the one unresolvable input and gets a 400;
// everything else degrades to a locator-only profile.
func (h ProfileHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var locator string
	switch r.Method {
	case http.MethodGet:
		locator = r.URL.Query().Get("locator")
	case http.MethodPost:
		var req struct {
			Locator string `json:"locator"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid JSON: "+err.Error(), "")
			return
		}
		locator = req.Locator
	}

	locator = strings.TrimSpace(locator)
	if locator == "" {
		WriteError(w, r, http.StatusBadRequest, "locator is required", "")
		return
	}

	WriteJSON(w, http.StatusOK, h.Resolver.Resolve(r.Context(), locator))
}
