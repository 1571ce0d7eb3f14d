package httpapi

import (
	"encoding/json"
	"net/http"

	"sourcing-engine/internal/secrets"
)

type SecretsHandler struct{}

type setSecretReq struct {
	Account string `json:"account"`
	Value   string `json:"value"`
}

var knownAccounts = map[string]bool{
	secrets.AccountPeopleAPI: true,
	secrets.AccountSerpAPI:   true,
	secrets.AccountGemini:    true,
}

// Set stores an adapter credential in the OS keychain. Credentials take
// effect for new adapter clients on the next restart.
func (h SecretsHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req setSecretReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid JSON", "")
		return
	}
	if !knownAccounts[req.Account] {
		WriteError(w, r, http.StatusBadRequest, "unknown account: "+req.Account, "")
		return
	}
	if err := secrets.Set(req.Account, req.Value); err != nil {
		WriteError(w, r, http.StatusBadRequest, "failed to store credential: "+err.Error(), "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
