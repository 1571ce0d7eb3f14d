package httpapi

import "net/http"

// NewMux wires the handlers; middleware is attached by the caller.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	sh := SearchHandler{Discoverer: d.Discoverer}
	mux.HandleFunc("/search", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.Search,
	}))

	ph := ProfileHandler{Resolver: d.Resolver}
	mux.HandleFunc("/profile", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  ph.Resolve,
		http.MethodPost: ph.Resolve,
	}))

	bh := CandidatesHandler{Batch: d.Batch}
	mux.HandleFunc("/candidates", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: bh.Run,
	}))

	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))

	mux.HandleFunc("/api/secrets", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: SecretsHandler{}.Set,
	}))

	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{}.Health,
	}))

	return mux
}
