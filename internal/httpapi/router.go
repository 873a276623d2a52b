package httpapi

import "net/http"

// NewMux serves the scheduler's health, status and run history.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{}.Health,
	}))

	rh := RunsHandler{Status: d.Status, HistoryPath: d.HistoryPath, Lock: d.Lock, Run: d.Run}
	mux.HandleFunc("/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.CurrentStatus,
	}))
	mux.HandleFunc("/runs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.List,
	}))
	mux.HandleFunc("/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: rh.Start,
	}))

	return mux
}

func NewHandler(d Deps) http.Handler {
	return instrument(NewMux(d))
}
