package httpapi

import (
	"encoding/json"
	"net/http"
)

// problem is the body of every non-2xx reply, e.g.
// {"error":"already_running","detail":"...","request_id":"..."}.
type problem struct {
	Error     string `json:"error"`
	Detail    string `json:"detail"`
	RequestID string `json:"request_id,omitempty"`
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func fail(w http.ResponseWriter, r *http.Request, status int, code, detail string) {
	respond(w, status, problem{Error: code, Detail: detail, RequestID: requestID(r.Context())})
}
