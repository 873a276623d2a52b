package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
)

type ctxKey struct{}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// recorder remembers the reply status for the access log.
type recorder struct {
	http.ResponseWriter
	status int
}

func (rw *recorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// instrument tags each request with an id (X-Request-ID, generated when absent),
// turns handler panics into a 500 and logs one line per request.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if id == "" {
			var b [8]byte
			_, _ = rand.Read(b[:])
			id = hex.EncodeToString(b[:])
		}
		w.Header().Set("X-Request-ID", id)
		r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, id))

		start := time.Now()
		rw := &recorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if p := recover(); p != nil {
				log.Printf("[ERROR] [httpapi] panic request_id=%s %s %s: %v", id, r.Method, r.URL.Path, p)
				fail(rw, r, http.StatusInternalServerError, "internal_error", "internal server error")
			}
			log.Printf("[DEBUG] [httpapi] request_id=%s %s %s status=%d dur=%s",
				id, r.Method, r.URL.Path, rw.status, time.Since(start).Truncate(time.Millisecond))
		}()
		next.ServeHTTP(rw, r)
	})
}
