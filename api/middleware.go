package api

import (
	"log"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/felixge/httpsnoop"
)

// withAccessLog wraps the mux with one access-log line per request.
// Streaming endpoints flow through httpsnoop's wrapped writer untouched, so
// Flush and Hijack keep working.
func withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		log.Printf("%s %s %d %s %s",
			r.Method,
			r.URL.Path,
			m.Code,
			humanize.IBytes(uint64(m.Written)),
			m.Duration.Round(time.Microsecond),
		)
	})
}
