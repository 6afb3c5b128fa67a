package http

import (
	"net/http"
	"time"

	"github.com/pointdesk/pointdesk/pkg/authsdk"
	"github.com/pointdesk/pointdesk/pkg/httpx"
)

// LivezHandler is the liveness probe. Always 200 while the process serves.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := authsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		}
		httpx.WriteJSON(w, http.StatusOK, response)
	}
}
