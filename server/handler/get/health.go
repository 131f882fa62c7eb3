package get

import (
	"net/http"
	"time"

	"github.com/indieinfra/pixrelay/server/resp"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// HandleHealth answers liveness probes. It checks no dependencies: clients
// use it only to decide whether the relay is reachable at all.
func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.WriteOK(w, HealthResponse{
			Status:    "ok",
			Message:   "upload server is running",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}
