package common

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/indieinfra/pixrelay/server/resp"
	"github.com/indieinfra/pixrelay/server/util"
	"github.com/indieinfra/pixrelay/storage/blob"
)

// LogAndWriteError logs an error with request context and maps known conditions to client responses.
func LogAndWriteError(w http.ResponseWriter, r *http.Request, op string, err error) {
	rl := util.FromContext(r.Context())
	if rl == nil {
		rl = util.WithRequest(log.Default(), r)
	}
	rl.Errorf("%s failed: %v", op, err)

	// Map known errors to user-friendly responses.
	switch {
	case errors.Is(err, blob.ErrNotFound):
		resp.WriteNotFound(w, "not found")
	default:
		resp.WriteInternalServerError(w, fmt.Sprintf("%s failed", op))
	}
}
