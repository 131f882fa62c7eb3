package get

import (
	"errors"
	"io"
	"net/http"

	"github.com/indieinfra/pixrelay/server/handler/common"
	"github.com/indieinfra/pixrelay/server/resp"
	"github.com/indieinfra/pixrelay/server/state"
	"github.com/indieinfra/pixrelay/server/util"
	"github.com/indieinfra/pixrelay/storage/blob"
)

// HandleServeFile streams a previously stored file back to the client with a
// content type derived from its extension.
func HandleServeFile(st *state.RelayState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("filename")

		rc, err := st.Store.Open(r.Context(), name)
		if err != nil {
			if errors.Is(err, blob.ErrNotFound) {
				resp.WriteNotFound(w, "no such file")
				return
			}

			common.LogAndWriteError(w, r, "serve file", err)
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", util.MimeTypeOf(name))
		_, _ = io.Copy(w, rc)
	}
}
