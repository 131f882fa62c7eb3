package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/indieinfra/pixrelay/server/handler/common"
	"github.com/indieinfra/pixrelay/server/resp"
	"github.com/indieinfra/pixrelay/server/state"
	"github.com/indieinfra/pixrelay/server/util"
	"github.com/indieinfra/pixrelay/storage/blob"
)

type base64Request struct {
	Image    string `json:"image"`
	Filename string `json:"filename"`
}

// HandleBase64Upload accepts a JSON body carrying a base64 data URL and
// stores the decoded bytes. This is the path mobile clients fall back to when
// their multipart stack misbehaves, and the target of migration re-uploads.
func HandleBase64Upload(st *state.RelayState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !util.RequireJsonContentType(w, r) {
			return
		}

		// Base64 inflates payloads by 4/3, plus JSON envelope slack.
		maxBytes := int64(st.Cfg.Server.Limits.MaxFileSize)
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes*4/3+4096)

		var req base64Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			resp.WriteInvalidRequest(w, "malformed json body")
			return
		}

		if req.Image == "" {
			resp.WriteInvalidRequest(w, "missing image data")
			return
		}

		mimeType, data, err := util.ParseDataURL(req.Image)
		if err != nil {
			resp.WriteInvalidRequest(w, "invalid base64 image data")
			return
		}

		if !util.IsImageMimeType(mimeType) {
			resp.WriteInvalidRequest(w, "only image files are accepted")
			return
		}

		if int64(len(data)) > maxBytes {
			resp.WritePayloadTooLarge(w, "uploaded file exceeds the size limit")
			return
		}

		name := base64ObjectName(req.Filename, mimeType)

		obj, err := st.Store.Put(r.Context(), name, mimeType, bytes.NewReader(data), int64(len(data)))
		if err != nil {
			common.LogAndWriteError(w, r, "store base64 upload", err)
			return
		}

		originalName := req.Filename
		if originalName == "" {
			originalName = obj.Name
		}

		resp.WriteUploaded(w, "File uploaded successfully", resp.FileInfo{
			Filename:     obj.Name,
			OriginalName: originalName,
			MimeType:     obj.MimeType,
			Size:         obj.Size,
			Url:          obj.Url,
		})
	}
}

// base64ObjectName keeps the caller-supplied base name recognizable while a
// random suffix rules out collisions between repeated uploads of the same file.
func base64ObjectName(filename string, mimeType string) string {
	ext := util.ExtensionFor(mimeType)
	if filename == "" {
		return blob.NewObjectName(ext)
	}

	safe := util.SafeFilename(filename)
	base := strings.TrimSuffix(safe, path.Ext(safe))

	return fmt.Sprintf("%s-%s%s", base, uuid.New().String()[:8], ext)
}
