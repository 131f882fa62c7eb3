package upload

import (
	"errors"
	"net/http"
	"path"

	"github.com/indieinfra/pixrelay/server/handler/common"
	"github.com/indieinfra/pixrelay/server/resp"
	"github.com/indieinfra/pixrelay/server/state"
	"github.com/indieinfra/pixrelay/server/util"
	"github.com/indieinfra/pixrelay/storage/blob"
)

// HandleImageUpload accepts a multipart form with a single "image" field and
// stores it under a generated collision-resistant name.
func HandleImageUpload(st *state.RelayState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !util.RequireMultipartContentType(w, r) {
			return
		}

		maxBytes := int64(st.Cfg.Server.Limits.MaxFileSize)
		pm, err := util.ParseMultipart(w, r, maxBytes)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				resp.WritePayloadTooLarge(w, "uploaded file exceeds the size limit")
				return
			}

			resp.WriteInvalidRequest(w, "malformed multipart body")
			return
		}
		defer pm.CloseFiles()

		mf := pm.FileByKey("image")
		if mf == nil {
			resp.WriteInvalidRequest(w, "no file provided in field \"image\"")
			return
		}

		contentType := mf.Header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = util.MimeTypeOf(mf.Header.Filename)
		}

		if !util.IsImageMimeType(contentType) {
			resp.WriteInvalidRequest(w, "only image files are accepted")
			return
		}

		name := blob.NewObjectName(path.Ext(mf.Header.Filename))

		obj, err := st.Store.Put(r.Context(), name, contentType, mf.File, mf.Header.Size)
		if err != nil {
			common.LogAndWriteError(w, r, "store upload", err)
			return
		}

		resp.WriteUploaded(w, "File uploaded successfully", resp.FileInfo{
			Filename:     obj.Name,
			OriginalName: mf.Header.Filename,
			MimeType:     obj.MimeType,
			Size:         obj.Size,
			Url:          obj.Url,
		})
	}
}
