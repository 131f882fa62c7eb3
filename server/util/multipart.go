package util

import (
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"slices"

	"github.com/indieinfra/pixrelay/server/resp"
)

type MultipartFile struct {
	Field  string
	File   multipart.File
	Header *multipart.FileHeader
}

type ParsedMultipart struct {
	Files []MultipartFile
}

func (pm *ParsedMultipart) CloseFiles() {
	for _, mf := range pm.Files {
		if mf.File != nil {
			mf.File.Close()
		}
	}
}

func (pm *ParsedMultipart) FileByKey(key string) *MultipartFile {
	for i := range pm.Files {
		if pm.Files[i].Field == key {
			return &pm.Files[i]
		}
	}

	return nil
}

// ParseMultipart parses a multipart form request with the request body capped
// at maxBytes. Oversize requests fail during parsing rather than after the
// whole body has been buffered.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) (*ParsedMultipart, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, err
	}

	var files []MultipartFile
	for key, fhs := range r.MultipartForm.File {
		for _, fh := range fhs {
			f, err := fh.Open()
			if err != nil {
				continue
			}

			files = append(files, MultipartFile{Field: key, File: f, Header: fh})
		}
	}

	return &ParsedMultipart{Files: files}, nil
}

// RequireMultipartContentType rejects requests whose Content-Type is not
// multipart/form-data, writing the error response itself.
func RequireMultipartContentType(w http.ResponseWriter, r *http.Request) bool {
	return requireContentType(w, r, []string{"multipart/form-data"})
}

// RequireJsonContentType rejects requests whose Content-Type is not
// application/json, writing the error response itself.
func RequireJsonContentType(w http.ResponseWriter, r *http.Request) bool {
	return requireContentType(w, r, []string{"application/json"})
}

func requireContentType(w http.ResponseWriter, r *http.Request, valid []string) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		resp.WriteUnsupportedMediaType(w, "Content-Type must be specified")
		return false
	}

	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		resp.WriteUnsupportedMediaType(w, fmt.Errorf("invalid Content-Type: %w", err).Error())
		return false
	}

	if !slices.Contains(valid, mediaType) {
		resp.WriteUnsupportedMediaType(w, fmt.Sprintf("invalid Content-Type: only %v allowed", valid))
		return false
	}

	return true
}
