package resp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteUploaded(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteUploaded(rr, "File uploaded successfully", FileInfo{
		Filename:     "1700000000000-42.png",
		OriginalName: "pic.png",
		MimeType:     "image/png",
		Size:         123,
		Url:          "http://192.168.1.10:4000/uploads/1700000000000-42.png",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content type, got %q", ct)
	}

	var out UploadResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if !out.Success || out.File.Filename != "1700000000000-42.png" || out.File.Size != 123 {
		t.Fatalf("unexpected response %+v", out)
	}
}

func TestWriteInvalidRequest(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteInvalidRequest(rr, "only image files are accepted")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var out ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if out.Error != "invalid_request" || out.Description == "" {
		t.Fatalf("unexpected error response %+v", out)
	}
}

func TestWriteNotFound(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteNotFound(rr, "no such file")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestWritePayloadTooLarge(t *testing.T) {
	rr := httptest.NewRecorder()

	WritePayloadTooLarge(rr, "uploaded file exceeds the size limit")

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
}

func TestWriteUnsupportedMediaType(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteUnsupportedMediaType(rr, "Content-Type must be specified")

	if rr.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rr.Code)
	}
}

func TestWriteOK(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteOK(rr, map[string]string{"status": "ok"})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var out map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if out["status"] != "ok" {
		t.Fatalf("unexpected body %v", out)
	}
}
