package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"placeshare/internal/httperr"
)

func multipartContext(t *testing.T, filename string, content []byte) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile("image", filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatal(err)
		}
	} else {
		_ = writer.WriteField("title", "T")
	}
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/api/places", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestMaybeSaveImageStoresUploadAndRecordsPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads", "images")
	c := multipartContext(t, "photo.png", []byte("png-bytes"))

	relPath, err := maybeSaveImage(c, dir)
	if err != nil {
		t.Fatalf("maybeSaveImage returned error: %v", err)
	}
	if !strings.HasSuffix(relPath, ".png") {
		t.Fatalf("expected stored .png path, got %q", relPath)
	}

	stored := filepath.FromSlash(relPath)
	if _, err := os.Stat(stored); err != nil {
		t.Fatalf("expected stored file at %s: %v", stored, err)
	}

	recorded, ok := c.Get(httperr.UploadedFileKey)
	if !ok || recorded.(string) != relPath {
		t.Fatalf("expected uploaded path recorded on context, got %v", recorded)
	}
}

func TestMaybeSaveImageSkipsMultipartWithoutImage(t *testing.T) {
	c := multipartContext(t, "", nil)

	relPath, err := maybeSaveImage(c, t.TempDir())
	if err != nil {
		t.Fatalf("maybeSaveImage returned error: %v", err)
	}
	if relPath != "" {
		t.Fatalf("expected empty path, got %q", relPath)
	}
}

func TestMaybeSaveImageSkipsJSONRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	req := httptest.NewRequest("POST", "/api/places", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	relPath, err := maybeSaveImage(c, t.TempDir())
	if err != nil {
		t.Fatalf("maybeSaveImage returned error: %v", err)
	}
	if relPath != "" {
		t.Fatalf("expected empty path, got %q", relPath)
	}
}

func TestMaybeSaveImageRejectsUnsupportedExtension(t *testing.T) {
	c := multipartContext(t, "notes.txt", []byte("text"))

	_, err := maybeSaveImage(c, t.TempDir())
	httpErr, ok := httperr.From(err)
	if !ok || httpErr.Kind != httperr.KindValidation {
		t.Fatalf("expected Validation error, got %v", err)
	}
}
