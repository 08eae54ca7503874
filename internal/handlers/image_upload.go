package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"placeshare/internal/httperr"
)

const maxImageSize = 5 << 20

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// maybeSaveImage stores the optional "image" part of a multipart request
// under uploadDir and returns the stored relative path. JSON requests and
// multipart requests without an image part return ("", nil). The stored path
// is recorded on the context so the error formatter can delete the file if
// the request fails later.
func maybeSaveImage(c *gin.Context, uploadDir string) (string, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return "", nil
	}

	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || strings.Contains(err.Error(), "no such file") {
			return "", nil
		}
		return "", httperr.Validation("Invalid image upload")
	}

	relPath, err := saveImage(file, uploadDir)
	if err != nil {
		return "", err
	}

	c.Set(httperr.UploadedFileKey, relPath)
	return relPath, nil
}

func saveImage(file *multipart.FileHeader, uploadDir string) (string, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedImageExtensions[extension]; !ok {
		return "", httperr.Validation(fmt.Sprintf("unsupported image type: %s", extension))
	}
	if file.Size > maxImageSize {
		return "", httperr.Validation("image file too large (max 5MB)")
	}

	filename := uuid.NewString() + extension

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Printf("[UPLOAD] saveImage: failed to create directory %s: %v", uploadDir, err)
		return "", httperr.Internal("Could not store uploaded image")
	}

	fullPath := filepath.Join(uploadDir, filename)

	out, err := os.Create(fullPath)
	if err != nil {
		log.Printf("[UPLOAD] saveImage: failed to create file %s: %v", fullPath, err)
		return "", httperr.Internal("Could not store uploaded image")
	}
	defer out.Close()

	in, err := file.Open()
	if err != nil {
		log.Printf("[UPLOAD] saveImage: failed to open upload %s: %v", file.Filename, err)
		return "", httperr.Internal("Could not store uploaded image")
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		log.Printf("[UPLOAD] saveImage: failed to save file %s: %v", fullPath, err)
		return "", httperr.Internal("Could not store uploaded image")
	}

	return filepath.ToSlash(filepath.Join(uploadDir, filename)), nil
}
