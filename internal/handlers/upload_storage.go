package handlers

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// RemoveUpload deletes a stored upload by its relative path. Used by place
// deletion and by the error formatter to clean up files left by failed
// requests.
func RemoveUpload(relPath string) error {
	return safeDeleteUpload(".", relPath)
}

func safeDeleteUpload(root, relPath string) error {
	trimmed := strings.TrimSpace(relPath)
	if trimmed == "" {
		return nil
	}

	cleanRel := path.Clean("/" + strings.TrimPrefix(trimmed, "/"))
	cleanRel = strings.TrimPrefix(cleanRel, "/")

	if !strings.HasPrefix(cleanRel, "uploads/") {
		return fmt.Errorf("refusing to delete non-upload path: %s", relPath)
	}

	cleanBase := filepath.Clean(root)
	cleanTarget := filepath.Join(cleanBase, filepath.FromSlash(cleanRel))
	rel, err := filepath.Rel(cleanBase, cleanTarget)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete path outside upload root: %s", relPath)
	}

	if err := os.Remove(cleanTarget); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return nil
}
