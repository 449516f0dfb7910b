package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/harshptk02/storefront-api/utils"
)

// UploadController handles image uploads (Admin only)
type UploadController struct {
	Dir string
}

// NewUploadController creates the upload directory if needed
func NewUploadController(dir string) (*UploadController, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &UploadController{Dir: dir}, nil
}

// Upload accepts a single multipart image (max 10MB) and returns its URL
func (uc *UploadController) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}

	file, handler, err := r.FormFile("image")
	if err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("%s%s", uuid.NewString(), filepath.Ext(handler.Filename))
	dst, err := os.Create(filepath.Join(uc.Dir, filename))
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		utils.RespondError(w, err)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"url": fmt.Sprintf("%s://%s/uploads/%s", scheme, r.Host, filename),
	})
}
