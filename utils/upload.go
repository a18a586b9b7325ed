package utils

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	uploadDir = "./uploads"
	baseURL   = "http://localhost:8080"
)

// ConfigureUploads sets the storage root and the public base URL used when
// building file URLs. Called once at startup.
func ConfigureUploads(dir, publicBaseURL string) {
	if dir != "" {
		uploadDir = dir
	}
	if publicBaseURL != "" {
		baseURL = strings.TrimSuffix(publicBaseURL, "/")
	}
}

// SaveUploadedFile stores a multipart file under uploads/<category>/<id>/
// with a uuid-prefixed name and returns its public URL path.
func SaveUploadedFile(c *gin.Context, file *multipart.FileHeader, category string, ownerID uint) (string, error) {
	dir := filepath.Join(uploadDir, category, fmt.Sprint(ownerID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.New().String() + "_" + filepath.Base(file.Filename)
	dst := filepath.Join(dir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return fmt.Sprintf("%s/uploads/%s/%d/%s", baseURL, category, ownerID, name), nil
}

// UploadRoot returns the configured storage root for static serving.
func UploadRoot() string { return uploadDir }
