package handlers

import (
	"io"

	"github.com/gofiber/fiber/v3"
	"github.com/ratiolens/ratiolens-api/internal/utils"
)

const (
	// PresignedURLExpiryMinutes is the expiry time for presigned URLs in minutes
	PresignedURLExpiryMinutes = 15
	// PresignedURLExpirySeconds is the expiry time for presigned URLs in seconds
	PresignedURLExpirySeconds = PresignedURLExpiryMinutes * 60
)

// AllowedContentTypes defines the content types that are allowed for upload
var AllowedContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// StorageService interface defines methods for S3 operations
type StorageService interface {
	GenerateUploadKey(filename string) (string, error)
	GeneratePresignedURL(key, contentType string, expiryMinutes int) (string, error)
	DownloadFile(key string) (io.ReadCloser, error)
}

// UploadHandler handles the two-step S3 upload flow: hand out a
// presigned PUT URL, then analyze the stored object on request.
type UploadHandler struct {
	storage  StorageService
	analyzer *AnalyzeHandler
}

// NewUploadHandler creates an upload handler.
func NewUploadHandler(storage StorageService, analyzer *AnalyzeHandler) *UploadHandler {
	return &UploadHandler{
		storage:  storage,
		analyzer: analyzer,
	}
}

// GetPresignedURL generates a presigned URL for file upload
// Query params: filename (required), content_type (required)
// Returns: upload_url, file_key, expires_in
func (h *UploadHandler) GetPresignedURL(c fiber.Ctx) error {
	filename := c.Query("filename")
	contentType := c.Query("content_type")

	if filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "filename is required",
		})
	}
	if contentType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "content_type is required",
		})
	}
	if !AllowedContentTypes[contentType] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unsupported file type",
		})
	}

	key, err := h.storage.GenerateUploadKey(filename)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "failed to generate upload key",
			"details": err.Error(),
		})
	}

	url, err := h.storage.GeneratePresignedURL(key, contentType, PresignedURLExpiryMinutes)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "failed to generate presigned URL",
			"details": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"upload_url": url,
		"file_key":   key,
		"expires_in": PresignedURLExpirySeconds,
	})
}

// ProcessUploadRequest represents the request body for ProcessUpload
type ProcessUploadRequest struct {
	FileKey string `json:"file_key"`
}

// ProcessUpload analyzes a previously uploaded trial balance.
// POST /v1/upload/process
// Body: {"file_key": "trial-balances/1699564800-uuid-tb.csv"}
func (h *UploadHandler) ProcessUpload(c fiber.Ctx) error {
	var req ProcessUploadRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.FileKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file_key is required",
		})
	}

	reader, err := h.storage.DownloadFile(req.FileKey)
	if err != nil {
		return utils.NewNotFoundError("file")
	}
	defer reader.Close()

	resp, err := h.analyzer.analyze(reader, baseName(req.FileKey))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"file_key": req.FileKey,
		"analysis": resp,
		"status":   "success",
	})
}

// baseName trims the key prefix without touching the stored filename.
func baseName(key string) string {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == '/' {
			return key[i+1:]
		}
	}
	return key
}
