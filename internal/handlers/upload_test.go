package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/ratiolens/ratiolens-api/internal/chart"
	"github.com/ratiolens/ratiolens-api/internal/services"
	"github.com/ratiolens/ratiolens-api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockStorageService is a mock implementation of StorageService for testing
type MockStorageService struct {
	GenerateUploadKeyFunc    func(filename string) (string, error)
	GeneratePresignedURLFunc func(key, contentType string, expiryMinutes int) (string, error)
	DownloadFileFunc         func(key string) (io.ReadCloser, error)
}

func (m *MockStorageService) GenerateUploadKey(filename string) (string, error) {
	if m.GenerateUploadKeyFunc != nil {
		return m.GenerateUploadKeyFunc(filename)
	}
	return fmt.Sprintf("trial-balances/mock-%s", filename), nil
}

func (m *MockStorageService) GeneratePresignedURL(key, contentType string, expiryMinutes int) (string, error) {
	if m.GeneratePresignedURLFunc != nil {
		return m.GeneratePresignedURLFunc(key, contentType, expiryMinutes)
	}
	return fmt.Sprintf("https://s3.amazonaws.com/bucket/%s?signature=mock", key), nil
}

func (m *MockStorageService) DownloadFile(key string) (io.ReadCloser, error) {
	if m.DownloadFileFunc != nil {
		return m.DownloadFileFunc(key)
	}
	return nil, fmt.Errorf("file not found")
}

func newUploadApp(mockStorage *MockStorageService) *fiber.App {
	analyzer := NewAnalyzeHandler(
		services.NewParser(),
		services.NewNormalizer(),
		services.NewEngine(chart.Default()),
		services.NewReportWriter(),
		services.NewFileValidator(1<<20),
	)
	handler := NewUploadHandler(mockStorage, analyzer)

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	app.Get("/v1/upload/presigned-url", handler.GetPresignedURL)
	app.Post("/v1/upload/process", handler.ProcessUpload)
	return app
}

func TestGetPresignedURL_Success(t *testing.T) {
	mockStorage := &MockStorageService{
		GenerateUploadKeyFunc: func(filename string) (string, error) {
			return fmt.Sprintf("trial-balances/1699564800-uuid-%s", filename), nil
		},
		GeneratePresignedURLFunc: func(key, contentType string, expiryMinutes int) (string, error) {
			assert.Equal(t, "text/csv", contentType)
			assert.Equal(t, PresignedURLExpiryMinutes, expiryMinutes)
			return fmt.Sprintf("https://s3.amazonaws.com/bucket/%s?X-Amz-Signature=abc123", key), nil
		},
	}
	app := newUploadApp(mockStorage)

	req := httptest.NewRequest("GET", "/v1/upload/presigned-url?filename=tb.csv&content_type=text/csv", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	assert.Contains(t, result["upload_url"].(string), "X-Amz-Signature")
	assert.Contains(t, result["file_key"].(string), "trial-balances/")
	assert.Equal(t, float64(900), result["expires_in"].(float64))
}

func TestGetPresignedURL_MissingFilename(t *testing.T) {
	app := newUploadApp(&MockStorageService{})

	req := httptest.NewRequest("GET", "/v1/upload/presigned-url?content_type=text/csv", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Contains(t, result["error"].(string), "filename")
}

func TestGetPresignedURL_MissingContentType(t *testing.T) {
	app := newUploadApp(&MockStorageService{})

	req := httptest.NewRequest("GET", "/v1/upload/presigned-url?filename=tb.csv", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Contains(t, result["error"].(string), "content_type")
}

func TestGetPresignedURL_InvalidContentType(t *testing.T) {
	app := newUploadApp(&MockStorageService{})

	for _, contentType := range []string{"application/pdf", "image/jpeg", "text/plain"} {
		t.Run(contentType, func(t *testing.T) {
			req := httptest.NewRequest("GET",
				fmt.Sprintf("/v1/upload/presigned-url?filename=tb.csv&content_type=%s", contentType), nil)

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestProcessUpload_Success(t *testing.T) {
	csv := "N/C,Name,Debit,Credit\n4000,Sales,0,1000\n5000,Materials,400,0\n"
	mockStorage := &MockStorageService{
		DownloadFileFunc: func(key string) (io.ReadCloser, error) {
			assert.Equal(t, "trial-balances/1699564800-uuid-tb.csv", key)
			return io.NopCloser(strings.NewReader(csv)), nil
		},
	}
	app := newUploadApp(mockStorage)

	body := `{"file_key": "trial-balances/1699564800-uuid-tb.csv"}`
	req := httptest.NewRequest("POST", "/v1/upload/process", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		FileKey  string `json:"file_key"`
		Status   string `json:"status"`
		Analysis struct {
			Source   string `json:"source"`
			RowCount int    `json:"row_count"`
			Ratios   []struct {
				Name  string      `json:"name"`
				Value interface{} `json:"value"`
			} `json:"ratios"`
		} `json:"analysis"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	assert.Equal(t, "success", result.Status)
	assert.Equal(t, "trial-balances/1699564800-uuid-tb.csv", result.FileKey)
	assert.Equal(t, "1699564800-uuid-tb.csv", result.Analysis.Source)
	assert.Equal(t, 2, result.Analysis.RowCount)
	require.Len(t, result.Analysis.Ratios, 14)
}

func TestProcessUpload_MissingFileKey(t *testing.T) {
	app := newUploadApp(&MockStorageService{})

	req := httptest.NewRequest("POST", "/v1/upload/process", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Contains(t, result["error"].(string), "file_key")
}

func TestProcessUpload_FileNotFound(t *testing.T) {
	app := newUploadApp(&MockStorageService{})

	body := `{"file_key": "trial-balances/does-not-exist.csv"}`
	req := httptest.NewRequest("POST", "/v1/upload/process", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "NOT_FOUND", result["code"])
}

func TestProcessUpload_SchemaErrorPropagates(t *testing.T) {
	mockStorage := &MockStorageService{
		DownloadFileFunc: func(key string) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("Foo,Bar\n1,2\n")), nil
		},
	}
	app := newUploadApp(mockStorage)

	body := `{"file_key": "trial-balances/bad.csv"}`
	req := httptest.NewRequest("POST", "/v1/upload/process", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "SCHEMA_ERROR", result["code"])
}
