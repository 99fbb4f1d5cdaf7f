package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ValidationResult contains the results of file validation
type ValidationResult struct {
	Valid        bool
	DetectedType string // "CSV" or "XLSX"
	ContentType  string
	Size         int64
	Errors       []string
}

// FileValidator validates uploaded trial balance files before parsing.
type FileValidator struct {
	maxSizeBytes int64
}

// XLSX files are ZIP containers; CSV is plain text with no signature.
var xlsxMagicBytes = []byte{0x50, 0x4B, 0x03, 0x04}

// Allowed MIME types for trial balance uploads
var allowedMimeTypes = map[string]bool{
	"text/csv":                 true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// Allowed file extensions. Legacy BIFF .xls is excluded: the workbook
// reader only handles OOXML.
var allowedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
}

// NewFileValidator creates a validator with the given maximum file size.
func NewFileValidator(maxSizeBytes int64) *FileValidator {
	return &FileValidator{maxSizeBytes: maxSizeBytes}
}

// ValidateFile checks filename, MIME type, size, and content signature.
func (v *FileValidator) ValidateFile(reader io.Reader, filename, contentType string) (*ValidationResult, error) {
	result := &ValidationResult{
		Valid:       true,
		ContentType: contentType,
		Errors:      []string{},
	}

	if err := v.ValidateFilename(filename); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
	}

	if err := v.ValidateMimeType(contentType); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	result.Size = int64(len(data))
	if err := v.ValidateFileSize(result.Size); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
	}

	detectedType, err := v.DetectContentSignature(data)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
	} else {
		result.DetectedType = detectedType
		if !v.isContentTypeMatch(contentType, detectedType) {
			result.Valid = false
			result.Errors = append(result.Errors, "MIME type does not match file content")
		}
	}

	return result, nil
}

// ValidateFilename validates the filename for security issues.
func (v *FileValidator) ValidateFilename(filename string) error {
	if filename == "" {
		return errors.New("filename cannot be empty")
	}
	if strings.Contains(filename, "..") {
		return errors.New("filename contains path traversal")
	}
	if strings.Contains(filename, "\x00") {
		return errors.New("filename contains null bytes")
	}
	if strings.HasPrefix(filename, "/") || strings.HasPrefix(filename, "\\") {
		return errors.New("filename cannot be absolute path")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return errors.New("filename must have an extension")
	}
	if !allowedExtensions[ext] {
		return fmt.Errorf("unsupported file extension: %s", ext)
	}
	return nil
}

// ValidateMimeType validates the MIME type is allowed.
func (v *FileValidator) ValidateMimeType(contentType string) error {
	if contentType == "" {
		return errors.New("MIME type cannot be empty")
	}
	if !allowedMimeTypes[contentType] {
		return fmt.Errorf("unsupported MIME type: %s", contentType)
	}
	return nil
}

// DetectContentSignature classifies the payload as XLSX (ZIP signature)
// or CSV (plain text).
func (v *FileValidator) DetectContentSignature(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty file")
	}
	if bytes.HasPrefix(data, xlsxMagicBytes) {
		return "XLSX", nil
	}
	if v.isTextContent(data) {
		return "CSV", nil
	}
	return "", errors.New("unsupported file type based on content")
}

// ValidateFileSize validates the file size is within limits.
func (v *FileValidator) ValidateFileSize(size int64) error {
	if size < 0 {
		return errors.New("invalid file size")
	}
	if size == 0 {
		return errors.New("empty file")
	}
	if size > v.maxSizeBytes {
		return fmt.Errorf("file size (%d bytes) exceeds maximum allowed size (%d bytes)", size, v.maxSizeBytes)
	}
	return nil
}

// isContentTypeMatch checks if the MIME type matches the detected file type.
func (v *FileValidator) isContentTypeMatch(contentType, detectedType string) bool {
	switch detectedType {
	case "CSV":
		return contentType == "text/csv"
	case "XLSX":
		return contentType == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" ||
			contentType == "application/vnd.ms-excel"
	default:
		return false
	}
}

// isTextContent checks if the data appears to be text (for CSV detection).
func (v *FileValidator) isTextContent(data []byte) bool {
	checkLen := len(data)
	if checkLen > 512 {
		checkLen = 512
	}
	sample := data[:checkLen]

	if bytes.Contains(sample, []byte{0x00}) {
		return false
	}

	printable := 0
	for _, b := range sample {
		// Printable ASCII plus common whitespace. The pound sign in
		// UTF-8 amounts falls outside ASCII, so allow high bytes too.
		if (b >= 0x20 && b <= 0x7E) || b >= 0x80 || b == 0x09 || b == 0x0A || b == 0x0D {
			printable++
		}
	}
	return float64(printable)/float64(len(sample)) > 0.95
}
