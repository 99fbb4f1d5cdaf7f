package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFilename(t *testing.T) {
	v := NewFileValidator(1 << 20)

	tests := []struct {
		name     string
		filename string
		wantErr  string
	}{
		{"valid csv", "trial_balance.csv", ""},
		{"valid xlsx", "TB 2024.xlsx", ""},
		{"legacy xls rejected", "legacy.xls", "unsupported file extension"},
		{"empty", "", "filename cannot be empty"},
		{"path traversal", "../../etc/passwd.csv", "path traversal"},
		{"null byte", "tb\x00.csv", "null bytes"},
		{"absolute path", "/tmp/tb.csv", "absolute path"},
		{"no extension", "trialbalance", "must have an extension"},
		{"pdf rejected", "report.pdf", "unsupported file extension"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateFilename(tt.filename)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateMimeType(t *testing.T) {
	v := NewFileValidator(1 << 20)

	assert.NoError(t, v.ValidateMimeType("text/csv"))
	assert.NoError(t, v.ValidateMimeType("application/vnd.ms-excel"))
	assert.NoError(t, v.ValidateMimeType("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))

	assert.Error(t, v.ValidateMimeType(""))
	assert.Error(t, v.ValidateMimeType("application/pdf"))
}

func TestValidateFileSize(t *testing.T) {
	v := NewFileValidator(100)

	assert.NoError(t, v.ValidateFileSize(100))
	assert.Error(t, v.ValidateFileSize(0))
	assert.Error(t, v.ValidateFileSize(-1))

	err := v.ValidateFileSize(101)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestDetectContentSignature(t *testing.T) {
	v := NewFileValidator(1 << 20)

	detected, err := v.DetectContentSignature([]byte("N/C,Name,Debit,Credit\n4000,Sales,0,100\n"))
	require.NoError(t, err)
	assert.Equal(t, "CSV", detected)

	detected, err = v.DetectContentSignature([]byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00})
	require.NoError(t, err)
	assert.Equal(t, "XLSX", detected)

	_, err = v.DetectContentSignature(nil)
	assert.Error(t, err)

	_, err = v.DetectContentSignature([]byte{0x00, 0x01, 0x02, 0x03})
	assert.Error(t, err)
}

func TestDetectContentSignature_PoundSign(t *testing.T) {
	v := NewFileValidator(1 << 20)

	detected, err := v.DetectContentSignature([]byte("N/C,Name,Debit\n4000,Sales (£),0\n"))
	require.NoError(t, err)
	assert.Equal(t, "CSV", detected)
}

func TestValidateFile(t *testing.T) {
	v := NewFileValidator(1 << 20)

	result, err := v.ValidateFile(strings.NewReader("N/C,Name\n4000,Sales\n"), "tb.csv", "text/csv")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "CSV", result.DetectedType)
	assert.Empty(t, result.Errors)
}

func TestValidateFile_MimeContentMismatch(t *testing.T) {
	v := NewFileValidator(1 << 20)

	// Plain text payload declared as a workbook.
	result, err := v.ValidateFile(strings.NewReader("N/C,Name\n4000,Sales\n"), "tb.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "MIME type does not match file content")
}

func TestValidateFile_AccumulatesErrors(t *testing.T) {
	v := NewFileValidator(10)

	payload := bytes.Repeat([]byte("a,b,c\n"), 10)
	result, err := v.ValidateFile(bytes.NewReader(payload), "../tb.pdf", "application/pdf")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.GreaterOrEqual(t, len(result.Errors), 3)
}
