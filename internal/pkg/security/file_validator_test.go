package security

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename_RejectsPathTraversal(t *testing.T) {
	v := NewFileValidator(nil)
	_, err := v.SanitizeFilename("../../etc/passwd")
	require.ErrorIs(t, err, ErrPathTraversal)
}

func TestSanitizeFilename_RejectsWindowsAbsolutePath(t *testing.T) {
	v := NewFileValidator(nil)
	_, err := v.SanitizeFilename("C:/windows/system32")
	require.ErrorIs(t, err, ErrPathTraversal)
}

func TestSanitizeFilename_ReplacesInvalidCharacters(t *testing.T) {
	v := NewFileValidator(nil)
	got, err := v.SanitizeFilename("my photo!@#.jpg")
	require.NoError(t, err)
	assert.NotContains(t, got, "!")
	assert.NotContains(t, got, " ")
}

func TestSanitizeFilename_PassesThroughCleanName(t *testing.T) {
	v := NewFileValidator(nil)
	got, err := v.SanitizeFilename("vacation-2026.jpg")
	require.NoError(t, err)
	assert.Equal(t, "vacation-2026.jpg", got)
}

func TestIsAllowedExtension(t *testing.T) {
	v := NewFileValidator(nil)
	assert.True(t, v.IsAllowedExtension("photo.jpg"))
	assert.False(t, v.IsAllowedExtension("payload.exe"))
}

func TestValidateMagicBytes_AcceptsMatchingContent(t *testing.T) {
	v := NewFileValidator(nil)
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	err := v.ValidateMagicBytes("photo.png", bytes.NewReader(png))
	require.NoError(t, err)
}

func TestValidateMagicBytes_RejectsMismatchedContent(t *testing.T) {
	v := NewFileValidator(nil)
	err := v.ValidateMagicBytes("photo.png", bytes.NewReader([]byte("not a png")))
	require.ErrorIs(t, err, ErrInvalidMagicBytes)
}

func TestValidateMagicBytes_RejectsDisallowedExtension(t *testing.T) {
	v := NewFileValidator(nil)
	err := v.ValidateMagicBytes("payload.exe", bytes.NewReader([]byte("whatever")))
	require.ErrorIs(t, err, ErrFileTypeNotAllowed)
}

func TestValidateFileSize_RejectsOversizeFile(t *testing.T) {
	v := NewFileValidator(&FileValidatorConfig{MaxFileSize: 10})
	require.NoError(t, v.ValidateFileSize(10))
	require.ErrorIs(t, v.ValidateFileSize(11), ErrFileSizeTooLarge)
}

func TestGetContentType(t *testing.T) {
	assert.Equal(t, "image/png", GetContentType("photo.PNG"))
	assert.Equal(t, "application/octet-stream", GetContentType("payload.exe"))
}
