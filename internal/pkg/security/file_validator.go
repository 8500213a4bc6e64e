package security

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
)

// File validation errors
var (
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrFileSizeTooLarge   = errors.New("file size exceeds limit")
	ErrInvalidMagicBytes  = errors.New("file content does not match extension")
	ErrPathTraversal      = errors.New("path traversal detected")
	ErrInvalidFilename    = errors.New("invalid filename")
)

// FileValidatorConfig holds configuration for file validation
type FileValidatorConfig struct {
	MaxFileSize int64 // Maximum single file size in bytes (default: 50MB)
}

// DefaultConfig returns default configuration
func DefaultConfig() *FileValidatorConfig {
	return &FileValidatorConfig{
		MaxFileSize: 50 * 1024 * 1024, // 50MB
	}
}

// FileValidator provides secure file validation
type FileValidator struct {
	config *FileValidatorConfig
}

// NewFileValidator creates a new file validator
func NewFileValidator(config *FileValidatorConfig) *FileValidator {
	if config == nil {
		config = DefaultConfig()
	}
	return &FileValidator{config: config}
}

// AllowedExtensions maps extensions to their expected magic bytes, scoped to
// the image types FinalizePipeline's allowedFileTypes accepts (spec §4.4
// step 2).
var AllowedExtensions = map[string][]MagicSignature{
	".png":  {{Bytes: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}}},
	".jpg":  {{Bytes: []byte{0xFF, 0xD8, 0xFF}}},
	".jpeg": {{Bytes: []byte{0xFF, 0xD8, 0xFF}}},
	".gif":  {{Bytes: []byte{0x47, 0x49, 0x46, 0x38}}}, // GIF8
	".webp": {{Bytes: []byte{0x52, 0x49, 0x46, 0x46}, Offset: 0}, {Bytes: []byte{0x57, 0x45, 0x42, 0x50}, Offset: 8}},
	".svg":  {{Bytes: []byte("<?xml")}, {Bytes: []byte("<svg")}, {Bytes: []byte("<!DOCTYPE svg")}},
	".bmp":  {{Bytes: []byte{0x42, 0x4D}}}, // "BM"
	".tiff": {{Bytes: []byte{0x49, 0x49, 0x2A, 0x00}}, {Bytes: []byte{0x4D, 0x4D, 0x00, 0x2A}}},
	".ico":  {{Bytes: []byte{0x00, 0x00, 0x01, 0x00}}},
}

// MagicSignature represents file magic bytes
type MagicSignature struct {
	Bytes  []byte
	Offset int
}

// IsAllowedExtension checks if the extension is in the allowed list
func (v *FileValidator) IsAllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	_, ok := AllowedExtensions[ext]
	return ok
}

// ValidateFileSize checks if file size is within limits
func (v *FileValidator) ValidateFileSize(size int64) error {
	if size > v.config.MaxFileSize {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d bytes", ErrFileSizeTooLarge, size, v.config.MaxFileSize)
	}
	return nil
}

// ValidateMagicBytes validates file content matches its extension
func (v *FileValidator) ValidateMagicBytes(filename string, reader io.Reader) error {
	ext := strings.ToLower(filepath.Ext(filename))
	signatures, ok := AllowedExtensions[ext]
	if !ok {
		return ErrFileTypeNotAllowed
	}

	// Read enough bytes to check all signatures
	maxOffset := 0
	maxLen := 0
	for _, sig := range signatures {
		if sig.Offset+len(sig.Bytes) > maxOffset+maxLen {
			maxOffset = sig.Offset
			maxLen = len(sig.Bytes)
		}
	}
	headerSize := maxOffset + maxLen
	if headerSize < 32 {
		headerSize = 32 // Read at least 32 bytes
	}

	header := make([]byte, headerSize)
	n, err := io.ReadFull(reader, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("failed to read file header: %w", err)
	}
	header = header[:n]

	// Check if any signature matches
	for _, sig := range signatures {
		if sig.Offset+len(sig.Bytes) <= len(header) {
			if bytes.HasPrefix(header[sig.Offset:], sig.Bytes) {
				return nil
			}
		}
	}

	// Special handling for text-based files (SVG)
	if ext == ".svg" {
		// Allow whitespace/BOM at the beginning
		trimmed := bytes.TrimLeft(header, " \t\r\n\xef\xbb\xbf")
		for _, sig := range signatures {
			if bytes.HasPrefix(trimmed, sig.Bytes) {
				return nil
			}
		}
	}

	return fmt.Errorf("%w: %s", ErrInvalidMagicBytes, ext)
}

// SanitizeFilename removes dangerous characters and prevents path traversal
func (v *FileValidator) SanitizeFilename(filename string) (string, error) {
	// Check for path traversal
	if strings.Contains(filename, "..") {
		return "", ErrPathTraversal
	}

	// Normalize path separators
	filename = filepath.ToSlash(filename)

	// Remove leading slashes
	filename = strings.TrimLeft(filename, "/")

	// Check for absolute paths (Windows)
	if len(filename) >= 2 && filename[1] == ':' {
		return "", ErrPathTraversal
	}

	// Remove null bytes
	filename = strings.ReplaceAll(filename, "\x00", "")

	// Validate filename characters (allow alphanumeric, dash, underscore, dot, slash)
	validPattern := regexp.MustCompile(`^[a-zA-Z0-9_\-./]+$`)
	if !validPattern.MatchString(filename) {
		// Try to sanitize by replacing invalid characters
		sanitized := regexp.MustCompile(`[^a-zA-Z0-9_\-./]`).ReplaceAllString(filename, "_")
		if sanitized == "" || sanitized == "_" {
			return "", ErrInvalidFilename
		}
		filename = sanitized
	}

	// Ensure filename is not empty after sanitization
	if filename == "" || filename == "." {
		return "", ErrInvalidFilename
	}

	return filename, nil
}

// GetConfig returns the current configuration
func (v *FileValidator) GetConfig() *FileValidatorConfig {
	return v.config
}

// GetContentType returns the appropriate content type for a file extension,
// used as a fallback when ObjectStore has no stored content type for a key.
func GetContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	contentTypes := map[string]string{
		".png":  "image/png",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".gif":  "image/gif",
		".webp": "image/webp",
		".svg":  "image/svg+xml",
		".bmp":  "image/bmp",
		".tiff": "image/tiff",
		".ico":  "image/x-icon",
	}
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
