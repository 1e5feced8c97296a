package errors

import (
	"strings"
	"unicode"
)

// ValidatePath validates a local document path.
// Absolute paths are allowed; the path only has to be something the
// operating system can open.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateKey validates a key naming a document inside a remote store
// (Redis key, S3 object name, database row).
//
// Validation rules:
//   - Key cannot be empty
//   - No control characters
//   - No leading slash
//   - No path traversal sequences (..)
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "store key cannot be empty")
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "store key contains invalid characters")
		}
	}

	if strings.HasPrefix(key, "/") {
		return New(ErrCodeInvalidInput, "store key cannot start with /")
	}

	if strings.Contains(key, "..") {
		return New(ErrCodeInvalidInput, "store key cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateURI validates a connection URI against the allowed schemes.
// It does a simple scheme prefix check without full URL parsing.
func ValidateURI(rawURI string, schemes ...string) error {
	if rawURI == "" {
		return New(ErrCodeInvalidConfig, "URI cannot be empty")
	}

	for _, s := range schemes {
		if strings.HasPrefix(rawURI, s+"://") {
			return nil
		}
	}

	return New(ErrCodeInvalidConfig, "URI must use one of the schemes %s", strings.Join(schemes, ", "))
}
