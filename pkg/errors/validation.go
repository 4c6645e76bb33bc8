package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateManifestPath validates a --manifest-path value.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - The file name must be Cargo.toml
func ValidateManifestPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "manifest path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "manifest path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "manifest path contains invalid characters")
		}
	}

	if filepath.Base(path) != "Cargo.toml" {
		return New(ErrCodeInvalidManifest, "the manifest-path must be a path to a Cargo.toml file: %q", path)
	}

	return nil
}

// ValidateTargetTriple validates a --target value such as
// "x86_64-unknown-linux-gnu". The special value "all" is accepted.
func ValidateTargetTriple(triple string) error {
	if triple == "" {
		return New(ErrCodeInvalidInput, "target triple cannot be empty")
	}
	if triple == "all" {
		return nil
	}
	if strings.ContainsAny(triple, " \t\n/\\") {
		return New(ErrCodeInvalidInput, "invalid target triple: %q", triple)
	}
	if strings.Count(triple, "-") < 1 {
		return New(ErrCodeInvalidInput, "invalid target triple: %q", triple)
	}
	return nil
}
