package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	json "github.com/goccy/go-json"
)

// MetadataKeyOpts are the inputs that influence the output of cargo metadata.
type MetadataKeyOpts struct {
	ManifestPath      string   `json:"manifest_path"`
	Features          []string `json:"features,omitempty"`
	AllFeatures       bool     `json:"all_features,omitempty"`
	NoDefaultFeatures bool     `json:"no_default_features,omitempty"`
	FilterPlatform    []string `json:"filter_platform,omitempty"`
	// Fingerprint summarises the on-disk state (manifest and lockfile
	// modification times and sizes).
	Fingerprint string `json:"fingerprint"`
}

// MetadataKey generates the cache key for a cargo metadata result.
func MetadataKey(opts MetadataKeyOpts) string {
	return hashKey("metadata", opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
