// Package idhash derives deterministic identifiers for search results.
package idhash

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/mr-tron/base58"
)

// CandidateID computes a deterministic candidate_id.
// Formula: base58(SHA256(unix_nanos|lat|lon)), coordinates at 6 decimals.
// The same instant and location always yield the same ID.
func CandidateID(instant time.Time, lat, lon float64) string {
	data := fmt.Sprintf("%d|%.6f|%.6f", instant.UnixNano(), lat, lon)
	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}

// ParseCandidateID decodes a candidate_id back to its digest.
// Returns an error if the ID is not a base58 SHA256 digest.
func ParseCandidateID(id string) ([]byte, error) {
	raw, err := base58.Decode(id)
	if err != nil {
		return nil, fmt.Errorf("decode candidate id: %w", err)
	}
	if len(raw) != sha256.Size {
		return nil, fmt.Errorf("decode candidate id: got %d bytes, want %d", len(raw), sha256.Size)
	}
	return raw, nil
}
