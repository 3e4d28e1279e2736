package types

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
)

// Match is a single stored occurrence of a pattern inside scanned content.
type Match struct {
	BlobID       BlobID   `json:"blob_id"`
	StructuralID string   `json:"structural_id"` // SHA-1(set_structural_id + '\0' + pattern + '\0' + blob_id + '\0' + start + '\0' + end)
	SetID        string   `json:"set_id"`        // e.g., "go.concurrency"
	SetName      string   `json:"set_name"`
	GroupIndex   int      `json:"group_index"`
	Pattern      string   `json:"pattern"`
	Color        string   `json:"color"`
	Location     Location `json:"location"`
	Snippet      Snippet  `json:"snippet"`
	Path         string   `json:"path,omitempty"`
}

// ComputeStructuralID computes a location-based unique ID.
func (m *Match) ComputeStructuralID(setStructuralID string) string {
	h := sha1.New()

	h.Write([]byte(setStructuralID))
	h.Write([]byte{0})

	h.Write([]byte(m.Pattern))
	h.Write([]byte{0})

	h.Write(m.BlobID[:])
	h.Write([]byte{0})

	h.Write([]byte(strconv.Itoa(m.Location.Offset.Start)))
	h.Write([]byte{0})

	h.Write([]byte(strconv.Itoa(m.Location.Offset.End)))

	return hex.EncodeToString(h.Sum(nil))
}
