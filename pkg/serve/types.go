package serve

import (
	"encoding/json"

	"github.com/praetorian-inc/bylight/pkg/types"
)

// Request types.
const (
	TypeMatch     = "match"
	TypeHighlight = "highlight"
	TypeRender    = "render"
	TypeSets      = "sets"
	TypeClose     = "close"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"` // "match" | "highlight" | "render" | "sets" | "close"
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// MatchPayload is the payload for "match" requests
type MatchPayload struct {
	Text     string   `json:"text"`
	Patterns []string `json:"patterns"`
}

// HighlightPayload is the payload for "highlight" requests
type HighlightPayload struct {
	Text   string               `json:"text"`
	Groups []types.PatternGroup `json:"groups"`
	Format string               `json:"format,omitempty"` // "" | "html" | "ansi"
}

// RenderPayload is the payload for "render" requests
type RenderPayload struct {
	HTML     string `json:"html"`
	Fragment bool   `json:"fragment,omitempty"`
	Assets   bool   `json:"assets,omitempty"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"` // "ready" | request type | "error"
	ID      string          `json:"id,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version string `json:"version"`
}
