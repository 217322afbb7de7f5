// Package plugin exposes the request/response message surface the UI
// layer drives: scanning, generation, modification, catalog patching
// and API key management. Messages are JSON envelopes; every response
// carries enough of the original payload for the UI to stay consistent
// without re-querying.
package plugin

import "encoding/json"

// Request message types.
const (
	MsgScanDesignSystem    = "scan-design-system"
	MsgGenerateUIFromJSON  = "generate-ui-from-json"
	MsgModifyExistingUI    = "modify-existing-ui"
	MsgUpdateComponentType = "update-component-type"
	MsgNavigateToComponent = "navigate-to-component"
	MsgGetAPIKey           = "get-api-key"
	MsgSaveAPIKey          = "save-api-key"
	MsgClearAPIKey         = "clear-api-key"
	MsgGetSavedScan        = "get-saved-scan"
)

// Response message types.
const (
	MsgScanResults          = "scan-results"
	MsgUIGeneratedSuccess   = "ui-generated-success"
	MsgUIModifiedSuccess    = "ui-modified-success"
	MsgUIGenerationError    = "ui-generation-error"
	MsgComponentTypeUpdated = "component-type-updated"
	MsgAPIKeyLoaded         = "api-key-loaded"
	MsgAPIKeySaved          = "api-key-saved"
	MsgAPIKeyCleared        = "api-key-cleared"
	MsgSavedScanLoaded      = "saved-scan-loaded"
	MsgSavedScanNotFound    = "saved-scan-not-found"
	MsgError                = "error"
)

// Envelope is the wire frame of every message. ID correlates a response
// with its request.
type Envelope struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// GeneratePayload asks for a render. Either LayoutJSON (authored or
// previously generated) or Prompt (sent to the completion backend)
// must be present; LayoutJSON wins when both are.
type GeneratePayload struct {
	LayoutJSON json.RawMessage `json:"layoutJson,omitempty"`
	Prompt     string          `json:"prompt,omitempty"`
}

// GenerateResult echoes the rendered JSON so the UI can offer
// edit-and-regenerate without re-querying.
type GenerateResult struct {
	LayoutJSON json.RawMessage `json:"layoutJson"`
	FrameID    string          `json:"frameId"`
	Summary    string          `json:"summary"`
	Warnings   []string        `json:"warnings,omitempty"`
}

// GenerationError is the payload of ui-generation-error.
type GenerationError struct {
	Message       string          `json:"message"`
	RequestedType string          `json:"requestedType,omitempty"`
	LayoutJSON    json.RawMessage `json:"layoutJson,omitempty"`
}

// ModifyPayload re-renders into an existing frame.
type ModifyPayload struct {
	FrameID    string          `json:"frameId"`
	LayoutJSON json.RawMessage `json:"layoutJson"`
}

// ScanResultsPayload summarizes a completed scan.
type ScanResultsPayload struct {
	Fingerprint string             `json:"documentFingerprint"`
	Components  []ComponentSummary `json:"components"`
}

// ComponentSummary is the per-record slice of the catalog the UI shows.
type ComponentSummary struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	SuggestedType string  `json:"suggestedType"`
	Confidence    float64 `json:"confidence"`
	IsVerified    bool    `json:"isVerified"`
	PageName      string  `json:"pageName"`
	VariantCount  int     `json:"variantCount"`
}

// UpdateTypePayload patches one record's classification.
type UpdateTypePayload struct {
	ComponentID string `json:"componentId"`
	NewType     string `json:"newType"`
}

// UpdateTypeResult echoes the patched record.
type UpdateTypeResult struct {
	ComponentID string `json:"componentId"`
	NewType     string `json:"newType"`
}

// NavigatePayload focuses one component in the host UI.
type NavigatePayload struct {
	ComponentID string `json:"componentId"`
}

// APIKeyPayload carries the key for save requests and loaded responses.
type APIKeyPayload struct {
	APIKey string `json:"apiKey"`
}

// ErrorPayload is the generic failure response.
type ErrorPayload struct {
	Message string `json:"message"`
}
