package domain

import "strings"

// ParamType is the JSON-schema type of a tool parameter.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamArray   ParamType = "array"
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"
)

// ToolParam describes one argument of a declared tool.
type ToolParam struct {
	Name        string
	Type        ParamType
	ItemType    ParamType
	Description string
	Required    bool
}

// ToolDeclaration is a function the backend may ask the caller to run.
type ToolDeclaration struct {
	Name        string
	Description string
	Params      []ToolParam
}

// GenerateRequest is a provider-neutral single-turn generation request.
type GenerateRequest struct {
	Model             string
	SystemInstruction string
	Prompt            string
	Tools             []ToolDeclaration
	MapsGrounding     bool
	Location          *LatLng
}

// ToolCall is a structured function call requested by the backend.
type ToolCall struct {
	Name string
	Args map[string]any
}

// Strings returns the named argument as a string slice. It reports false
// when the argument is missing or is not a sequence of strings.
func (c ToolCall) Strings(key string) ([]string, bool) {
	raw, ok := c.Args[key]
	if !ok || raw == nil {
		return nil, false
	}

	switch v := raw.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// GroundingRef is a source the backend used to ground its answer.
type GroundingRef struct {
	URI   string
	Title string
}

// IsMapLocation reports whether the reference points at a maps page.
func (g GroundingRef) IsMapLocation() bool {
	return strings.Contains(g.URI, "google.com/maps") || strings.Contains(g.URI, "maps.google.com")
}

// GenerateReply is the raw, unnormalized backend answer.
type GenerateReply struct {
	Text      string
	ToolCalls []ToolCall
	Grounding []GroundingRef
}

// SpeechRequest asks the backend to synthesize text with a prebuilt voice.
type SpeechRequest struct {
	Model     string
	Text      string
	VoiceName string
}
