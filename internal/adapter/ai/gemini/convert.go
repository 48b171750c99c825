package gemini

import (
	"fmt"

	"google.golang.org/genai"

	"github.com/seu-repo/pictovoz/internal/domain"
)

func generateConfig(req domain.GenerateRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}

	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}

	if len(req.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(req.Tools))
		for _, t := range req.Tools {
			decls = append(decls, functionDeclaration(t))
		}
		cfg.Tools = append(cfg.Tools, &genai.Tool{FunctionDeclarations: decls})
	}

	if req.MapsGrounding {
		cfg.Tools = append(cfg.Tools, &genai.Tool{GoogleMaps: &genai.GoogleMaps{}})
	}

	if req.Location != nil {
		cfg.ToolConfig = &genai.ToolConfig{
			RetrievalConfig: &genai.RetrievalConfig{
				LatLng: &genai.LatLng{
					Latitude:  genai.Ptr(req.Location.Lat),
					Longitude: genai.Ptr(req.Location.Lng),
				},
			},
		}
	}

	return cfg
}

func speechConfig(req domain.SpeechRequest) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: req.VoiceName,
				},
			},
		},
	}
}

func functionDeclaration(t domain.ToolDeclaration) *genai.FunctionDeclaration {
	params := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(t.Params)),
	}

	for _, p := range t.Params {
		prop := &genai.Schema{
			Type:        schemaType(p.Type),
			Description: p.Description,
		}
		if p.Type == domain.ParamArray {
			prop.Items = &genai.Schema{Type: schemaType(p.ItemType)}
		}
		params.Properties[p.Name] = prop
		if p.Required {
			params.Required = append(params.Required, p.Name)
		}
	}

	return &genai.FunctionDeclaration{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  params,
	}
}

func schemaType(t domain.ParamType) genai.Type {
	switch t {
	case domain.ParamArray:
		return genai.TypeArray
	case domain.ParamNumber:
		return genai.TypeNumber
	case domain.ParamBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

// checkCandidates rejects shapes the genai response helpers cannot read:
// a null first candidate or null parts in its content.
func checkCandidates(resp *genai.GenerateContentResponse) error {
	if len(resp.Candidates) == 0 {
		return nil
	}
	first := resp.Candidates[0]
	if first == nil {
		return fmt.Errorf("%w: null candidate", domain.ErrMalformedResponse)
	}
	if first.Content == nil {
		return nil
	}
	for _, part := range first.Content.Parts {
		if part == nil {
			return fmt.Errorf("%w: null content part", domain.ErrMalformedResponse)
		}
	}
	return nil
}

func replyFromResponse(resp *genai.GenerateContentResponse) (*domain.GenerateReply, error) {
	if err := checkCandidates(resp); err != nil {
		return nil, err
	}

	reply := &domain.GenerateReply{Text: resp.Text()}

	for _, fc := range resp.FunctionCalls() {
		if fc == nil {
			continue
		}
		reply.ToolCalls = append(reply.ToolCalls, domain.ToolCall{Name: fc.Name, Args: fc.Args})
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return reply, nil
	}

	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil {
			continue
		}
		if chunk.Web != nil && chunk.Web.URI != "" {
			reply.Grounding = append(reply.Grounding, domain.GroundingRef{URI: chunk.Web.URI, Title: chunk.Web.Title})
		}
		if chunk.Maps != nil && chunk.Maps.URI != "" {
			reply.Grounding = append(reply.Grounding, domain.GroundingRef{URI: chunk.Maps.URI, Title: chunk.Maps.Title})
		}
	}

	return reply, nil
}

func audioFromResponse(resp *genai.GenerateContentResponse) ([]byte, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("%w: no candidates", domain.ErrMalformedResponse)
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}

	return nil, fmt.Errorf("%w: no inline audio", domain.ErrMalformedResponse)
}
