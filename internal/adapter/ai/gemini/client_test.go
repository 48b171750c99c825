package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/seu-repo/pictovoz/internal/domain"
	"github.com/seu-repo/pictovoz/internal/infrastructure/circuitbreaker"
)

type fakeModels struct {
	resp      *genai.GenerateContentResponse
	err       error
	gotModel  string
	gotConfig *genai.GenerateContentConfig
	gotText   string
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	f.gotConfig = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.gotText = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func newTestClient(models *fakeModels) *Client {
	breaker := circuitbreaker.New(BreakerSettings(circuitbreaker.DefaultSettings("gemini-test")), zap.NewNop())
	return newClient(models, 0, breaker, zap.NewNop())
}

func candidate(parts ...*genai.Part) *genai.Candidate {
	return &genai.Candidate{Content: &genai.Content{Role: "model", Parts: parts}}
}

func TestGenerate_BuildsToolsAndLocation(t *testing.T) {
	// Arrange
	models := &fakeModels{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{candidate(&genai.Part{Text: "hi"})},
	}}
	client := newTestClient(models)

	req := domain.GenerateRequest{
		Model:             "gemini-2.5-flash",
		SystemInstruction: "be kind",
		Prompt:            "where am I",
		Tools: []domain.ToolDeclaration{{
			Name: "show_pictograms",
			Params: []domain.ToolParam{
				{Name: "keywords", Type: domain.ParamArray, ItemType: domain.ParamString, Required: true},
			},
		}},
		MapsGrounding: true,
		Location:      &domain.LatLng{Lat: 40.4, Lng: -3.7},
	}

	// Act
	reply, err := client.Generate(context.Background(), req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "hi", reply.Text)
	assert.Equal(t, "gemini-2.5-flash", models.gotModel)
	assert.Equal(t, "where am I", models.gotText)

	cfg := models.gotConfig
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "be kind", cfg.SystemInstruction.Parts[0].Text)

	require.Len(t, cfg.Tools, 2)
	decl := cfg.Tools[0].FunctionDeclarations[0]
	assert.Equal(t, "show_pictograms", decl.Name)
	assert.Equal(t, genai.TypeObject, decl.Parameters.Type)
	assert.Equal(t, []string{"keywords"}, decl.Parameters.Required)
	assert.Equal(t, genai.TypeArray, decl.Parameters.Properties["keywords"].Type)
	assert.Equal(t, genai.TypeString, decl.Parameters.Properties["keywords"].Items.Type)
	assert.NotNil(t, cfg.Tools[1].GoogleMaps)

	require.NotNil(t, cfg.ToolConfig)
	assert.Equal(t, 40.4, *cfg.ToolConfig.RetrievalConfig.LatLng.Latitude)
	assert.Equal(t, -3.7, *cfg.ToolConfig.RetrievalConfig.LatLng.Longitude)
}

func TestGenerate_NoLocationNoToolConfig(t *testing.T) {
	models := &fakeModels{resp: &genai.GenerateContentResponse{}}
	client := newTestClient(models)

	reply, err := client.Generate(context.Background(), domain.GenerateRequest{Model: "m", Prompt: "p"})

	require.NoError(t, err)
	assert.Empty(t, reply.Text)
	assert.Nil(t, models.gotConfig.ToolConfig)
	assert.Empty(t, models.gotConfig.Tools)
}

func TestGenerate_ExtractsCallsAndGrounding(t *testing.T) {
	models := &fakeModels{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{FunctionCall: &genai.FunctionCall{Name: "show_pictograms", Args: map[string]any{"keywords": []any{"eat", "apple"}}}},
			}},
			GroundingMetadata: &genai.GroundingMetadata{GroundingChunks: []*genai.GroundingChunk{
				{Web: &genai.GroundingChunkWeb{URI: "https://example.com", Title: "Example"}},
				{Maps: &genai.GroundingChunkMaps{URI: "https://maps.google.com/?cid=1", Title: "Park"}},
			}},
		}},
	}}
	client := newTestClient(models)

	reply, err := client.Generate(context.Background(), domain.GenerateRequest{Model: "m", Prompt: "p"})

	require.NoError(t, err)
	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "show_pictograms", reply.ToolCalls[0].Name)
	kws, ok := reply.ToolCalls[0].Strings("keywords")
	assert.True(t, ok)
	assert.Equal(t, []string{"eat", "apple"}, kws)
	assert.Equal(t, []domain.GroundingRef{
		{URI: "https://example.com", Title: "Example"},
		{URI: "https://maps.google.com/?cid=1", Title: "Park"},
	}, reply.Grounding)
}

func TestGenerate_TransportError(t *testing.T) {
	models := &fakeModels{err: errors.New("connection reset")}
	client := newTestClient(models)

	reply, err := client.Generate(context.Background(), domain.GenerateRequest{Model: "m", Prompt: "p"})

	assert.Nil(t, reply)
	assert.True(t, errors.Is(err, domain.ErrTransport))
}

func TestGenerate_NullCandidateIsMalformed(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"null candidate", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{nil}}},
		{"null part", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate(nil)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(&fakeModels{resp: tt.resp})

			reply, err := client.Generate(context.Background(), domain.GenerateRequest{Model: "m", Prompt: "p"})

			assert.Nil(t, reply)
			assert.True(t, errors.Is(err, domain.ErrMalformedResponse))
		})
	}
}

func TestGenerate_NoCandidatesIsEmptyReply(t *testing.T) {
	client := newTestClient(&fakeModels{resp: &genai.GenerateContentResponse{}})

	reply, err := client.Generate(context.Background(), domain.GenerateRequest{Model: "m", Prompt: "p"})

	require.NoError(t, err)
	assert.Equal(t, &domain.GenerateReply{}, reply)
}

func TestSynthesizeSpeech_ReturnsInlineAudio(t *testing.T) {
	pcm := []byte{0x01, 0x00, 0xff, 0x7f}
	models := &fakeModels{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{candidate(&genai.Part{InlineData: &genai.Blob{MIMEType: "audio/L16;rate=24000", Data: pcm}})},
	}}
	client := newTestClient(models)

	audio, err := client.SynthesizeSpeech(context.Background(), domain.SpeechRequest{
		Model:     "gemini-2.5-flash-preview-tts",
		Text:      "hello",
		VoiceName: "Kore",
	})

	require.NoError(t, err)
	assert.Equal(t, pcm, audio)
	assert.Equal(t, []string{"AUDIO"}, models.gotConfig.ResponseModalities)
	assert.Equal(t, "Kore", models.gotConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)
	assert.Equal(t, "hello", models.gotText)
}

func TestSynthesizeSpeech_MissingAudio(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"no candidates", &genai.GenerateContentResponse{}},
		{"text only", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate(&genai.Part{Text: "no audio"})}}},
		{"empty blob", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate(&genai.Part{InlineData: &genai.Blob{}})}}},
		{"null candidate", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{nil}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(&fakeModels{resp: tt.resp})

			_, err := client.SynthesizeSpeech(context.Background(), domain.SpeechRequest{Text: "x"})

			assert.True(t, errors.Is(err, domain.ErrMalformedResponse))
		})
	}
}
