package agent

import (
	"github.com/seu-repo/pictovoz/internal/domain"
)

// normalize folds a raw backend reply into an AgentResponse. The tool call
// and map extraction are independent of each other.
func normalize(reply *domain.GenerateReply) domain.AgentResponse {
	resp := domain.AgentResponse{Text: reply.Text}
	if resp.Text == "" {
		resp.Text = domain.ReplyListening
	}

	if keywords, ok := pictogramKeywords(reply.ToolCalls); ok {
		resp.Action = domain.ActionShowPictograms
		resp.Keywords = keywords
		resp.Text = domain.ReplyPictograms
	}

	resp.MapData = mapReference(reply.Grounding)

	return resp
}

// pictogramKeywords honors only the first function call, and only when it
// is show_pictograms with a non-empty list of strings.
func pictogramKeywords(calls []domain.ToolCall) ([]string, bool) {
	if len(calls) == 0 || calls[0].Name != showPictogramsTool {
		return nil, false
	}

	keywords, ok := calls[0].Strings("keywords")
	if !ok || len(keywords) == 0 {
		return nil, false
	}

	return keywords, true
}

func mapReference(refs []domain.GroundingRef) *domain.MapData {
	for _, ref := range refs {
		if !ref.IsMapLocation() {
			continue
		}
		title := ref.Title
		if title == "" {
			title = domain.DefaultMapTitle
		}
		return &domain.MapData{URI: ref.URI, Title: title}
	}
	return nil
}
