package agent

import (
	"strings"

	"github.com/seu-repo/pictovoz/internal/domain"
)

const showPictogramsTool = "show_pictograms"

var showPictogramsDeclaration = domain.ToolDeclaration{
	Name:        showPictogramsTool,
	Description: "Display a sequence of AAC pictograms on the board so the child can see and repeat the sentence.",
	Params: []domain.ToolParam{{
		Name:        "keywords",
		Type:        domain.ParamArray,
		ItemType:    domain.ParamString,
		Description: "Simple keywords, one per pictogram, in sentence order (e.g. \"i\", \"want\", \"water\").",
		Required:    true,
	}},
}

// systemInstruction renders the companion persona for one turn.
func systemInstruction(agentCtx domain.AgentContext) string {
	var b strings.Builder

	b.WriteString("You are a friendly, caring AI companion for a child who uses an AAC board to communicate. ")
	b.WriteString("Speak in short, simple, warm sentences. Be patient and never judge.\n")

	if agentCtx.IsNight {
		b.WriteString("Current time context: IT IS NIGHT/LATE. If the child is outside or seems lost, gently help them get home safely.\n")
	} else {
		b.WriteString("Current time context: It is daytime.\n")
	}

	b.WriteString("When the child wants to say something or asks how to say something, call the show_pictograms tool with simple keywords instead of only answering in text.\n")
	b.WriteString("When the child asks where something is, seems lost, or it is late, use Google Maps to find nearby places and mention them simply.")

	return b.String()
}
