package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/pictovoz/internal/domain"
	"github.com/seu-repo/pictovoz/internal/ports"
)

type AgentHandler struct {
	agent  ports.AgentService
	vocab  ports.VocabularyService
	locale string
	log    *zap.Logger
}

func NewAgentHandler(agent ports.AgentService, vocab ports.VocabularyService, locale string, log *zap.Logger) *AgentHandler {
	return &AgentHandler{
		agent:  agent,
		vocab:  vocab,
		locale: locale,
		log:    log,
	}
}

type AgentRequest struct {
	Input    string         `json:"input"`
	IsNight  bool           `json:"is_night"`
	Location *domain.LatLng `json:"location,omitempty"`
	Locale   string         `json:"locale,omitempty"`
}

type AgentReply struct {
	Response   domain.AgentResponse `json:"response"`
	Pictograms []domain.Pictogram   `json:"pictograms,omitempty"`
}

// Run handles one conversational turn. Any input, blank included, gets a
// reply: backend failures never surface as HTTP errors and arrive as the
// fixed fallback replies.
func (h *AgentHandler) Run(c *fiber.Ctx) error {
	var req AgentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	if loc := req.Location; loc != nil && (loc.Lat < -90 || loc.Lat > 90 || loc.Lng < -180 || loc.Lng > 180) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "location out of range"})
	}

	resp := h.agent.Run(c.UserContext(), req.Input, domain.AgentContext{
		IsNight:  req.IsNight,
		Location: req.Location,
	})

	reply := AgentReply{Response: resp}
	if resp.ShowsPictograms() && h.vocab != nil {
		locale := req.Locale
		if locale == "" {
			locale = h.locale
		}
		reply.Pictograms = h.vocab.Resolve(c.UserContext(), resp.Keywords, locale)
	}

	return c.JSON(reply)
}
