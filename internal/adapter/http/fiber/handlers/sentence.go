package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/pictovoz/internal/domain"
	"github.com/seu-repo/pictovoz/internal/ports"
)

type SentenceHandler struct {
	service ports.SentenceService
	log     *zap.Logger
}

func NewSentenceHandler(service ports.SentenceService, log *zap.Logger) *SentenceHandler {
	return &SentenceHandler{
		service: service,
		log:     log,
	}
}

// RefineRequest names the board selection either by core vocabulary ids or
// by full pictogram objects. Ids win when both are sent.
type RefineRequest struct {
	PictogramIDs []int              `json:"pictogram_ids,omitempty"`
	Pictograms   []domain.Pictogram `json:"pictograms,omitempty"`
}

type ExtractRequest struct {
	Text string `json:"text"`
}

func (h *SentenceHandler) Refine(c *fiber.Ctx) error {
	var req RefineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	pictograms := req.Pictograms
	if len(req.PictogramIDs) > 0 {
		pictograms = make([]domain.Pictogram, 0, len(req.PictogramIDs))
		for _, id := range req.PictogramIDs {
			p, ok := domain.FindPictogram(id)
			if !ok {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown pictogram id", "id": id})
			}
			pictograms = append(pictograms, p)
		}
	}

	sentence := h.service.Refine(c.UserContext(), pictograms)
	return c.JSON(fiber.Map{"sentence": sentence})
}

func (h *SentenceHandler) Extract(c *fiber.Ctx) error {
	var req ExtractRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	keywords := h.service.Extract(c.UserContext(), req.Text)
	return c.JSON(fiber.Map{"keywords": keywords})
}
