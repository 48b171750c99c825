package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/pictovoz/internal/ports"
)

type VocabularyHandler struct {
	vocab   ports.VocabularyService
	symbols ports.SymbolSearch
	locale  string
	log     *zap.Logger
}

func NewVocabularyHandler(vocab ports.VocabularyService, symbols ports.SymbolSearch, locale string, log *zap.Logger) *VocabularyHandler {
	return &VocabularyHandler{
		vocab:   vocab,
		symbols: symbols,
		locale:  locale,
		log:     log,
	}
}

func (h *VocabularyHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.vocab.Core())
}

func (h *VocabularyHandler) Categories(c *fiber.Ctx) error {
	return c.JSON(h.vocab.Categories())
}

// SearchSymbols proxies the symbol catalog. Catalog failures yield an empty
// list, not an error.
func (h *VocabularyHandler) SearchSymbols(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "q is required"})
	}
	locale := c.Query("locale", h.locale)

	return c.JSON(h.symbols.Search(c.UserContext(), q, locale))
}

func (h *VocabularyHandler) GetSymbol(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	symbol := h.symbols.GetByID(c.UserContext(), id)
	if symbol == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Symbol not found"})
	}
	return c.JSON(symbol)
}
