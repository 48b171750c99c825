package handlers

import (
	"encoding/base64"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/pictovoz/internal/domain"
	"github.com/seu-repo/pictovoz/internal/ports"
)

type SpeechHandler struct {
	playback ports.PlaybackService
	log      *zap.Logger
}

func NewSpeechHandler(playback ports.PlaybackService, log *zap.Logger) *SpeechHandler {
	return &SpeechHandler{
		playback: playback,
		log:      log,
	}
}

type SpeechRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
	Audio string `json:"audio,omitempty"` // Base64 PCM16
}

// Speak plays text on the connected boards, with the AI voice when
// available.
func (h *SpeechHandler) Speak(c *fiber.Ctx) error {
	var req SpeechRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	if req.Voice != "" && !knownVoice(req.Voice) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "unknown voice",
			"voices": domain.PrebuiltVoices,
		})
	}

	var audio []byte
	if req.Audio != "" {
		var err error
		audio, err = base64.StdEncoding.DecodeString(req.Audio)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid base64 audio"})
		}
	}

	outcome := h.playback.SpeakOrPlay(c.UserContext(), domain.SpeakRequest{
		Text:      req.Text,
		VoiceName: req.Voice,
		Audio:     audio,
	})
	return c.JSON(fiber.Map{"outcome": outcome})
}

func (h *SpeechHandler) Voices(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"voices": domain.PrebuiltVoices, "default": domain.DefaultVoice})
}

func knownVoice(name string) bool {
	for _, v := range domain.PrebuiltVoices {
		if v == name {
			return true
		}
	}
	return false
}
