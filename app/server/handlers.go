package server

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

const interactionTypePing = 1

type chatRequest struct {
	Message string `json:"message"`
}

type interactionRequest struct {
	Type int `json:"type"`
}

func (s *Server) handleIndex(c *fiber.Ctx) error {
	return c.SendString("Hello World")
}

// handleChat is the stateless path: no history, no duplicate
// suppression, the provider response forwarded verbatim.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required in the request body.",
		})
	}

	status, body, err := s.llmClient.CompleteRaw(c.UserContext(), s.relaySvc.StatelessMessages(req.Message))
	if err != nil {
		slog.Error("Completion request failed", "error", err)

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "An unknown error occurred.",
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return c.Status(status).Send(body)
}

func (s *Server) handleInteractions(c *fiber.Ctx) error {
	signature := c.Get("X-Signature-Ed25519")
	timestamp := c.Get("X-Signature-Timestamp")

	if !s.verifier.Verify(signature, timestamp, c.Body()) {
		return c.Status(fiber.StatusUnauthorized).SendString("Invalid request signature")
	}

	var req interactionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.SendStatus(fiber.StatusOK)
	}

	if req.Type == interactionTypePing {
		return c.JSON(fiber.Map{"type": interactionTypePing})
	}

	return c.SendStatus(fiber.StatusOK)
}
