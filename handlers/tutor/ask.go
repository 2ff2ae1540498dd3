package tutor

import (
	"github.com/gofiber/fiber/v2"

	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/model"
	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/services"
	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/utils/response"
	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/utils/validation"
)

// TutorHandler exposes the LLM tutor chat proxy.
type TutorHandler struct {
	tutor     *services.TutorService
	validator *validation.Validator
}

// NewTutorHandler creates the handler.
func NewTutorHandler(tutor *services.TutorService) *TutorHandler {
	return &TutorHandler{
		tutor:     tutor,
		validator: validation.NewValidator(),
	}
}

// Preflight answers CORS preflight requests with a 200 body.
func (h *TutorHandler) Preflight(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// Ask handles POST /ask: one tutor chat turn.
func (h *TutorHandler) Ask(c *fiber.Ctx) error {
	var req model.AskTutorRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid JSON body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}
	req.Subject = validation.SanitizeString(req.Subject)
	req.StudentQuestion = validation.SanitizeString(req.StudentQuestion)

	resp, err := h.tutor.Ask(c.Context(), req)
	if err != nil {
		return response.InternalServerError(c, "AI request failed")
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}
