package exammode

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/model"
	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/services"
	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/utils/pdfvalidation"
	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/utils/response"
	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/utils/validation"
)

// ExamModeHandler exposes the exam-mode pipeline over HTTP. Success
// responses are emitted in the exact shape the frontend consumes; errors go
// through the shared response envelope.
type ExamModeHandler struct {
	exam      *services.ExamService
	validator *validation.Validator
}

// NewExamModeHandler creates the handler.
func NewExamModeHandler(exam *services.ExamService) *ExamModeHandler {
	return &ExamModeHandler{
		exam:      exam,
		validator: validation.NewValidator(),
	}
}

// Preflight answers CORS preflight requests with a 200 instead of Fiber's
// default 204, which the frontend's fetch wrapper expects.
func (h *ExamModeHandler) Preflight(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// parseBody decodes and validates the request body. On failure the 400
// response has already been written and ok is false; the returned error is
// the write error to hand back to fiber, so callers must not continue.
func (h *ExamModeHandler) parseBody(c *fiber.Ctx, dest interface{}) (ok bool, err error) {
	if err := c.BodyParser(dest); err != nil {
		return false, response.BadRequest(c, "Invalid JSON body")
	}
	if err := h.validator.ValidateStruct(dest); err != nil {
		return false, response.ValidationError(c, validation.FormatValidationErrors(err))
	}
	return true, nil
}

// Start handles POST /exam-mode/start.
func (h *ExamModeHandler) Start(c *fiber.Ctx) error {
	var req model.StartExamRequest
	if ok, err := h.parseBody(c, &req); !ok {
		return err
	}
	req.Subject = validation.SanitizeString(req.Subject)
	req.Term = validation.SanitizeString(req.Term)

	resp, err := h.exam.Start(c.Context(), req)
	if err != nil {
		return response.InternalServerError(c, "Failed to start exam session")
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// FetchPapers handles POST /exam-mode/fetch-papers.
func (h *ExamModeHandler) FetchPapers(c *fiber.Ctx) error {
	var req model.FetchPapersRequest
	if ok, err := h.parseBody(c, &req); !ok {
		return err
	}
	req.Subject = validation.SanitizeString(req.Subject)
	req.Term = validation.SanitizeString(req.Term)

	resp, err := h.exam.FetchPapers(c.Context(), req)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch papers")
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// AskQuestion handles POST /exam-mode/ask-question.
func (h *ExamModeHandler) AskQuestion(c *fiber.Ctx) error {
	var req model.AskQuestionRequest
	if ok, err := h.parseBody(c, &req); !ok {
		return err
	}

	resp, err := h.exam.AskQuestion(c.Context(), req)
	if err != nil {
		return response.InternalServerError(c, "Failed to serve a question")
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// UploadPDF handles POST /exam-mode/upload-pdf.
func (h *ExamModeHandler) UploadPDF(c *fiber.Ctx) error {
	var req model.UploadPDFRequest
	if ok, err := h.parseBody(c, &req); !ok {
		return err
	}
	req.Subject = validation.SanitizeString(req.Subject)
	req.Term = validation.SanitizeString(req.Term)

	// Reject oversized or non-PDF payloads before the extraction work; the
	// decoded bytes are passed through so the service never re-decodes.
	content, err := services.DecodePDFBase64(req.PDFBase64)
	if err != nil {
		return response.BadRequest(c, "pdf_base64 could not be decoded")
	}
	check, err := pdfvalidation.ValidatePDFBytes(content, pdfvalidation.UploadLimits)
	if err != nil {
		return response.InternalServerError(c, "Failed to process the uploaded PDF")
	}
	if !check.Valid {
		return response.BadRequest(c, check.Error)
	}

	resp, err := h.exam.UploadPDF(c.Context(), req, content)
	if err != nil {
		var parseErr *services.ParseError
		if errors.As(err, &parseErr) {
			return response.InternalServerError(c, "Failed to extract text from the uploaded PDF")
		}
		return response.InternalServerError(c, "Failed to process the uploaded PDF")
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// Evaluate handles POST /exam-mode/evaluate.
func (h *ExamModeHandler) Evaluate(c *fiber.Ctx) error {
	var req model.EvaluateRequest
	if ok, err := h.parseBody(c, &req); !ok {
		return err
	}

	resp, err := h.exam.Evaluate(c.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return response.NotFound(c, "Unknown session_id")
		}
		return response.InternalServerError(c, "Failed to evaluate answer")
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// Progress handles GET /exam-mode/progress/:session_id.
func (h *ExamModeHandler) Progress(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	if sessionID == "" {
		return response.BadRequest(c, "session_id is required")
	}

	snap, err := h.exam.Progress(c.Context(), sessionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return response.NotFound(c, "Unknown session_id")
		}
		return response.InternalServerError(c, "Failed to load progress")
	}
	return c.Status(fiber.StatusOK).JSON(snap)
}
