package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/handlers"
	exammode_handlers "github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/handlers/exammode"
	tutor_handlers "github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/handlers/tutor"
	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/services"
	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/utils/middleware"
)

// Deps carries the constructed services into route registration.
type Deps struct {
	Exam           *services.ExamService
	Tutor          *services.TutorService
	AllowedOrigins string
}

func SetupRoutes(app *fiber.App, deps Deps) {
	// Apply security middleware
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    deps.AllowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth)

	examHandler := exammode_handlers.NewExamModeHandler(deps.Exam)
	tutorHandler := tutor_handlers.NewTutorHandler(deps.Tutor)

	// Exam mode routes. Each endpoint answers its own OPTIONS with a 200
	// body; unregistered methods get Fiber's default 405.
	exam := app.Group("/exam-mode")
	exam.Options("/start", examHandler.Preflight)
	exam.Post("/start", examHandler.Start)
	exam.Options("/fetch-papers", examHandler.Preflight)
	exam.Post("/fetch-papers", examHandler.FetchPapers)
	exam.Options("/ask-question", examHandler.Preflight)
	exam.Post("/ask-question", examHandler.AskQuestion)
	exam.Options("/upload-pdf", examHandler.Preflight)
	exam.Post("/upload-pdf", examHandler.UploadPDF)
	exam.Options("/evaluate", examHandler.Preflight)
	exam.Post("/evaluate", examHandler.Evaluate)
	exam.Get("/progress/:session_id", examHandler.Progress)

	// Tutor chat proxy
	app.Options("/ask", tutorHandler.Preflight)
	app.Post("/ask", tutorHandler.Ask)
}
