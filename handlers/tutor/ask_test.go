package tutor

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/services"
)

func newTestApp() *fiber.App {
	handler := NewTutorHandler(services.NewTutorService(services.TutorConfig{APIKey: "test"}))

	app := fiber.New()
	app.Options("/ask", handler.Preflight)
	app.Post("/ask", handler.Ask)
	return app
}

func postJSON(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestAskPreflightReturns200(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodOptions, "/ask", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for OPTIONS, got %d", resp.StatusCode)
	}
}

func TestAskRejectsMalformedJSON(t *testing.T) {
	app := newTestApp()

	resp := postJSON(t, app, `{"subject": `)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed JSON, got %d", resp.StatusCode)
	}
}

func TestAskRequiresStudentQuestion(t *testing.T) {
	app := newTestApp()

	resp := postJSON(t, app, `{"subject":"Maths"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for a missing student_question, got %d", resp.StatusCode)
	}

	defer resp.Body.Close()
	var payload map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("response body is not JSON: %v", err)
	}
	detail, ok := payload["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected the error envelope, got %v", payload)
	}
	if detail["code"] != "VALIDATION_ERROR" {
		t.Errorf("expected the validation error code, got %v", detail["code"])
	}
	if msg, _ := detail["details"].(string); !strings.Contains(msg, "StudentQuestion is required") {
		t.Errorf("expected the missing-field message, got %q", msg)
	}
}
