package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	openai "github.com/sashabaranov/go-openai"

	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/model"
)

const (
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"
	defaultTutorModel  = "llama-3.1-8b-instant"

	tutorTemperature   = 0.45
	maxHistoryMessages = 20
	maxHistoryChars    = 1200
)

// ErrTutorUnavailable is returned when the upstream chat API fails or
// answers with empty content.
var ErrTutorUnavailable = errors.New("AI request failed")

// awardPointsRe matches the inline directive the model is prompted to emit
// when the student earns points mid-conversation.
var awardPointsRe = regexp.MustCompile(`(?i)\bAWARD_POINTS\s*:\s*(\d+)\b`)

// TutorConfig wires the upstream chat-completion API. Groq exposes an
// OpenAI-compatible endpoint, so the OpenAI client is pointed at its base
// URL.
type TutorConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// TutorService proxies chat turns to the LLM with the Grade 9 tutor
// persona.
type TutorService struct {
	client *openai.Client
	model  string
}

// NewTutorService creates a tutor backed by the configured chat API.
func NewTutorService(cfg TutorConfig) *TutorService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGroqBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultTutorModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &TutorService{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

func tutorSystemPrompt(language string) string {
	return fmt.Sprintf("You are 'The Tutor' — a real, warm Grade 9 teacher in Sri Lanka. "+
		"Your teaching must be strictly aligned to the official 2024 Sri Lankan Grade 9 print textbooks. "+
		"Speak in %s.", language)
}

// cleanHistory keeps only well-formed user/assistant turns, trims to the
// last maxHistoryMessages, and caps each message so one pasted essay cannot
// blow the context window.
func cleanHistory(history []model.TutorMessage) []openai.ChatCompletionMessage {
	var cleaned []openai.ChatCompletionMessage
	for _, m := range history {
		if m.Content == "" || (m.Role != openai.ChatMessageRoleUser && m.Role != openai.ChatMessageRoleAssistant) {
			continue
		}
		content := m.Content
		if len(content) > maxHistoryChars {
			content = content[:maxHistoryChars]
		}
		cleaned = append(cleaned, openai.ChatCompletionMessage{Role: m.Role, Content: content})
	}
	if len(cleaned) > maxHistoryMessages {
		cleaned = cleaned[len(cleaned)-maxHistoryMessages:]
	}
	return cleaned
}

// Ask sends one chat turn and returns the tutor's answer, including any
// points the model awarded via the AWARD_POINTS directive.
func (t *TutorService) Ask(ctx context.Context, req model.AskTutorRequest) (*model.AskTutorResponse, error) {
	subject := req.Subject
	if subject == "" {
		subject = "General"
	}
	language := req.Language
	if language == "" {
		language = "English"
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: tutorSystemPrompt(language)},
	}
	messages = append(messages, cleanHistory(req.History)...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: fmt.Sprintf("Subject: %s\nStudent question: %s", subject, req.StudentQuestion),
	})

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       t.model,
		Messages:    messages,
		Temperature: tutorTemperature,
	})
	if err != nil {
		return nil, ErrTutorUnavailable
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, ErrTutorUnavailable
	}
	answer := resp.Choices[0].Message.Content

	return &model.AskTutorResponse{
		Answer:        answer,
		OffSyllabus:   false,
		PointsAwarded: parseAwardedPoints(answer),
	}, nil
}

// parseAwardedPoints extracts the first AWARD_POINTS directive, if any.
func parseAwardedPoints(answer string) int {
	m := awardPointsRe.FindStringSubmatch(answer)
	if m == nil {
		return 0
	}
	points, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return points
}
