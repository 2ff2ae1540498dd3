package model

// Request/response bodies for the exam-mode endpoints. Field names mirror
// the frontend contract (snake_case JSON).

// StartExamRequest starts (or re-keys) a practice run.
type StartExamRequest struct {
	SessionID string `json:"session_id"`
	Subject   string `json:"subject"`
	Term      string `json:"term"`
	Mode      string `json:"mode" validate:"omitempty,oneof=practice real"`
}

type StartExamResponse struct {
	SessionID      string   `json:"session_id"`
	Subject        string   `json:"subject"`
	Term           string   `json:"term"`
	Mode           string   `json:"mode"`
	SetupQuestions []string `json:"setup_questions,omitempty"`
}

// FetchPapersRequest triggers link discovery. pdf_links may be supplied
// directly to bypass discovery for stateless/offline operation.
type FetchPapersRequest struct {
	SessionID string   `json:"session_id" validate:"required"`
	Subject   string   `json:"subject"`
	Term      string   `json:"term"`
	Mode      string   `json:"mode"`
	PDFLinks  []string `json:"pdf_links"`
}

type FetchPapersResponse struct {
	OK         bool     `json:"ok"`
	SessionID  string   `json:"session_id"`
	Subject    string   `json:"subject"`
	Term       string   `json:"term"`
	PaperCount int      `json:"paper_count"`
	PDFLinks   []string `json:"pdf_links"`
	Detail     string   `json:"detail,omitempty"`
}

type AskQuestionRequest struct {
	SessionID string   `json:"session_id" validate:"required"`
	Subject   string   `json:"subject"`
	Term      string   `json:"term"`
	Mode      string   `json:"mode"`
	PDFLinks  []string `json:"pdf_links"`
}

type AskQuestionResponse struct {
	SessionID  string       `json:"session_id"`
	Question   ExamQuestion `json:"question"`
	PaperCount *int         `json:"paper_count,omitempty"`
}

type UploadPDFRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	PDFBase64 string `json:"pdf_base64" validate:"required"`
	Subject   string `json:"subject"`
	Term      string `json:"term"`
}

type UploadPDFResponse struct {
	OK                 bool          `json:"ok"`
	SessionID          string        `json:"session_id"`
	ExtractedQuestions int           `json:"extracted_questions"`
	SampleQuestion     *ExamQuestion `json:"sample_question"`
}

// EvaluateRequest grades a student's answer against a served question.
type EvaluateRequest struct {
	SessionID     string `json:"session_id" validate:"required"`
	QuestionID    string `json:"question_id"`
	UserAnswer    string `json:"user_answer" validate:"required"`
	CorrectAnswer string `json:"correct_answer"`
	QuestionType  string `json:"question_type"`
}

type TeachingStep struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type EvaluateResponse struct {
	SessionID     string           `json:"session_id"`
	Correct       bool             `json:"correct"`
	PointsAwarded int              `json:"points_awarded"`
	Streak        int              `json:"streak"`
	BadgeEarned   string           `json:"badge_earned,omitempty"`
	Explanation   string           `json:"explanation,omitempty"`
	MasterySteps  []TeachingStep   `json:"mastery_steps,omitempty"`
	Progress      ProgressSnapshot `json:"progress"`
}

// ProgressSnapshot is the gamification view of a session.
type ProgressSnapshot struct {
	SessionID        string   `json:"session_id"`
	Points           int      `json:"points"`
	Streak           int      `json:"streak"`
	Badges           []string `json:"badges"`
	ReadinessPercent int      `json:"readiness_percent"`
	LastUpdated      string   `json:"last_updated"`
}

// AskTutorRequest proxies a chat turn to the LLM.
type AskTutorRequest struct {
	Subject         string         `json:"subject"`
	Language        string         `json:"language"`
	StudentQuestion string         `json:"student_question" validate:"required"`
	History         []TutorMessage `json:"history"`
}

type TutorMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AskTutorResponse struct {
	Answer        string `json:"answer"`
	OffSyllabus   bool   `json:"off_syllabus"`
	PointsAwarded int    `json:"points_awarded,omitempty"`
}
