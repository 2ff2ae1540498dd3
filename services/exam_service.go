package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/model"
)

// Question serving bounds, applied after segmentation.
const (
	minServedQuestionChars = 20
	maxServedQuestionChars = 900
	maxQuestionsPerPDF     = 80
	maxQuestionsPerUpload  = 60

	defaultPaperCacheTTL = 6 * time.Hour
)

// ErrInvalidPDFPayload means the uploaded pdf_base64 field did not decode.
var ErrInvalidPDFPayload = errors.New("pdf_base64 is not valid base64")

// ParseError means a PDF decoded fine but no text could be extracted from
// it. It is the one exam-mode failure surfaced as a hard error, since it
// points at a corrupt upload rather than a flaky paper site.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("could not extract text from PDF: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// PaperDiscoverer finds candidate paper PDFs for a subject/term.
type PaperDiscoverer interface {
	DiscoverPDFLinks(ctx context.Context, seedURL, subject, term string) ([]string, CrawlStats, error)
}

// PDFFetcher downloads PDF bytes.
type PDFFetcher interface {
	FetchPDF(ctx context.Context, url string) ([]byte, error)
}

// TextExtractor turns PDF bytes into plain text.
type TextExtractor interface {
	ExtractText(content []byte) (string, error)
}

// ExamServiceConfig wires the orchestrator. Zero values fall back to
// defaults.
type ExamServiceConfig struct {
	SeedURL       string
	PaperCacheTTL time.Duration
}

// ExamService orchestrates the exam-mode flow: session bookkeeping, paper
// discovery, question extraction and answer grading. Every degraded path
// resolves to a servable question; only a corrupt upload is a hard error.
type ExamService struct {
	store      SessionStore
	discoverer PaperDiscoverer
	fetcher    PDFFetcher
	extractor  TextExtractor
	cleaner    *TextCleaner
	segmenter  *QuestionSegmenter

	seedURL string

	// paperCache holds ranked link lists per subject/term; questionCache
	// holds segmented questions per PDF URL so repeat serves from the same
	// paper skip the fetch+parse round trip.
	paperCache    *gocache.Cache
	questionCache *gocache.Cache
}

// NewExamService creates the orchestrator.
func NewExamService(store SessionStore, discoverer PaperDiscoverer, fetcher PDFFetcher, extractor TextExtractor, cfg ExamServiceConfig) *ExamService {
	if cfg.PaperCacheTTL <= 0 {
		cfg.PaperCacheTTL = defaultPaperCacheTTL
	}
	return &ExamService{
		store:         store,
		discoverer:    discoverer,
		fetcher:       fetcher,
		extractor:     extractor,
		cleaner:       NewTextCleaner(),
		segmenter:     NewQuestionSegmenter(),
		seedURL:       cfg.SeedURL,
		paperCache:    gocache.New(cfg.PaperCacheTTL, 10*time.Minute),
		questionCache: gocache.New(cfg.PaperCacheTTL, 10*time.Minute),
	}
}

func paperCacheKey(subject, term string) string {
	return fmt.Sprintf("papers:%s:%s", model.NormalizeSubject(subject), model.NormalizeTerm(term))
}

// Start creates (or re-keys) a session, overwriting any previous state
// under the same id, and returns the onboarding setup questions.
func (s *ExamService) Start(ctx context.Context, req model.StartExamRequest) (*model.StartExamResponse, error) {
	id := req.SessionID
	if id == "" {
		id = uuid.NewString()
	}

	session := model.NewExamSession(id, model.SessionSeed{
		Subject: req.Subject,
		Term:    req.Term,
		Mode:    req.Mode,
	})
	if err := s.store.Put(ctx, session); err != nil {
		return nil, err
	}

	return &model.StartExamResponse{
		SessionID:      session.ID,
		Subject:        session.Subject,
		Term:           session.Term,
		Mode:           session.Mode,
		SetupQuestions: SetupQuestions,
	}, nil
}

// FetchPapers discovers paper PDFs for the session's subject/term and
// stores them on the session. Discovery failure degrades to ok:false with
// an empty link list; the ask-question path then serves guidance instead.
func (s *ExamService) FetchPapers(ctx context.Context, req model.FetchPapersRequest) (*model.FetchPapersResponse, error) {
	session, err := s.store.Ensure(ctx, req.SessionID, model.SessionSeed{
		Subject: req.Subject,
		Term:    req.Term,
		Mode:    req.Mode,
	})
	if err != nil {
		return nil, err
	}
	if req.Subject != "" {
		session.Subject = req.Subject
	}
	if req.Term != "" {
		session.Term = req.Term
	}

	// Caller-supplied links bypass discovery entirely.
	if len(req.PDFLinks) > 0 {
		session.PDFLinks = req.PDFLinks
		session.PapersLoaded = true
		session.Touch()
		if err := s.store.Put(ctx, session); err != nil {
			return nil, err
		}
		return fetchPapersResponse(session, true, ""), nil
	}

	links, found := s.cachedPapers(session.Subject, session.Term)
	if !found {
		var discoverErr error
		links, _, discoverErr = s.discoverer.DiscoverPDFLinks(ctx, s.seedURL, session.Subject, session.Term)
		if discoverErr != nil {
			log.Printf("Exam Service: paper discovery failed for %s/%s: %v", session.Subject, session.Term, discoverErr)
			session.PDFLinks = []string{}
			session.PapersLoaded = true
			session.Touch()
			if err := s.store.Put(ctx, session); err != nil {
				return nil, err
			}
			return fetchPapersResponse(session, false, "could not reach the past-paper site"), nil
		}
		if len(links) > 0 {
			s.paperCache.SetDefault(paperCacheKey(session.Subject, session.Term), links)
		}
	}

	session.PDFLinks = links
	session.PapersLoaded = true
	session.Touch()
	if err := s.store.Put(ctx, session); err != nil {
		return nil, err
	}
	return fetchPapersResponse(session, true, ""), nil
}

func (s *ExamService) cachedPapers(subject, term string) ([]string, bool) {
	v, ok := s.paperCache.Get(paperCacheKey(subject, term))
	if !ok {
		return nil, false
	}
	return v.([]string), true
}

func fetchPapersResponse(session *model.ExamSession, ok bool, detail string) *model.FetchPapersResponse {
	return &model.FetchPapersResponse{
		OK:         ok,
		SessionID:  session.ID,
		Subject:    session.Subject,
		Term:       session.Term,
		PaperCount: len(session.PDFLinks),
		PDFLinks:   session.PDFLinks,
		Detail:     detail,
	}
}

// AskQuestion serves one practice question. Questions extracted from an
// uploaded PDF are served straight from the session; otherwise one paper is
// picked (avoiding an immediate repeat of the last one), parsed, and a
// random question returned. Never errors on empty or unreachable papers.
func (s *ExamService) AskQuestion(ctx context.Context, req model.AskQuestionRequest) (*model.AskQuestionResponse, error) {
	session, err := s.store.Ensure(ctx, req.SessionID, model.SessionSeed{
		Subject:  req.Subject,
		Term:     req.Term,
		Mode:     req.Mode,
		PDFLinks: req.PDFLinks,
	})
	if err != nil {
		return nil, err
	}
	if len(req.PDFLinks) > 0 {
		session.PDFLinks = req.PDFLinks
		session.PapersLoaded = true
	}

	// Uploaded questions take priority; no re-parsing.
	if len(session.Questions) > 0 {
		q := session.Questions[rand.IntN(len(session.Questions))]
		session.LastQuestionID = q.ID
		session.Touch()
		if err := s.store.Put(ctx, session); err != nil {
			return nil, err
		}
		return &model.AskQuestionResponse{SessionID: session.ID, Question: q}, nil
	}

	if !session.PapersLoaded || len(session.PDFLinks) == 0 {
		count := len(session.PDFLinks)
		return &model.AskQuestionResponse{
			SessionID:  session.ID,
			Question:   noPapersQuestion(session.Subject, session.Term),
			PaperCount: &count,
		}, nil
	}

	picked := pickRandomDifferent(session.PDFLinks, session.LastPDFURL)
	session.LastPDFURL = picked
	session.Touch()

	questions, err := s.questionsFromPDF(ctx, picked)
	if err != nil || len(questions) == 0 {
		if err != nil {
			log.Printf("Exam Service: question extraction from %s failed: %v", picked, err)
		}
		if putErr := s.store.Put(ctx, session); putErr != nil {
			return nil, putErr
		}
		return &model.AskQuestionResponse{
			SessionID: session.ID,
			Question:  fallbackQuestion(session.Subject),
		}, nil
	}

	q := questions[rand.IntN(len(questions))]
	session.LastQuestionID = q.ID
	if err := s.store.Put(ctx, session); err != nil {
		return nil, err
	}
	return &model.AskQuestionResponse{SessionID: session.ID, Question: q}, nil
}

// questionsFromPDF fetches and segments one paper, with a per-URL cache so
// serving several questions from the same paper costs one download.
func (s *ExamService) questionsFromPDF(ctx context.Context, pdfURL string) ([]model.ExamQuestion, error) {
	if v, ok := s.questionCache.Get(pdfURL); ok {
		return v.([]model.ExamQuestion), nil
	}

	content, err := s.fetcher.FetchPDF(ctx, pdfURL)
	if err != nil {
		return nil, err
	}
	text, err := s.extractor.ExtractText(content)
	if err != nil {
		return nil, err
	}

	prepared := s.cleaner.PreprocessForParsing(s.cleaner.Clean(text))
	candidates := s.segmenter.Segment(prepared)

	var questions []model.ExamQuestion
	for _, c := range candidates {
		if len(c.Text) < minServedQuestionChars || len(c.Text) > maxServedQuestionChars {
			continue
		}
		questions = append(questions, model.ExamQuestion{
			ID:        fmt.Sprintf("%s#%d", pdfURL, c.Number),
			Text:      c.Text,
			SourceURL: pdfURL,
		})
		if len(questions) >= maxQuestionsPerPDF {
			break
		}
	}

	if len(questions) > 0 {
		s.questionCache.SetDefault(pdfURL, questions)
	}
	return questions, nil
}

// pickRandomDifferent picks a random element, avoiding last when more than
// one choice exists.
func pickRandomDifferent(links []string, last string) string {
	if len(links) == 0 {
		return ""
	}
	if len(links) == 1 {
		return links[0]
	}
	pool := make([]string, 0, len(links))
	for _, l := range links {
		if l != "" && l != last {
			pool = append(pool, l)
		}
	}
	if len(pool) == 0 {
		pool = links
	}
	return pool[rand.IntN(len(pool))]
}

// UploadPDF extracts questions from a student-supplied PDF and caches them
// on the session, creating the session if needed. content is the already
// decoded PDF; the handler decodes and validates it once.
func (s *ExamService) UploadPDF(ctx context.Context, req model.UploadPDFRequest, content []byte) (*model.UploadPDFResponse, error) {
	text, err := s.extractor.ExtractText(content)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	candidates := s.segmenter.Segment(s.cleaner.Clean(text))
	questions := make([]model.ExamQuestion, 0, len(candidates))
	for _, c := range candidates {
		questions = append(questions, model.ExamQuestion{
			ID:   fmt.Sprintf("uploaded#%d", c.Number),
			Text: c.Text,
		})
		if len(questions) >= maxQuestionsPerUpload {
			break
		}
	}

	session, err := s.store.Ensure(ctx, req.SessionID, model.SessionSeed{
		Subject: req.Subject,
		Term:    req.Term,
	})
	if err != nil {
		return nil, err
	}
	if req.Subject != "" {
		session.Subject = req.Subject
	}
	if req.Term != "" {
		session.Term = req.Term
	}
	session.Questions = questions
	session.PapersLoaded = true
	session.Touch()
	if err := s.store.Put(ctx, session); err != nil {
		return nil, err
	}

	resp := &model.UploadPDFResponse{
		OK:                 true,
		SessionID:          session.ID,
		ExtractedQuestions: len(questions),
	}
	if len(questions) > 0 {
		sample := questions[rand.IntN(len(questions))]
		resp.SampleQuestion = &sample
	}
	return resp, nil
}

// DecodePDFBase64 accepts both a bare base64 payload and a data URI.
func DecodePDFBase64(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if idx := strings.Index(payload, ";base64,"); idx != -1 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+len(";base64,"):]
	}
	if payload == "" {
		return nil, ErrInvalidPDFPayload
	}
	content, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Frontend FileReader output is standard base64, but be lenient
		// about stripped padding.
		content, err = base64.RawStdEncoding.DecodeString(payload)
	}
	return content, err
}

// Evaluate grades an answer for an existing session and updates its
// gamification state.
func (s *ExamService) Evaluate(ctx context.Context, req model.EvaluateRequest) (*model.EvaluateResponse, error) {
	session, err := s.store.Get(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	correct := IsCorrect(req.UserAnswer, req.CorrectAnswer)
	points, badge, steps := ApplyEvaluation(session, correct, req.QuestionType)

	explanation := ""
	if !correct && req.CorrectAnswer != "" {
		explanation = fmt.Sprintf("Incorrect. The correct answer is %s.", req.CorrectAnswer)
	}

	if err := s.store.Put(ctx, session); err != nil {
		return nil, err
	}

	return &model.EvaluateResponse{
		SessionID:     session.ID,
		Correct:       correct,
		PointsAwarded: points,
		Streak:        session.Streak,
		BadgeEarned:   badge,
		Explanation:   explanation,
		MasterySteps:  steps,
		Progress:      progressSnapshot(session),
	}, nil
}

// Progress returns the gamification snapshot for a session.
func (s *ExamService) Progress(ctx context.Context, sessionID string) (*model.ProgressSnapshot, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	snap := progressSnapshot(session)
	return &snap, nil
}

func progressSnapshot(session *model.ExamSession) model.ProgressSnapshot {
	return model.ProgressSnapshot{
		SessionID:        session.ID,
		Points:           session.Points,
		Streak:           session.Streak,
		Badges:           session.Badges,
		ReadinessPercent: session.ReadinessPercent,
		LastUpdated:      session.LastUpdated.Format(time.RFC3339),
	}
}

// WarmPaperCache runs discovery for a subject/term pair and primes the
// paper cache, so the first student request after startup is served from
// cache. Used by the scheduled prefetch job.
func (s *ExamService) WarmPaperCache(ctx context.Context, subject, term string) (int, error) {
	links, stats, err := s.discoverer.DiscoverPDFLinks(ctx, s.seedURL, subject, term)
	if err != nil {
		return 0, err
	}
	if len(links) > 0 {
		s.paperCache.SetDefault(paperCacheKey(subject, term), links)
	}
	log.Printf("Exam Service: prefetched %d links for %s/%s (fetched=%d failed=%d)",
		len(links), subject, term, stats.PagesFetched, stats.PagesFailed)
	return len(links), nil
}
