// Package devserver is an in-process implementation of the guidance
// service API. It stores everything in memory and generates a
// deterministic report, which makes it suitable for local development
// and end-to-end tests.
package devserver

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/abhisek/pathwise/internal/report"
	"github.com/abhisek/pathwise/internal/scoring"
)

// Server holds the in-memory state behind the API.
type Server struct {
	router *chi.Mux
	logOut io.Writer

	// stages is how many status polls a job takes to finish.
	stages int
	newID  func() string

	mu       sync.Mutex
	profiles map[string]*profile
	jobs     map[string]*job
}

type profile struct {
	Info      map[string]map[string]any
	Scores    map[string]map[string]scoring.Score // test -> category -> score
	Resume    *upload
	Answers   [][]string
	Followups int
}

type upload struct {
	Name string
	Size int64
	At   time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogOutput sends request logs to w. Use io.Discard to silence them.
func WithLogOutput(w io.Writer) Option {
	return func(s *Server) { s.logOut = w }
}

// WithStages sets how many polls a report job takes.
func WithStages(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.stages = n
		}
	}
}

// WithIDGenerator replaces uuid job IDs, for tests.
func WithIDGenerator(f func() string) Option {
	return func(s *Server) { s.newID = f }
}

// New creates a Server with its routes mounted.
func New(opts ...Option) *Server {
	s := &Server{
		logOut:   os.Stderr,
		stages:   len(report.Stages),
		newID:    func() string { return uuid.NewString() },
		profiles: make(map[string]*profile),
		jobs:     make(map[string]*job),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRouter()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  log.New(s.logOut, "", log.LstdFlags),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Post("/submit-info", s.handleSubmitInfo)
	r.Post("/submit-answers", s.handleSubmitAnswers)
	r.Post("/submit-{test}", s.handleSubmitScores)
	r.Post("/upload-resume", s.handleUploadResume)
	r.Post("/generate-questions", s.handleGenerateQuestions)

	r.Route("/finalize-career-path", func(r chi.Router) {
		r.Post("/", s.handleStartReport)
		r.Get("/status/{id}", s.handleReportStatus)
	})

	s.router = r
}

// profileLocked returns the profile for email, creating it. s.mu must be
// held.
func (s *Server) profileLocked(email string) *profile {
	p := s.profiles[email]
	if p == nil {
		p = &profile{Scores: make(map[string]map[string]scoring.Score)}
		s.profiles[email] = p
	}
	return p
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "devserver: encode response: %v\n", err)
	}
}

// respondError writes the {"detail": ...} body the real service uses.
func respondError(w http.ResponseWriter, status int, format string, args ...any) {
	respondJSON(w, status, map[string]string{"detail": fmt.Sprintf(format, args...)})
}
