package devserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/pathwise/internal/resume"
	"github.com/abhisek/pathwise/internal/scoring"
)

// knownTests maps the path suffix of /submit-<test> to the test name.
var knownTests = map[string]string{
	"big-five": "big_five",
	"riasec":   "riasec",
	"aptitude": "aptitude",
}

type emailRequest struct {
	Email string `json:"email"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body: %v", err)
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleSubmitInfo(w http.ResponseWriter, r *http.Request) {
	var body map[string]map[string]any
	if !decodeBody(w, r, &body) {
		return
	}
	email, _ := body["personal"]["email"].(string)
	if email == "" {
		respondError(w, http.StatusBadRequest, "personal.email is required")
		return
	}

	s.mu.Lock()
	s.profileLocked(email).Info = body
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, map[string]string{"message": "Information saved"})
}

func (s *Server) handleSubmitScores(w http.ResponseWriter, r *http.Request) {
	test, ok := knownTests[chi.URLParam(r, "test")]
	if !ok {
		respondError(w, http.StatusNotFound, "unknown test %q", chi.URLParam(r, "test"))
		return
	}
	var sub scoring.Submission
	if !decodeBody(w, r, &sub) {
		return
	}
	if sub.Identity == "" {
		respondError(w, http.StatusBadRequest, "email is required")
		return
	}
	if sub.Test != "" && sub.Test != test {
		respondError(w, http.StatusBadRequest, "test %q does not match endpoint %q", sub.Test, test)
		return
	}

	s.mu.Lock()
	s.profileLocked(sub.Identity).Scores[test] = sub.Scores
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, map[string]string{"message": "Scores saved"})
}

func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, resume.MaxSize+1<<16)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "invalid upload: %v", err)
		return
	}
	email := r.FormValue("email")
	if email == "" {
		respondError(w, http.StatusBadRequest, "email is required")
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		respondError(w, http.StatusBadRequest, "read upload: %v", err)
		return
	}
	info, err := resume.Check(hdr.Filename, data)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "%v", err)
		return
	}

	s.mu.Lock()
	s.profileLocked(email).Resume = &upload{Name: info.Name, Size: info.Size, At: time.Now()}
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, map[string]any{"message": "Resume uploaded", "words": info.Words()})
}

func (s *Server) handleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	p := s.profiles[req.Email]
	var qs []string
	if p != nil {
		qs = questionsFor(p)
	}
	s.mu.Unlock()

	if p == nil {
		respondError(w, http.StatusNotFound, "no profile found for %s", req.Email)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"questions": qs})
}

func (s *Server) handleSubmitAnswers(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email   string   `json:"email"`
		Answers []string `json:"answers"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Answers) == 0 {
		respondError(w, http.StatusBadRequest, "answers are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.profiles[req.Email]
	if p == nil {
		respondError(w, http.StatusNotFound, "no profile found for %s", req.Email)
		return
	}
	p.Answers = append(p.Answers, req.Answers)

	// Ask one follow-up per short answer, but only once per user.
	var follow []string
	if p.Followups == 0 {
		for i, a := range req.Answers {
			if len(strings.Fields(a)) < 5 {
				follow = append(follow, followupFor(i, a))
			}
		}
		if len(follow) > 0 {
			p.Followups++
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"followupQuestions": follow,
		"analysis":          buildReport(p),
	})
}

func (s *Server) handleStartReport(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.profiles[req.Email]
	if p == nil || len(p.Scores) == 0 {
		respondError(w, http.StatusNotFound, "No test scores found for %s", req.Email)
		return
	}
	j := &job{ID: s.newID(), Email: req.Email, Stages: s.stages, Created: time.Now()}
	s.jobs[j.ID] = j
	respondJSON(w, http.StatusAccepted, map[string]string{"task_id": j.ID})
}

func (s *Server) handleReportStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	j := s.jobs[id]
	if j == nil {
		respondError(w, http.StatusNotFound, "Job not found")
		return
	}
	respondJSON(w, http.StatusOK, j.advance(s.profiles[j.Email]))
}
