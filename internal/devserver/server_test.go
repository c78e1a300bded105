package devserver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(opts ...Option) *Server {
	return New(append([]Option{WithLogOutput(io.Discard)}, opts...)...)
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

const aptitudeScores = `{"email":"ravi@example.com","test":"aptitude","scores":{
	"Logical":{"average":4.5,"level":"High"},
	"Numerical":{"average":2,"level":"Low"}}}`

func TestHealth(t *testing.T) {
	rec, body := do(t, newTestServer(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/submit-info", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubmitScores_Validation(t *testing.T) {
	s := newTestServer()

	rec, _ := do(t, s, http.MethodPost, "/submit-tarot", aptitudeScores)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body := do(t, s, http.MethodPost, "/submit-riasec", aptitudeScores)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["detail"], "does not match")

	rec, _ = do(t, s, http.MethodPost, "/submit-aptitude", `{"test":"aptitude"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, s, http.MethodPost, "/submit-aptitude", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, s, http.MethodPost, "/submit-aptitude", aptitudeScores)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReportJob_Progression(t *testing.T) {
	s := newTestServer(WithIDGenerator(func() string { return "job-1" }), WithStages(4))
	do(t, s, http.MethodPost, "/submit-aptitude", aptitudeScores)

	rec, body := do(t, s, http.MethodPost, "/finalize-career-path", `{"email":"ravi@example.com"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "job-1", body["task_id"])

	var statuses []string
	var last map[string]any
	for i := 0; i < 6; i++ {
		_, last = do(t, s, http.MethodGet, "/finalize-career-path/status/job-1", "")
		statuses = append(statuses, last["status"].(string))
		if i == 2 {
			assert.NotNil(t, last["partial_report"], "partial report after halfway")
		}
		if i == 0 {
			assert.Nil(t, last["partial_report"])
		}
	}
	assert.Equal(t, []string{"in_progress", "in_progress", "in_progress", "completed", "completed", "completed"}, statuses)

	final := last["final_report"].(map[string]any)
	assert.Contains(t, final["strengths"], "Logical (aptitude)")
	assert.Contains(t, final["weaknesses"], "Numerical (aptitude)")
	assert.Contains(t, final["skill_gaps"], "Build numerical reasoning through regular practice")
	assert.Nil(t, final["top_careers"], "no RIASEC results, no careers")
}

func TestReportJob_UnknownAndNoScores(t *testing.T) {
	s := newTestServer()

	rec, _ := do(t, s, http.MethodGet, "/finalize-career-path/status/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body := do(t, s, http.MethodPost, "/finalize-career-path", `{"email":"ghost@example.com"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body["detail"], "No test scores found")
}

func TestReportJob_ProfileRemoved(t *testing.T) {
	s := newTestServer(WithIDGenerator(func() string { return "job-1" }))
	do(t, s, http.MethodPost, "/submit-aptitude", aptitudeScores)
	do(t, s, http.MethodPost, "/finalize-career-path", `{"email":"ravi@example.com"}`)

	s.mu.Lock()
	delete(s.profiles, "ravi@example.com")
	s.mu.Unlock()

	_, body := do(t, s, http.MethodGet, "/finalize-career-path/status/job-1", "")
	assert.Equal(t, "failed", body["status"])
	assert.NotEmpty(t, body["error"])
}

func TestSubmitAnswers_RequiresProfileAndAnswers(t *testing.T) {
	s := newTestServer()
	rec, _ := do(t, s, http.MethodPost, "/submit-answers", `{"email":"x@example.com","answers":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, s, http.MethodPost, "/submit-answers", `{"email":"x@example.com","answers":["a"]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
