package api

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/devserver"
	"github.com/abhisek/pathwise/internal/intake"
	"github.com/abhisek/pathwise/internal/report"
	"github.com/abhisek/pathwise/internal/scoring"
)

const email = "asha@example.com"

func newDevClient(t *testing.T) *Client {
	t.Helper()
	srv := httptest.NewServer(devserver.New(devserver.WithLogOutput(io.Discard)).Handler())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", WithTimeout(5*time.Second))
}

func riasecSubmission() scoring.Submission {
	return scoring.NewSubmission(email, "riasec", "riasec", []scoring.CategorySummary{
		{Category: "Investigative", Average: 5, Level: "high"},
		{Category: "Social", Average: 2, Level: "low"},
	})
}

func TestSubmitScores(t *testing.T) {
	c := newDevClient(t)
	ctx := context.Background()

	require.NoError(t, c.SubmitScores(ctx, riasecSubmission()))

	sub := riasecSubmission()
	sub.Instrument = "astrology"
	err := c.SubmitScores(ctx, sub)
	assert.True(t, IsStatus(err, http.StatusNotFound), "got %v", err)

	sub.Instrument = ""
	assert.Error(t, c.SubmitScores(ctx, sub))
}

func TestStartReport_WithoutScores(t *testing.T) {
	c := newDevClient(t)
	_, err := c.StartReport(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusNotFound))

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Detail, "No test scores found")
	assert.Contains(t, err.Error(), "/finalize-career-path")
}

func TestReportJob_CompletesAfterFivePolls(t *testing.T) {
	c := newDevClient(t)
	ctx := context.Background()
	require.NoError(t, c.SubmitScores(ctx, riasecSubmission()))

	id, err := c.StartReport(ctx, email)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	var st *report.JobStatus
	for i := 1; i <= 5; i++ {
		st, err = c.ReportStatus(ctx, id)
		require.NoError(t, err)
		if i < 5 {
			assert.Equal(t, report.StatusInProgress, st.Status, "poll %d", i)
			assert.Equal(t, i-1, st.CurrentStage)
		}
	}
	assert.Equal(t, report.StatusCompleted, st.Status)

	r := report.Parse(st.FinalResult)
	assert.NotEmpty(t, r.FriendlySummary)
	require.NotEmpty(t, r.TopCareers)
	assert.Equal(t, "Data Scientist", r.TopCareers[0].Name)
	assert.Contains(t, r.Strengths, "Investigative (riasec)")
	assert.Contains(t, r.Weaknesses, "Social (riasec)")

	_, err = c.ReportStatus(ctx, "does-not-exist")
	assert.True(t, IsStatus(err, http.StatusNotFound))
}

func TestPoller_AgainstDevServer(t *testing.T) {
	c := newDevClient(t)
	ctx := context.Background()
	require.NoError(t, c.SubmitScores(ctx, riasecSubmission()))

	p := report.NewPoller(c, report.WithInterval(time.Millisecond))
	require.NoError(t, p.Start(ctx, email))

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	snap, err := p.Wait(waitCtx)
	require.NoError(t, err)
	assert.Equal(t, report.StateSucceeded, snap.State)
	assert.Equal(t, 5, snap.Polls)
	require.NotNil(t, snap.Result)
	assert.False(t, snap.Result.Empty())
}

func TestPoller_EmptyStatusBodyEndsJob(t *testing.T) {
	bodies := map[string]string{
		"empty": "",
		"null":  "null",
		"bare":  `{"partial_report":{}}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/finalize-career-path", func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, `{"task_id":"job-1"}`)
			})
			mux.HandleFunc("/finalize-career-path/status/job-1", func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, body)
			})
			srv := httptest.NewServer(mux)
			defer srv.Close()

			c := NewClient(srv.URL)
			_, err := c.ReportStatus(context.Background(), "job-1")
			assert.ErrorIs(t, err, ErrDecode)

			p := report.NewPoller(c, report.WithInterval(time.Millisecond))
			require.NoError(t, p.Start(context.Background(), email))

			waitCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			snap, err := p.Wait(waitCtx)
			require.NoError(t, err)
			assert.Equal(t, report.StateFailed, snap.State)
			assert.ErrorIs(t, snap.Err, ErrDecode)
			assert.Equal(t, 1, snap.Polls)
		})
	}
}

func TestCrossExamination(t *testing.T) {
	c := newDevClient(t)
	ctx := context.Background()

	_, err := c.GenerateQuestions(ctx, email)
	assert.True(t, IsStatus(err, http.StatusNotFound))

	require.NoError(t, c.SubmitInfo(ctx, intake.Submission{
		"personal":  {"email": email, "fullName": "Asha Rao"},
		"interests": {"preferredRole": "Data Analyst"},
	}))
	qs, err := c.GenerateQuestions(ctx, email)
	require.NoError(t, err)
	assert.Contains(t, strings.Join(qs, "\n"), `"Data Analyst"`)

	answers := make([]string, len(qs))
	for i := range answers {
		answers[i] = "I enjoy building dashboards for my college club every week"
	}
	answers[0] = "coding"

	ev, err := c.SubmitAnswers(ctx, email, answers)
	require.NoError(t, err)
	require.Len(t, ev.FollowupQuestions, 1)
	assert.Contains(t, ev.FollowupQuestions[0], "coding")
	require.NotNil(t, ev.Analysis)

	ev, err = c.SubmitAnswers(ctx, email, []string{"ok"})
	require.NoError(t, err)
	assert.Empty(t, ev.FollowupQuestions)
}

func TestSubmitInfo_MissingEmail(t *testing.T) {
	c := newDevClient(t)
	err := c.SubmitInfo(context.Background(), intake.Submission{"personal": {"fullName": "x"}})
	assert.True(t, IsStatus(err, http.StatusBadRequest))
}

func docx(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = io.WriteString(w, `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>`+text+`</w:t></w:r></w:p></w:body></w:document>`)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestUploadResume(t *testing.T) {
	c := newDevClient(t)
	ctx := context.Background()

	require.NoError(t, c.UploadResume(ctx, email, "/home/asha/cv.docx", bytes.NewReader(docx(t, "Python and SQL"))))

	err := c.UploadResume(ctx, email, "cv.txt", strings.NewReader("plain text"))
	assert.True(t, IsStatus(err, http.StatusUnprocessableEntity), "got %v", err)
}

func TestReportStatus_Aliases(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/finalize-career-path", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, email, body["email"])
		_, _ = io.WriteString(w, `{"jobId":"job-7"}`)
	})
	mux.HandleFunc("/finalize-career-path/status/job-7", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"done","currentStage":"3","finalResult":{"friendlySummary":"hi"},"errorMessage":""}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL)
	id, err := c.StartReport(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, "job-7", id)

	st, err := c.ReportStatus(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, report.StatusCompleted, st.Status)
	assert.Equal(t, 3, st.CurrentStage)
	assert.Equal(t, "hi", report.Parse(st.FinalResult).FriendlySummary)
}

func TestStartReport_NoJobID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"queued"}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).StartReport(context.Background(), email)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/generate-questions":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, `{"error":"upstream model timeout"}`)
		default:
			_, _ = io.WriteString(w, `{not json`)
		}
	}))
	defer srv.Close()
	c := NewClient(srv.URL)

	_, err := c.GenerateQuestions(context.Background(), email)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.Code)
	assert.Equal(t, "upstream model timeout", se.Detail)

	_, err = c.ReportStatus(context.Background(), "x")
	assert.ErrorIs(t, err, ErrDecode)

	srv.Close()
	_, err = c.ReportStatus(context.Background(), "x")
	require.Error(t, err)
	assert.False(t, IsStatus(err, 0))
}

func TestWithOAuth2(t *testing.T) {
	tokens := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.FormValue("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"tok-123","token_type":"bearer","expires_in":3600}`)
	}))
	defer tokens.Close()

	var auth string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, "pathwise-test", r.Header.Get("User-Agent"))
		_, _ = io.WriteString(w, `{"questions":["a"]}`)
	}))
	defer api.Close()

	c := NewClient(api.URL, WithUserAgent("pathwise-test"), WithOAuth2(tokens.URL, "cli", "secret", "reports"))
	qs, err := c.GenerateQuestions(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, qs)
	assert.Equal(t, "Bearer tok-123", auth)
}
