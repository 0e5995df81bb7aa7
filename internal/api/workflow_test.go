package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"review-eval/internal/api"
	"review-eval/internal/auth"
	"review-eval/internal/catalog"
	"review-eval/internal/config"
	"review-eval/internal/evaluation"
	"review-eval/internal/middleware"
	"review-eval/internal/models"
	"review-eval/internal/results"
	"review-eval/internal/testutils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	router *gin.Engine
	ds     testutils.Dataset
}

func setupTestServer(t *testing.T, adminHash string) *testServer {
	t.Helper()
	ds := testutils.WriteDataset(t)

	cfg := &config.Config{}
	cfg.Data.Dir = ds.DataDir
	cfg.Data.SourcesFile = ds.SourcesFile
	cfg.Data.ResultsPath = ds.ResultsPath
	cfg.Session.Secret = "test-secret"
	cfg.Session.TTL = time.Hour
	cfg.Admin.User = "admin"
	cfg.Admin.PasswordHash = adminHash

	cat, err := catalog.Load(catalog.Options{DataDir: ds.DataDir, SourcesFile: ds.SourcesFile}, zap.NewNop())
	require.NoError(t, err)
	svc := evaluation.NewService(cat, results.NewCSVSink(ds.ResultsPath), zap.NewNop())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	require.NoError(t, api.SetupRoutes(router, cfg, cat, svc, zap.NewNop()))

	return &testServer{router: router, ds: ds}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// login selects a rater through the page form and returns the session cookie.
func (s *testServer) login(t *testing.T, user string) *http.Cookie {
	t.Helper()
	form := url.Values{"user": {user}}
	req, _ := http.NewRequest("POST", "/session", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := s.do(req)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/papers", w.Header().Get("Location"))

	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	t.Fatalf("no session cookie set")
	return nil
}

func (s *testServer) form(t *testing.T, cookie *http.Cookie, paperID string) models.EvaluationForm {
	t.Helper()
	req, _ := http.NewRequest("GET", "/api/v1/papers/"+paperID, nil)
	req.AddCookie(cookie)
	w := s.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var form models.EvaluationForm
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &form))
	return form
}

func allRatings(form models.EvaluationForm, grade string) map[string]string {
	ratings := make(map[string]string)
	for _, r := range form.Reviews {
		for _, b := range r.Sections {
			for _, p := range b.Points {
				ratings[p.Key] = grade
			}
		}
	}
	return ratings
}

func dataRows(t *testing.T, path string) [][]string {
	t.Helper()
	rows, err := results.ReadAll(path)
	require.NoError(t, err)
	return rows
}

func TestHealth(t *testing.T) {
	s := setupTestServer(t, "")
	req, _ := http.NewRequest("GET", "/health", nil)
	w := s.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRaterPapersAreRestrictedToAssignments(t *testing.T) {
	s := setupTestServer(t, "")

	cases := map[string][]string{
		"alice": {"P1", "P2"},
		"bob":   {"P2", "P3"},
		"carol": {},
	}
	for user, want := range cases {
		t.Run(user, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "/api/v1/raters/"+user+"/papers", nil)
			w := s.do(req)
			require.Equal(t, http.StatusOK, w.Code)

			var resp models.RaterPapersResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, user, resp.Rater.ID)
			assert.Equal(t, want, resp.Papers)
		})
	}

	req, _ := http.NewRequest("GET", "/api/v1/raters/mallory/papers", nil)
	assert.Equal(t, http.StatusNotFound, s.do(req).Code)
}

func TestCreateSession_UnknownUser(t *testing.T) {
	s := setupTestServer(t, "")
	form := url.Values{"user": {"mallory"}}
	req, _ := http.NewRequest("POST", "/session", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := s.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unknown user.")
	assert.Empty(t, w.Result().Cookies())
}

func TestPagesRequireSession(t *testing.T) {
	s := setupTestServer(t, "")

	req, _ := http.NewRequest("GET", "/papers", nil)
	w := s.do(req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	req, _ = http.NewRequest("GET", "/api/v1/papers/P1", nil)
	assert.Equal(t, http.StatusUnauthorized, s.do(req).Code)
}

func TestPapersPageListsAssignments(t *testing.T) {
	s := setupTestServer(t, "")
	cookie := s.login(t, "alice")

	req, _ := http.NewRequest("GET", "/papers", nil)
	req.AddCookie(cookie)
	w := s.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Alice Smith")
	assert.Contains(t, body, `href="/papers/P1"`)
	assert.Contains(t, body, `href="/papers/P2"`)
	assert.NotContains(t, body, `href="/papers/P3"`)
}

func TestPaperForm_NotAssigned(t *testing.T) {
	s := setupTestServer(t, "")
	cookie := s.login(t, "alice")

	req, _ := http.NewRequest("GET", "/api/v1/papers/P3", nil)
	req.AddCookie(cookie)
	assert.Equal(t, http.StatusForbidden, s.do(req).Code)

	req, _ = http.NewRequest("GET", "/papers/P3", nil)
	req.AddCookie(cookie)
	assert.Equal(t, http.StatusForbidden, s.do(req).Code)
}

func TestSubmitEvaluation_IncompleteIsRejected(t *testing.T) {
	s := setupTestServer(t, "")
	cookie := s.login(t, "alice")
	form := s.form(t, cookie, "P1")

	ratings := allRatings(form, models.GradeMostlyAgree)
	for key := range ratings {
		ratings[key] = models.GradeUnrated
		break
	}
	body, _ := json.Marshal(models.SubmitEvaluationRequest{Ratings: ratings})
	req, _ := http.NewRequest("POST", "/api/v1/papers/P1/evaluations", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)

	w := s.do(req)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	var resp struct {
		Error   string   `json:"error"`
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Missing, 1)
	assert.Contains(t, resp.Error, "Please ensure all fields")

	_, err := os.Stat(s.ds.ResultsPath)
	assert.True(t, os.IsNotExist(err), "results file must not be created")
}

func TestSubmitEvaluation_CompleteAppendsOneRowPerPoint(t *testing.T) {
	s := setupTestServer(t, "")
	cookie := s.login(t, "alice")
	form := s.form(t, cookie, "P1")
	require.Len(t, form.Reviews, 2)

	body, _ := json.Marshal(models.SubmitEvaluationRequest{Ratings: allRatings(form, models.GradeCompletelyAgree)})
	req, _ := http.NewRequest("POST", "/api/v1/papers/P1/evaluations", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)

	w := s.do(req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.SubmitEvaluationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, testutils.P1Points, resp.Rows)

	rows := dataRows(t, s.ds.ResultsPath)
	require.Len(t, rows, testutils.P1Points)
	for _, row := range rows {
		assert.Equal(t, resp.SubmissionID.String(), row[0])
		assert.Equal(t, "alice", row[2])
		assert.Equal(t, "P1", row[3])
		assert.Equal(t, models.GradeCompletelyAgree, row[10])
	}
}

func TestSubmitPaperForm_HTML(t *testing.T) {
	s := setupTestServer(t, "")
	cookie := s.login(t, "alice")
	form := s.form(t, cookie, "P1")
	ratings := allRatings(form, models.GradeMostlyDisagree)

	post := func(values url.Values) *httptest.ResponseRecorder {
		req, _ := http.NewRequest("POST", "/papers/P1/submit", strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		return s.do(req)
	}

	partial := url.Values{}
	first := true
	for key, grade := range ratings {
		if first {
			first = false
			continue
		}
		partial.Set("ratings["+key+"]", grade)
	}
	w := post(partial)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Please ensure all fields (Summary and Points) are rated for every review set.")
	assert.Contains(t, w.Body.String(), `class="point flagged"`)
	assert.Empty(t, dataRows(t, s.ds.ResultsPath))

	complete := url.Values{}
	for key, grade := range ratings {
		complete.Set("ratings["+key+"]", grade)
	}
	w = post(complete)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Saved successfully! (4 ratings recorded)")
	assert.Len(t, dataRows(t, s.ds.ResultsPath), testutils.P1Points)
}

func TestPaperPage_RendersReviewSets(t *testing.T) {
	s := setupTestServer(t, "")
	cookie := s.login(t, "alice")

	req, _ := http.NewRequest("GET", "/papers/P2", nil)
	req.AddCookie(cookie)
	w := s.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Review Set A")
	assert.Contains(t, body, "Review Set B")
	assert.Contains(t, body, `src="/papers/P2/pdf"`)
	assert.Contains(t, body, "<strong>strong</strong> one")
	assert.NotContains(t, body, "**strong**")
}

func TestServePDF(t *testing.T) {
	s := setupTestServer(t, "")
	alice := s.login(t, "alice")
	bob := s.login(t, "bob")

	req, _ := http.NewRequest("GET", "/papers/P1/pdf", nil)
	req.AddCookie(alice)
	w := s.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.4 P1", w.Body.String())

	req, _ = http.NewRequest("GET", "/papers/P1/pdf?download=1", nil)
	req.AddCookie(alice)
	w = s.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "P1.pdf")

	req, _ = http.NewRequest("GET", "/papers/P3/pdf", nil)
	req.AddCookie(alice)
	assert.Equal(t, http.StatusForbidden, s.do(req).Code)

	req, _ = http.NewRequest("GET", "/papers/P3/pdf", nil)
	req.AddCookie(bob)
	assert.Equal(t, http.StatusNotFound, s.do(req).Code)
}

func TestExportResults(t *testing.T) {
	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)
	s := setupTestServer(t, hash)

	req, _ := http.NewRequest("GET", "/admin/results", nil)
	assert.Equal(t, http.StatusUnauthorized, s.do(req).Code)

	req, _ = http.NewRequest("GET", "/admin/results", nil)
	req.SetBasicAuth("admin", "wrong")
	assert.Equal(t, http.StatusUnauthorized, s.do(req).Code)

	req, _ = http.NewRequest("GET", "/admin/results", nil)
	req.SetBasicAuth("admin", "hunter2")
	assert.Equal(t, http.StatusNotFound, s.do(req).Code)

	testutils.WriteFile(t, s.ds.ResultsPath, strings.Join(models.RecordHeader, ",")+"\n")
	req, _ = http.NewRequest("GET", "/admin/results", nil)
	req.SetBasicAuth("admin", "hunter2")
	w := s.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "evaluation_results.csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "submission_id,"))
}

func TestExportResults_DisabledWithoutHash(t *testing.T) {
	s := setupTestServer(t, "")
	req, _ := http.NewRequest("GET", "/admin/results", nil)
	req.SetBasicAuth("admin", "anything")
	assert.Equal(t, http.StatusNotFound, s.do(req).Code)
}
