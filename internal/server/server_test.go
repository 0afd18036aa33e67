package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/examiz/internal/bank"
	"github.com/abhisek/examiz/internal/question"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Mode = gin.TestMode
	opts.RateLimit = 0
	return opts
}

func questionSet(n int) string {
	var b strings.Builder
	b.WriteString("[")
	for i := 1; i <= n; i++ {
		if i > 1 {
			b.WriteString(",")
		}
		b.WriteString(`{"id":`)
		b.WriteString(strconv.Itoa(i))
		b.WriteString(`,"question":"Q","options":{"A":"one","B":"two"},"correct_answer":"A","category":"prepare_data"}`)
	}
	b.WriteString("]")
	return b.String()
}

func dirSource(files map[string]string) *bank.DirSource {
	fsys := fstest.MapFS{}
	for name, body := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return &bank.DirSource{FS: fsys, Root: "test"}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	h.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestQuestions(t *testing.T) {
	src := dirSource(map[string]string{
		"test_15.json": questionSet(15),
		"test_30.json": `{"not":"an array"}`,
	})
	h := New(src, testOptions(), zap.NewNop()).Handler()

	tests := []struct {
		path   string
		status int
		msg    string
	}{
		{"/api/questions/15", http.StatusOK, ""},
		{"/api/questions/20", http.StatusBadRequest, "Invalid test length. Must be 15, 30, or 45."},
		{"/api/questions/abc", http.StatusBadRequest, "Invalid test length. Must be 15, 30, or 45."},
		{"/api/questions/45", http.StatusNotFound, "Test with length 45 not found."},
		{"/api/questions/30", http.StatusInternalServerError, "Failed to load questions."},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path)
			assert.Equal(t, tt.status, rec.Code)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, errorMessage(t, rec))
			}
		})
	}

	rec := get(t, h, "/api/questions/15")
	var qs []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &qs))
	assert.Len(t, qs, 15)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestQuestions_RoundTripThroughHTTPSource(t *testing.T) {
	pool, err := bank.EmbeddedBank()
	require.NoError(t, err)
	src := bank.NewPoolSource("pool", func(context.Context) ([]question.Question, error) {
		return pool, nil
	}, bank.DefaultWeights, 7)

	ts := httptest.NewServer(New(src, testOptions(), nil).Handler())
	defer ts.Close()

	client := bank.NewHTTPSource(ts.URL)
	qs, err := client.Questions(context.Background(), question.LengthMedium)
	require.NoError(t, err)
	assert.Len(t, qs, 30)
	for _, q := range qs {
		assert.GreaterOrEqual(t, len(q.Options), 2)
	}

	cat, err := client.Catalog(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, cat.Categories)
	assert.Equal(t, "prepare_data", cat.Categories[0].ID)

	_, err = client.Questions(context.Background(), question.Length(20))
	assert.ErrorIs(t, err, bank.ErrInvalidLength)
}

func TestCategories(t *testing.T) {
	withCatalog := dirSource(map[string]string{
		bank.CatalogFile: `{"categories":[{"id":"prepare_data","name":"Prepare Data","questions":3}]}`,
	})
	rec := get(t, New(withCatalog, testOptions(), nil).Handler(), "/api/categories")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"prepare_data"`)

	rec = get(t, New(dirSource(nil), testOptions(), nil).Handler(), "/api/categories")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Categories not found.", errorMessage(t, rec))
}

type failingSource struct{}

func (failingSource) Name() string { return "failing" }
func (failingSource) Questions(context.Context, question.Length) ([]question.Question, error) {
	return nil, errors.New("disk on fire")
}

func TestHealthAndMetrics(t *testing.T) {
	h := New(failingSource{}, testOptions(), nil).Handler()

	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"failing"`)

	rec = get(t, h, "/api/questions/15")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// No catalog support at all.
	rec = get(t, h, "/api/categories")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `examiz_question_load_failures_total{cause="unavailable"} 1`)
	assert.Contains(t, string(body), `examiz_http_requests_total{endpoint="/api/questions/:length",method="GET",status="500"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	opts := testOptions()
	opts.AllowedOrigins = []string{"http://localhost:3000"}
	h := New(failingSource{}, opts, nil).Handler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/questions/15", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://evil.example")
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	opts := testOptions()
	opts.RateLimit = 2
	opts.RateWindow = time.Hour
	h := New(dirSource(map[string]string{"test_15.json": questionSet(15)}), opts, nil).Handler()

	assert.Equal(t, http.StatusOK, get(t, h, "/api/questions/15").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/api/questions/15").Code)
	rec := get(t, h, "/api/questions/15")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Health checks are not limited.
	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	s := New(failingSource{}, testOptions(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
