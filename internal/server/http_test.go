package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/trivia-api/internal/config"
	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
	"github.com/gokatarajesh/trivia-api/internal/question"
)

// stubStore serves one fixed question and accepts every write.
type stubStore struct{}

var stubQuestion = sqlcgen.Question{ID: 1, Question: "Whose autobiography is entitled 'I Know Why the Caged Bird Sings'?", Answer: "Maya Angelou", Category: 4, Difficulty: 2}

func (stubStore) Count(context.Context) (int64, error) { return 1, nil }
func (stubStore) List(context.Context, int32, int32) ([]sqlcgen.Question, error) {
	return []sqlcgen.Question{stubQuestion}, nil
}
func (stubStore) FindByID(_ context.Context, id int32) (*sqlcgen.Question, error) {
	if id != stubQuestion.ID {
		return nil, nil
	}
	q := stubQuestion
	return &q, nil
}
func (stubStore) Delete(context.Context, int32) (bool, error) { return true, nil }
func (stubStore) Insert(context.Context, sqlcgen.InsertQuestionParams) (int32, error) {
	return 2, nil
}
func (stubStore) Search(context.Context, string) ([]sqlcgen.Question, error) {
	return []sqlcgen.Question{stubQuestion}, nil
}
func (stubStore) ListByCategory(context.Context, int32) ([]sqlcgen.Question, error) {
	return []sqlcgen.Question{stubQuestion}, nil
}
func (stubStore) ListExcluding(context.Context, int32, []int32) ([]sqlcgen.Question, error) {
	return nil, nil
}

type stubCategories struct{}

func (stubCategories) List(context.Context) ([]sqlcgen.Category, error) {
	return []sqlcgen.Category{{ID: 4, Type: "History"}}, nil
}

var testCORS = config.CORS{
	AllowHeaders: "Content-Type, Authorization",
	AllowMethods: "POST,PUT,DELETE,OPTIONS,PATCH",
}

func newTestRouter(t *testing.T, pings ...PingFunc) http.Handler {
	t.Helper()
	svc := question.NewService(stubStore{}, stubCategories{}, nil, question.ServiceOptions{})
	handler := question.NewHTTPHandler(svc, zerolog.Nop())
	return NewRouter(testCORS, zerolog.Nop(), prometheus.NewRegistry(), handler, pings...)
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func assertCORS(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "POST,PUT,DELETE,OPTIONS,PATCH", rec.Header().Get("Access-Control-Allow-Methods"))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestRouterServesTriviaRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/categories", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assertCORS(t, rec)
	assert.Equal(t, map[string]interface{}{"4": "History"}, decodeBody(t, rec)["categories"])

	rec = serve(router, http.MethodGet, "/questions", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assertCORS(t, rec)
}

func TestRouterCORSOnErrors(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name    string
		method  string
		target  string
		body    string
		status  int
		message string
	}{
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound, "Not found"},
		{"wrong method", http.MethodPut, "/categories", "", http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"missing question", http.MethodDelete, "/questions/1000", "", http.StatusNotFound, "Not found"},
		{"bad create", http.MethodPost, "/questions", `{"question":"Q"}`, http.StatusBadRequest, "Bad Request"},
		{"bad difficulty", http.MethodPost, "/questions", `{"question":"Q","answer":"A","category":1,"difficulty":"hello"}`, http.StatusUnprocessableEntity, "Unprocessible"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(router, tc.method, tc.target, tc.body)

			assert.Equal(t, tc.status, rec.Code)
			assertCORS(t, rec)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, float64(tc.status), body["error"])
			assert.Equal(t, tc.message, body["message"])
		})
	}
}

func TestRouterPreflight(t *testing.T) {
	router := newTestRouter(t)

	for _, target := range []string{"/questions", "/quizzes", "/anything/at/all"} {
		rec := serve(router, http.MethodOptions, target, "")
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assertCORS(t, rec)
	}
}

func TestRouterQuizExhaustedReturnsNull(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(router, http.MethodPost, "/quizzes", `{"previous_questions":[1],"quiz_category":{"id":4,"type":"History"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"question":null}`, rec.Body.String())
}

func TestRouterRequestID(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/healthz", "")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestRouterHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	serve(router, http.MethodGet, "/categories", "")

	rec = serve(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	raw, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `trivia_http_requests_total{method="GET",route="/categories",status="200"} 1`)
	assert.Contains(t, string(raw), "trivia_http_request_duration_seconds")
}

func TestRouterPing(t *testing.T) {
	healthy := newTestRouter(t, func(context.Context) error { return nil })
	rec := serve(healthy, http.MethodGet, "/v1/ping", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"pong":true}`, rec.Body.String())

	down := newTestRouter(t, func(context.Context) error { return errors.New("connection refused") })
	rec = serve(down, http.MethodGet, "/v1/ping", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRouterPanicReturnsJSON(t *testing.T) {
	router := newTestRouter(t)
	mux, ok := router.(*chi.Mux)
	require.True(t, ok)
	mux.Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})

	rec := serve(router, http.MethodGet, "/boom", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assertCORS(t, rec)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(500), body["error"])
	assert.Equal(t, "Internal Server Error", body["message"])
}
