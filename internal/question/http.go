package question

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/logging"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// HTTPHandler exposes the trivia REST endpoints.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandler constructs a trivia HTTP handler.
func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "question_http").Logger(),
	}
}

// Routes mounts the handlers on r.
func (h *HTTPHandler) Routes(r chi.Router) {
	r.Get("/categories", h.GetCategories)
	r.Get("/categories/{category_id}/questions", h.GetCategoryQuestions)
	r.Get("/questions", h.GetQuestions)
	r.Post("/questions", h.CreateQuestion)
	r.Delete("/questions/{id}", h.DeleteQuestion)
	r.Post("/search", h.SearchQuestions)
	r.Post("/quizzes", h.PlayQuiz)
}

// GetCategories handles GET /categories
func (h *HTTPHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"categories": categories,
	})
}

// GetQuestions handles GET /questions?page=N
func (h *HTTPHandler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			page = parsed
		}
	}

	result, err := h.svc.ListQuestions(r.Context(), page)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// DeleteQuestion handles DELETE /questions/{id}
func (h *HTTPHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httperrors.RespondNotFound(w)
		return
	}

	if err := h.svc.DeleteQuestion(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"success": true,
	})
}

// CreateQuestion handles POST /questions
func (h *HTTPHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestionRequest
	if err := decodeJSON(r, &req); err != nil {
		httperrors.RespondBadRequest(w)
		return
	}

	created, err := h.svc.CreateQuestion(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"success":         true,
		"question":        created.ID,
		"total_questions": created.TotalQuestions,
	})
}

// SearchQuestions handles POST /search
func (h *HTTPHandler) SearchQuestions(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decodeJSON(r, &req); err != nil {
		httperrors.RespondBadRequest(w)
		return
	}

	result, err := h.svc.Search(r.Context(), req.SearchTerm)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// GetCategoryQuestions handles GET /categories/{category_id}/questions
func (h *HTTPHandler) GetCategoryQuestions(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "category_id")
	if !ok {
		httperrors.RespondNotFound(w)
		return
	}

	result, err := h.svc.QuestionsByCategory(r.Context(), categoryID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// PlayQuiz handles POST /quizzes
func (h *HTTPHandler) PlayQuiz(w http.ResponseWriter, r *http.Request) {
	var req QuizRequest
	if err := decodeJSON(r, &req); err != nil {
		httperrors.RespondBadRequest(w)
		return
	}

	next, err := h.svc.NextQuizQuestion(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"question": next,
	})
}

func (h *HTTPHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger := h.requestLogger(r)
	switch {
	case errors.Is(err, ErrValidation):
		logger.Debug().Err(err).Msg("request rejected")
		httperrors.RespondBadRequest(w)
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w)
	case errors.Is(err, ErrPersistence):
		logger.Warn().Err(err).Msg("store rejected write")
		httperrors.RespondUnprocessable(w)
	default:
		logger.Error().Err(err).Msg("unexpected failure")
		httperrors.RespondInternalError(w)
	}
}

func (h *HTTPHandler) requestLogger(r *http.Request) zerolog.Logger {
	if logger := logging.FromContext(r.Context()); logger.GetLevel() != zerolog.Disabled {
		return logger.With().Str("component", "question_http").Logger()
	}
	return h.logger
}

// pathID parses a positive-or-zero int32 path parameter. Anything else is
// treated as an unmatched route.
func pathID(r *http.Request, name string) (int32, bool) {
	n, err := strconv.ParseInt(chi.URLParam(r, name), 10, 32)
	if err != nil || n < 0 {
		return 0, false
	}
	return int32(n), true
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
