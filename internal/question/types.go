package question

import (
	"fmt"
	"strconv"
	"strings"
)

// defaultCurrentCategory is reported by the listing and search endpoints
// regardless of the data returned. Frontends rely on the literal value.
const defaultCurrentCategory int32 = 1

// DefaultPageSize is the number of questions per listing page.
const DefaultPageSize = 10

// Question is the formatted payload delivered to clients.
type Question struct {
	ID         int32  `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int32  `json:"category"`
	Difficulty int32  `json:"difficulty"`
}

// Categories maps category id to its label.
type Categories map[int32]string

// Page is one window over the full question set.
type Page struct {
	Questions       []Question `json:"questions"`
	TotalQuestions  int64      `json:"total_questions"`
	Categories      Categories `json:"categories"`
	CurrentCategory int32      `json:"current_category"`
}

// SearchResult holds questions matching a search term. TotalQuestions counts
// every stored question, not just the matches.
type SearchResult struct {
	CurrentCategory int32      `json:"current_category"`
	Questions       []Question `json:"questions"`
	TotalQuestions  int64      `json:"total_questions"`
}

// CategoryQuestions holds every question of a single category.
type CategoryQuestions struct {
	Questions       []Question `json:"questions"`
	TotalQuestions  int        `json:"total_questions"`
	CurrentCategory int32      `json:"current_category"`
}

// CreateQuestionRequest is the raw create payload. Fields stay untyped so
// that presence can be checked before any value is coerced for storage.
type CreateQuestionRequest struct {
	Question   interface{} `json:"question"`
	Answer     interface{} `json:"answer"`
	Category   interface{} `json:"category"`
	Difficulty interface{} `json:"difficulty"`
}

// NewQuestion is a create payload coerced to storage types.
type NewQuestion struct {
	Question   string `validate:"required"`
	Answer     string `validate:"required"`
	Category   int32
	Difficulty int32
}

// Created describes a successfully stored question.
type Created struct {
	ID             int32
	TotalQuestions int64
}

// SearchRequest is the search payload.
type SearchRequest struct {
	SearchTerm string `json:"searchTerm"`
}

// QuizRequest asks for one random question not in PreviousQuestions.
type QuizRequest struct {
	PreviousQuestions []int32       `json:"previous_questions"`
	QuizCategory      *QuizCategory `json:"quiz_category" validate:"required"`
}

// QuizCategory scopes a quiz draw. An ID of 0 means every category.
type QuizCategory struct {
	ID   *CategoryID `json:"id"`
	Type string      `json:"type"`
}

// CategoryID accepts both JSON numbers and numeric strings.
type CategoryID int32

func (c *CategoryID) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid category id %s: %w", data, err)
	}
	*c = CategoryID(n)
	return nil
}
