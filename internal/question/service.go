package question

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-playground/validator/v10"

	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

var (
	// ErrValidation marks a request missing a required field.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a reference to a question that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPersistence marks a write the store rejected.
	ErrPersistence = errors.New("persistence failed")
)

var validate = validator.New()

// CategoryCache defines cache behavior (implemented by Redis-backed Cache).
// Get returns nil without error on a miss.
type CategoryCache interface {
	Get(ctx context.Context) (Categories, error)
	Set(ctx context.Context, categories Categories) error
}

type questionRepository interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, offset, limit int32) ([]sqlcgen.Question, error)
	FindByID(ctx context.Context, id int32) (*sqlcgen.Question, error)
	Delete(ctx context.Context, id int32) (bool, error)
	Insert(ctx context.Context, params sqlcgen.InsertQuestionParams) (int32, error)
	Search(ctx context.Context, term string) ([]sqlcgen.Question, error)
	ListByCategory(ctx context.Context, category int32) ([]sqlcgen.Question, error)
	ListExcluding(ctx context.Context, category int32, excluded []int32) ([]sqlcgen.Question, error)
}

type categoryRepository interface {
	List(ctx context.Context) ([]sqlcgen.Category, error)
}

// Service implements the trivia operations over the question and category stores.
type Service struct {
	questions  questionRepository
	categories categoryRepository
	cache      CategoryCache
	pageSize   int
	pick       func(n int) int
}

// ServiceOptions tunes paging and the quiz draw. Zero values select defaults.
type ServiceOptions struct {
	// PageSize defaults to DefaultPageSize.
	PageSize int
	// Pick returns a uniform index in [0, n). Defaults to math/rand/v2.
	Pick func(n int) int
}

// NewService wires the repositories. cache may be nil.
func NewService(questions questionRepository, categories categoryRepository, cache CategoryCache, opts ServiceOptions) *Service {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pick := opts.Pick
	if pick == nil {
		pick = rand.IntN
	}
	return &Service{
		questions:  questions,
		categories: categories,
		cache:      cache,
		pageSize:   pageSize,
		pick:       pick,
	}
}

// Categories returns the id -> type mapping for every category.
func (s *Service) Categories(ctx context.Context) (Categories, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	rows, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	categories := make(Categories, len(rows))
	for _, row := range rows {
		categories[row.ID] = row.Type
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, categories)
	}
	return categories, nil
}

// ListQuestions returns the 1-indexed page of questions in insertion order.
// Pages past the end are empty, not an error.
func (s *Service) ListQuestions(ctx context.Context, page int) (Page, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.questions.Count(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("count questions: %w", err)
	}

	questions := []Question{}
	if page-1 <= math.MaxInt32/s.pageSize {
		offset := (page - 1) * s.pageSize
		rows, err := s.questions.List(ctx, int32(offset), int32(s.pageSize))
		if err != nil {
			return Page{}, fmt.Errorf("list questions page %d: %w", page, err)
		}
		questions = toDomain(rows)
	}

	categories, err := s.Categories(ctx)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Questions:       questions,
		TotalQuestions:  total,
		Categories:      categories,
		CurrentCategory: defaultCurrentCategory,
	}, nil
}

// DeleteQuestion removes a question by id.
func (s *Service) DeleteQuestion(ctx context.Context, id int32) error {
	existing, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find question %d: %w", id, err)
	}
	if existing == nil {
		return fmt.Errorf("question %d: %w", id, ErrNotFound)
	}

	deleted, err := s.questions.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete question %d: %w: %w", id, ErrPersistence, err)
	}
	if !deleted {
		// lost a race with a concurrent delete
		return fmt.Errorf("question %d: %w", id, ErrNotFound)
	}
	return nil
}

// CreateQuestion validates presence of every field, coerces values to storage
// types and inserts. Nothing is stored when an error is returned.
func (s *Service) CreateQuestion(ctx context.Context, req CreateQuestionRequest) (Created, error) {
	if !present(req.Question) || !present(req.Answer) || !present(req.Category) || !present(req.Difficulty) {
		return Created{}, fmt.Errorf("question, answer, category and difficulty are required: %w", ErrValidation)
	}

	nq, err := coerce(req)
	if err != nil {
		return Created{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if err := validate.Struct(nq); err != nil {
		return Created{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	id, err := s.questions.Insert(ctx, sqlcgen.InsertQuestionParams{
		Question:   nq.Question,
		Answer:     nq.Answer,
		Category:   nq.Category,
		Difficulty: nq.Difficulty,
	})
	if err != nil {
		return Created{}, fmt.Errorf("insert question: %w: %w", ErrPersistence, err)
	}

	total, err := s.questions.Count(ctx)
	if err != nil {
		return Created{}, fmt.Errorf("count questions: %w", err)
	}
	return Created{ID: id, TotalQuestions: total}, nil
}

func coerce(req CreateQuestionRequest) (NewQuestion, error) {
	var (
		nq  NewQuestion
		err error
	)
	if nq.Question, err = coerceText("question", req.Question); err != nil {
		return NewQuestion{}, err
	}
	if nq.Answer, err = coerceText("answer", req.Answer); err != nil {
		return NewQuestion{}, err
	}
	if nq.Category, err = coerceInt32("category", req.Category); err != nil {
		return NewQuestion{}, err
	}
	if nq.Difficulty, err = coerceInt32("difficulty", req.Difficulty); err != nil {
		return NewQuestion{}, err
	}
	return nq, nil
}

// Search returns every question whose text contains term, ignoring case.
func (s *Service) Search(ctx context.Context, term string) (SearchResult, error) {
	rows, err := s.questions.Search(ctx, term)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search questions: %w", err)
	}
	total, err := s.questions.Count(ctx)
	if err != nil {
		return SearchResult{}, fmt.Errorf("count questions: %w", err)
	}
	return SearchResult{
		CurrentCategory: defaultCurrentCategory,
		Questions:       toDomain(rows),
		TotalQuestions:  total,
	}, nil
}

// QuestionsByCategory returns every question in category. Unknown categories
// yield an empty list.
func (s *Service) QuestionsByCategory(ctx context.Context, category int32) (CategoryQuestions, error) {
	rows, err := s.questions.ListByCategory(ctx, category)
	if err != nil {
		return CategoryQuestions{}, fmt.Errorf("list questions for category %d: %w", category, err)
	}
	questions := toDomain(rows)
	return CategoryQuestions{
		Questions:       questions,
		TotalQuestions:  len(questions),
		CurrentCategory: category,
	}, nil
}

// NextQuizQuestion draws one question uniformly at random from the requested
// category, skipping PreviousQuestions. It returns nil when none remain.
func (s *Service) NextQuizQuestion(ctx context.Context, req QuizRequest) (*Question, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if req.QuizCategory.ID == nil {
		return nil, fmt.Errorf("quiz_category.id is required: %w", ErrValidation)
	}

	category := int32(*req.QuizCategory.ID)
	candidates, err := s.questions.ListExcluding(ctx, category, req.PreviousQuestions)
	if err != nil {
		return nil, fmt.Errorf("list quiz candidates: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	picked := toQuestion(candidates[s.pick(len(candidates))])
	return &picked, nil
}

func toDomain(rows []sqlcgen.Question) []Question {
	questions := make([]Question, 0, len(rows))
	for _, row := range rows {
		questions = append(questions, toQuestion(row))
	}
	return questions
}

func toQuestion(row sqlcgen.Question) Question {
	return Question{
		ID:         row.ID,
		Question:   row.Question,
		Answer:     row.Answer,
		Category:   row.Category,
		Difficulty: row.Difficulty,
	}
}
