package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

type questionStore interface {
	CountQuestions(ctx context.Context) (int64, error)
	ListQuestions(ctx context.Context, arg sqlcgen.ListQuestionsParams) ([]sqlcgen.Question, error)
	GetQuestion(ctx context.Context, id int32) (sqlcgen.Question, error)
	DeleteQuestion(ctx context.Context, id int32) (int64, error)
	InsertQuestion(ctx context.Context, arg sqlcgen.InsertQuestionParams) (int32, error)
	SearchQuestions(ctx context.Context, pattern string) ([]sqlcgen.Question, error)
	ListQuestionsByCategory(ctx context.Context, category int32) ([]sqlcgen.Question, error)
	ListQuestionsExcluding(ctx context.Context, arg sqlcgen.ListQuestionsExcludingParams) ([]sqlcgen.Question, error)
}

// Transactor runs fn against a store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor func(ctx context.Context, fn func(store questionStore) error) error

// PgxTransactor binds queries to a pool transaction via pgx.BeginFunc.
func PgxTransactor(pool *pgxpool.Pool, queries *sqlcgen.Queries) Transactor {
	return func(ctx context.Context, fn func(store questionStore) error) error {
		return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			return fn(queries.WithTx(tx))
		})
	}
}

// QuestionRepository wraps sqlc queries for question access.
type QuestionRepository struct {
	store questionStore
	inTx  Transactor
}

// NewQuestionRepository builds a repository. A nil transactor runs writes
// directly against store.
func NewQuestionRepository(store questionStore, inTx Transactor) *QuestionRepository {
	if inTx == nil {
		inTx = func(ctx context.Context, fn func(store questionStore) error) error {
			return fn(store)
		}
	}
	return &QuestionRepository{store: store, inTx: inTx}
}

// Count returns the number of stored questions.
func (r *QuestionRepository) Count(ctx context.Context) (int64, error) {
	return r.store.CountQuestions(ctx)
}

// List returns up to limit questions in insertion order starting at offset.
func (r *QuestionRepository) List(ctx context.Context, offset, limit int32) ([]sqlcgen.Question, error) {
	return r.store.ListQuestions(ctx, sqlcgen.ListQuestionsParams{Limit: limit, Offset: offset})
}

// FindByID returns nil without error when the question does not exist.
func (r *QuestionRepository) FindByID(ctx context.Context, id int32) (*sqlcgen.Question, error) {
	q, err := r.store.GetQuestion(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

// Delete removes a question and reports whether a row was affected.
func (r *QuestionRepository) Delete(ctx context.Context, id int32) (bool, error) {
	n, err := r.store.DeleteQuestion(ctx, id)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Insert stores a question inside a transaction and returns its generated id.
func (r *QuestionRepository) Insert(ctx context.Context, params sqlcgen.InsertQuestionParams) (int32, error) {
	var id int32
	err := r.inTx(ctx, func(store questionStore) error {
		var err error
		id, err = store.InsertQuestion(ctx, params)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Search matches term as a literal, case-insensitive substring of the question text.
func (r *QuestionRepository) Search(ctx context.Context, term string) ([]sqlcgen.Question, error) {
	return r.store.SearchQuestions(ctx, escapeLike(term))
}

// ListByCategory returns every question in category.
func (r *QuestionRepository) ListByCategory(ctx context.Context, category int32) ([]sqlcgen.Question, error) {
	return r.store.ListQuestionsByCategory(ctx, category)
}

// ListExcluding returns the questions of category (0 = all) whose ids are not in excluded.
func (r *QuestionRepository) ListExcluding(ctx context.Context, category int32, excluded []int32) ([]sqlcgen.Question, error) {
	// A nil slice encodes as NULL, and NOT (id = ANY(NULL)) drops every row.
	if excluded == nil {
		excluded = []int32{}
	}
	return r.store.ListQuestionsExcluding(ctx, sqlcgen.ListQuestionsExcludingParams{
		Category:    category,
		ExcludedIds: excluded,
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
