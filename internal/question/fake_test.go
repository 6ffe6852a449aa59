package question

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

// memoryStore is an in-memory stand-in for both repositories.
type memoryStore struct {
	mu         sync.Mutex
	nextID     int32
	questions  map[int32]sqlcgen.Question
	categories []sqlcgen.Category

	insertErr     error
	deleteErr     error
	readErr       error
	categoryCalls int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		nextID:    1,
		questions: map[int32]sqlcgen.Question{},
		categories: []sqlcgen.Category{
			{ID: 1, Type: "Science"},
			{ID: 2, Type: "Art"},
			{ID: 3, Type: "Geography"},
			{ID: 4, Type: "History"},
			{ID: 5, Type: "Entertainment"},
			{ID: 6, Type: "Sports"},
		},
	}
}

func (m *memoryStore) seed(text string, category, difficulty int32) int32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.questions[id] = sqlcgen.Question{
		ID:         id,
		Question:   text,
		Answer:     "answer " + text,
		Category:   category,
		Difficulty: difficulty,
	}
	return id
}

func (m *memoryStore) ordered() []sqlcgen.Question {
	out := make([]sqlcgen.Question, 0, len(m.questions))
	for _, q := range m.questions {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memoryStore) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return 0, m.readErr
	}
	return int64(len(m.questions)), nil
}

func (m *memoryStore) List(ctx context.Context, offset, limit int32) ([]sqlcgen.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	all := m.ordered()
	if int(offset) >= len(all) {
		return nil, nil
	}
	end := int(offset) + int(limit)
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *memoryStore) FindByID(ctx context.Context, id int32) (*sqlcgen.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	q, ok := m.questions[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (m *memoryStore) Delete(ctx context.Context, id int32) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return false, m.deleteErr
	}
	if _, ok := m.questions[id]; !ok {
		return false, nil
	}
	delete(m.questions, id)
	return true, nil
}

func (m *memoryStore) Insert(ctx context.Context, params sqlcgen.InsertQuestionParams) (int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	id := m.nextID
	m.nextID++
	m.questions[id] = sqlcgen.Question{
		ID:         id,
		Question:   params.Question,
		Answer:     params.Answer,
		Category:   params.Category,
		Difficulty: params.Difficulty,
	}
	return id, nil
}

func (m *memoryStore) Search(ctx context.Context, term string) ([]sqlcgen.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	var out []sqlcgen.Question
	for _, q := range m.ordered() {
		if strings.Contains(strings.ToLower(q.Question), strings.ToLower(term)) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memoryStore) ListByCategory(ctx context.Context, category int32) ([]sqlcgen.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	var out []sqlcgen.Question
	for _, q := range m.ordered() {
		if q.Category == category {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memoryStore) ListExcluding(ctx context.Context, category int32, excluded []int32) ([]sqlcgen.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	skip := make(map[int32]bool, len(excluded))
	for _, id := range excluded {
		skip[id] = true
	}
	var out []sqlcgen.Question
	for _, q := range m.ordered() {
		if (category == 0 || q.Category == category) && !skip[q.ID] {
			out = append(out, q)
		}
	}
	return out, nil
}

// categoryView adapts memoryStore to the category repository contract.
type categoryView struct{ *memoryStore }

func (c categoryView) List(ctx context.Context) ([]sqlcgen.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categoryCalls++
	if c.readErr != nil {
		return nil, c.readErr
	}
	return append([]sqlcgen.Category(nil), c.categories...), nil
}

type memoryCache struct {
	stored Categories
	sets   int
}

func (c *memoryCache) Get(_ context.Context) (Categories, error) {
	return c.stored, nil
}

func (c *memoryCache) Set(_ context.Context, categories Categories) error {
	c.stored = categories
	c.sets++
	return nil
}

var errStoreDown = errors.New("store down")

func newTestService(store *memoryStore, opts ServiceOptions) *Service {
	return NewService(store, categoryView{store}, nil, opts)
}
