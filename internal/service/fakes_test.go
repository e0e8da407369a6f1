package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"catalog/indexer/internal/domain"
	"catalog/indexer/internal/domain/task"

	"github.com/redis/go-redis/v9"
)

type fakeClient struct {
	items      map[string][]domain.Item
	categories map[string][]domain.Category
	err        error
}

func (c *fakeClient) GetItems(ctx context.Context, source string) ([]domain.Item, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.items[source], nil
}

func (c *fakeClient) GetCategories(ctx context.Context, source string) ([]domain.Category, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.categories[source], nil
}

func (c *fakeClient) GetApplicationsInfo(ctx context.Context, namespace string) (*domain.ApplicationsInfo, error) {
	return &domain.ApplicationsInfo{Namespace: namespace, Loaded: namespace != "", AppExists: namespace == "busy"}, nil
}

type fakeRepository struct {
	saved []*domain.CatalogIndex
}

func (r *fakeRepository) EnsureSchema(ctx context.Context) error { return nil }

func (r *fakeRepository) SaveIndex(ctx context.Context, index *domain.CatalogIndex) error {
	r.saved = append(r.saved, index)
	return nil
}

func (r *fakeRepository) GetIndex(ctx context.Context, source string) (*domain.CatalogIndex, error) {
	for i := len(r.saved) - 1; i >= 0; i-- {
		if r.saved[i].Source == source {
			return r.saved[i], nil
		}
	}
	return nil, nil
}

func (r *fakeRepository) GetBucket(ctx context.Context, source, categoryID string) ([]string, error) {
	index, _ := r.GetIndex(ctx, source)
	if index == nil || index.Categories[categoryID] == nil {
		return []string{}, nil
	}
	return index.Categories[categoryID], nil
}

type fakeQueue struct {
	mu     sync.Mutex
	tasks  []task.Task
	acked  []string
	addErr error
}

func (q *fakeQueue) AddTask(ctx context.Context, t task.Task) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.addErr != nil {
		return "", q.addErr
	}
	q.tasks = append(q.tasks, t)
	return "1-0", nil
}

func (q *fakeQueue) GetTask(ctx context.Context, group, consumer, stream string) (*redis.XMessage, error) {
	return nil, nil
}

func (q *fakeQueue) AckTask(ctx context.Context, stream, group, msgID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.acked = append(q.acked, stream+"/"+msgID)
	return nil
}

func (q *fakeQueue) CreateGroup(ctx context.Context, stream, group string) error { return nil }

func (q *fakeQueue) AutoClaim(ctx context.Context, group, consumer, stream string, minIdleTime time.Duration) ([]redis.XMessage, error) {
	return nil, nil
}

func (q *fakeQueue) EnsureStreamsExist(ctx context.Context) error { return nil }

type fakeState struct {
	fingerprints map[string]string
	getErr       error
}

func (s *fakeState) GetFingerprint(ctx context.Context, source string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	return s.fingerprints[source], nil
}

func (s *fakeState) SetFingerprint(ctx context.Context, source, fingerprint string) error {
	s.fingerprints[source] = fingerprint
	return nil
}

func (s *fakeState) ClearFingerprint(ctx context.Context, source string) error {
	delete(s.fingerprints, source)
	return nil
}

var errCatalogDown = errors.New("catalog unavailable")

type fixture struct {
	svc    *Service
	client *fakeClient
	repo   *fakeRepository
	queue  *fakeQueue
	state  *fakeState
}

func newFixture() *fixture {
	f := &fixture{
		client: &fakeClient{
			items: map[string][]domain.Item{
				"dev": {
					{UID: "1", Tags: []string{"sql"}},
					{UID: "2", Tags: []string{"nosql"}},
				},
			},
			categories: map[string][]domain.Category{
				"dev": {
					{ID: "db", Label: "Databases", Tags: []string{"database"}, Subcategories: []domain.Category{
						{ID: "sql", Label: "SQL", Tags: []string{"sql"}, Subcategories: []domain.Category{
							{ID: "pg", Label: "PostgreSQL", Tags: []string{"postgresql"}},
						}},
					}},
					{ID: "ci", Label: "CI/CD", Tags: []string{"tekton"}},
				},
			},
		},
		repo:  &fakeRepository{},
		queue: &fakeQueue{},
		state: &fakeState{fingerprints: map[string]string{}},
	}
	f.svc = NewService(f.repo, f.client, f.queue, f.state, "indexer", 60)
	f.svc.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return f
}
