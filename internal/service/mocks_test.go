package service

import (
	"context"
	"sync"
	"time"

	"spotlapse/internal/model"
	"spotlapse/internal/queue"
	"spotlapse/internal/repository"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================
//
// Each mock exposes xxxFn fields so a test can script exactly the behavior it
// needs. Unset functions fall back to a neutral default.

type mockProfileRepository struct {
	createFn        func(ctx context.Context, p *model.Profile) error
	updateFn        func(ctx context.Context, p *model.Profile) error
	getByIDFn       func(ctx context.Context, id string) (*model.Profile, error)
	getByUsernameFn func(ctx context.Context, username string) (*model.Profile, error)
	existsFn        func(ctx context.Context, id string) (bool, error)
	getStatsFn      func(ctx context.Context, id string) (*model.ProfileStats, error)
	searchFn        func(ctx context.Context, query string, limit int) ([]model.ProfileSummary, error)

	getStatsCalls int
	searchCalls   int
}

func (m *mockProfileRepository) Create(ctx context.Context, p *model.Profile) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return nil
}

func (m *mockProfileRepository) Update(ctx context.Context, p *model.Profile) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, p)
	}
	return nil
}

func (m *mockProfileRepository) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrProfileNotFound
}

func (m *mockProfileRepository) GetByUsername(ctx context.Context, username string) (*model.Profile, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrProfileNotFound
}

func (m *mockProfileRepository) Exists(ctx context.Context, id string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, id)
	}
	return true, nil
}

func (m *mockProfileRepository) GetStats(ctx context.Context, id string) (*model.ProfileStats, error) {
	m.getStatsCalls++
	if m.getStatsFn != nil {
		return m.getStatsFn(ctx, id)
	}
	return &model.ProfileStats{}, nil
}

func (m *mockProfileRepository) Search(ctx context.Context, query string, limit int) ([]model.ProfileSummary, error) {
	m.searchCalls++
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return []model.ProfileSummary{}, nil
}

type mockSpotRepository struct {
	mu           sync.Mutex
	createFn     func(ctx context.Context, s *model.Spot) error
	getByIDFn    func(ctx context.Context, id string) (*model.Spot, error)
	listByUserFn func(ctx context.Context, userID string) ([]model.Spot, error)
	getOldestFn  func(ctx context.Context, userID string) (*model.Spot, error)
	searchFn     func(ctx context.Context, query string, limit int) ([]model.SearchSpot, error)
	created      []*model.Spot
	searchCalls  int
}

func (m *mockSpotRepository) Create(ctx context.Context, s *model.Spot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createFn != nil {
		if err := m.createFn(ctx, s); err != nil {
			return err
		}
	}
	s.CreatedAt = time.Now()
	m.created = append(m.created, s)
	return nil
}

func (m *mockSpotRepository) GetByID(ctx context.Context, id string) (*model.Spot, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrSpotNotFound
}

func (m *mockSpotRepository) ListByUser(ctx context.Context, userID string) ([]model.Spot, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return []model.Spot{}, nil
}

func (m *mockSpotRepository) GetOldestByUser(ctx context.Context, userID string) (*model.Spot, error) {
	if m.getOldestFn != nil {
		return m.getOldestFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockSpotRepository) Search(ctx context.Context, query string, limit int) ([]model.SearchSpot, error) {
	m.mu.Lock()
	m.searchCalls++
	m.mu.Unlock()
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return []model.SearchSpot{}, nil
}

type mockCaptureRepository struct {
	mu               sync.Mutex
	createFn         func(ctx context.Context, c *model.Capture) error
	getViewFn        func(ctx context.Context, id string) (*model.CaptureView, error)
	listFeedFn       func(ctx context.Context, since *time.Time, after *repository.CaptureCursor, limit int) ([]model.CaptureView, error)
	listThumbnailsFn func(ctx context.Context, userID string, limit int) ([]model.CaptureThumbnail, error)
	searchFn         func(ctx context.Context, query string, limit int) ([]model.SearchPost, error)
	created          []*model.Capture
	searchCalls      int
}

func (m *mockCaptureRepository) Create(ctx context.Context, c *model.Capture) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createFn != nil {
		if err := m.createFn(ctx, c); err != nil {
			return err
		}
	}
	c.Seq = int64(len(m.created) + 1)
	c.CreatedAt = time.Now()
	m.created = append(m.created, c)
	return nil
}

func (m *mockCaptureRepository) GetView(ctx context.Context, id string) (*model.CaptureView, error) {
	if m.getViewFn != nil {
		return m.getViewFn(ctx, id)
	}
	return nil, model.ErrCaptureNotFound
}

func (m *mockCaptureRepository) ListFeed(ctx context.Context, since *time.Time, after *repository.CaptureCursor, limit int) ([]model.CaptureView, error) {
	if m.listFeedFn != nil {
		return m.listFeedFn(ctx, since, after, limit)
	}
	return []model.CaptureView{}, nil
}

func (m *mockCaptureRepository) ListThumbnailsByUser(ctx context.Context, userID string, limit int) ([]model.CaptureThumbnail, error) {
	if m.listThumbnailsFn != nil {
		return m.listThumbnailsFn(ctx, userID, limit)
	}
	return []model.CaptureThumbnail{}, nil
}

func (m *mockCaptureRepository) Search(ctx context.Context, query string, limit int) ([]model.SearchPost, error) {
	m.mu.Lock()
	m.searchCalls++
	m.mu.Unlock()
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return []model.SearchPost{}, nil
}

// memFollowRepository keeps the follow graph in memory and behaves like the
// SQL implementation: inserts are idempotent, deletes of missing edges are no-ops.
type memFollowRepository struct {
	mu    sync.Mutex
	edges map[[2]string]time.Time
	err   error
}

func newMemFollowRepository() *memFollowRepository {
	return &memFollowRepository{edges: make(map[[2]string]time.Time)}
}

func (m *memFollowRepository) Create(ctx context.Context, followerID, followingID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	key := [2]string{followerID, followingID}
	if _, ok := m.edges[key]; ok {
		return false, nil
	}
	m.edges[key] = time.Now()
	return true, nil
}

func (m *memFollowRepository) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	key := [2]string{followerID, followingID}
	if _, ok := m.edges[key]; !ok {
		return false, nil
	}
	delete(m.edges, key)
	return true, nil
}

func (m *memFollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.edges[[2]string{followerID, followingID}]
	return ok, nil
}

func (m *memFollowRepository) GetFollowers(ctx context.Context, userID string, cursor *time.Time, limit int) ([]model.ProfileSummary, *time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := []model.ProfileSummary{}
	for key := range m.edges {
		if key[1] == userID {
			users = append(users, model.ProfileSummary{ID: key[0]})
		}
	}
	return users, nil, nil
}

func (m *memFollowRepository) GetFollowing(ctx context.Context, userID string, cursor *time.Time, limit int) ([]model.ProfileSummary, *time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := []model.ProfileSummary{}
	for key := range m.edges {
		if key[0] == userID {
			users = append(users, model.ProfileSummary{ID: key[1]})
		}
	}
	return users, nil, nil
}

func (m *memFollowRepository) CheckFollows(ctx context.Context, followerID string, followingIDs []string) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make(map[string]bool, len(followingIDs))
	for _, id := range followingIDs {
		_, result[id] = m.edges[[2]string{followerID, id}]
	}
	return result, nil
}

// stats computes the counts the way the SQL GetStats does.
func (m *memFollowRepository) stats(userID string) *model.ProfileStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &model.ProfileStats{}
	for key := range m.edges {
		if key[1] == userID {
			s.FollowerCount++
		}
		if key[0] == userID {
			s.FollowingCount++
		}
	}
	return s
}

func (m *memFollowRepository) edgeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.edges)
}

// =============================================================================
// MOCK INFRASTRUCTURE
// =============================================================================

type mockMediaStore struct {
	uploadFn func(ctx context.Context, key string, body []byte, contentType string) (*model.UploadResult, error)
	keys     []string
}

func (m *mockMediaStore) Upload(ctx context.Context, key string, body []byte, contentType string) (*model.UploadResult, error) {
	m.keys = append(m.keys, key)
	if m.uploadFn != nil {
		return m.uploadFn(ctx, key, body, contentType)
	}
	return &model.UploadResult{URL: "https://cdn.example.com/" + key, Key: key}, nil
}

type mockStatsCache struct {
	mu          sync.Mutex
	entries     map[string]model.ProfileStats
	invalidated []string
}

func newMockStatsCache() *mockStatsCache {
	return &mockStatsCache{entries: make(map[string]model.ProfileStats)}
}

func (m *mockStatsCache) Get(ctx context.Context, userID string) (*model.ProfileStats, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.entries[userID]
	if !ok {
		return nil, false, nil
	}
	return &s, true, nil
}

func (m *mockStatsCache) Set(ctx context.Context, userID string, stats *model.ProfileStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[userID] = *stats
	return nil
}

func (m *mockStatsCache) Invalidate(ctx context.Context, userIDs ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range userIDs {
		delete(m.entries, id)
		m.invalidated = append(m.invalidated, id)
	}
	return nil
}

type mockPublisher struct {
	mu     sync.Mutex
	events []queue.Event
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.Event) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return "1-0", nil
}

// Fixed ids used across tests.
const (
	aliceID = "11111111-1111-4111-8111-111111111111"
	bobID   = "22222222-2222-4222-8222-222222222222"
	spotID1 = "33333333-3333-4333-8333-333333333333"
)

func ptr[T any](v T) *T {
	return &v
}
