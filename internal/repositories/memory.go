package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/models"
)

// MemoryStore keeps users and assets in process memory. It backs DB_TYPE=memory
// and the handler/service tests.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[uuid.UUID]models.User
	assets map[uuid.UUID]models.Asset
	order  map[uuid.UUID]uint64 // insertion sequence
	seq    uint64
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[uuid.UUID]models.User),
		assets: make(map[uuid.UUID]models.Asset),
		order:  make(map[uuid.UUID]uint64),
		now:    time.Now,
	}
}

func (s *MemoryStore) emailTaken(email string, except uuid.UUID) bool {
	for id, u := range s.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if _, exists := s.users[user.ID]; exists || s.emailTaken(user.Email, uuid.Nil) {
		return ErrDuplicate
	}
	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = *user
	s.track(user.ID)
	return nil
}

func (s *MemoryStore) track(id uuid.UUID) {
	s.seq++
	s.order[id] = s.seq
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return s.order[users[i].ID] < s.order[users[j].ID] })
	return users, nil
}

func (s *MemoryStore) SaveUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}
	if s.emailTaken(user.Email, user.ID) {
		return ErrDuplicate
	}
	user.UpdatedAt = s.now()
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	delete(s.order, id)
	return nil
}

func cloneAsset(a models.Asset) models.Asset {
	if a.Tags != nil {
		a.Tags = append(pq.StringArray{}, a.Tags...)
	}
	if a.Size != nil {
		size := *a.Size
		a.Size = &size
	}
	return a
}

func (s *MemoryStore) CreateAsset(ctx context.Context, asset *models.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	if _, exists := s.assets[asset.ID]; exists {
		return ErrDuplicate
	}
	now := s.now()
	asset.CreatedAt, asset.UpdatedAt = now, now
	s.assets[asset.ID] = cloneAsset(*asset)
	s.track(asset.ID)
	return nil
}

func (s *MemoryStore) GetAsset(ctx context.Context, id uuid.UUID) (models.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	asset, ok := s.assets[id]
	if !ok {
		return models.Asset{}, ErrNotFound
	}
	return cloneAsset(asset), nil
}

func (s *MemoryStore) ListAssets(ctx context.Context) ([]models.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assets := make([]models.Asset, 0, len(s.assets))
	for _, a := range s.assets {
		assets = append(assets, cloneAsset(a))
	}
	sort.Slice(assets, func(i, j int) bool { return s.order[assets[i].ID] < s.order[assets[j].ID] })
	return assets, nil
}

func (s *MemoryStore) SaveAsset(ctx context.Context, asset *models.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assets[asset.ID]; !ok {
		return ErrNotFound
	}
	asset.UpdatedAt = s.now()
	s.assets[asset.ID] = cloneAsset(*asset)
	return nil
}

func (s *MemoryStore) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assets[id]; !ok {
		return ErrNotFound
	}
	delete(s.assets, id)
	delete(s.order, id)
	return nil
}

func (s *MemoryStore) CountAssets(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.assets)), nil
}

func (s *MemoryStore) Close() error { return nil }
