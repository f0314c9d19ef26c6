package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"skillswap/internal/model"
	"skillswap/internal/repository"
	pkgerrors "skillswap/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func cloneUser(u *model.User) *model.User {
	c := *u
	c.SkillsOffered = append(model.StringArray(nil), u.SkillsOffered...)
	c.SkillsWanted = append(model.StringArray(nil), u.SkillsWanted...)
	return &c
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) && user.Email != "" {
			return repository.ErrDuplicateEmail
		}
	}
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	if user.Version == 0 {
		user.Version = 1
	}
	m.users[user.UserID] = cloneUser(user)
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[user.UserID]
	if !ok || stored.Version != user.Version {
		return pkgerrors.ErrOptimisticLock
	}
	next := cloneUser(stored)
	next.Name = user.Name
	next.Location = user.Location
	next.Bio = user.Bio
	next.IsPublic = user.IsPublic
	next.SkillsOffered = append(model.StringArray(nil), user.SkillsOffered...)
	next.SkillsWanted = append(model.StringArray(nil), user.SkillsWanted...)
	next.Version++
	m.users[user.UserID] = next
	user.Version = next.Version
	return nil
}

func (m *mockUserRepo) UpdateReputation(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[user.UserID]
	if !ok || stored.Version != user.Version {
		return pkgerrors.ErrOptimisticLock
	}
	next := cloneUser(stored)
	next.SetReputation(user.Reputation())
	next.Version++
	m.users[user.UserID] = next
	user.Version = next.Version
	return nil
}

func (m *mockUserRepo) ListIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// ── Mock SwapRequestRepository ──

type mockSwapRepo struct {
	mu    sync.Mutex
	swaps map[string]*model.SwapRequest
	users *mockUserRepo
	seq   int

	// hidePending 模拟并发窗口：存在性检查看不到已有 pending 记录
	hidePending bool
	// updateConflicts 接下来 N 次 Update 返回乐观锁冲突
	updateConflicts int
	updateCalls     int
}

func newMockSwapRepo(users *mockUserRepo) *mockSwapRepo {
	return &mockSwapRepo{swaps: make(map[string]*model.SwapRequest), users: users}
}

func cloneSwap(s *model.SwapRequest) *model.SwapRequest {
	c := *s
	c.FromUser, c.ToUser = nil, nil
	return &c
}

func samePair(s *model.SwapRequest, a, b string) bool {
	return (s.FromUserID == a && s.ToUserID == b) || (s.FromUserID == b && s.ToUserID == a)
}

func (m *mockSwapRepo) Create(_ context.Context, swap *model.SwapRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// 等价于 uq_swap_requests_pending_pair
	if swap.Status == model.SwapStatusPending {
		for _, s := range m.swaps {
			if s.Status == model.SwapStatusPending && samePair(s, swap.FromUserID, swap.ToUserID) {
				return repository.ErrDuplicatePending
			}
		}
	}
	m.seq++
	if swap.SwapRequestID == "" {
		swap.SwapRequestID = fmt.Sprintf("swap-%d", m.seq)
	}
	now := time.Now().UTC()
	swap.CreatedAt, swap.UpdatedAt = now, now
	swap.Version = 1
	m.swaps[swap.SwapRequestID] = cloneSwap(swap)
	return nil
}

func (m *mockSwapRepo) withUsers(s *model.SwapRequest) *model.SwapRequest {
	if m.users != nil {
		s.FromUser, _ = m.users.GetByID(context.Background(), s.FromUserID)
		s.ToUser, _ = m.users.GetByID(context.Background(), s.ToUserID)
	}
	return s
}

func (m *mockSwapRepo) GetByID(_ context.Context, id string) (*model.SwapRequest, error) {
	m.mu.Lock()
	s, ok := m.swaps[id]
	var c *model.SwapRequest
	if ok {
		c = cloneSwap(s)
	}
	m.mu.Unlock()
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.withUsers(c), nil
}

func (m *mockSwapRepo) ExistsPendingBetween(_ context.Context, a, b string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hidePending {
		return false, nil
	}
	for _, s := range m.swaps {
		if s.Status == model.SwapStatusPending && samePair(s, a, b) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSwapRepo) ListByParticipant(_ context.Context, userID string, filter repository.SwapFilter) ([]model.SwapRequest, error) {
	m.mu.Lock()
	var result []model.SwapRequest
	for _, s := range m.swaps {
		switch filter.Role {
		case repository.SwapRoleIncoming:
			if s.ToUserID != userID {
				continue
			}
		case repository.SwapRoleOutgoing:
			if s.FromUserID != userID {
				continue
			}
		default:
			if s.FromUserID != userID && s.ToUserID != userID {
				continue
			}
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		result = append(result, *cloneSwap(s))
	}
	m.mu.Unlock()

	sort.Slice(result, func(i, j int) bool { return result[i].SwapRequestID > result[j].SwapRequestID })
	for i := range result {
		m.withUsers(&result[i])
	}
	return result, nil
}

func (m *mockSwapRepo) ListCompletedByUser(_ context.Context, userID string) ([]model.SwapRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.SwapRequest
	for _, s := range m.swaps {
		if s.Status == model.SwapStatusCompleted && (s.FromUserID == userID || s.ToUserID == userID) {
			result = append(result, *cloneSwap(s))
		}
	}
	return result, nil
}

func (m *mockSwapRepo) Update(_ context.Context, swap *model.SwapRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	if m.updateConflicts > 0 {
		m.updateConflicts--
		return pkgerrors.ErrOptimisticLock
	}
	stored, ok := m.swaps[swap.SwapRequestID]
	if !ok || stored.Version != swap.Version {
		return pkgerrors.ErrOptimisticLock
	}
	swap.Version++
	swap.UpdatedAt = time.Now().UTC()
	m.swaps[swap.SwapRequestID] = cloneSwap(swap)
	return nil
}

// ── Mock Publisher ──

type publishedEvent struct {
	RoutingKey string
	Event      SwapEvent
}

type mockPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *mockPublisher) Publish(_ context.Context, routingKey string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	evt, _ := event.(SwapEvent)
	p.events = append(p.events, publishedEvent{RoutingKey: routingKey, Event: evt})
	return nil
}

func (p *mockPublisher) Close() error { return nil }

func (p *mockPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.events))
	for i, e := range p.events {
		keys[i] = e.RoutingKey
	}
	return keys
}

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	tokens map[string]time.Duration
}

func (b *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if b.tokens == nil {
		b.tokens = make(map[string]time.Duration)
	}
	b.tokens[jti] = ttl
	return nil
}

// ── Repository 组装 ──

func newMockRepository() (*repository.Repository, *mockUserRepo, *mockSwapRepo) {
	users := newMockUserRepo()
	swaps := newMockSwapRepo(users)
	return &repository.Repository{User: users, SwapRequest: swaps}, users, swaps
}
