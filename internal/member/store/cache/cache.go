// Package cache decorates a member store with a redis read-through cache
// for the hot profile lookups. Writes pass through and invalidate, so a
// cached read never survives the state transition that changed it.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"rollbook/internal/member/models"
	"rollbook/pkg/domain"
)

const (
	memberByIDKeyPrefix      = "member:id:"
	memberByAccountKeyPrefix = "member:acct:"

	// DefaultTTL bounds staleness if an invalidation is ever lost.
	DefaultTTL = 5 * time.Minute
)

// Inner is the store surface the cache wraps.
type Inner interface {
	Create(ctx context.Context, m *models.Member) error
	Update(ctx context.Context, m *models.Member, previousEmail string) error
	FindByID(ctx context.Context, id domain.MemberID) (*models.Member, error)
	FindByAccount(ctx context.Context, account domain.AccountID) (*models.Member, error)
	FindByIndex(ctx context.Context, index uint64) (*models.Member, error)
	MemberIDByAccount(ctx context.Context, account domain.AccountID) (domain.MemberID, error)
	MemberIDByEmail(ctx context.Context, email string) (domain.MemberID, error)
	HasAccount(ctx context.Context, account domain.AccountID) (bool, error)
	HasEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (uint64, error)
}

// Store is the caching decorator. Cache failures degrade to the inner store;
// they never fail a read.
type Store struct {
	inner  Inner
	client *redis.Client
	ttl    time.Duration
}

// Option configures the Store.
type Option func(*Store)

// WithTTL overrides the cache entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// New wraps inner with a redis cache.
func New(inner Inner, client *redis.Client, opts ...Option) *Store {
	s := &Store{inner: inner, client: client, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create passes through; nothing to invalidate for a fresh record.
func (s *Store) Create(ctx context.Context, m *models.Member) error {
	return s.inner.Create(ctx, m)
}

// Update passes through and drops both cache entries for the member.
func (s *Store) Update(ctx context.Context, m *models.Member, previousEmail string) error {
	if err := s.inner.Update(ctx, m, previousEmail); err != nil {
		return err
	}
	s.invalidate(ctx, m)
	return nil
}

// FindByID serves from cache when possible.
func (s *Store) FindByID(ctx context.Context, id domain.MemberID) (*models.Member, error) {
	key := memberByIDKeyPrefix + id.String()
	if m, ok := s.get(ctx, key); ok {
		return m, nil
	}
	m, err := s.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.put(ctx, key, m)
	return m, nil
}

// FindByAccount serves from cache when possible.
func (s *Store) FindByAccount(ctx context.Context, account domain.AccountID) (*models.Member, error) {
	key := memberByAccountKeyPrefix + account.String()
	if m, ok := s.get(ctx, key); ok {
		return m, nil
	}
	m, err := s.inner.FindByAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	s.put(ctx, key, m)
	return m, nil
}

// The remaining lookups are uncached pass-throughs.

func (s *Store) FindByIndex(ctx context.Context, index uint64) (*models.Member, error) {
	return s.inner.FindByIndex(ctx, index)
}

func (s *Store) MemberIDByAccount(ctx context.Context, account domain.AccountID) (domain.MemberID, error) {
	return s.inner.MemberIDByAccount(ctx, account)
}

func (s *Store) MemberIDByEmail(ctx context.Context, email string) (domain.MemberID, error) {
	return s.inner.MemberIDByEmail(ctx, email)
}

func (s *Store) HasAccount(ctx context.Context, account domain.AccountID) (bool, error) {
	return s.inner.HasAccount(ctx, account)
}

func (s *Store) HasEmail(ctx context.Context, email string) (bool, error) {
	return s.inner.HasEmail(ctx, email)
}

func (s *Store) Count(ctx context.Context) (uint64, error) {
	return s.inner.Count(ctx)
}

func (s *Store) get(ctx context.Context, key string) (*models.Member, bool) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		// Miss and infrastructure failure look the same to the caller.
		return nil, false
	}
	var m models.Member
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false
	}
	return &m, true
}

func (s *Store) put(ctx context.Context, key string, m *models.Member) {
	raw, err := json.Marshal(m)
	if err != nil {
		return
	}
	_ = s.client.Set(ctx, key, raw, s.ttl).Err()
}

func (s *Store) invalidate(ctx context.Context, m *models.Member) {
	_ = s.client.Del(ctx,
		memberByIDKeyPrefix+m.ID.String(),
		memberByAccountKeyPrefix+m.CreatedBy.String(),
	).Err()
}
