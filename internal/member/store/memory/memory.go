// Package memory provides the in-memory member store: the canonical
// reference semantics for the repository abstraction, used by unit tests and
// development mode.
package memory

import (
	"context"
	"maps"
	"sync"

	"rollbook/internal/member/models"
	"rollbook/internal/member/store"
	"rollbook/pkg/domain"
)

// Store keeps the profile records and all four identity indexes under one
// lock so every observable state is mutually consistent.
type Store struct {
	txMu      sync.Mutex
	mu        sync.RWMutex
	members   map[domain.MemberID]models.Member
	byAccount map[domain.AccountID]domain.MemberID
	byEmail   map[string]domain.MemberID
	byIndex   map[uint64]domain.MemberID
	count     uint64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		members:   make(map[domain.MemberID]models.Member),
		byAccount: make(map[domain.AccountID]domain.MemberID),
		byEmail:   make(map[string]domain.MemberID),
		byIndex:   make(map[uint64]domain.MemberID),
	}
}

// RunInTx runs fn as one all-or-nothing state transition. The maps are
// copied before fn runs and restored when it fails, so writes made inside a
// transition that later errors (a rejected event append included) never
// become visible.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.cloneState()
	if err := fn(ctx); err != nil {
		s.restoreState(snap)
		return err
	}
	return nil
}

type storeState struct {
	members   map[domain.MemberID]models.Member
	byAccount map[domain.AccountID]domain.MemberID
	byEmail   map[string]domain.MemberID
	byIndex   map[uint64]domain.MemberID
	count     uint64
}

func (s *Store) cloneState() storeState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return storeState{
		members:   maps.Clone(s.members),
		byAccount: maps.Clone(s.byAccount),
		byEmail:   maps.Clone(s.byEmail),
		byIndex:   maps.Clone(s.byIndex),
		count:     s.count,
	}
}

func (s *Store) restoreState(snap storeState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = snap.members
	s.byAccount = snap.byAccount
	s.byEmail = snap.byEmail
	s.byIndex = snap.byIndex
	s.count = snap.count
}

// Create inserts the record and all four index entries and bumps the
// registration counter, or changes nothing at all on conflict.
func (s *Store) Create(_ context.Context, m *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byAccount[m.CreatedBy]; exists {
		return store.ErrAccountBound
	}
	if _, exists := s.byEmail[m.Email]; exists {
		return store.ErrEmailTaken
	}

	s.members[m.ID] = *m
	s.byAccount[m.CreatedBy] = m.ID
	s.byEmail[m.Email] = m.ID
	s.byIndex[s.count] = m.ID
	s.count++
	return nil
}

// Update persists a mutated record. previousEmail is the indexed email
// before mutation; if it differs from the record's current email the email
// index entry is moved in the same critical section.
func (s *Store) Update(_ context.Context, m *models.Member, previousEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.members[m.ID]; !exists {
		return store.ErrNotFound
	}
	if m.Email != previousEmail {
		if owner, exists := s.byEmail[m.Email]; exists && owner != m.ID {
			return store.ErrEmailTaken
		}
		delete(s.byEmail, previousEmail)
		s.byEmail[m.Email] = m.ID
	}
	s.members[m.ID] = *m
	return nil
}

// FindByID returns the record for a member ID.
func (s *Store) FindByID(_ context.Context, id domain.MemberID) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, exists := s.members[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	out := m
	return &out, nil
}

// FindByAccount resolves the account's member ID and returns its record.
func (s *Store) FindByAccount(_ context.Context, account domain.AccountID) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, exists := s.byAccount[account]
	if !exists {
		return nil, store.ErrNotFound
	}
	m := s.members[id]
	out := m
	return &out, nil
}

// FindByIndex returns the record registered at the given position.
func (s *Store) FindByIndex(_ context.Context, index uint64) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, exists := s.byIndex[index]
	if !exists {
		return nil, store.ErrNotFound
	}
	m := s.members[id]
	out := m
	return &out, nil
}

// MemberIDByAccount returns the member ID bound to an account.
func (s *Store) MemberIDByAccount(_ context.Context, account domain.AccountID) (domain.MemberID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, exists := s.byAccount[account]
	if !exists {
		return domain.MemberID{}, store.ErrNotFound
	}
	return id, nil
}

// MemberIDByEmail returns the member ID bound to an email.
func (s *Store) MemberIDByEmail(_ context.Context, email string) (domain.MemberID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, exists := s.byEmail[email]
	if !exists {
		return domain.MemberID{}, store.ErrNotFound
	}
	return id, nil
}

// HasAccount reports whether the account owns a member record.
func (s *Store) HasAccount(_ context.Context, account domain.AccountID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.byAccount[account]
	return exists, nil
}

// HasEmail reports whether the email is indexed.
func (s *Store) HasEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.byEmail[email]
	return exists, nil
}

// Count returns the total number of registrations.
func (s *Store) Count(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count, nil
}
