package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollbook/internal/member/models"
	"rollbook/internal/member/store"
	"rollbook/pkg/domain"
)

func newMember(email string, height uint64) *models.Member {
	account := domain.AccountID(uuid.New())
	return &models.Member{
		ID:          domain.DeriveMemberID(account, height),
		Type:        models.MemberTypeGeneral,
		FirstName:   "Alice",
		LastName:    "Smith",
		DateOfBirth: "1990-05-15",
		Email:       email,
		Address:     "1 Main St",
		Mobile:      "+61412345678",
		KycStatus:   models.KycUnapproved,
		CreatedAt:   height,
		UpdatedAt:   height,
		CreatedBy:   account,
	}
}

func TestCreateAndLookups(t *testing.T) {
	ctx := context.Background()
	s := New()
	m := newMember("alice@example.com", 1)

	require.NoError(t, s.Create(ctx, m))

	byID, err := s.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, *m, *byID)

	byAccount, err := s.FindByAccount(ctx, m.CreatedBy)
	require.NoError(t, err)
	assert.Equal(t, m.ID, byAccount.ID)

	byIndex, err := s.FindByIndex(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, m.ID, byIndex.ID)

	id, err := s.MemberIDByAccount(ctx, m.CreatedBy)
	require.NoError(t, err)
	assert.Equal(t, m.ID, id)

	id, err = s.MemberIDByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, m.ID, id)

	hasAccount, err := s.HasAccount(ctx, m.CreatedBy)
	require.NoError(t, err)
	assert.True(t, hasAccount)

	hasEmail, err := s.HasEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, hasEmail)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestCreateConflicts(t *testing.T) {
	ctx := context.Background()
	s := New()
	m := newMember("alice@example.com", 1)
	require.NoError(t, s.Create(ctx, m))

	dupAccount := newMember("other@example.com", 2)
	dupAccount.CreatedBy = m.CreatedBy
	assert.ErrorIs(t, s.Create(ctx, dupAccount), store.ErrAccountBound)

	dupEmail := newMember("alice@example.com", 3)
	assert.ErrorIs(t, s.Create(ctx, dupEmail), store.ErrEmailTaken)

	// Failed creates leave no partial index entries behind.
	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
	_, err = s.MemberIDByEmail(ctx, "other@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRegistrationIndexIsSequential(t *testing.T) {
	ctx := context.Background()
	s := New()

	first := newMember("a@example.com", 1)
	second := newMember("b@example.com", 2)
	require.NoError(t, s.Create(ctx, first))
	require.NoError(t, s.Create(ctx, second))

	atZero, err := s.FindByIndex(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, first.ID, atZero.ID)

	atOne, err := s.FindByIndex(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, second.ID, atOne.ID)

	_, err = s.FindByIndex(ctx, 2)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateMovesEmailIndex(t *testing.T) {
	ctx := context.Background()
	s := New()
	m := newMember("alice@example.com", 1)
	require.NoError(t, s.Create(ctx, m))

	previous := m.Email
	m.Email = "new@example.com"
	m.UpdatedAt = 2
	require.NoError(t, s.Update(ctx, m, previous))

	_, err := s.MemberIDByEmail(ctx, "alice@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	id, err := s.MemberIDByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, m.ID, id)

	stored, err := s.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stored.UpdatedAt)
}

func TestUpdateEmailConflict(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := newMember("alice@example.com", 1)
	bob := newMember("bob@example.com", 2)
	require.NoError(t, s.Create(ctx, alice))
	require.NoError(t, s.Create(ctx, bob))

	previous := bob.Email
	bob.Email = "alice@example.com"
	assert.ErrorIs(t, s.Update(ctx, bob, previous), store.ErrEmailTaken)

	// Conflict leaves both index entries where they were.
	id, err := s.MemberIDByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, id)
	id, err = s.MemberIDByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, id)
}

func TestUpdateSameEmailKeepsIndex(t *testing.T) {
	ctx := context.Background()
	s := New()
	m := newMember("alice@example.com", 1)
	require.NoError(t, s.Create(ctx, m))

	m.FirstName = "Alicia"
	require.NoError(t, s.Update(ctx, m, m.Email))

	id, err := s.MemberIDByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, m.ID, id)
}

func TestUpdateUnknownMember(t *testing.T) {
	ctx := context.Background()
	s := New()
	m := newMember("alice@example.com", 1)

	assert.ErrorIs(t, s.Update(ctx, m, m.Email), store.ErrNotFound)
}

func TestStoredRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	m := newMember("alice@example.com", 1)
	require.NoError(t, s.Create(ctx, m))

	// Mutating the caller's struct must not leak into the store.
	m.FirstName = "Mallory"

	stored, err := s.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.FirstName)

	// And mutating a returned record must not either.
	stored.FirstName = "Eve"
	again, err := s.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", again.FirstName)
}

func TestLookupMisses(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.FindByID(ctx, domain.MemberID{1})
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.FindByAccount(ctx, domain.AccountID(uuid.New()))
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.MemberIDByAccount(ctx, domain.AccountID(uuid.New()))
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.MemberIDByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	has, err := s.HasAccount(ctx, domain.AccountID(uuid.New()))
	require.NoError(t, err)
	assert.False(t, has)
	has, err = s.HasEmail(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRunInTxRollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := New()
	m := newMember("alice@example.com", 1)
	boom := errors.New("boom")

	err := s.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.Create(txCtx, m); err != nil {
			return err
		}
		// Visible inside the transition.
		if _, err := s.FindByID(txCtx, m.ID); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.FindByID(ctx, m.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	has, err := s.HasAccount(ctx, m.CreatedBy)
	require.NoError(t, err)
	assert.False(t, has)
	has, err = s.HasEmail(ctx, m.Email)
	require.NoError(t, err)
	assert.False(t, has)
	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestRunInTxCommitKeepsWrites(t *testing.T) {
	ctx := context.Background()
	s := New()
	m := newMember("alice@example.com", 1)

	err := s.RunInTx(ctx, func(txCtx context.Context) error {
		return s.Create(txCtx, m)
	})
	require.NoError(t, err)

	stored, err := s.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, stored.ID)
}

func TestRunInTxRollbackRestoresPriorState(t *testing.T) {
	ctx := context.Background()
	s := New()
	existing := newMember("alice@example.com", 1)
	require.NoError(t, s.Create(ctx, existing))

	updated := *existing
	updated.Email = "new@example.com"
	err := s.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.Update(txCtx, &updated, existing.Email); err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)

	stored, err := s.FindByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", stored.Email)
	id, err := s.MemberIDByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, id)
	_, err = s.MemberIDByEmail(ctx, "new@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
