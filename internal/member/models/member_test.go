package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollbook/pkg/domain"
)

func newTestMember() *Member {
	account := domain.AccountID(uuid.New())
	return &Member{
		ID:          domain.DeriveMemberID(account, 10),
		Type:        MemberTypeGeneral,
		FirstName:   "Alice",
		LastName:    "Smith",
		DateOfBirth: "1990-05-15",
		Email:       "alice@example.com",
		Address:     "1 Main St",
		Mobile:      "+61412345678",
		KycStatus:   KycApproved,
		CreatedAt:   10,
		UpdatedAt:   10,
		CreatedBy:   account,
	}
}

func strPtr(s string) *string { return &s }

func TestKycStatusValid(t *testing.T) {
	assert.True(t, KycUnapproved.Valid())
	assert.True(t, KycApproved.Valid())
	assert.True(t, KycRejected.Valid())
	assert.False(t, KycStatus("pending").Valid())
	assert.False(t, KycStatus("").Valid())
}

func TestMemberTypeValid(t *testing.T) {
	assert.True(t, MemberTypeUniversityStudent.Valid())
	assert.True(t, MemberTypeSchoolStudent.Valid())
	assert.True(t, MemberTypeProfessional.Valid())
	assert.True(t, MemberTypeGeneral.Valid())
	assert.False(t, MemberType("alumni").Valid())
}

func TestIsOwnedBy(t *testing.T) {
	m := newTestMember()
	assert.True(t, m.IsOwnedBy(m.CreatedBy))
	assert.False(t, m.IsOwnedBy(domain.AccountID(uuid.New())))
}

func TestApply_ChangeDemotesKycAndBumpsUpdatedAt(t *testing.T) {
	m := newTestMember()

	changed, emailChanged := m.Apply(Update{FirstName: strPtr("Alicia")}, 20)

	assert.True(t, changed)
	assert.False(t, emailChanged)
	assert.Equal(t, "Alicia", m.FirstName)
	assert.Equal(t, KycUnapproved, m.KycStatus)
	assert.Equal(t, uint64(20), m.UpdatedAt)
	assert.Equal(t, uint64(10), m.CreatedAt)
}

func TestApply_SameValueIsNotAChange(t *testing.T) {
	m := newTestMember()

	changed, emailChanged := m.Apply(Update{
		FirstName: strPtr("Alice"),
		Email:     strPtr("alice@example.com"),
	}, 20)

	assert.False(t, changed)
	assert.False(t, emailChanged)
	assert.Equal(t, KycApproved, m.KycStatus)
	assert.Equal(t, uint64(10), m.UpdatedAt)
}

func TestApply_EmptyUpdateIsNoOp(t *testing.T) {
	m := newTestMember()
	before := *m

	changed, emailChanged := m.Apply(Update{}, 20)

	assert.False(t, changed)
	assert.False(t, emailChanged)
	assert.Equal(t, before, *m)
}

func TestApply_EmailChange(t *testing.T) {
	m := newTestMember()

	changed, emailChanged := m.Apply(Update{Email: strPtr("new@example.com")}, 20)

	assert.True(t, changed)
	assert.True(t, emailChanged)
	assert.Equal(t, "new@example.com", m.Email)
	assert.Equal(t, KycUnapproved, m.KycStatus)
}

func TestApply_DoesNotTouchDocumentHashes(t *testing.T) {
	m := newTestMember()
	kycHash := domain.Hash{1, 2, 3}
	photoHash := domain.Hash{4, 5, 6}
	m.KycHash = &kycHash
	m.PhotoHash = &photoHash

	changed, _ := m.Apply(Update{Address: strPtr("2 Side St")}, 20)

	require.True(t, changed)
	assert.Equal(t, &kycHash, m.KycHash)
	assert.Equal(t, &photoHash, m.PhotoHash)
}

func TestUpdateEmpty(t *testing.T) {
	assert.True(t, Update{}.Empty())
	assert.False(t, Update{Mobile: strPtr("1234567")}.Empty())
}

func TestEmailChanges(t *testing.T) {
	m := newTestMember()
	assert.False(t, Update{}.EmailChanges(m))
	assert.False(t, Update{Email: strPtr("alice@example.com")}.EmailChanges(m))
	assert.True(t, Update{Email: strPtr("new@example.com")}.EmailChanges(m))
}

func TestApplyKycSubmission(t *testing.T) {
	m := newTestMember()
	kycHash := domain.Hash{9, 9, 9}

	m.ApplyKycSubmission(kycHash, nil, 30)

	require.NotNil(t, m.KycHash)
	assert.Equal(t, kycHash, *m.KycHash)
	assert.Nil(t, m.PhotoHash)
	// Submitting documents never changes the verification flag.
	assert.Equal(t, KycApproved, m.KycStatus)
	assert.Equal(t, uint64(30), m.UpdatedAt)

	photoHash := domain.Hash{7, 7, 7}
	m.ApplyKycSubmission(kycHash, &photoHash, 31)

	require.NotNil(t, m.PhotoHash)
	assert.Equal(t, photoHash, *m.PhotoHash)
}

func TestApplyKycStatus(t *testing.T) {
	m := newTestMember()

	old := m.ApplyKycStatus(KycRejected, 40)

	assert.Equal(t, KycApproved, old)
	assert.Equal(t, KycRejected, m.KycStatus)
	assert.Equal(t, uint64(40), m.UpdatedAt)
}
