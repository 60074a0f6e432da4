package models

import (
	"rollbook/pkg/domain"
)

// KycStatus is the three-state verification flag. Closed enumeration; no
// transition-validity matrix is enforced between states.
type KycStatus string

const (
	KycUnapproved KycStatus = "unapproved"
	KycApproved   KycStatus = "approved"
	KycRejected   KycStatus = "rejected"
)

// Valid reports whether the value is one of the closed set.
func (s KycStatus) Valid() bool {
	switch s {
	case KycUnapproved, KycApproved, KycRejected:
		return true
	}
	return false
}

// MemberType classifies a member profile. Closed enumeration.
type MemberType string

const (
	MemberTypeUniversityStudent MemberType = "university_student"
	MemberTypeSchoolStudent     MemberType = "school_student"
	MemberTypeProfessional      MemberType = "professional"
	MemberTypeGeneral           MemberType = "general"
)

// Valid reports whether the value is one of the closed set.
func (t MemberType) Valid() bool {
	switch t {
	case MemberTypeUniversityStudent, MemberTypeSchoolStudent, MemberTypeProfessional, MemberTypeGeneral:
		return true
	}
	return false
}

// Member is the canonical profile record.
//
// Invariants:
//   - Exactly one Member per ID, one ID per owning account, one ID per email
//   - CreatedBy never changes; only its signed calls mutate non-admin fields
//   - Any successful profile-field edit demotes KycStatus to unapproved and
//     bumps UpdatedAt
//   - PhotoHash and KycHash are set independently of profile edits and are
//     NOT reset by them
//   - Members are never deleted
//
// CreatedAt/UpdatedAt are chain-time markers: the ledger height at which the
// record was written, used as a timestamp surrogate.
type Member struct {
	ID          domain.MemberID `json:"member_id"`
	Type        MemberType      `json:"member_type"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	DateOfBirth string          `json:"date_of_birth"` // YYYY-MM-DD
	Email       string          `json:"email"`
	Address     string          `json:"address"`
	Mobile      string          `json:"mobile"`
	KycStatus   KycStatus       `json:"kyc_status"`
	PhotoHash   *domain.Hash    `json:"photo_hash,omitempty"`
	KycHash     *domain.Hash    `json:"kyc_hash,omitempty"`
	CreatedAt   uint64          `json:"created_at"`
	UpdatedAt   uint64          `json:"updated_at"`
	CreatedBy   domain.AccountID `json:"created_by"`
}

// IsOwnedBy reports whether account is the profile's creator and sole
// authorized mutator.
func (m *Member) IsOwnedBy(account domain.AccountID) bool {
	return m.CreatedBy == account
}

// Update carries the optional fields of an update operation. A nil field is
// not considered for change; a field equal to its current value does not
// count as a change.
type Update struct {
	Type        *MemberType
	FirstName   *string
	LastName    *string
	DateOfBirth *string
	Email       *string
	Address     *string
	Mobile      *string
}

// Empty reports whether no field was supplied at all.
func (u Update) Empty() bool {
	return u.Type == nil && u.FirstName == nil && u.LastName == nil &&
		u.DateOfBirth == nil && u.Email == nil && u.Address == nil && u.Mobile == nil
}

// EmailChanges reports whether the update would move the member to a
// different email address.
func (u Update) EmailChanges(m *Member) bool {
	return u.Email != nil && *u.Email != m.Email
}

// Apply writes the supplied fields onto the member and reports whether
// anything actually differed. When at least one field changed, KYC status is
// demoted to unapproved and UpdatedAt is bumped to now; otherwise the member
// is left untouched.
//
// Callers validate formats, bounds, and email uniqueness beforehand.
func (m *Member) Apply(u Update, now uint64) (changed bool, emailChanged bool) {
	if u.Type != nil && *u.Type != m.Type {
		m.Type = *u.Type
		changed = true
	}
	if u.FirstName != nil && *u.FirstName != m.FirstName {
		m.FirstName = *u.FirstName
		changed = true
	}
	if u.LastName != nil && *u.LastName != m.LastName {
		m.LastName = *u.LastName
		changed = true
	}
	if u.DateOfBirth != nil && *u.DateOfBirth != m.DateOfBirth {
		m.DateOfBirth = *u.DateOfBirth
		changed = true
	}
	if u.Email != nil && *u.Email != m.Email {
		m.Email = *u.Email
		changed = true
		emailChanged = true
	}
	if u.Address != nil && *u.Address != m.Address {
		m.Address = *u.Address
		changed = true
	}
	if u.Mobile != nil && *u.Mobile != m.Mobile {
		m.Mobile = *u.Mobile
		changed = true
	}
	if changed {
		m.KycStatus = KycUnapproved
		m.UpdatedAt = now
	}
	return changed, emailChanged
}

// ApplyKycSubmission records submitted KYC documents. The KYC hash is set
// unconditionally, the photo hash only when supplied. KYC status is not
// altered by a submission.
func (m *Member) ApplyKycSubmission(kycHash domain.Hash, photoHash *domain.Hash, now uint64) {
	h := kycHash
	m.KycHash = &h
	if photoHash != nil {
		p := *photoHash
		m.PhotoHash = &p
	}
	m.UpdatedAt = now
}

// ApplyKycStatus transitions the verification flag and returns the previous
// status. Any direction is accepted.
func (m *Member) ApplyKycStatus(status KycStatus, now uint64) KycStatus {
	old := m.KycStatus
	m.KycStatus = status
	m.UpdatedAt = now
	return old
}
