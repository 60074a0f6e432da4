package models

import (
	"rollbook/pkg/domain"
)

// Event payloads appended to the event log. One structured notification per
// successful mutating operation; failed operations emit nothing.

// MemberRegistered is emitted when a new profile is created.
type MemberRegistered struct {
	MemberID domain.MemberID  `json:"member_id"`
	Account  domain.AccountID `json:"account"`
	Email    string           `json:"email"`
}

// MemberUpdated is emitted when at least one profile field actually changed.
// PreviousEmail is nil when the email did not change.
type MemberUpdated struct {
	MemberID      domain.MemberID  `json:"member_id"`
	UpdatedBy     domain.AccountID `json:"updated_by"`
	PreviousEmail *string          `json:"previous_email,omitempty"`
	NewEmail      string           `json:"new_email"`
}

// KycSubmitted is emitted when KYC documents are recorded.
type KycSubmitted struct {
	MemberID    domain.MemberID  `json:"member_id"`
	SubmittedBy domain.AccountID `json:"submitted_by"`
	KycHash     domain.Hash      `json:"kyc_hash"`
}

// KycStatusUpdated is emitted on every status transition. UpdatedBy is the
// true caller; it is zero when the transition came through the token-only
// privileged origin. MemberAccount is the profile owner, carried alongside
// so observers keyed on either identity see the change.
type KycStatusUpdated struct {
	MemberID      domain.MemberID  `json:"member_id"`
	UpdatedBy     domain.AccountID `json:"updated_by"`
	MemberAccount domain.AccountID `json:"member_account"`
	OldStatus     KycStatus        `json:"old_status"`
	NewStatus     KycStatus        `json:"new_status"`
}

// MemberDataRetrieved surfaces an owner-only read of the full profile. The
// read is reported through the log rather than only a direct return so the
// access itself is observable.
type MemberDataRetrieved struct {
	MemberID    domain.MemberID  `json:"member_id"`
	AccessedBy  domain.AccountID `json:"accessed_by"`
	MemberType  MemberType       `json:"member_type"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	DateOfBirth string           `json:"date_of_birth"`
	Email       string           `json:"email"`
	Address     string           `json:"address"`
	Mobile      string           `json:"mobile"`
	PhotoHash   *domain.Hash     `json:"photo_hash,omitempty"`
	KycStatus   KycStatus        `json:"kyc_status"`
	KycHash     *domain.Hash     `json:"kyc_hash,omitempty"`
	CreatedAt   uint64           `json:"created_at"`
	UpdatedAt   uint64           `json:"updated_at"`
}
