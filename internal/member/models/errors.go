package models

import (
	dErrors "rollbook/pkg/domain-errors"
)

// Typed registry failures. Every operation reports exactly one of these (or
// a privileged-origin failure from the middleware layer); on error the whole
// state transition is discarded and no event is emitted.
var (
	// ErrMemberNotFound: referenced member or account has no profile.
	ErrMemberNotFound = dErrors.New(dErrors.CodeNotFound, "member profile not found")

	// ErrMemberAlreadyExists: the account already owns a profile.
	ErrMemberAlreadyExists = dErrors.New(dErrors.CodeConflict, "account already has a member profile")

	// ErrEmailAlreadyExists: the email is bound to another member.
	ErrEmailAlreadyExists = dErrors.New(dErrors.CodeConflict, "email address is already registered")

	// ErrNotMemberOwner: the caller is not the profile's creator.
	ErrNotMemberOwner = dErrors.New(dErrors.CodeForbidden, "account does not own this member profile")

	// ErrInvalidMemberData: a field failed its configured length bound.
	ErrInvalidMemberData = dErrors.New(dErrors.CodeValidation, "invalid member data")

	ErrInvalidEmailFormat  = dErrors.New(dErrors.CodeValidation, "invalid email format")
	ErrInvalidMobileFormat = dErrors.New(dErrors.CodeValidation, "invalid mobile format")
	ErrInvalidDateFormat   = dErrors.New(dErrors.CodeValidation, "invalid date of birth format")
)

// Vestigial error values kept for wire compatibility with earlier deployments.
// No registry operation returns them.
var (
	ErrNoneValue       = dErrors.New(dErrors.CodeNotFound, "no value has been set")
	ErrStorageOverflow = dErrors.New(dErrors.CodeConflict, "value would overflow storage")
)
