// Package store defines the failures shared by every member store
// implementation. A store is ONE repository over the profile records and the
// four identity indexes (by ID, by account, by email, by registration
// order) plus the registration counter; implementations update them
// together and never expose an index for independent mutation.
package store

import (
	"fmt"

	"rollbook/pkg/platform/sentinel"
)

var (
	// ErrNotFound: no record for the given key.
	ErrNotFound = sentinel.ErrNotFound

	// ErrAccountBound: the account already owns a member record.
	ErrAccountBound = fmt.Errorf("account already bound to a member: %w", sentinel.ErrAlreadyUsed)

	// ErrEmailTaken: the email is indexed to a different member.
	ErrEmailTaken = fmt.Errorf("email already bound to a member: %w", sentinel.ErrAlreadyUsed)
)
