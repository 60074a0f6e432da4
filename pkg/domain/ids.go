// Package domain defines the typed identifiers shared across modules.
//
// IDs are distinct named types so the compiler rejects cross-type assignment
// (an AccountID can never be passed where a MemberID is expected).
package domain

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	dErrors "rollbook/pkg/domain-errors"
)

// AccountID identifies an authenticated account (the transaction origin).
type AccountID uuid.UUID

// MemberID is the 32-byte opaque member identifier. It is derived, not
// random: BLAKE2b-256 over the owning account's identity bytes followed by
// the chain time as little-endian uint64. Immutable once created.
type MemberID [32]byte

// Hash is a 32-byte content reference (e.g. an IPFS document pointer). The
// registry never checks the referenced content exists.
type Hash [32]byte

func (a AccountID) String() string { return uuid.UUID(a).String() }

// IsZero reports whether the account ID is unset (no authenticated origin).
func (a AccountID) IsZero() bool { return uuid.UUID(a) == uuid.Nil }

// Bytes returns the account's identity bytes used in member ID derivation.
func (a AccountID) Bytes() []byte {
	b := uuid.UUID(a)
	return b[:]
}

// ParseAccountID parses and validates an account ID string.
// Rejects empty, malformed, and nil UUIDs.
func ParseAccountID(s string) (AccountID, error) {
	if s == "" {
		return AccountID{}, dErrors.New(dErrors.CodeInvalidInput, "account id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return AccountID{}, dErrors.New(dErrors.CodeInvalidInput, "account id must be a valid UUID")
	}
	if u == uuid.Nil {
		return AccountID{}, dErrors.New(dErrors.CodeInvalidInput, "account id must not be the nil UUID")
	}
	return AccountID(u), nil
}

// MarshalText renders the account ID in canonical UUID form (JSON, logs).
func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses the canonical UUID form. The nil UUID is accepted
// here so zero (unattributed) actors survive a round trip.
func (a *AccountID) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*a = AccountID(u)
	return nil
}

func (m MemberID) String() string { return hex.EncodeToString(m[:]) }

// MarshalText renders the member ID as 64 hex characters (JSON, logs).
func (m MemberID) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses the hex form.
func (m *MemberID) UnmarshalText(text []byte) error {
	id, err := ParseMemberID(string(text))
	if err != nil {
		return err
	}
	*m = id
	return nil
}

// IsZero reports whether the member ID is unset.
func (m MemberID) IsZero() bool { return m == MemberID{} }

// ParseMemberID parses a 64-character hex member ID.
func ParseMemberID(s string) (MemberID, error) {
	if s == "" {
		return MemberID{}, dErrors.New(dErrors.CodeInvalidInput, "member id is required")
	}
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		return MemberID{}, dErrors.New(dErrors.CodeInvalidInput, "member id must be 32 hex-encoded bytes")
	}
	var id MemberID
	copy(id[:], raw)
	return id, nil
}

// DeriveMemberID computes the deterministic member identifier for an account
// registering at the given chain time. The registration pre-check on account
// ownership rules out the degenerate same-account-same-instant collision.
func DeriveMemberID(account AccountID, chainTime uint64) MemberID {
	data := make([]byte, 0, 24)
	data = append(data, account.Bytes()...)
	data = binary.LittleEndian.AppendUint64(data, chainTime)
	return MemberID(blake2b.Sum256(data))
}

func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// MarshalText renders the hash as 64 hex characters (JSON, logs).
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText parses the hex form.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseHash parses a 64-character hex content reference.
func ParseHash(s string) (Hash, error) {
	if s == "" {
		return Hash{}, dErrors.New(dErrors.CodeInvalidInput, "hash is required")
	}
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		return Hash{}, dErrors.New(dErrors.CodeInvalidInput, "hash must be 32 hex-encoded bytes")
	}
	var h Hash
	copy(h[:], raw)
	return h, nil
}
