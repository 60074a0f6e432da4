// Package postgres provides the durable member store. Uniqueness of the
// account, email, and registration-order indexes is enforced by constraints,
// so a conflicting write fails atomically inside the operation's
// transaction instead of drifting the indexes apart.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"rollbook/internal/member/models"
	"rollbook/internal/member/store"
	"rollbook/pkg/domain"
	"rollbook/pkg/platform/tx"
)

// Schema creates the members table. Registration order and the account and
// email indexes live in the same row as the record; the unique constraints
// are the index-consistency guarantee.
const Schema = `
CREATE TABLE IF NOT EXISTS members (
	member_id          BYTEA PRIMARY KEY,
	registration_index BIGINT NOT NULL,
	account_id         UUID   NOT NULL,
	member_type        TEXT   NOT NULL,
	first_name         TEXT   NOT NULL,
	last_name          TEXT   NOT NULL,
	date_of_birth      TEXT   NOT NULL,
	email              TEXT   NOT NULL,
	address            TEXT   NOT NULL,
	mobile             TEXT   NOT NULL,
	kyc_status         TEXT   NOT NULL,
	photo_hash         BYTEA,
	kyc_hash           BYTEA,
	created_at         BIGINT NOT NULL,
	updated_at         BIGINT NOT NULL,
	CONSTRAINT members_registration_index_key UNIQUE (registration_index),
	CONSTRAINT members_account_id_key UNIQUE (account_id),
	CONSTRAINT members_email_key UNIQUE (email)
);
`

const memberColumns = `member_id, registration_index, account_id, member_type, first_name, last_name,
	date_of_birth, email, address, mobile, kyc_status, photo_hash, kyc_hash, created_at, updated_at`

// Store is the postgres-backed member repository.
type Store struct {
	db *sql.DB
}

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the members table if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, Schema)
	return err
}

// querier returns the transaction from context when the operation runs
// inside one, else the bare handle.
func (s *Store) querier(ctx context.Context) interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
} {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

// Create inserts the record; the registration index is assigned from the
// current counter in the same statement.
func (s *Store) Create(ctx context.Context, m *models.Member) error {
	q := s.querier(ctx)
	_, err := q.ExecContext(ctx, `
		INSERT INTO members (`+memberColumns+`)
		VALUES ($1, (SELECT COALESCE(MAX(registration_index)+1, 0) FROM members),
			$2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		m.ID[:], m.CreatedBy.String(), string(m.Type), m.FirstName, m.LastName,
		m.DateOfBirth, m.Email, m.Address, m.Mobile, string(m.KycStatus),
		hashBytes(m.PhotoHash), hashBytes(m.KycHash), int64(m.CreatedAt), int64(m.UpdatedAt),
	)
	if err != nil {
		return translateConflict(err)
	}
	return nil
}

// Update persists a mutated record. The email index moves with the row; the
// unique constraint rejects a steal of another member's address.
func (s *Store) Update(ctx context.Context, m *models.Member, _ string) error {
	q := s.querier(ctx)
	res, err := q.ExecContext(ctx, `
		UPDATE members SET
			member_type = $2, first_name = $3, last_name = $4, date_of_birth = $5,
			email = $6, address = $7, mobile = $8, kyc_status = $9,
			photo_hash = $10, kyc_hash = $11, updated_at = $12
		WHERE member_id = $1`,
		m.ID[:], string(m.Type), m.FirstName, m.LastName, m.DateOfBirth,
		m.Email, m.Address, m.Mobile, string(m.KycStatus),
		hashBytes(m.PhotoHash), hashBytes(m.KycHash), int64(m.UpdatedAt),
	)
	if err != nil {
		return translateConflict(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// FindByID returns the record for a member ID.
func (s *Store) FindByID(ctx context.Context, id domain.MemberID) (*models.Member, error) {
	return s.findBy(ctx, "member_id = $1", id[:])
}

// FindByAccount returns the record owned by an account.
func (s *Store) FindByAccount(ctx context.Context, account domain.AccountID) (*models.Member, error) {
	return s.findBy(ctx, "account_id = $1", account.String())
}

// FindByIndex returns the record registered at the given position.
func (s *Store) FindByIndex(ctx context.Context, index uint64) (*models.Member, error) {
	return s.findBy(ctx, "registration_index = $1", int64(index))
}

// MemberIDByAccount returns the member ID bound to an account.
func (s *Store) MemberIDByAccount(ctx context.Context, account domain.AccountID) (domain.MemberID, error) {
	return s.memberIDBy(ctx, "account_id = $1", account.String())
}

// MemberIDByEmail returns the member ID bound to an email.
func (s *Store) MemberIDByEmail(ctx context.Context, email string) (domain.MemberID, error) {
	return s.memberIDBy(ctx, "email = $1", email)
}

// HasAccount reports whether the account owns a member record.
func (s *Store) HasAccount(ctx context.Context, account domain.AccountID) (bool, error) {
	_, err := s.MemberIDByAccount(ctx, account)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// HasEmail reports whether the email is indexed.
func (s *Store) HasEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.MemberIDByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Count returns the total number of registrations.
func (s *Store) Count(ctx context.Context) (uint64, error) {
	var count int64
	err := s.querier(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM members`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return uint64(count), nil
}

func (s *Store) findBy(ctx context.Context, where string, arg any) (*models.Member, error) {
	row := s.querier(ctx).QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE `+where, arg)
	return scanMember(row)
}

func (s *Store) memberIDBy(ctx context.Context, where string, arg any) (domain.MemberID, error) {
	var raw []byte
	err := s.querier(ctx).QueryRowContext(ctx,
		`SELECT member_id FROM members WHERE `+where, arg).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MemberID{}, store.ErrNotFound
	}
	if err != nil {
		return domain.MemberID{}, err
	}
	return memberID(raw)
}

func scanMember(row *sql.Row) (*models.Member, error) {
	var (
		m          models.Member
		rawID      []byte
		regIndex   int64
		accountStr string
		memberType string
		kycStatus  string
		photoHash  []byte
		kycHash    []byte
		createdAt  int64
		updatedAt  int64
	)
	err := row.Scan(&rawID, &regIndex, &accountStr, &memberType, &m.FirstName, &m.LastName,
		&m.DateOfBirth, &m.Email, &m.Address, &m.Mobile, &kycStatus,
		&photoHash, &kycHash, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	m.ID, err = memberID(rawID)
	if err != nil {
		return nil, err
	}
	account, err := domain.ParseAccountID(accountStr)
	if err != nil {
		return nil, fmt.Errorf("stored account id: %w", err)
	}
	m.CreatedBy = account
	m.Type = models.MemberType(memberType)
	m.KycStatus = models.KycStatus(kycStatus)
	m.PhotoHash, err = hashFromBytes(photoHash)
	if err != nil {
		return nil, err
	}
	m.KycHash, err = hashFromBytes(kycHash)
	if err != nil {
		return nil, err
	}
	m.CreatedAt = uint64(createdAt)
	m.UpdatedAt = uint64(updatedAt)
	return &m, nil
}

// translateConflict maps unique-constraint violations onto the store's
// typed conflicts by constraint name.
func translateConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "members_account_id_key", "members_pkey":
			return store.ErrAccountBound
		case "members_email_key":
			return store.ErrEmailTaken
		}
	}
	return err
}

func memberID(raw []byte) (domain.MemberID, error) {
	if len(raw) != 32 {
		return domain.MemberID{}, fmt.Errorf("stored member id has %d bytes, want 32", len(raw))
	}
	var id domain.MemberID
	copy(id[:], raw)
	return id, nil
}

func hashBytes(h *domain.Hash) []byte {
	if h == nil {
		return nil
	}
	return h[:]
}

func hashFromBytes(raw []byte) (*domain.Hash, error) {
	if raw == nil {
		return nil, nil
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("stored hash has %d bytes, want 32", len(raw))
	}
	var h domain.Hash
	copy(h[:], raw)
	return &h, nil
}

// TxRunner runs a function inside one SQL transaction, making the enclosing
// operation all-or-nothing the way the host ledger's per-transaction commit
// would.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner wraps a database handle.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// RunInTx begins a transaction, stores it in the context for the member
// store, and commits only if fn succeeds.
func (r *TxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx.WithTx(ctx, t)); err != nil {
		_ = t.Rollback()
		return err
	}
	return t.Commit()
}
