package service

import (
	"context"
	"errors"
	"log/slog"

	"rollbook/internal/eventlog"
	membermetrics "rollbook/internal/member/metrics"
	"rollbook/internal/member/models"
	"rollbook/internal/member/store"
	"rollbook/internal/platform/ledger"
	"rollbook/pkg/domain"
	dErrors "rollbook/pkg/domain-errors"
	"rollbook/pkg/requestcontext"
)

// MemberStore is the single repository over the profile records and their
// four identity indexes. Implementations keep all indexes and the
// registration counter consistent within each call; they are never mutated
// independently.
type MemberStore interface {
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

// StoreTx runs one state transition all-or-nothing: a transition that
// returns an error must leave no writes behind. The SQL runner opens a
// transaction; the in-memory store snapshots its maps and restores them on
// failure. Both serialize transitions, which is the host ledger's
// one-operation-at-a-time contract.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventLog receives one notification per successful mutating operation.
type EventLog interface {
	Append(ctx context.Context, event eventlog.Event) error
}

// KycStatusPolicy authorizes the non-admin status transition. The observed
// contract accepts any signed origin; deployments may tighten this without
// touching the operations.
type KycStatusPolicy func(ctx context.Context, caller domain.AccountID) error

// AnySignedOrigin is the default policy: any authenticated account may
// transition any member's KYC status.
func AnySignedOrigin(_ context.Context, caller domain.AccountID) error {
	if caller.IsZero() {
		return errSignedOriginRequired
	}
	return nil
}

// Bounds are the deployment-fixed maximum byte lengths for text fields.
type Bounds struct {
	MaxFirstNameLen int
	MaxLastNameLen  int
	MaxEmailLen     int
	MaxAddressLen   int
	MaxMobileLen    int
}

// DefaultBounds mirror the registry's reference deployment.
func DefaultBounds() Bounds {
	return Bounds{
		MaxFirstNameLen: 50,
		MaxLastNameLen:  50,
		MaxEmailLen:     100,
		MaxAddressLen:   200,
		MaxMobileLen:    20,
	}
}

var (
	errSignedOriginRequired     = dErrors.New(dErrors.CodeUnauthorized, "signed origin required")
	errPrivilegedOriginRequired = dErrors.New(dErrors.CodeUnauthorized, "privileged origin required")
)

// Service orchestrates the member registry operations.
type Service struct {
	members   MemberStore
	events    EventLog
	chain     ledger.Sequencer
	tx        StoreTx
	bounds    Bounds
	kycPolicy KycStatusPolicy
	logger    *slog.Logger
	metrics   *membermetrics.Metrics
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a logger for audit lines.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *membermetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithBounds overrides the text field length bounds.
func WithBounds(b Bounds) Option {
	return func(s *Service) {
		s.bounds = b
	}
}

// WithStoreTx sets the transaction runner (SQL-backed deployments).
func WithStoreTx(tx StoreTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

// WithKycStatusPolicy replaces the default open policy for the non-admin
// status transition.
func WithKycStatusPolicy(policy KycStatusPolicy) Option {
	return func(s *Service) {
		s.kycPolicy = policy
	}
}

// New constructs the registry service.
func New(members MemberStore, events EventLog, chain ledger.Sequencer, opts ...Option) *Service {
	s := &Service{
		members:   members,
		events:    events,
		chain:     chain,
		bounds:    DefaultBounds(),
		kycPolicy: AnySignedOrigin,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		if tx, ok := members.(StoreTx); ok {
			s.tx = tx
		} else {
			s.tx = newFallbackStoreTx()
		}
	}
	return s
}

// -----------------------------------------------------------------------------
// Query accessors (read-only, not part of the mutating call surface)
// -----------------------------------------------------------------------------

// MemberByAccount returns the profile owned by account. Owner-gated: callers
// resolve their own mapping, so a record whose creator differs is withheld.
func (s *Service) MemberByAccount(ctx context.Context, account domain.AccountID) (*models.Member, error) {
	m, err := s.members.FindByAccount(ctx, account)
	if err != nil {
		return nil, wrapLookupErr(err)
	}
	if !m.IsOwnedBy(account) {
		return nil, models.ErrNotMemberOwner
	}
	return m, nil
}

// MemberByID returns any profile by identifier (unrestricted admin read).
func (s *Service) MemberByID(ctx context.Context, id domain.MemberID) (*models.Member, error) {
	m, err := s.members.FindByID(ctx, id)
	if err != nil {
		return nil, wrapLookupErr(err)
	}
	return m, nil
}

// MemberByIndex returns the profile at a registration index (admin read).
func (s *Service) MemberByIndex(ctx context.Context, index uint64) (*models.Member, error) {
	m, err := s.members.FindByIndex(ctx, index)
	if err != nil {
		return nil, wrapLookupErr(err)
	}
	return m, nil
}

// MemberIDByAccount returns the identifier bound to an account.
func (s *Service) MemberIDByAccount(ctx context.Context, account domain.AccountID) (domain.MemberID, error) {
	id, err := s.members.MemberIDByAccount(ctx, account)
	if err != nil {
		return domain.MemberID{}, wrapLookupErr(err)
	}
	return id, nil
}

// HasMemberProfile reports whether the account registered a profile.
func (s *Service) HasMemberProfile(ctx context.Context, account domain.AccountID) (bool, error) {
	return s.members.HasAccount(ctx, account)
}

// IsEmailRegistered reports whether the email is bound to any member.
func (s *Service) IsEmailRegistered(ctx context.Context, email string) (bool, error) {
	return s.members.HasEmail(ctx, email)
}

// TotalMembers returns the registration counter.
func (s *Service) TotalMembers(ctx context.Context) (uint64, error) {
	return s.members.Count(ctx)
}

// -----------------------------------------------------------------------------
// Shared helpers
// -----------------------------------------------------------------------------

// signedCaller resolves the authenticated origin or fails the operation.
func signedCaller(ctx context.Context) (domain.AccountID, error) {
	caller := requestcontext.AccountID(ctx)
	if caller.IsZero() {
		return domain.AccountID{}, errSignedOriginRequired
	}
	return caller, nil
}

// nextHeight returns the chain time of this state transition. Tests pin it
// through requestcontext; otherwise the sequencer advances one block.
func (s *Service) nextHeight(ctx context.Context) uint64 {
	if h, ok := requestcontext.Height(ctx); ok {
		return h
	}
	return s.chain.Next()
}

// currentHeight is nextHeight without advancing, for read-only operations.
func (s *Service) currentHeight(ctx context.Context) uint64 {
	if h, ok := requestcontext.Height(ctx); ok {
		return h
	}
	return s.chain.Current()
}

// checkBound enforces one configured length bound.
func checkBound(value string, maxLen int) error {
	if len(value) > maxLen {
		return models.ErrInvalidMemberData
	}
	return nil
}

// wrapLookupErr translates store misses into the domain not-found error.
func wrapLookupErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return models.ErrMemberNotFound
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "member lookup failed")
}
