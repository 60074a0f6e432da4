package service

import (
	"context"
	"errors"
	"time"

	"rollbook/internal/eventlog"
	"rollbook/internal/member/models"
	"rollbook/internal/member/store"
	"rollbook/internal/member/validate"
	dErrors "rollbook/pkg/domain-errors"
)

// GetMember is the owner-only read of the caller's full profile. The data is
// surfaced through the event log so the access itself is observable; the
// record is also returned for transports that deliver a direct response.
func (s *Service) GetMember(ctx context.Context) (*models.Member, error) {
	caller, err := signedCaller(ctx)
	if err != nil {
		return nil, err
	}

	m, err := s.members.FindByAccount(ctx, caller)
	if err != nil {
		return nil, wrapLookupErr(err)
	}
	// Unreachable while lookup goes through the caller's own mapping; kept
	// against future lookup-by-id extensions.
	if !m.IsOwnedBy(caller) {
		return nil, models.ErrNotMemberOwner
	}

	if err := s.emit(ctx, eventlog.KindMemberDataRetrieved, s.currentHeight(ctx), models.MemberDataRetrieved{
		MemberID:    m.ID,
		AccessedBy:  caller,
		MemberType:  m.Type,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		DateOfBirth: m.DateOfBirth,
		Email:       m.Email,
		Address:     m.Address,
		Mobile:      m.Mobile,
		PhotoHash:   m.PhotoHash,
		KycStatus:   m.KycStatus,
		KycHash:     m.KycHash,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}); err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateMember applies the supplied optional fields to the caller's profile.
// A field equal to its current value is not a change. If anything changed,
// KYC status demotes to unapproved and updated_at bumps; if nothing changed
// the call succeeds with zero writes and no notification.
func (s *Service) UpdateMember(ctx context.Context, update models.Update) (*models.Member, error) {
	start := time.Now()
	caller, err := signedCaller(ctx)
	if err != nil {
		return nil, err
	}

	var (
		member  *models.Member
		changed bool
	)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		m, err := s.members.FindByAccount(txCtx, caller)
		if err != nil {
			return wrapLookupErr(err)
		}
		if !m.IsOwnedBy(caller) {
			return models.ErrNotMemberOwner
		}

		if err := s.validateUpdate(update); err != nil {
			return err
		}

		previousEmail := m.Email
		if update.EmailChanges(m) {
			// Self-collision is tolerated: the index may already point at
			// this member.
			owner, err := s.members.MemberIDByEmail(txCtx, *update.Email)
			if err == nil && owner != m.ID {
				return models.ErrEmailAlreadyExists
			}
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return dErrors.Wrap(err, dErrors.CodeInternal, "email lookup failed")
			}
		}

		height := s.nextHeight(txCtx)
		var emailChanged bool
		changed, emailChanged = m.Apply(update, height)
		if !changed {
			member = m
			return nil
		}

		if err := s.members.Update(txCtx, m, previousEmail); err != nil {
			switch {
			case errors.Is(err, store.ErrEmailTaken):
				return models.ErrEmailAlreadyExists
			case errors.Is(err, store.ErrNotFound):
				return models.ErrMemberNotFound
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update member")
		}

		var prevEmail *string
		if emailChanged {
			prevEmail = &previousEmail
		}
		if err := s.emit(txCtx, eventlog.KindMemberUpdated, height, models.MemberUpdated{
			MemberID:      m.ID,
			UpdatedBy:     caller,
			PreviousEmail: prevEmail,
			NewEmail:      m.Email,
		}); err != nil {
			return err
		}
		member = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed && s.metrics != nil {
		s.metrics.IncrementProfileUpdates()
		s.metrics.ObserveUpdate(start)
	}
	return member, nil
}

func (s *Service) validateUpdate(update models.Update) error {
	if update.Type != nil && !update.Type.Valid() {
		return models.ErrInvalidMemberData
	}
	if update.FirstName != nil {
		if err := checkBound(*update.FirstName, s.bounds.MaxFirstNameLen); err != nil {
			return err
		}
	}
	if update.LastName != nil {
		if err := checkBound(*update.LastName, s.bounds.MaxLastNameLen); err != nil {
			return err
		}
	}
	if update.Address != nil {
		if err := checkBound(*update.Address, s.bounds.MaxAddressLen); err != nil {
			return err
		}
	}
	if update.Email != nil {
		if err := checkBound(*update.Email, s.bounds.MaxEmailLen); err != nil {
			return err
		}
		if err := validate.Email(*update.Email); err != nil {
			return err
		}
	}
	if update.Mobile != nil {
		if err := checkBound(*update.Mobile, s.bounds.MaxMobileLen); err != nil {
			return err
		}
		if err := validate.Mobile(*update.Mobile); err != nil {
			return err
		}
	}
	if update.DateOfBirth != nil {
		if err := validate.DateOfBirth(*update.DateOfBirth); err != nil {
			return err
		}
	}
	return nil
}
