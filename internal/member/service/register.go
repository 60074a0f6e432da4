package service

import (
	"context"
	"errors"
	"time"

	"rollbook/internal/eventlog"
	"rollbook/internal/member/models"
	"rollbook/internal/member/store"
	"rollbook/internal/member/validate"
	"rollbook/pkg/domain"
	dErrors "rollbook/pkg/domain-errors"
)

// RegisterParams carries the fields of a registration request.
type RegisterParams struct {
	Type        models.MemberType
	FirstName   string
	LastName    string
	DateOfBirth string
	Email       string
	Address     string
	Mobile      string
}

// Register creates a profile owned by the calling account. Each account may
// register at most once and each email binds at most one member. The member
// ID is derived from the caller and the chain time of the transition.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*models.Member, error) {
	start := time.Now()
	caller, err := signedCaller(ctx)
	if err != nil {
		return nil, err
	}

	var member *models.Member
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		taken, err := s.members.HasAccount(txCtx, caller)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "account lookup failed")
		}
		if taken {
			return models.ErrMemberAlreadyExists
		}

		if err := s.validateRegistration(params); err != nil {
			return err
		}

		emailTaken, err := s.members.HasEmail(txCtx, params.Email)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "email lookup failed")
		}
		if emailTaken {
			return models.ErrEmailAlreadyExists
		}

		height := s.nextHeight(txCtx)
		m := &models.Member{
			ID:          domain.DeriveMemberID(caller, height),
			Type:        params.Type,
			FirstName:   params.FirstName,
			LastName:    params.LastName,
			DateOfBirth: params.DateOfBirth,
			Email:       params.Email,
			Address:     params.Address,
			Mobile:      params.Mobile,
			KycStatus:   models.KycUnapproved,
			CreatedAt:   height,
			UpdatedAt:   height,
			CreatedBy:   caller,
		}

		if err := s.members.Create(txCtx, m); err != nil {
			switch {
			case errors.Is(err, store.ErrAccountBound):
				return models.ErrMemberAlreadyExists
			case errors.Is(err, store.ErrEmailTaken):
				return models.ErrEmailAlreadyExists
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create member")
		}

		if err := s.emit(txCtx, eventlog.KindMemberRegistered, height, models.MemberRegistered{
			MemberID: m.ID,
			Account:  caller,
			Email:    m.Email,
		}); err != nil {
			return err
		}
		member = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementMembersRegistered()
		s.metrics.ObserveRegister(start)
	}
	return member, nil
}

func (s *Service) validateRegistration(params RegisterParams) error {
	if !params.Type.Valid() {
		return models.ErrInvalidMemberData
	}
	if err := checkBound(params.FirstName, s.bounds.MaxFirstNameLen); err != nil {
		return err
	}
	if err := checkBound(params.LastName, s.bounds.MaxLastNameLen); err != nil {
		return err
	}
	if err := checkBound(params.Email, s.bounds.MaxEmailLen); err != nil {
		return err
	}
	if err := checkBound(params.Address, s.bounds.MaxAddressLen); err != nil {
		return err
	}
	if err := checkBound(params.Mobile, s.bounds.MaxMobileLen); err != nil {
		return err
	}
	if err := validate.Email(params.Email); err != nil {
		return err
	}
	if err := validate.Mobile(params.Mobile); err != nil {
		return err
	}
	return validate.DateOfBirth(params.DateOfBirth)
}
