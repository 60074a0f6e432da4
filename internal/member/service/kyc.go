package service

import (
	"context"

	"rollbook/internal/eventlog"
	"rollbook/internal/member/models"
	"rollbook/pkg/domain"
	dErrors "rollbook/pkg/domain-errors"
	"rollbook/pkg/requestcontext"
)

// SubmitKyc records the caller's KYC document reference and, when supplied,
// a photo reference. The verification flag is untouched: submitting
// documents never approves them, and resubmitting the same hash is
// idempotent apart from the updated_at bump.
func (s *Service) SubmitKyc(ctx context.Context, kycHash domain.Hash, photoHash *domain.Hash) (*models.Member, error) {
	caller, err := signedCaller(ctx)
	if err != nil {
		return nil, err
	}

	var member *models.Member
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		m, err := s.members.FindByAccount(txCtx, caller)
		if err != nil {
			return wrapLookupErr(err)
		}
		if !m.IsOwnedBy(caller) {
			return models.ErrNotMemberOwner
		}

		height := s.nextHeight(txCtx)
		m.ApplyKycSubmission(kycHash, photoHash, height)

		if err := s.members.Update(txCtx, m, m.Email); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store kyc submission")
		}

		if err := s.emit(txCtx, eventlog.KindKycSubmitted, height, models.KycSubmitted{
			MemberID:    m.ID,
			SubmittedBy: caller,
			KycHash:     kycHash,
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
		s.metrics.IncrementKycSubmissions()
	}
	return member, nil
}

// UpdateKycStatus transitions a member's verification flag. Authorization is
// delegated to the configured policy (default: any signed origin). No
// transition matrix is enforced; any direction is accepted.
func (s *Service) UpdateKycStatus(ctx context.Context, memberID domain.MemberID, status models.KycStatus) (*models.Member, error) {
	caller := requestcontext.AccountID(ctx)
	if err := s.kycPolicy(ctx, caller); err != nil {
		return nil, err
	}
	return s.transitionKycStatus(ctx, memberID, status, caller)
}

// AdminUpdateKycStatus is the privileged-origin form of the transition.
// Token-only privileged calls carry no account, so the notification's
// updated_by is zero in that case; the member's own account rides alongside
// either way.
func (s *Service) AdminUpdateKycStatus(ctx context.Context, memberID domain.MemberID, status models.KycStatus) (*models.Member, error) {
	if !requestcontext.Privileged(ctx) {
		return nil, errPrivilegedOriginRequired
	}
	return s.transitionKycStatus(ctx, memberID, status, requestcontext.AccountID(ctx))
}

func (s *Service) transitionKycStatus(ctx context.Context, memberID domain.MemberID, status models.KycStatus, caller domain.AccountID) (*models.Member, error) {
	if !status.Valid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid kyc status")
	}

	var member *models.Member
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		m, err := s.members.FindByID(txCtx, memberID)
		if err != nil {
			return wrapLookupErr(err)
		}

		height := s.nextHeight(txCtx)
		oldStatus := m.ApplyKycStatus(status, height)

		if err := s.members.Update(txCtx, m, m.Email); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store kyc status")
		}

		if err := s.emit(txCtx, eventlog.KindKycStatusUpdated, height, models.KycStatusUpdated{
			MemberID:      m.ID,
			UpdatedBy:     caller,
			MemberAccount: m.CreatedBy,
			OldStatus:     oldStatus,
			NewStatus:     status,
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
		s.metrics.IncrementKycStatusChanges()
	}
	return member, nil
}
