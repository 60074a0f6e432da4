package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"rollbook/internal/member/models"
	"rollbook/internal/member/service"
	"rollbook/pkg/domain"
	dErrors "rollbook/pkg/domain-errors"
)

type registerRequest struct {
	MemberType  string `json:"member_type"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Mobile      string `json:"mobile"`
}

type updateRequest struct {
	MemberType  *string `json:"member_type,omitempty"`
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	Email       *string `json:"email,omitempty"`
	Address     *string `json:"address,omitempty"`
	Mobile      *string `json:"mobile,omitempty"`
}

type submitKycRequest struct {
	KycHash   string  `json:"kyc_hash"`
	PhotoHash *string `json:"photo_hash,omitempty"`
}

type kycStatusRequest struct {
	Status string `json:"status"`
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return dErrors.New(dErrors.CodeBadRequest, "request body is required")
		}
		return dErrors.New(dErrors.CodeBadRequest, "request body must be valid JSON")
	}
	return nil
}

func (req registerRequest) toParams() (service.RegisterParams, error) {
	memberType := models.MemberTypeGeneral
	if req.MemberType != "" {
		memberType = models.MemberType(req.MemberType)
		if !memberType.Valid() {
			return service.RegisterParams{}, dErrors.New(dErrors.CodeBadRequest, "unknown member type")
		}
	}
	return service.RegisterParams{
		Type:        memberType,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Email:       req.Email,
		Address:     req.Address,
		Mobile:      req.Mobile,
	}, nil
}

func (req updateRequest) toUpdate() (models.Update, error) {
	var update models.Update
	if req.MemberType != nil {
		memberType := models.MemberType(*req.MemberType)
		if !memberType.Valid() {
			return models.Update{}, dErrors.New(dErrors.CodeBadRequest, "unknown member type")
		}
		update.Type = &memberType
	}
	update.FirstName = req.FirstName
	update.LastName = req.LastName
	update.DateOfBirth = req.DateOfBirth
	update.Email = req.Email
	update.Address = req.Address
	update.Mobile = req.Mobile
	return update, nil
}

func (req submitKycRequest) hashes() (domain.Hash, *domain.Hash, error) {
	kycHash, err := domain.ParseHash(req.KycHash)
	if err != nil {
		return domain.Hash{}, nil, dErrors.New(dErrors.CodeBadRequest, "kyc_hash must be 32 hex-encoded bytes")
	}
	var photoHash *domain.Hash
	if req.PhotoHash != nil {
		h, err := domain.ParseHash(*req.PhotoHash)
		if err != nil {
			return domain.Hash{}, nil, dErrors.New(dErrors.CodeBadRequest, "photo_hash must be 32 hex-encoded bytes")
		}
		photoHash = &h
	}
	return kycHash, photoHash, nil
}

func (req kycStatusRequest) status() (models.KycStatus, error) {
	status := models.KycStatus(req.Status)
	if !status.Valid() {
		return "", dErrors.New(dErrors.CodeBadRequest, "unknown kyc status")
	}
	return status, nil
}
