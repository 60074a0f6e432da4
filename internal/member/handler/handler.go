// Package handler exposes the member registry over HTTP.
//
// Signed routes resolve the caller from the authenticated context set by the
// auth middleware; admin routes sit behind the privileged token gate.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"rollbook/internal/member/models"
	"rollbook/internal/member/service"
	"rollbook/pkg/domain"
	dErrors "rollbook/pkg/domain-errors"
	"rollbook/pkg/platform/httputil"
	"rollbook/pkg/requestcontext"
)

// Handler handles member registry endpoints.
type Handler struct {
	logger  *slog.Logger
	members *service.Service
}

// New creates a member Handler.
func New(members *service.Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		members: members,
	}
}

// Register registers the signed-origin routes. The caller mounts these
// behind the auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/members", h.handleRegister)
	r.Get("/members/me", h.handleGetMember)
	r.Patch("/members/me", h.handleUpdateMember)
	r.Post("/members/me/kyc", h.handleSubmitKyc)
	r.Put("/members/{memberID}/kyc-status", h.handleUpdateKycStatus)
	r.Get("/members/count", h.handleCount)
	r.Get("/members/email-registered", h.handleEmailRegistered)
}

// RegisterAdmin registers the privileged-origin routes. The caller mounts
// these behind the admin token middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Put("/members/{memberID}/kyc-status", h.handleAdminUpdateKycStatus)
	r.Get("/members/{memberID}", h.handleAdminGetMember)
	r.Get("/members/by-index/{index}", h.handleAdminGetMemberByIndex)
	r.Get("/accounts/{accountID}/member-id", h.handleAdminGetMemberID)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	params, err := req.toParams()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	m, err := h.members.Register(ctx, params)
	if err != nil {
		h.writeServiceError(ctx, w, "register member failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) handleGetMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	m, err := h.members.GetMember(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, "get member failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	update, err := req.toUpdate()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	m, err := h.members.UpdateMember(ctx, update)
	if err != nil {
		h.writeServiceError(ctx, w, "update member failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) handleSubmitKyc(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req submitKycRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	kycHash, photoHash, err := req.hashes()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	m, err := h.members.SubmitKyc(ctx, kycHash, photoHash)
	if err != nil {
		h.writeServiceError(ctx, w, "submit kyc failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) handleUpdateKycStatus(w http.ResponseWriter, r *http.Request) {
	h.transitionKycStatus(w, r, h.members.UpdateKycStatus)
}

func (h *Handler) handleAdminUpdateKycStatus(w http.ResponseWriter, r *http.Request) {
	h.transitionKycStatus(w, r, h.members.AdminUpdateKycStatus)
}

type kycTransition func(ctx context.Context, memberID domain.MemberID, status models.KycStatus) (*models.Member, error)

func (h *Handler) transitionKycStatus(w http.ResponseWriter, r *http.Request, transition kycTransition) {
	ctx := r.Context()

	memberID, err := domain.ParseMemberID(chi.URLParam(r, "memberID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid member id"))
		return
	}

	var req kycStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	status, err := req.status()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	m, err := transition(ctx, memberID, status)
	if err != nil {
		h.writeServiceError(ctx, w, "kyc status transition failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	count, err := h.members.TotalMembers(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, "member count failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]uint64{"count": count})
}

func (h *Handler) handleEmailRegistered(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email := r.URL.Query().Get("email")
	if email == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "email query parameter is required"))
		return
	}

	registered, err := h.members.IsEmailRegistered(ctx, email)
	if err != nil {
		h.writeServiceError(ctx, w, "email lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"registered": registered})
}

func (h *Handler) handleAdminGetMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	memberID, err := domain.ParseMemberID(chi.URLParam(r, "memberID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid member id"))
		return
	}

	m, err := h.members.MemberByID(ctx, memberID)
	if err != nil {
		h.writeServiceError(ctx, w, "admin member lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) handleAdminGetMemberByIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	index, err := strconv.ParseUint(chi.URLParam(r, "index"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid registration index"))
		return
	}

	m, err := h.members.MemberByIndex(ctx, index)
	if err != nil {
		h.writeServiceError(ctx, w, "admin member lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) handleAdminGetMemberID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	account, err := domain.ParseAccountID(chi.URLParam(r, "accountID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid account id"))
		return
	}

	memberID, err := h.members.MemberIDByAccount(ctx, account)
	if err != nil {
		h.writeServiceError(ctx, w, "admin member id lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"member_id": memberID.String()})
}

// writeServiceError logs the failure and maps it onto the wire. Client-class
// errors log at warn; everything else at error.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	requestID := requestcontext.RequestID(ctx)
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestID,
			"error", err.Error(),
		)
	} else {
		h.logger.WarnContext(ctx, msg,
			"request_id", requestID,
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
