// Package member is the registry module: profile records, the identity
// indexes, validation, and the KYC flag, mutated only through the
// owner-gated operations of the service.
package member

import (
	"log/slog"

	"rollbook/internal/member/handler"
	"rollbook/internal/member/service"
	"rollbook/internal/platform/ledger"
)

// Service exposes the registry operations.
type Service = service.Service

// Handler wires HTTP endpoints to the registry service.
type Handler = handler.Handler

// NewService constructs the registry service with required dependencies.
func NewService(members service.MemberStore, events service.EventLog, chain ledger.Sequencer, opts ...service.Option) *Service {
	return service.New(members, events, chain, opts...)
}

// NewHandler constructs an HTTP handler for the registry routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
