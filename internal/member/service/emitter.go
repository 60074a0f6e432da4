package service

import (
	"context"

	"rollbook/internal/eventlog"
	"rollbook/pkg/requestcontext"
)

// emit appends one notification as the final step of a state transition.
// Fail-closed: if the log rejects the event the enclosing transaction is
// aborted, so observers never miss a committed change.
func (s *Service) emit(ctx context.Context, kind eventlog.Kind, height uint64, payload any) error {
	event, err := eventlog.New(kind, height, payload)
	if err != nil {
		return err
	}
	if err := s.events.Append(ctx, event); err != nil {
		return err
	}
	s.logAudit(ctx, string(kind), "height", height)
	return nil
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}
