package bot

import (
	"context"
	"time"

	"cvbot-backend/internal/conversation"
	"cvbot-backend/internal/session"
	"cvbot-backend/internal/shared/metrics"
	"cvbot-backend/internal/shared/telemetry"
	"cvbot-backend/internal/shared/util"
	"cvbot-backend/internal/users"
)

// Resolver maps a channel address to its user and conversation.
type Resolver interface {
	Resolve(ctx context.Context, address string) (users.User, conversation.Record, error)
}

// Handler runs one conversation turn.
type Handler interface {
	Handle(ctx context.Context, t conversation.Turn) conversation.Result
}

// Service is the single entry point for inbound messages.
type Service struct {
	Sessions Resolver
	Machine  Handler
}

func NewService(sessions Resolver, machine Handler) *Service {
	return &Service{Sessions: sessions, Machine: machine}
}

// ProcessMessage handles one inbound message and always returns exactly one reply.
func (s *Service) ProcessMessage(ctx context.Context, address, text, mediaRef string) string {
	started := time.Now()
	metrics.IncTurn()
	identity := util.ShortKey(session.Normalize(address))

	user, rec, err := s.Sessions.Resolve(ctx, address)
	if err != nil {
		metrics.IncTurnFailed()
		telemetry.Error("turn.failed", map[string]any{
			"identity":    identity,
			"stage":       "resolve",
			"duration_ms": time.Since(started).Milliseconds(),
			"error":       err,
		})
		return conversation.GenericReply
	}

	res := s.Machine.Handle(ctx, conversation.Turn{
		User:     user,
		Record:   rec,
		Text:     text,
		MediaRef: mediaRef,
	})

	fields := map[string]any{
		"identity":    identity,
		"state_from":  string(res.From),
		"state_to":    string(res.To),
		"has_media":   mediaRef != "",
		"duration_ms": time.Since(started).Milliseconds(),
	}
	if res.Err != nil {
		metrics.IncTurnFailed()
		fields["stage"] = "handle"
		fields["error"] = res.Err
		telemetry.Error("turn.failed", fields)
	} else {
		telemetry.Info("turn.handled", fields)
	}
	if res.Reply == "" {
		return conversation.GenericReply
	}
	return res.Reply
}
