package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cvbot-backend/internal/conversation"
	"cvbot-backend/internal/events"
	"cvbot-backend/internal/shared/telemetry"
	"cvbot-backend/internal/shared/util"
	"cvbot-backend/internal/users"
)

// ErrNoIdentity is returned for an address that is empty once normalized.
var ErrNoIdentity = errors.New("empty channel address")

var channelPrefixes = []string{"whatsapp:", "tel:", "sms:"}

// Users provisions end users by phone number.
type Users interface {
	GetOrCreate(ctx context.Context, phone string) (users.User, bool, error)
}

// Resolver maps a channel address to the user and conversation row it belongs to.
type Resolver struct {
	Users         Users
	Conversations conversation.Store
	Events        events.Publisher
}

func NewResolver(u Users, store conversation.Store, publisher events.Publisher) *Resolver {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Resolver{Users: u, Conversations: store, Events: publisher}
}

// Normalize strips the channel prefix and whitespace from an address.
func Normalize(address string) string {
	s := strings.TrimSpace(address)
	lower := strings.ToLower(s)
	for _, p := range channelPrefixes {
		if strings.HasPrefix(lower, p) {
			s = s[len(p):]
			break
		}
	}
	return strings.Join(strings.Fields(s), "")
}

// Resolve returns the user and conversation for address, creating both on first contact.
// Every call refreshes the user's last-active time. A conversation row that cannot be read
// back is reset to welcome.
func (r *Resolver) Resolve(ctx context.Context, address string) (users.User, conversation.Record, error) {
	phone := Normalize(address)
	if phone == "" {
		return users.User{}, conversation.Record{}, ErrNoIdentity
	}

	user, created, err := r.Users.GetOrCreate(ctx, phone)
	if err != nil {
		return users.User{}, conversation.Record{}, fmt.Errorf("resolve user: %w", err)
	}
	if created {
		evt := events.New(events.TypeUserRegistered, user.ID, map[string]any{"user_id": user.ID})
		if err := r.Events.Publish(ctx, evt); err != nil {
			telemetry.Warn("event.publish_failed", map[string]any{"type": evt.Type, "error": err})
		}
	}

	rec, err := r.Conversations.GetOrCreate(ctx, phone)
	if errors.Is(err, conversation.ErrCorruptPayload) {
		telemetry.Warn("conversation.reset", map[string]any{
			"identity": util.ShortKey(phone),
			"state":    string(rec.State),
			"error":    err,
		})
		rec = conversation.NewRecord(phone)
		if err := r.Conversations.Save(ctx, rec); err != nil {
			return users.User{}, conversation.Record{}, fmt.Errorf("reset conversation: %w", err)
		}
		return user, rec, nil
	}
	if err != nil {
		return users.User{}, conversation.Record{}, fmt.Errorf("resolve conversation: %w", err)
	}
	return user, rec, nil
}
