package conversation

import (
	"context"
	"errors"
	"fmt"

	"cvbot-backend/internal/documents"
	"cvbot-backend/internal/payments"
	"cvbot-backend/internal/templates"
	"cvbot-backend/internal/users"
)

// ErrHandlerPanic marks a turn whose handler panicked.
var ErrHandlerPanic = errors.New("conversation handler panicked")

// Catalog is the template catalog as the conversation sees it.
type Catalog interface {
	Available(ctx context.Context, premium bool) ([]templates.Template, error)
	All(ctx context.Context) (free, premium []templates.Template, err error)
	OffersColor(t templates.Template) bool
}

// Documents produces and lists CVs.
type Documents interface {
	Count(ctx context.Context, userID string) (int, error)
	Recent(ctx context.Context, userID string, limit int) ([]documents.Document, int, error)
	Generate(ctx context.Context, req documents.Request) (documents.Document, error)
}

// Payments runs the upgrade purchase.
type Payments interface {
	Start(ctx context.Context, userID, choice string) (payments.Transaction, payments.Package, error)
	Confirm(ctx context.Context, userID, transactionID, reference string) (payments.Transaction, error)
}

// Machine advances one conversation per inbound message.
type Machine struct {
	Store     Store
	Catalog   Catalog
	Documents Documents
	Payments  Payments
	Contact   Contact
}

func NewMachine(store Store, catalog Catalog, docs Documents, pay Payments, contact Contact) *Machine {
	return &Machine{
		Store:     store,
		Catalog:   catalog,
		Documents: docs,
		Payments:  pay,
		Contact:   contact,
	}
}

// Turn is one inbound message for a resolved identity.
type Turn struct {
	User     users.User
	Record   Record
	Text     string
	MediaRef string
}

// Result is what a turn produced. Reply is always set. When Err is non-nil the reply is the
// generic apology and nothing was committed.
type Result struct {
	Reply string
	From  State
	To    State
	Err   error
}

type outcome struct {
	reply string
	next  Record
}

func stay(t Turn, reply string) outcome {
	return outcome{reply: reply, next: t.Record}
}

func moveTo(state State, payload Payload, reply string) outcome {
	return outcome{reply: reply, next: Record{State: state, Payload: payload}}
}

// Handle runs the handler for the turn's state and commits the next record. The record is
// saved only when the handler returns normally; errors and panics leave the last committed
// record in place.
func (m *Machine) Handle(ctx context.Context, t Turn) (res Result) {
	res = Result{From: t.Record.State, To: t.Record.State}
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Reply: GenericReply,
				From:  t.Record.State,
				To:    t.Record.State,
				Err:   fmt.Errorf("%w: %v", ErrHandlerPanic, r),
			}
		}
	}()

	out, err := m.dispatch(ctx, t)
	if err != nil {
		res.Reply = GenericReply
		res.Err = err
		return res
	}

	next := out.next
	next.PhoneNumber = t.Record.PhoneNumber
	if next.Payload == nil {
		next.Payload = Empty{}
	}
	if err := m.Store.Save(ctx, next); err != nil {
		res.Reply = GenericReply
		res.Err = fmt.Errorf("save conversation: %w", err)
		return res
	}
	res.Reply = out.reply
	res.To = next.State
	return res
}

func (m *Machine) dispatch(ctx context.Context, t Turn) (outcome, error) {
	switch t.Record.State {
	case StateMenu:
		return m.menu(ctx, t)
	case StateCollectName:
		return m.collectName(t), nil
	case StateCollectEmail:
		return m.collectEmail(t), nil
	case StateCollectPhone:
		return m.collectPhone(t), nil
	case StateCollectAddress:
		return m.collectAddress(t), nil
	case StateCollectSummary:
		return m.collectSummary(t), nil
	case StateCollectExperience:
		return m.collectExperience(t), nil
	case StateCollectEducation:
		return m.collectEducation(t), nil
	case StateCollectSkills:
		return m.collectSkills(t), nil
	case StateProfilePhoto:
		return m.profilePhoto(ctx, t)
	case StateSelectTemplate:
		return m.selectTemplate(ctx, t)
	case StateSelectColor:
		return m.selectColor(ctx, t)
	case StatePremiumUpgrade:
		return m.premiumUpgrade(ctx, t)
	case StatePayment:
		return m.payment(ctx, t)
	default: // welcome and anything unrecognised
		return m.welcome(ctx, t)
	}
}
