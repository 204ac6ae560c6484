package conversation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cvbot-backend/resume/model"
)

// ErrCorruptPayload is returned when stored data cannot be read back for its state.
var ErrCorruptPayload = errors.New("corrupt conversation payload")

// Draft is the CV being collected. Its JSON form is the flat object stored in the
// conversation row and must round-trip unchanged.
type Draft struct {
	FullName     string   `json:"full_name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Address      string   `json:"address"`
	Summary      string   `json:"summary"`
	Experience   []string `json:"experience"`
	Education    []string `json:"education"`
	Skills       []string `json:"skills"`
	ProfilePhoto *string  `json:"profile_photo"`
	TemplateID   *int64   `json:"template_id"`
	ColorScheme  string   `json:"color_scheme,omitempty"`
}

// NewDraft returns an empty draft whose lists encode as [] rather than null.
func NewDraft() Draft {
	return Draft{Experience: []string{}, Education: []string{}, Skills: []string{}}
}

// Profile converts the draft into what the renderer draws. The photo is resolved later.
func (d Draft) Profile() model.Profile {
	return model.Profile{
		FullName:    d.FullName,
		Email:       d.Email,
		Phone:       d.Phone,
		Address:     d.Address,
		Summary:     d.Summary,
		Experience:  append([]string(nil), d.Experience...),
		Education:   append([]string(nil), d.Education...),
		Skills:      append([]string(nil), d.Skills...),
		ColorScheme: d.ColorScheme,
	}
}

func (d Draft) withLists() Draft {
	if d.Experience == nil {
		d.Experience = []string{}
	}
	if d.Education == nil {
		d.Education = []string{}
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
	return d
}

func (d Draft) photoRef() string {
	if d.ProfilePhoto == nil {
		return ""
	}
	return *d.ProfilePhoto
}

// PendingPayment is the payload of the payment state.
type PendingPayment struct {
	TransactionID string `json:"transaction_id"`
}

// Payload is the state-local data of a record: Empty, Draft or PendingPayment.
type Payload interface {
	isPayload()
}

// Empty is the payload of states that carry nothing.
type Empty struct{}

func (Empty) isPayload()          {}
func (Draft) isPayload()          {}
func (PendingPayment) isPayload() {}

// Record is one identity's conversation row.
type Record struct {
	PhoneNumber string
	State       State
	Payload     Payload
	UpdatedAt   time.Time
}

// NewRecord is the row created on first contact.
func NewRecord(phone string) Record {
	return Record{PhoneNumber: phone, State: StateWelcome, Payload: Empty{}}
}

// Draft returns the record's draft, or an empty one when the state carries none.
func (r Record) Draft() Draft {
	if d, ok := r.Payload.(Draft); ok {
		return d
	}
	return NewDraft()
}

// Pending returns the record's pending payment, if any.
func (r Record) Pending() (PendingPayment, bool) {
	p, ok := r.Payload.(PendingPayment)
	return p, ok
}

// EncodePayload serializes p for state s. The payload type must match the state.
func EncodePayload(s State, p Payload) ([]byte, error) {
	if p == nil {
		p = Empty{}
	}
	switch s.kind() {
	case kindDraft:
		d, ok := p.(Draft)
		if !ok {
			return nil, fmt.Errorf("state %s needs a draft, got %T", s, p)
		}
		return json.Marshal(d.withLists())
	case kindPayment:
		pp, ok := p.(PendingPayment)
		if !ok {
			return nil, fmt.Errorf("state %s needs a pending payment, got %T", s, p)
		}
		return json.Marshal(pp)
	default:
		if _, ok := p.(Empty); !ok {
			return nil, fmt.Errorf("state %s carries no payload, got %T", s, p)
		}
		return []byte("{}"), nil
	}
}

// DecodePayload reads raw as the payload of state s. Missing data decodes to the zero payload.
func DecodePayload(s State, raw []byte) (Payload, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}
	switch s.kind() {
	case kindDraft:
		d := NewDraft()
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
		}
		return d.withLists(), nil
	case kindPayment:
		var p PendingPayment
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
		}
		return p, nil
	default:
		return Empty{}, nil
	}
}
