package conversation

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Store persists one conversation row per identity.
type Store interface {
	// GetOrCreate loads the identity's row, creating it in welcome on first contact.
	GetOrCreate(ctx context.Context, phone string) (Record, error)
	// Save replaces state and payload and stamps updated_at.
	Save(ctx context.Context, rec Record) error
}

type storedRow struct {
	state     State
	data      []byte
	updatedAt time.Time
}

// MemoryStore keeps rows in process. Payloads are held encoded so reads go through the
// same decoding as the Postgres store.
type MemoryStore struct {
	mu   sync.Mutex
	rows map[string]storedRow
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows: make(map[string]storedRow),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) GetOrCreate(ctx context.Context, phone string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	phone = strings.TrimSpace(phone)
	s.mu.Lock()
	row, ok := s.rows[phone]
	if !ok {
		row = storedRow{state: StateWelcome, data: []byte("{}"), updatedAt: s.now()}
		s.rows[phone] = row
	}
	s.mu.Unlock()
	return decodeRow(phone, row.state, row.data, row.updatedAt)
}

func (s *MemoryStore) Save(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := EncodePayload(rec.State, rec.Payload)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.rows[rec.PhoneNumber] = storedRow{state: rec.State, data: data, updatedAt: s.now()}
	s.mu.Unlock()
	return nil
}

// Raw returns the stored state and encoded payload. Used by tests and diagnostics.
func (s *MemoryStore) Raw(phone string) (State, []byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[phone]
	return row.state, append([]byte(nil), row.data...), ok
}

func decodeRow(phone string, state State, data []byte, updatedAt time.Time) (Record, error) {
	rec := Record{PhoneNumber: phone, State: state, UpdatedAt: updatedAt}
	payload, err := DecodePayload(state, data)
	if err != nil {
		rec.Payload = Empty{}
		return rec, err
	}
	rec.Payload = payload
	return rec, nil
}
