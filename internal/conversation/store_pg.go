package conversation

import (
	"context"
	"database/sql"
	"time"
)

// PGStore implements Store using the conversation_states table.
type PGStore struct {
	DB *sql.DB
}

// GetOrCreate inserts the welcome row if missing and returns the current row. The no-op
// update makes RETURNING yield existing rows without touching updated_at.
func (s *PGStore) GetOrCreate(ctx context.Context, phone string) (Record, error) {
	const query = `
INSERT INTO conversation_states (phone_number, state, data, updated_at)
VALUES ($1, $2, '{}'::jsonb, now())
ON CONFLICT (phone_number) DO UPDATE SET phone_number = EXCLUDED.phone_number
RETURNING state, data, updated_at`
	var (
		state     string
		data      []byte
		updatedAt time.Time
	)
	if err := s.DB.QueryRowContext(ctx, query, phone, string(StateWelcome)).Scan(&state, &data, &updatedAt); err != nil {
		return Record{}, err
	}
	return decodeRow(phone, State(state), data, updatedAt)
}

func (s *PGStore) Save(ctx context.Context, rec Record) error {
	data, err := EncodePayload(rec.State, rec.Payload)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO conversation_states (phone_number, state, data, updated_at)
VALUES ($1, $2, $3::jsonb, now())
ON CONFLICT (phone_number) DO UPDATE
SET state = EXCLUDED.state, data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	_, err = s.DB.ExecContext(ctx, query, rec.PhoneNumber, string(rec.State), string(data))
	return err
}
