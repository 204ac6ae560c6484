package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, user_id, template_id, template_name, full_name, email, phone, address, summary,
    experience, education, skills, profile_photo, color_scheme, storage_key, file_name, mime_type,
    size_bytes, page_count, is_premium, created_at`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (` + documentColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	experience, err := encodeList(doc.Experience)
	if err != nil {
		return err
	}
	education, err := encodeList(doc.Education)
	if err != nil {
		return err
	}
	skills, err := encodeList(doc.Skills)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.UserID,
		doc.TemplateID,
		doc.TemplateName,
		doc.FullName,
		nullable(doc.Email),
		nullable(doc.Phone),
		nullable(doc.Address),
		nullable(doc.Summary),
		experience,
		education,
		skills,
		nullable(doc.ProfilePhoto),
		doc.ColorScheme,
		doc.StorageKey,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		doc.PageCount,
		doc.IsPremium,
		doc.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return doc, err
}

func (r *PGRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM documents WHERE user_id = $1`
	var n int
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PGRepo) ListRecent(ctx context.Context, userID string, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 5
	}
	query := `SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var (
		doc                           Document
		email, phone, address, photo  sql.NullString
		summary                       sql.NullString
		experience, education, skills []byte
	)
	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.TemplateID,
		&doc.TemplateName,
		&doc.FullName,
		&email,
		&phone,
		&address,
		&summary,
		&experience,
		&education,
		&skills,
		&photo,
		&doc.ColorScheme,
		&doc.StorageKey,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.PageCount,
		&doc.IsPremium,
		&doc.CreatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	doc.Email = email.String
	doc.Phone = phone.String
	doc.Address = address.String
	doc.Summary = summary.String
	doc.ProfilePhoto = photo.String
	if doc.Experience, err = decodeList(experience); err != nil {
		return Document{}, err
	}
	if doc.Education, err = decodeList(education); err != nil {
		return Document{}, err
	}
	if doc.Skills, err = decodeList(skills); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func encodeList(items []string) ([]byte, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode list: %w", err)
	}
	return b, nil
}

func decodeList(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return items, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
