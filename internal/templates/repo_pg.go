package templates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var templateColumns = []string{"id", "name", "description", "template_key", "is_premium", "is_active", "created_at"}

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) ListActive(ctx context.Context, includePremium bool) ([]Template, error) {
	builder := psql.Select(templateColumns...).
		From("templates").
		Where(sq.Eq{"is_active": true}).
		OrderBy("id ASC")
	if !includePremium {
		builder = builder.Where(sq.Eq{"is_premium": false})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list templates query: %w", err)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (Template, error) {
	query, args, err := psql.Select(templateColumns...).
		From("templates").
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return Template{}, fmt.Errorf("build get template query: %w", err)
	}
	t, err := scanTemplate(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, ErrNotFound
	}
	return t, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row scanner) (Template, error) {
	var t Template
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Key, &t.IsPremium, &t.IsActive, &t.CreatedAt)
	return t, err
}
