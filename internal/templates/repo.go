package templates

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("template not found")

type Repo interface {
	// ListActive returns active templates ordered by id. Premium rows are included only when
	// includePremium is set.
	ListActive(ctx context.Context, includePremium bool) ([]Template, error)
	GetByID(ctx context.Context, id int64) (Template, error)
}
