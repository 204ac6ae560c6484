package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"cvbot-backend/resume/model"
)

// ErrUnknownTemplate is returned when a descriptor names no registered variant.
var ErrUnknownTemplate = errors.New("unknown template")

// Descriptor identifies the template to draw with.
type Descriptor struct {
	Key  string
	Name string
}

// Renderer dispatches a descriptor to its template variant.
type Renderer struct {
	templates map[string]Template
}

// NewRenderer registers the given templates, or the built-in variants when none are given.
func NewRenderer(templates ...Template) *Renderer {
	if len(templates) == 0 {
		templates = Variants()
	}
	r := &Renderer{templates: make(map[string]Template, len(templates))}
	for _, t := range templates {
		r.templates[t.Key()] = t
	}
	return r
}

// Keys lists registered template keys in sorted order.
func (r *Renderer) Keys() []string {
	keys := make([]string, 0, len(r.templates))
	for k := range r.templates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Render draws profile with the template named by desc. Output is buffered so nothing is
// written to w unless rendering succeeds.
func (r *Renderer) Render(ctx context.Context, desc Descriptor, profile model.Profile, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t, ok := r.templates[desc.Key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, desc.Key)
	}
	var buf bytes.Buffer
	if err := t.Render(profile, &buf); err != nil {
		return fmt.Errorf("render %s: %w", desc.Key, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// RenderFile draws profile into destPath, creating parent directories.
func (r *Renderer) RenderFile(ctx context.Context, desc Descriptor, profile model.Profile, destPath string) error {
	var buf bytes.Buffer
	if err := r.Render(ctx, desc, profile, &buf); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	return os.WriteFile(destPath, buf.Bytes(), 0o644)
}
