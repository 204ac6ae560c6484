package local

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"cvbot-backend/internal/shared/storage/object"
)

func TestSaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir())

	body := "%PDF-1.3\nhello"
	key, size, mime, err := store.Save(ctx, "user-1", "CV_Jane.pdf", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len(body)) {
		t.Fatalf("expected size %d, got %d", len(body), size)
	}
	if mime != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", mime)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, _ := io.ReadAll(rc)
	rc.Close()
	if string(got) != body {
		t.Fatalf("unexpected body %q", got)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Open(ctx, key); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("expected second delete to be a no-op, got %v", err)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "../secret"); err == nil {
		t.Fatalf("expected error for traversal key")
	}
}
