package object

import (
	"io"
	"strings"
	"testing"
)

func TestNewKeyNamespacesByOwner(t *testing.T) {
	a, err := NewKey("user-1", "CV_Jane_Doe.pdf")
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	b, err := NewKey("user-1", "CV_Jane_Doe.pdf")
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct keys, got %q twice", a)
	}
	ownerA := strings.SplitN(a, "/", 2)[0]
	ownerB := strings.SplitN(b, "/", 2)[0]
	if ownerA != ownerB {
		t.Fatalf("expected same owner prefix, got %q and %q", ownerA, ownerB)
	}
	if !strings.HasSuffix(a, "_CV_Jane_Doe.pdf") {
		t.Fatalf("expected file name suffix, got %q", a)
	}
}

func TestNewKeyRejectsTraversal(t *testing.T) {
	if _, err := NewKey("user-1", "../etc/passwd"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSniffReplaysHead(t *testing.T) {
	body := "%PDF-1.3\n" + strings.Repeat("x", 1024)
	mime, r, err := Sniff(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Sniff: %v", err)
	}
	if mime != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", mime)
	}
	counter := &CountingReader{R: r}
	got, err := io.ReadAll(counter)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != body {
		t.Fatalf("body not replayed intact")
	}
	if counter.N != int64(len(body)) {
		t.Fatalf("expected %d bytes counted, got %d", len(body), counter.N)
	}
}
