package workerproc

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cvbot-backend/internal/channel"
	"cvbot-backend/internal/documents"
	"cvbot-backend/internal/queue"
)

type stubDocuments struct {
	docs map[string]documents.Document
	err  error
}

func (s stubDocuments) Get(_ context.Context, id string) (documents.Document, error) {
	if s.err != nil {
		return documents.Document{}, s.err
	}
	doc, ok := s.docs[id]
	if !ok {
		return documents.Document{}, documents.ErrNotFound
	}
	return doc, nil
}

type recordingMessenger struct {
	sent []channel.OutboundMessage
	err  error
}

func (m *recordingMessenger) Send(_ context.Context, msg channel.OutboundMessage) error {
	m.sent = append(m.sent, msg)
	return m.err
}

func encode(t *testing.T, job queue.DeliveryJob) string {
	t.Helper()
	b, err := queue.EncodeJob(job)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return string(b)
}

func TestParseMessageErrors(t *testing.T) {
	if _, _, err := ParseMessage("   "); !errors.As(err, new(ErrEmptyBody)) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}
	if _, meta, err := ParseMessage("{nope"); !errors.As(err, new(ErrDecode)) || meta.BodySHA == "" {
		t.Fatalf("expected ErrDecode with meta, got %v", err)
	}
	if _, _, err := ParseMessage(`{"documentId":"d1"}`); !errors.As(err, new(ErrInvalidJob)) {
		t.Fatalf("expected ErrInvalidJob, got %v", err)
	}
}

func TestDeliverSendsLink(t *testing.T) {
	m := &recordingMessenger{}
	d := &Deliverer{
		Documents: stubDocuments{docs: map[string]documents.Document{
			"d1": {ID: "d1", TemplateName: "Minimalist", FileName: "CV_Jane.pdf", URL: "https://bot/api/v1/documents/d1/file"},
		}},
		Messenger: m,
	}

	err := d.HandleMessage(context.Background(), encode(t, queue.DeliveryJob{DocumentID: "d1", PhoneNumber: "whatsapp:+1"}))
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(m.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(m.sent))
	}
	msg := m.sent[0]
	if msg.To != "whatsapp:+1" || msg.MediaURL != "https://bot/api/v1/documents/d1/file" {
		t.Fatalf("unexpected message %+v", msg)
	}
	if !strings.Contains(msg.Body, "Template: Minimalist") {
		t.Fatalf("unexpected body %q", msg.Body)
	}
}

func TestDeliverMissingDocumentIsPermanent(t *testing.T) {
	d := &Deliverer{Documents: stubDocuments{docs: map[string]documents.Document{}}, Messenger: &recordingMessenger{}}
	err := d.HandleMessage(context.Background(), encode(t, queue.DeliveryJob{DocumentID: "gone", PhoneNumber: "+1"}))
	var invalid ErrInvalidJob
	if !errors.As(err, &invalid) || invalid.DocumentID != "gone" {
		t.Fatalf("expected ErrInvalidJob, got %v", err)
	}
}

func TestDeliverSendFailureIsRetryable(t *testing.T) {
	boom := errors.New("provider down")
	d := &Deliverer{
		Documents: stubDocuments{docs: map[string]documents.Document{"d1": {ID: "d1"}}},
		Messenger: &recordingMessenger{err: boom},
	}
	err := d.HandleMessage(context.Background(), encode(t, queue.DeliveryJob{DocumentID: "d1", PhoneNumber: "+1"}))
	var proc ErrProcess
	if !errors.As(err, &proc) || !errors.Is(err, boom) {
		t.Fatalf("expected ErrProcess wrapping cause, got %v", err)
	}
}
