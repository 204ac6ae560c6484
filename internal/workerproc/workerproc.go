package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"cvbot-backend/internal/channel"
	"cvbot-backend/internal/documents"
	"cvbot-backend/internal/queue"
	"cvbot-backend/internal/shared/metrics"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{BodyLen: 0, BodySHA: ""}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrInvalidJob indicates a job that decodes but cannot be delivered as written.
type ErrInvalidJob struct {
	Meta       MessageMeta
	DocumentID string
	Err        error
}

func (e ErrInvalidJob) Error() string {
	if e.Err == nil {
		return "invalid delivery job"
	}
	return "invalid delivery job: " + e.Err.Error()
}

// ErrProcess indicates delivery failed after successful parsing. Retrying may help.
type ErrProcess struct {
	DocumentID string
	Err        error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "deliver document"
	}
	return "deliver document: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.DeliveryJob, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.DeliveryJob{}, meta, ErrEmptyBody{Meta: meta}
	}

	job, err := queue.DecodeJob([]byte(body))
	if err != nil {
		return queue.DeliveryJob{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if err := job.Validate(); err != nil {
		return job, meta, ErrInvalidJob{Meta: meta, DocumentID: job.DocumentID, Err: err}
	}
	return job, meta, nil
}

// Documents loads produced documents.
type Documents interface {
	Get(ctx context.Context, id string) (documents.Document, error)
}

// Messenger sends a message through the channel provider.
type Messenger interface {
	Send(ctx context.Context, msg channel.OutboundMessage) error
}

// Deliverer sends finished documents back to their owners.
type Deliverer struct {
	Documents Documents
	Messenger Messenger
}

// HandleMessage parses, validates, and delivers one queue payload.
func (d *Deliverer) HandleMessage(ctx context.Context, body string) error {
	if d == nil || d.Documents == nil || d.Messenger == nil {
		return errors.New("delivery not configured")
	}
	job, meta, err := ParseMessage(body)
	if err != nil {
		return err
	}

	doc, err := d.Documents.Get(ctx, job.DocumentID)
	if errors.Is(err, documents.ErrNotFound) {
		return ErrInvalidJob{Meta: meta, DocumentID: job.DocumentID, Err: err}
	}
	if err != nil {
		return ErrProcess{DocumentID: job.DocumentID, Err: err}
	}

	msg := channel.OutboundMessage{
		To:       job.PhoneNumber,
		Body:     deliveryText(doc),
		MediaURL: doc.URL,
	}
	if err := d.Messenger.Send(ctx, msg); err != nil {
		metrics.IncDeliveryFailed()
		return ErrProcess{DocumentID: job.DocumentID, Err: err}
	}
	metrics.IncDeliverySent()
	return nil
}

func deliveryText(doc documents.Document) string {
	text := fmt.Sprintf("📄 Your CV is ready!\n\nTemplate: %s\nFile: %s", doc.TemplateName, doc.FileName)
	if doc.URL != "" {
		text += "\n\nDownload: " + doc.URL
	}
	return text
}
