package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"cvbot-backend/internal/events"
	"cvbot-backend/internal/queue"
	"cvbot-backend/internal/shared/metrics"
	"cvbot-backend/internal/shared/storage/object"
	"cvbot-backend/internal/shared/telemetry"
	"cvbot-backend/internal/shared/util"
	"cvbot-backend/internal/users"
	"cvbot-backend/resume/model"
	"cvbot-backend/resume/render"
)

// Renderer draws a profile with the template named by the descriptor.
type Renderer interface {
	Render(ctx context.Context, desc render.Descriptor, profile model.Profile, w io.Writer) error
}

// Contacts remembers the user's name and email once a document exists.
type Contacts interface {
	RememberContact(ctx context.Context, user users.User, name, email string) error
}

// Service contains business logic for produced documents.
type Service struct {
	Repo     Repo
	Store    object.ObjectStore
	Renderer Renderer
	Photos   PhotoFetcher
	Contacts Contacts
	Events   events.Publisher
	Delivery queue.Client
	// BaseURL prefixes download links, e.g. https://bot.example.com.
	BaseURL string
	Now     func() time.Time
}

func NewService(repo Repo, store object.ObjectStore, renderer Renderer) *Service {
	return &Service{
		Repo:     repo,
		Store:    store,
		Renderer: renderer,
		Events:   events.Nop{},
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// Generate renders req, stores the artifact and records the document. Anything that fails
// before the record exists is reported as ErrGenerationFailed and leaves nothing behind.
// Side effects after the record (contact copy, event, delivery job) are best effort.
func (s *Service) Generate(ctx context.Context, req Request) (Document, error) {
	if s == nil || s.Repo == nil || s.Store == nil || s.Renderer == nil {
		return Document{}, errors.New("documents service not configured")
	}
	started := time.Now()
	now := s.now()

	profile := req.Profile
	profile.ColorScheme = req.ColorScheme
	if profile.ColorScheme == "" {
		profile.ColorScheme = render.DefaultColor
	}
	profile.Photo = s.fetchPhoto(ctx, req)

	var buf bytes.Buffer
	desc := render.Descriptor{Key: req.Template.Key, Name: req.Template.Name}
	if err := s.Renderer.Render(ctx, desc, profile, &buf); err != nil {
		return Document{}, s.failed("render", req, err)
	}
	info, err := render.Inspect(buf.Bytes())
	if err != nil {
		return Document{}, s.failed("verify", req, err)
	}

	fileName := FileName(profile.FullName, now)
	key, size, mimeType, err := s.Store.Save(ctx, req.User.ID, fileName, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return Document{}, s.failed("store", req, err)
	}

	doc := Document{
		ID:           uuid.NewString(),
		UserID:       req.User.ID,
		TemplateID:   req.Template.ID,
		TemplateName: req.Template.Name,
		FullName:     profile.FullName,
		Email:        profile.Email,
		Phone:        profile.Phone,
		Address:      profile.Address,
		Summary:      profile.Summary,
		Experience:   profile.Experience,
		Education:    profile.Education,
		Skills:       profile.Skills,
		ProfilePhoto: req.PhotoRef,
		ColorScheme:  profile.ColorScheme,
		StorageKey:   key,
		FileName:     fileName,
		MimeType:     mimeType,
		SizeBytes:    size,
		PageCount:    info.Pages,
		IsPremium:    req.Template.IsPremium,
		CreatedAt:    now,
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		if delErr := s.Store.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			telemetry.Warn("document.orphan_object", map[string]any{"storage_key": key, "error": delErr})
		}
		return Document{}, s.failed("persist", req, err)
	}
	doc.URL = s.DownloadURL(doc.ID)

	elapsed := time.Since(started)
	metrics.IncRenderCompleted()
	metrics.ObserveRenderDurationMs(float64(elapsed.Milliseconds()))
	telemetry.Info("document.generated", map[string]any{
		"document_id": doc.ID,
		"user_id":     doc.UserID,
		"template":    req.Template.Key,
		"color":       doc.ColorScheme,
		"pages":       doc.PageCount,
		"size_bytes":  doc.SizeBytes,
		"duration_ms": elapsed.Milliseconds(),
	})

	s.afterCreate(ctx, req, doc)
	return doc, nil
}

// Count returns how many documents the user has produced.
func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	if s == nil || s.Repo == nil {
		return 0, errors.New("documents service not configured")
	}
	return s.Repo.CountByUser(ctx, userID)
}

// Recent returns up to limit documents newest first, plus the user's total.
func (s *Service) Recent(ctx context.Context, userID string, limit int) ([]Document, int, error) {
	if s == nil || s.Repo == nil {
		return nil, 0, errors.New("documents service not configured")
	}
	total, err := s.Repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, nil
	}
	docs, err := s.Repo.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// Get returns a document by id with its download link.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	if s == nil || s.Repo == nil {
		return Document{}, errors.New("documents service not configured")
	}
	if id == "" {
		return Document{}, ErrInvalidInput
	}
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Document{}, err
	}
	doc.URL = s.DownloadURL(doc.ID)
	return doc, nil
}

// Open streams the stored artifact of a document.
func (s *Service) Open(ctx context.Context, id string) (Document, io.ReadCloser, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return Document{}, nil, err
	}
	rc, err := s.Store.Open(ctx, doc.StorageKey)
	if errors.Is(err, object.ErrNotFound) {
		return Document{}, nil, ErrNotFound
	}
	if err != nil {
		return Document{}, nil, err
	}
	return doc, rc, nil
}

// DownloadURL is the public link of a document file.
func (s *Service) DownloadURL(id string) string {
	if s.BaseURL == "" {
		return ""
	}
	return s.BaseURL + "/api/v1/documents/" + id + "/file"
}

// FileName builds "CV_<name>_<YYYYMMDD_HHMMSS>.pdf".
func FileName(fullName string, at time.Time) string {
	return fmt.Sprintf("CV_%s_%s.pdf", util.DocumentBaseName(fullName), at.UTC().Format("20060102_150405"))
}

func (s *Service) fetchPhoto(ctx context.Context, req Request) *model.Photo {
	if req.PhotoRef == "" || s.Photos == nil {
		return nil
	}
	photo, err := s.Photos.Fetch(ctx, req.PhotoRef)
	if err != nil {
		telemetry.Warn("document.photo_skipped", map[string]any{
			"user_id": req.User.ID,
			"error":   err,
		})
		return nil
	}
	return photo
}

func (s *Service) failed(stage string, req Request, err error) error {
	metrics.IncRenderFailed()
	telemetry.Error("document.generation_failed", map[string]any{
		"stage":    stage,
		"user_id":  req.User.ID,
		"template": req.Template.Key,
		"error":    err,
	})
	return fmt.Errorf("%w: %s: %w", ErrGenerationFailed, stage, err)
}

func (s *Service) afterCreate(ctx context.Context, req Request, doc Document) {
	if s.Contacts != nil {
		if err := s.Contacts.RememberContact(ctx, req.User, doc.FullName, doc.Email); err != nil {
			telemetry.Warn("user.contact_update_failed", map[string]any{"user_id": req.User.ID, "error": err})
		}
	}

	if s.Events != nil {
		evt := events.New(events.TypeDocumentGenerated, doc.UserID, map[string]any{
			"document_id":  doc.ID,
			"template_id":  doc.TemplateID,
			"color_scheme": doc.ColorScheme,
			"is_premium":   doc.IsPremium,
		})
		if err := s.Events.Publish(ctx, evt); err != nil {
			telemetry.Warn("event.publish_failed", map[string]any{"type": evt.Type, "error": err})
		}
	}

	if s.Delivery != nil {
		job := queue.DeliveryJob{
			DocumentID:   doc.ID,
			UserID:       doc.UserID,
			PhoneNumber:  req.User.PhoneNumber,
			TemplateName: doc.TemplateName,
			FileName:     doc.FileName,
			EnqueuedAt:   s.now().Format(time.RFC3339),
			Version:      queue.CurrentVersion,
		}
		if err := s.Delivery.Send(ctx, job); err != nil {
			metrics.IncDeliveryFailed()
			telemetry.Warn("delivery.enqueue_failed", map[string]any{"document_id": doc.ID, "error": err})
		}
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
