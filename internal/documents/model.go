package documents

import (
	"time"

	"cvbot-backend/internal/templates"
	"cvbot-backend/internal/users"
	"cvbot-backend/resume/model"
)

// Document is a produced CV. It is written once after a successful render and never changed.
type Document struct {
	ID           string
	UserID       string
	TemplateID   int64
	TemplateName string
	FullName     string
	Email        string
	Phone        string
	Address      string
	Summary      string
	Experience   []string
	Education    []string
	Skills       []string
	ProfilePhoto string
	ColorScheme  string
	StorageKey   string
	FileName     string
	MimeType     string
	SizeBytes    int64
	PageCount    int
	IsPremium    bool
	CreatedAt    time.Time

	// URL is the download link handed to the user. Not persisted.
	URL string
}

// Request carries everything Generate needs for one document.
type Request struct {
	User        users.User
	Template    templates.Template
	Profile     model.Profile
	PhotoRef    string
	ColorScheme string
}
