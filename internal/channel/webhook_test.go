package channel

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"cvbot-backend/internal/bot"
	"cvbot-backend/internal/conversation"
	"cvbot-backend/internal/documents"
	"cvbot-backend/internal/payments"
	"cvbot-backend/internal/session"
	"cvbot-backend/internal/shared/storage/object/local"
	"cvbot-backend/internal/templates"
	"cvbot-backend/internal/users"
	"cvbot-backend/resume/render"
)

type countingBot struct {
	mu    sync.Mutex
	calls []string
}

func (b *countingBot) ProcessMessage(_ context.Context, address, text, media string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, address+"|"+text+"|"+media)
	return "reply #" + string(rune('0'+len(b.calls)))
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r.Group(""))
	return r
}

func post(t *testing.T, router http.Handler, form url.Values) (*httptest.ResponseRecorder, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var doc twiml
	if resp.Code == http.StatusOK {
		if err := xml.Unmarshal(resp.Body.Bytes(), &doc); err != nil {
			t.Fatalf("decode twiml %q: %v", resp.Body.String(), err)
		}
	}
	return resp, doc.Message
}

func TestWebhookPassesFieldsAndRepliesTwiML(t *testing.T) {
	b := &countingBot{}
	router := newRouter(NewHandler(b, NewMemoryDedupe(0)))

	resp, msg := post(t, router, url.Values{
		"From":       {"whatsapp:+263771234567"},
		"Body":       {"hello"},
		"MediaUrl0":  {"https://media.example.com/1"},
		"MessageSid": {"SM1"},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Header().Get("Content-Type"), "xml") {
		t.Fatalf("expected xml content type, got %q", resp.Header().Get("Content-Type"))
	}
	if msg != "reply #1" {
		t.Fatalf("unexpected message %q", msg)
	}
	if len(b.calls) != 1 || b.calls[0] != "whatsapp:+263771234567|hello|https://media.example.com/1" {
		t.Fatalf("unexpected calls %v", b.calls)
	}
}

func TestWebhookDuplicateSidReturnsSameReply(t *testing.T) {
	b := &countingBot{}
	router := newRouter(NewHandler(b, NewMemoryDedupe(0)))
	form := url.Values{"From": {"whatsapp:+1"}, "Body": {"1"}, "MessageSid": {"SM42"}}

	_, first := post(t, router, form)
	_, second := post(t, router, form)
	if first != second {
		t.Fatalf("expected identical replies, got %q and %q", first, second)
	}
	if len(b.calls) != 1 {
		t.Fatalf("expected one processed turn, got %d", len(b.calls))
	}

	_, third := post(t, router, url.Values{"From": {"whatsapp:+1"}, "Body": {"1"}, "MessageSid": {"SM43"}})
	if third == first || len(b.calls) != 2 {
		t.Fatalf("expected a new sid to be processed")
	}
}

func TestWebhookWithoutSidAlwaysProcesses(t *testing.T) {
	b := &countingBot{}
	router := newRouter(NewHandler(b, NewMemoryDedupe(0)))
	form := url.Values{"From": {"+1"}, "Body": {"hi"}}
	post(t, router, form)
	post(t, router, form)
	if len(b.calls) != 2 {
		t.Fatalf("expected two turns, got %d", len(b.calls))
	}
}

func TestWebhookRequiresFrom(t *testing.T) {
	router := newRouter(NewHandler(&countingBot{}, nil))
	resp, _ := post(t, router, url.Values{"Body": {"hi"}})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestWebhookEscapesReply(t *testing.T) {
	router := newRouter(NewHandler(botFunc(func() string { return "Tom & <Jerry>" }), nil))
	resp, msg := post(t, router, url.Values{"From": {"+1"}})
	if msg != "Tom & <Jerry>" {
		t.Fatalf("unexpected message %q", msg)
	}
	if strings.Contains(resp.Body.String(), "<Jerry>") {
		t.Fatalf("reply was not escaped: %s", resp.Body.String())
	}
}

type botFunc func() string

func (f botFunc) ProcessMessage(context.Context, string, string, string) string { return f() }

func TestWebhookDrivesConversation(t *testing.T) {
	userSvc := users.NewService(users.NewMemoryRepo())
	store := conversation.NewMemoryStore()
	docs := documents.NewService(documents.NewMemoryRepo(), local.New(t.TempDir()), render.NewRenderer())
	pay := payments.NewService(payments.NewMemoryRepo(), nil, userSvc, nil, payments.Merchant{Method: "EcoCash", MerchantCode: "123456"})
	machine := conversation.NewMachine(store, templates.NewService(templates.NewMemoryRepo(), nil), docs, pay, conversation.DefaultContact)
	svc := bot.NewService(session.NewResolver(userSvc, store, nil), machine)
	router := newRouter(NewHandler(svc, NewMemoryDedupe(0)))

	steps := []struct {
		body string
		want string
	}{
		{body: "hi", want: "Welcome to CV Maker Bot!"},
		{body: "1", want: "full name"},
		{body: "Jane Doe", want: "Nice to meet you, Jane Doe!"},
		{body: "jane@example.com", want: "phone number"},
		{body: "+263771234567", want: "address"},
		{body: "Harare", want: "summary"},
		{body: "Engineer.", want: "work experience"},
		{body: "skip", want: "education"},
		{body: "skip", want: "skills"},
		{body: "Go, SQL", want: "profile photo"},
		{body: "2", want: "Choose your CV template"},
		{body: "1", want: "Your CV has been created successfully!"},
	}
	for i, step := range steps {
		_, msg := post(t, router, url.Values{
			"From":       {"whatsapp:+263771234567"},
			"Body":       {step.body},
			"MessageSid": {"SM" + string(rune('a'+i))},
		})
		if !strings.Contains(msg, step.want) {
			t.Fatalf("step %d (%q): expected %q in %q", i, step.body, step.want, msg)
		}
	}
}
