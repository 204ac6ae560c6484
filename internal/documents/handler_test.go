package documents

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestHandlerServesFile(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	doc, err := svc.Generate(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+doc.ID+"/file", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.Contains(resp.Header().Get("Content-Disposition"), doc.FileName) {
		t.Fatalf("expected file name in disposition, got %q", resp.Header().Get("Content-Disposition"))
	}
	if !strings.HasPrefix(resp.Body.String(), "%PDF") {
		t.Fatalf("expected pdf body")
	}
}

func TestHandlerMetadata(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	doc, err := svc.Generate(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+doc.ID, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body DocumentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.DocumentID != doc.ID || body.TemplateName != "Modern Professional" || body.DownloadURL == "" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestHandlerUnknownDocument(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/missing/file", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
