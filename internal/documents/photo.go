package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cvbot-backend/resume/model"
)

const maxPhotoBytes = 5 << 20

// PhotoFetcher resolves the media reference stored on a draft into image bytes.
type PhotoFetcher interface {
	Fetch(ctx context.Context, ref string) (*model.Photo, error)
}

// HTTPPhotoFetcher downloads media references that are plain URLs. Requests go through
// Client unless the URL is https on a host listed in TrustedHosts, in which case
// Credentialed is used.
type HTTPPhotoFetcher struct {
	Client       *http.Client
	Credentialed *http.Client
	TrustedHosts []string
}

func NewHTTPPhotoFetcher(client *http.Client) *HTTPPhotoFetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPPhotoFetcher{Client: client}
}

// WithCredentials routes downloads from hosts through an authenticated client.
func (f *HTTPPhotoFetcher) WithCredentials(client *http.Client, hosts ...string) *HTTPPhotoFetcher {
	f.Credentialed = client
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			f.TrustedHosts = append(f.TrustedHosts, h)
		}
	}
	return f
}

func (f *HTTPPhotoFetcher) Fetch(ctx context.Context, ref string) (*model.Photo, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("photo url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("photo url: scheme %q not supported", u.Scheme)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("photo request: %w", err)
	}
	resp, err := f.clientFor(u).Do(req)
	if err != nil {
		return nil, fmt.Errorf("photo download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("photo download: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("photo read: %w", err)
	}
	if len(data) > maxPhotoBytes {
		return nil, errors.New("photo too large")
	}
	return DecodePhoto(data)
}

// clientFor only hands out credentials for https URLs on a trusted host.
func (f *HTTPPhotoFetcher) clientFor(u *url.URL) *http.Client {
	if f.Credentialed == nil || u.Scheme != "https" {
		return f.Client
	}
	host := strings.ToLower(u.Hostname())
	for _, trusted := range f.TrustedHosts {
		if host == trusted {
			return f.Credentialed
		}
	}
	return f.Client
}

// DecodePhoto checks that data is a JPEG or PNG image the renderer can embed.
func DecodePhoto(data []byte) (*model.Photo, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("photo decode: %w", err)
	}
	switch format {
	case "jpeg":
		return &model.Photo{Data: data, Format: "JPG"}, nil
	case "png":
		return &model.Photo{Data: data, Format: "PNG"}, nil
	default:
		return nil, fmt.Errorf("photo format %q not supported", format)
	}
}
