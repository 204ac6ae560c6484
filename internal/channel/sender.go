package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// OutboundMessage is a message the bot starts, such as a document delivery.
type OutboundMessage struct {
	From     string `json:"from,omitempty"`
	To       string `json:"to"`
	Body     string `json:"body"`
	MediaURL string `json:"mediaUrl,omitempty"`
}

// Sender posts outbound messages to the provider's REST API with a bearer token.
type Sender struct {
	HTTP     *http.Client
	APIURL   string
	SenderID string
}

// NewHTTPClient returns a client that authenticates every request with token. Only hand it
// hosts that belong to the provider.
func NewHTTPClient(ctx context.Context, token string) *http.Client {
	if token == "" {
		return &http.Client{Timeout: 15 * time.Second}
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
	client.Timeout = 15 * time.Second
	return client
}

func NewSender(client *http.Client, apiURL, senderID string) *Sender {
	return &Sender{HTTP: client, APIURL: apiURL, SenderID: senderID}
}

// Send delivers msg. Any non-2xx answer is an error carrying the status and a body excerpt.
func (s *Sender) Send(ctx context.Context, msg OutboundMessage) error {
	if s == nil || s.APIURL == "" {
		return errors.New("channel api not configured")
	}
	if msg.From == "" {
		msg.From = s.SenderID
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.APIURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send message: status %d: %s", resp.StatusCode, bytes.TrimSpace(excerpt))
	}
	return nil
}
