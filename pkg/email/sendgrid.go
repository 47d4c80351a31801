package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultSendGridBaseURL is the SendGrid v3 API root.
const DefaultSendGridBaseURL = "https://api.sendgrid.com/v3"

// maxErrorBody bounds how much of a rejected response is kept for logging.
const maxErrorBody = 64 << 10

// SendGridSender sends emails via the SendGrid v3 Mail Send API.
type SendGridSender struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewSendGridSender creates a SendGrid sender. An empty baseURL selects the
// public API and a zero timeout falls back to 10 seconds.
func NewSendGridSender(apiKey, baseURL string, timeout time.Duration) *SendGridSender {
	if baseURL == "" {
		baseURL = DefaultSendGridBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SendGridSender{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type sendGridPersonalization struct {
	To      []Address `json:"to"`
	Subject string    `json:"subject"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridPayload struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             Address                   `json:"from"`
	ReplyTo          *Address                  `json:"reply_to,omitempty"`
	Content          []sendGridContent         `json:"content"`
}

// Name implements Sender.
func (s *SendGridSender) Name() string { return "sendgrid" }

// IsConfigured implements Sender.
func (s *SendGridSender) IsConfigured() bool { return s.apiKey != "" }

// Send delivers msg with a single POST to /mail/send. Any 2xx answer (SendGrid
// normally replies 202 Accepted) is a success; everything else is returned as
// an *UpstreamError.
func (s *SendGridSender) Send(ctx context.Context, msg *Message) error {
	if !s.IsConfigured() {
		return fmt.Errorf("sendgrid: API key not configured")
	}

	payload := sendGridPayload{
		Personalizations: []sendGridPersonalization{{
			To:      []Address{msg.To},
			Subject: msg.Subject,
		}},
		From: msg.From,
		Content: []sendGridContent{
			{Type: "text/plain", Value: msg.Text},
			{Type: "text/html", Value: msg.HTML},
		},
	}
	if msg.ReplyTo.Email != "" {
		replyTo := msg.ReplyTo
		payload.ReplyTo = &replyTo
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("sendgrid: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/mail/send", bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("sendgrid: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid: send: %w", err)
	}
	defer resp.Body.Close()

	if isAccepted(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &UpstreamError{
		Provider:   s.Name(),
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
}

func isAccepted(status int) bool {
	return (status >= 200 && status < 300) || status == http.StatusAccepted
}
