package email

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"net/url"
	"time"

	"github.com/resend/resend-go/v3"
)

// ResendSender implements Sender using the Resend API.
type ResendSender struct {
	client *resend.Client
	apiKey string
}

// NewResendSender creates a Resend sender. baseURL is optional and mainly
// useful to point the client at a local stub.
func NewResendSender(apiKey, baseURL string, timeout time.Duration) (*ResendSender, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resend.NewCustomClient(&http.Client{Timeout: timeout}, apiKey)
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("resend: invalid base URL: %w", err)
		}
		if u.Path == "" || u.Path[len(u.Path)-1] != '/' {
			u.Path += "/"
		}
		client.BaseURL = u
	}
	return &ResendSender{client: client, apiKey: apiKey}, nil
}

// Name implements Sender.
func (s *ResendSender) Name() string { return "resend" }

// IsConfigured implements Sender.
func (s *ResendSender) IsConfigured() bool { return s.apiKey != "" }

// Send implements Sender. Resend reports refusals as plain errors, so every
// API error is surfaced as an *UpstreamError without a status code.
func (s *ResendSender) Send(ctx context.Context, msg *Message) error {
	if !s.IsConfigured() {
		return fmt.Errorf("resend: API key not configured")
	}

	req := &resend.SendEmailRequest{
		From:    formatAddress(msg.From),
		To:      []string{msg.To.Email},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	if msg.ReplyTo.Email != "" {
		req.ReplyTo = formatAddress(msg.ReplyTo)
	}

	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("resend: send: %w", err)
		}
		return &UpstreamError{Provider: s.Name(), Body: err.Error()}
	}
	return nil
}

// formatAddress renders a as an RFC 5322 mailbox. Names come from the form, so
// they are quoted or encoded by net/mail.
func formatAddress(a Address) string {
	if a.Name == "" {
		return a.Email
	}
	return (&mail.Address{Name: a.Name, Address: a.Email}).String()
}
