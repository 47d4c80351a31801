package email

import (
	"context"
	"fmt"
	"strings"

	"farm-contact-api/pkg/sanitize"
)

// NotProvided is rendered in place of an empty optional field.
const NotProvided = "Not provided"

// Address is a mailbox with an optional display name.
type Address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Message is a fully composed outbound email ready to hand to a Sender.
type Message struct {
	To      Address
	From    Address
	ReplyTo Address
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a Message through a transactional email provider.
type Sender interface {
	// Send performs exactly one delivery attempt.
	Send(ctx context.Context, msg *Message) error
	// IsConfigured reports whether the provider credentials are present.
	IsConfigured() bool
	// Name identifies the provider in logs.
	Name() string
}

// UpstreamError is returned when the provider answered but refused the message.
// Body holds the raw provider response and must never reach an end user.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: provider rejected message (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// ContactEmailData holds the submitter supplied values of a contact form.
type ContactEmailData struct {
	SenderName  string
	SenderEmail string
	Phone       string
	Message     string
}

// NewContactMessage composes the notification sent to the site owner.
// The subject and text part carry the values verbatim, the HTML part escapes them.
func NewContactMessage(data ContactEmailData, to, from Address) *Message {
	phone := data.Phone
	if phone == "" {
		phone = NotProvided
	}

	text := strings.Join([]string{
		"Name: " + data.SenderName,
		"Email: " + data.SenderEmail,
		"Phone: " + phone,
		"",
		"Message:",
		data.Message,
	}, "\n")

	var html strings.Builder
	html.WriteString("<h2>New Contact Form Submission</h2>\n")
	fmt.Fprintf(&html, "<p><strong>Name:</strong> %s</p>\n", sanitize.EscapeHTML(data.SenderName))
	fmt.Fprintf(&html, "<p><strong>Email:</strong> %s</p>\n", sanitize.EscapeHTML(data.SenderEmail))
	fmt.Fprintf(&html, "<p><strong>Phone:</strong> %s</p>\n", sanitize.EscapeHTML(phone))
	html.WriteString("<hr>\n")
	html.WriteString("<p><strong>Message:</strong></p>\n")
	fmt.Fprintf(&html, "<p>%s</p>\n", sanitize.EscapeHTMLWithBreaks(data.Message))

	return &Message{
		To:   to,
		From: from,
		ReplyTo: Address{
			Email: data.SenderEmail,
			Name:  data.SenderName,
		},
		Subject: "New Contact Form Submission from " + data.SenderName,
		Text:    text,
		HTML:    html.String(),
	}
}
