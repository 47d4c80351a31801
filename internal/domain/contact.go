package domain

import (
	"context"
	"encoding/json"
	"errors"
)

// ContactRequest represents a contact form submission.
// Website is a honeypot: the real form hides it, so only bots fill it in.
type ContactRequest struct {
	Name    string `json:"name" validate:"required" example:"Jane Doe"`
	Email   string `json:"email" validate:"required,contact_email" example:"jane@example.com"`
	Phone   string `json:"phone,omitempty" example:"555-0100"`
	Message string `json:"message" validate:"required" example:"Do you sell eggs?"`
	Website Honeypot `json:"website,omitempty" swaggertype:"string" example:""`
}

// IsSpam reports whether the honeypot field was filled in.
func (r *ContactRequest) IsSpam() bool {
	return bool(r.Website)
}

// Honeypot accepts any JSON value. Bots do not always send strings, so it is
// set for anything other than "", null, false or 0.
type Honeypot bool

func (h *Honeypot) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*h = false
	case bool:
		*h = Honeypot(x)
	case string:
		*h = x != ""
	case float64:
		*h = x != 0
	default:
		// objects and arrays, empty or not
		*h = true
	}
	return nil
}

// ContactOutcome describes how an accepted submission was handled.
type ContactOutcome int

const (
	// ContactDelivered means the provider accepted the message.
	ContactDelivered ContactOutcome = iota + 1
	// ContactSpamSuppressed means the submission was dropped silently.
	ContactSpamSuppressed
)

func (o ContactOutcome) String() string {
	switch o {
	case ContactDelivered:
		return "delivered"
	case ContactSpamSuppressed:
		return "spam_suppressed"
	default:
		return "unknown"
	}
}

var (
	ErrMissingFields = errors.New("name, email and message are required")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrNotConfigured = errors.New("email service is not configured")
)

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SendContactMessage validates req and forwards it to the site owner.
	SendContactMessage(ctx context.Context, req *ContactRequest) (ContactOutcome, error)
}
