package usecase

import (
	"context"
	"errors"
	"fmt"

	"farm-contact-api/internal/domain"
	"farm-contact-api/pkg/email"
	"farm-contact-api/pkg/logger"
	"farm-contact-api/pkg/security"
	"farm-contact-api/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// ContactConfig holds the fixed addressing of contact notifications.
type ContactConfig struct {
	ContactEmail string
	FromEmail    string
	FromName     string
}

type contactUsecase struct {
	sender   email.Sender
	validate *validator.Validate
	secLog   *security.SecurityLogger
	cfg      ContactConfig
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(sender email.Sender, validate *validator.Validate, secLog *security.SecurityLogger, cfg ContactConfig) domain.ContactUsecase {
	if validate == nil {
		validate = validation.New()
	}
	if secLog == nil {
		secLog = security.NewSecurityLogger(nil, "", "")
	}
	return &contactUsecase{
		sender:   sender,
		validate: validate,
		secLog:   secLog,
		cfg:      cfg,
	}
}

// SendContactMessage runs the honeypot, field and configuration checks in that
// order and then makes exactly one delivery attempt.
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) (domain.ContactOutcome, error) {
	requestID := domain.ContextString(ctx, domain.KeyRequestID)
	clientIP := domain.ContextString(ctx, domain.KeyClientIP)

	// Bots get the same answer as people so they cannot tell they were filtered
	if req.IsSpam() {
		uc.secLog.LogSpamSuppressed(ctx, req.Email, clientIP, domain.ContextString(ctx, domain.KeyUserAgent), requestID)
		return domain.ContactSpamSuppressed, nil
	}

	if err := uc.validate.StructCtx(ctx, req); err != nil {
		uc.secLog.LogValidationFailed(ctx, clientIP, requestID, validation.FailedFields(err))
		switch {
		case validation.HasTag(err, "required"):
			return 0, domain.ErrMissingFields
		case validation.HasTag(err, validation.TagContactEmail):
			return 0, domain.ErrInvalidEmail
		default:
			return 0, fmt.Errorf("validate contact request: %w", err)
		}
	}

	if uc.sender == nil || !uc.sender.IsConfigured() || uc.cfg.ContactEmail == "" {
		uc.secLog.LogConfigMissing(ctx, requestID)
		return 0, domain.ErrNotConfigured
	}

	msg := email.NewContactMessage(
		email.ContactEmailData{
			SenderName:  req.Name,
			SenderEmail: req.Email,
			Phone:       req.Phone,
			Message:     req.Message,
		},
		email.Address{Email: uc.cfg.ContactEmail},
		email.Address{Email: uc.cfg.FromEmail, Name: uc.cfg.FromName},
	)

	if err := uc.sender.Send(ctx, msg); err != nil {
		var upErr *email.UpstreamError
		if errors.As(err, &upErr) {
			uc.secLog.LogUpstreamRejected(ctx, upErr.Provider, upErr.StatusCode, requestID)
		}
		return 0, fmt.Errorf("failed to send contact email: %w", err)
	}

	logger.Log.InfoContext(ctx, "Contact message delivered",
		"provider", uc.sender.Name(),
		"request_id", requestID,
		"reply_to", security.MaskEmail(req.Email),
	)
	return domain.ContactDelivered, nil
}
