package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"farm-contact-api/internal/delivery/http/middleware"
	"farm-contact-api/internal/delivery/http/response"
	"farm-contact-api/internal/domain"
	"farm-contact-api/pkg/apperror"
	"farm-contact-api/pkg/email"
	"farm-contact-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// User facing messages. Server side failures all point at the phone line.
const (
	MsgMissingFields = "Name, email, and message are required."
	MsgInvalidEmail  = "Please provide a valid email address."
	MsgNotConfigured = "Server configuration error. Please try calling us instead."
	MsgSendFailed    = "Failed to send message. Please try calling us instead."
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the contact routes (public, no auth required)
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	public.POST("/contact", handler.SubmitContact)
	// Answered by the CORS middleware; the route only has to exist
	public.OPTIONS("/contact", handler.Preflight)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Validates a contact form submission and forwards it to the farm by email.
// @Description  A filled honeypot field ("website") is acknowledged with success but never delivered.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.SuccessResponse
// @Failure      400      {object}  response.ErrorResponse
// @Failure      403      {object}  response.ErrorResponse
// @Failure      500      {object}  response.ErrorResponse
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	req, err := decodeContactRequest(c)
	if err != nil {
		// Unreadable bodies are reported like any other unexpected failure
		c.Error(apperror.Internal(middleware.MsgUnexpected, err))
		return
	}

	outcome, err := h.contactUC.SendContactMessage(c.Request.Context(), req)
	if err != nil {
		c.Error(mapContactError(err))
		return
	}

	logger.Log.Debug("Contact submission handled", "outcome", outcome.String(), "request_id", c.GetString(middleware.RequestIDKey))
	response.Success(c, http.StatusOK)
}

// Preflight godoc
// @Summary      CORS preflight
// @Tags         contact
// @Success      200
// @Router       /contact [options]
func (h *ContactHandler) Preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}

// decodeContactRequest requires exactly one JSON object. json.Unmarshal is used
// instead of ShouldBindJSON because gin's decoder ignores trailing data.
func decodeContactRequest(c *gin.Context) (*domain.ContactRequest, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, errors.New("body is not a JSON object")
	}

	var req domain.ContactRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	return &req, nil
}

func mapContactError(err error) *apperror.AppError {
	var upErr *email.UpstreamError
	switch {
	case errors.Is(err, domain.ErrMissingFields):
		return apperror.BadRequest(MsgMissingFields)
	case errors.Is(err, domain.ErrInvalidEmail):
		return apperror.BadRequest(MsgInvalidEmail)
	case errors.Is(err, domain.ErrNotConfigured):
		return apperror.Internal(MsgNotConfigured, err)
	case errors.As(err, &upErr):
		return apperror.Internal(MsgSendFailed, err)
	default:
		return apperror.Internal(middleware.MsgUnexpected, err)
	}
}
