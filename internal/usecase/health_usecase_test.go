package usecase_test

import (
	"context"
	"testing"

	"farm-contact-api/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name         string
		sender       *MockSender
		contactEmail string
		want         usecase.HealthStatus
	}{
		{"configured", &MockSender{configured: true}, "owner@example.com", usecase.HealthStatus{Status: "ok", Provider: "mock", Configured: true}},
		{"missing key", &MockSender{configured: false}, "owner@example.com", usecase.HealthStatus{Status: "degraded", Provider: "mock"}},
		{"missing contact email", &MockSender{configured: true}, "", usecase.HealthStatus{Status: "degraded", Provider: "mock"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := usecase.NewHealthUsecase(tt.sender, tt.contactEmail)
			assert.Equal(t, tt.want, uc.Check(context.Background()))
			tt.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}

	t.Run("no sender", func(t *testing.T) {
		uc := usecase.NewHealthUsecase(nil, "owner@example.com")
		assert.Equal(t, usecase.HealthStatus{Status: "degraded", Provider: "none"}, uc.Check(context.Background()))
	})
}
