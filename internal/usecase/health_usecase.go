package usecase

import (
	"context"

	"farm-contact-api/pkg/email"
)

// HealthStatus summarises whether contact submissions can currently be delivered.
type HealthStatus struct {
	Status     string
	Provider   string
	Configured bool
}

type HealthUsecase interface {
	Check(ctx context.Context) HealthStatus
}

type healthUsecase struct {
	sender       email.Sender
	contactEmail string
}

func NewHealthUsecase(sender email.Sender, contactEmail string) HealthUsecase {
	return &healthUsecase{sender: sender, contactEmail: contactEmail}
}

// Check never contacts the provider; "degraded" means the process is up but
// submissions would be answered with a configuration error.
func (u *healthUsecase) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{Status: "ok", Provider: "none"}
	if u.sender != nil {
		status.Provider = u.sender.Name()
		status.Configured = u.sender.IsConfigured()
	}
	if u.contactEmail == "" {
		status.Configured = false
	}
	if !status.Configured {
		status.Status = "degraded"
	}
	return status
}
