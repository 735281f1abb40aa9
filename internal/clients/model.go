package clients

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoProfile     = errors.New("no active client profile")
	ErrNoCredentials = errors.New("no delivery credentials for endpoint")
)

// Profile is a tenant's configuration for one WhatsApp business number.
type Profile struct {
	ID           uuid.UUID `json:"id" yaml:"-"`
	EndpointID   string    `json:"phone_number_id" yaml:"phone_number_id"`
	DisplayName  string    `json:"display_name" yaml:"name"`
	AccessToken  string    `json:"-" yaml:"access_token"`
	Instructions string    `json:"instructions" yaml:"instructions"`
	Active       bool      `json:"active" yaml:"active"`
	CreatedAt    time.Time `json:"created_at" yaml:"-"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"-"`
}

// Finder looks up the active profile for a business number.
type Finder interface {
	FindActive(ctx context.Context, endpointID string) (*Profile, error)
}
