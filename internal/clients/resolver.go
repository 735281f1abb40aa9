package clients

import (
	"context"
	"errors"
	"log/slog"
)

// Resolver merges a tenant profile with the process-wide default so every
// turn has instructions and, when possible, credentials.
type Resolver struct {
	finder   Finder
	fallback Profile
}

func NewResolver(finder Finder, fallback Profile) *Resolver {
	return &Resolver{finder: finder, fallback: fallback}
}

// Resolve returns the effective profile for endpointID. Tenant values win;
// missing token or instructions come from the default. It returns
// ErrNoCredentials when neither provides an access token.
func (r *Resolver) Resolve(ctx context.Context, endpointID string) (Profile, error) {
	effective := r.fallback
	effective.EndpointID = endpointID

	if r.finder != nil {
		p, err := r.finder.FindActive(ctx, endpointID)
		switch {
		case err == nil:
			effective.ID = p.ID
			effective.DisplayName = p.DisplayName
			effective.Active = p.Active
			if p.AccessToken != "" {
				effective.AccessToken = p.AccessToken
			}
			if p.Instructions != "" {
				effective.Instructions = p.Instructions
			}
		case errors.Is(err, ErrNoProfile):
			slog.Debug("no client profile, using default", "endpoint_id", endpointID)
		default:
			slog.Warn("client lookup failed, using default", "endpoint_id", endpointID, "error", err)
		}
	}

	if effective.AccessToken == "" {
		return effective, ErrNoCredentials
	}
	return effective, nil
}
