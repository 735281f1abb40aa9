//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiox-platform/intake/internal/clients"
)

func TestClientRepository(t *testing.T) {
	env := SetupTestEnv(t)
	ctx := context.Background()

	cipher, err := clients.NewTokenCipher(encryptionKey)
	require.NoError(t, err)
	repo := clients.NewPostgresRepository(env.Pool, cipher)

	t.Run("unknown number has no profile", func(t *testing.T) {
		_, err := repo.FindActive(ctx, "does-not-exist")
		assert.ErrorIs(t, err, clients.ErrNoProfile)
	})

	t.Run("upsert then find decrypts the token", func(t *testing.T) {
		p := &clients.Profile{
			EndpointID:   "E-100",
			DisplayName:  "Clinique Test",
			AccessToken:  "EAAG-secret",
			Instructions: "Tu es l'assistante de la Clinique Test.",
			Active:       true,
		}
		require.NoError(t, repo.Upsert(ctx, p))

		var stored string
		require.NoError(t, env.Pool.QueryRow(ctx,
			`SELECT access_token FROM clients WHERE phone_number_id = $1`, "E-100").Scan(&stored))
		assert.NotEqual(t, "EAAG-secret", stored)

		got, err := repo.FindActive(ctx, "E-100")
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
		assert.Equal(t, "EAAG-secret", got.AccessToken)
		assert.Equal(t, "Clinique Test", got.DisplayName)
	})

	t.Run("upsert replaces by phone number id", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, &clients.Profile{
			EndpointID: "E-100", AccessToken: "EAAG-rotated", Active: true,
		}))

		got, err := repo.FindActive(ctx, "E-100")
		require.NoError(t, err)
		assert.Equal(t, "EAAG-rotated", got.AccessToken)
		assert.Empty(t, got.Instructions)
	})

	t.Run("deactivated profile is not found", func(t *testing.T) {
		require.NoError(t, repo.Deactivate(ctx, "E-100"))
		_, err := repo.FindActive(ctx, "E-100")
		assert.ErrorIs(t, err, clients.ErrNoProfile)
	})

	t.Run("resolver falls back to the default token", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, &clients.Profile{
			EndpointID: "E-200", Instructions: "Instructions dédiées", Active: true,
		}))

		resolver := clients.NewResolver(repo, clients.Profile{AccessToken: "default", Instructions: "défaut"})
		p, err := resolver.Resolve(ctx, "E-200")
		require.NoError(t, err)
		assert.Equal(t, "default", p.AccessToken)
		assert.Equal(t, "Instructions dédiées", p.Instructions)
		assert.Equal(t, "E-200", p.EndpointID)
	})
}
