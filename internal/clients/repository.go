package clients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores profiles in the clients table with sealed tokens.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	cipher *TokenCipher
}

func NewPostgresRepository(pool *pgxpool.Pool, cipher *TokenCipher) *PostgresRepository {
	return &PostgresRepository{pool: pool, cipher: cipher}
}

// FindActive returns the most recently activated active profile for the
// number, or ErrNoProfile.
func (r *PostgresRepository) FindActive(ctx context.Context, endpointID string) (*Profile, error) {
	query := `
		SELECT id, phone_number_id, display_name, access_token, instructions, active, created_at, updated_at
		FROM clients
		WHERE phone_number_id = $1 AND active
		ORDER BY activated_at DESC NULLS LAST
		LIMIT 1`

	p := &Profile{}
	var sealed string
	err := r.pool.QueryRow(ctx, query, endpointID).Scan(
		&p.ID, &p.EndpointID, &p.DisplayName, &sealed, &p.Instructions,
		&p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoProfile
		}
		return nil, fmt.Errorf("querying client by phone number id: %w", err)
	}

	if p.AccessToken, err = r.cipher.Open(sealed); err != nil {
		return nil, fmt.Errorf("client %s: %w", p.ID, err)
	}
	return p, nil
}

// Upsert inserts or replaces the profile for p.EndpointID.
func (r *PostgresRepository) Upsert(ctx context.Context, p *Profile) error {
	sealed, err := r.cipher.Seal(p.AccessToken)
	if err != nil {
		return fmt.Errorf("sealing access token: %w", err)
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	query := `
		INSERT INTO clients (id, phone_number_id, display_name, access_token, instructions, active, activated_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, CASE WHEN $6 THEN $8::timestamptz END, $7, $8)
		ON CONFLICT (phone_number_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			access_token = EXCLUDED.access_token,
			instructions = EXCLUDED.instructions,
			active       = EXCLUDED.active,
			activated_at = CASE WHEN EXCLUDED.active AND NOT clients.active THEN EXCLUDED.updated_at ELSE clients.activated_at END,
			updated_at   = EXCLUDED.updated_at`

	_, err = r.pool.Exec(ctx, query,
		p.ID, p.EndpointID, p.DisplayName, sealed, p.Instructions, p.Active, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting client: %w", err)
	}
	return nil
}

// Deactivate marks the profile for the number inactive.
func (r *PostgresRepository) Deactivate(ctx context.Context, endpointID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE clients SET active = FALSE, updated_at = NOW() WHERE phone_number_id = $1`, endpointID)
	if err != nil {
		return fmt.Errorf("deactivating client: %w", err)
	}
	return nil
}
