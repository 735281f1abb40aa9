package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/aiox-platform/intake/internal/clients"
	"github.com/aiox-platform/intake/internal/config"
	"github.com/aiox-platform/intake/internal/database"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "clientctl",
		Short:        "Manage tenant profiles stored in Postgres",
		SilenceUsage: true,
	}

	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newDeactivateCmd())
	cmd.AddCommand(newShowCmd())
	return cmd
}

// openRepository connects with the same configuration as the API binary and
// applies pending migrations.
func openRepository(ctx context.Context) (*clients.PostgresRepository, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	cipher, err := clients.NewTokenCipher(cfg.Clients.EncryptionKey)
	if err != nil {
		return nil, nil, fmt.Errorf("creating token cipher: %w", err)
	}
	if err := database.RunMigrations(cfg.DB.DSN(), cfg.DB.MigrationsPath); err != nil {
		return nil, nil, err
	}
	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	return clients.NewPostgresRepository(pool, cipher), pool.Close, nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <clients.yaml>",
		Short: "Upsert every profile of a directory file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			profiles, err := clients.ParseProfiles(data)
			if err != nil {
				return err
			}

			repo, closeFn, err := openRepository(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			for i := range profiles {
				if err := repo.Upsert(cmd.Context(), &profiles[i]); err != nil {
					return fmt.Errorf("profile %s: %w", profiles[i].EndpointID, err)
				}
				slog.Info("client imported", "phone_number_id", profiles[i].EndpointID, "active", profiles[i].Active)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d profiles\n", len(profiles))
			return nil
		},
	}
}

func newDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <phone_number_id>",
		Short: "Stop answering for a business number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeFn, err := openRepository(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			return repo.Deactivate(cmd.Context(), args[0])
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <phone_number_id>",
		Short: "Print the active profile for a business number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeFn, err := openRepository(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			p, err := repo.FindActive(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:           %s\n", p.ID)
			fmt.Fprintf(out, "name:         %s\n", p.DisplayName)
			fmt.Fprintf(out, "token:        %t\n", p.AccessToken != "")
			fmt.Fprintf(out, "instructions: %d chars\n", len([]rune(p.Instructions)))
			fmt.Fprintf(out, "updated:      %s\n", p.UpdatedAt.Format("2006-01-02 15:04"))
			return nil
		},
	}
}
