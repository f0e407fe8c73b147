// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/suportify/helpdesk/cmd/app/commands"
	"github.com/suportify/helpdesk/internal/app"
	"github.com/suportify/helpdesk/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "IT support helpdesk backend",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					return commands.RunMigrations(
						container.Logger(),
						cfg.DBDriver,
						cfg.DBConnectionString,
					)
				},
			},
			{
				Name:  "create-staff",
				Usage: "Create a new staff principal",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Required: true,
						Usage:    "Staff email address",
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "Staff password",
					},
					&cli.StringFlag{
						Name:    "role",
						Aliases: []string{"r"},
						Value:   "technician",
						Usage:   "Staff role: admin or technician",
					},
					&cli.StringFlag{
						Name:  "permissions",
						Usage: "Comma-separated permission list (ignored for admins)",
					},
					&cli.BoolFlag{
						Name:    "active",
						Aliases: []string{"a"},
						Value:   true,
						Usage:   "Whether the staff member can log in immediately",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					logger := container.Logger()
					defer func() {
						if err := container.Shutdown(context.Background()); err != nil {
							logger.Error("failed to shutdown container", slog.Any("error", err))
						}
					}()

					useCase, err := container.PrincipalUseCase()
					if err != nil {
						return fmt.Errorf("failed to initialize principal use case: %w", err)
					}

					return commands.RunCreateStaff(
						ctx,
						useCase,
						logger,
						cmd.String("email"),
						cmd.String("password"),
						cmd.String("role"),
						cmd.String("permissions"),
						cmd.Bool("active"),
						cmd.String("format"),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:  "promote-client",
				Usage: "Grant or revoke the organization-lead capability on a client",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Required: true,
						Usage:    "Client principal id",
					},
					&cli.BoolFlag{
						Name:  "revoke",
						Usage: "Revoke the capability instead of granting it",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					logger := container.Logger()
					defer func() {
						if err := container.Shutdown(context.Background()); err != nil {
							logger.Error("failed to shutdown container", slog.Any("error", err))
						}
					}()

					useCase, err := container.PrincipalUseCase()
					if err != nil {
						return fmt.Errorf("failed to initialize principal use case: %w", err)
					}

					return commands.RunPromoteClient(
						ctx,
						useCase,
						logger,
						cmd.String("id"),
						!cmd.Bool("revoke"),
						cmd.String("format"),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:  "generate-vault-key",
				Usage: "Generate a 256-bit vault field-encryption key",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "kms-uri",
						Usage: "Optional KMS keeper URI used to wrap the generated key",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunGenerateVaultKey(ctx, cmd.String("kms-uri"), os.Stdout)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
