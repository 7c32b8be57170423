package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"studioflow/internal/adapter/persistence/repository"
	"studioflow/internal/app"
	"studioflow/internal/config"
	"studioflow/internal/domain/entities"
	"studioflow/internal/infrastructure/auth"

	"github.com/spf13/cobra"
)

// runtime is the wiring shared by the commands that touch the store.
type runtime struct {
	cfg      *config.Config
	platform app.Platform
	repos    app.Repositories
	uc       app.UseCases
}

func loadRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	platform, err := app.OpenPlatform(ctx, cfg)
	if err != nil {
		return nil, err
	}
	repos := app.OpenRepositories(cfg, platform)
	adapters := app.NewAdapters(ctx, cfg, platform)
	return &runtime{cfg: cfg, platform: platform, repos: repos, uc: app.NewUseCases(cfg, repos, adapters)}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func sweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Scheduled billing maintenance",
	}

	overdue := &cobra.Command{
		Use:   "overdue",
		Short: "Mark payments delayed and invoices overdue past OVERDUE_THRESHOLD_DAYS",
		RunE: func(cmd *cobra.Command, args []string) error {
			at, _ := cmd.Flags().GetString("at")
			now := time.Now().UTC()
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				now = parsed
			}

			ctx := cmd.Context()
			rt, err := loadRuntime(ctx)
			if err != nil {
				return err
			}
			res, err := rt.uc.Payments.Sweep(ctx, now)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	overdue.Flags().String("at", "", "Evaluate as of this RFC3339 instant instead of now")

	cmd.AddCommand(overdue)
	return cmd
}

func outboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outbox",
		Short: "Inspect and retry tracked side effects",
	}

	replay := &cobra.Command{
		Use:   "replay",
		Short: "Retry failed notification writes and email sends",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			ctx := cmd.Context()
			rt, err := loadRuntime(ctx)
			if err != nil {
				return err
			}
			res, err := rt.uc.SideEffects.Replay(ctx, limit)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	replay.Flags().IntP("limit", "n", 100, "Maximum events to retry")

	cmd.AddCommand(replay)
	return cmd
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Bearer token utilities",
	}

	issue := &cobra.Command{
		Use:   "issue [uid]",
		Short: "Issue a bearer token signed with JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ttl := cfg.TokenTTL
			if override, _ := cmd.Flags().GetDuration("ttl"); override > 0 {
				ttl = override
			}
			m, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, ttl)
			if err != nil {
				return err
			}
			token, err := m.Issue(args[0], email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	issue.Flags().String("email", "", "Email claim")
	issue.Flags().Duration("ttl", 0, "Token lifetime (defaults to TOKEN_TTL_MINUTES)")

	cmd.AddCommand(issue)
	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Bootstrap records that cannot be created through the API",
	}

	user := &cobra.Command{
		Use:   "user",
		Short: "Create a user directly in the store (use for the first director)",
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, _ := cmd.Flags().GetString("uid")
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			role, _ := cmd.Flags().GetString("role")

			u, err := newSeedUser(uid, email, name, role, time.Now().UTC())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			rt, err := loadRuntime(ctx)
			if err != nil {
				return err
			}
			created, err := rt.repos.Users.Create(ctx, u)
			if err != nil {
				return fmt.Errorf("create user %s: %w", uid, err)
			}
			return printJSON(cmd.OutOrStdout(), created)
		},
	}
	user.Flags().String("uid", "", "User id (token subject)")
	user.Flags().String("email", "", "Email address")
	user.Flags().String("name", "", "Display name")
	user.Flags().String("role", string(entities.RoleDirector), "Role")

	cmd.AddCommand(user)
	return cmd
}

func newSeedUser(uid, email, name, role string, now time.Time) (entities.User, error) {
	uid, email, name = strings.TrimSpace(uid), strings.TrimSpace(email), strings.TrimSpace(name)
	if uid == "" || email == "" || name == "" {
		return entities.User{}, errors.New("--uid, --email and --name are required")
	}
	r := entities.Role(strings.TrimSpace(role))
	if !r.Valid() {
		return entities.User{}, fmt.Errorf("unknown role %q", role)
	}
	return entities.User{
		UID:       uid,
		Email:     email,
		Name:      name,
		Role:      r,
		Status:    entities.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func dynamoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dynamo",
		Short: "DynamoDB maintenance",
	}

	bootstrap := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create every missing table and index (local development)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.StoreDriver != config.StoreDynamoDB {
				return fmt.Errorf("STORE_DRIVER is %q; nothing to bootstrap", cfg.StoreDriver)
			}
			platform, err := app.OpenPlatform(ctx, cfg)
			if err != nil {
				return err
			}
			created, err := repository.EnsureTables(ctx, platform.DynamoDB, platform.Tables.Specs())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"created": created})
		},
	}

	cmd.AddCommand(bootstrap)
	return cmd
}
