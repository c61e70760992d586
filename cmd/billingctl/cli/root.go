// Package cli holds the operator commands for the billing service: job
// triggers, ledger exports and invoice counter maintenance.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/mobileshop/billing/internal/app"
	"github.com/mobileshop/billing/internal/platform/cache"
	"github.com/mobileshop/billing/internal/platform/db"
)

var version = "dev"

// env carries what every subcommand needs once configuration is loaded.
type env struct {
	cfg    *app.Config
	logger *slog.Logger
}

func (e *env) postgres(ctx context.Context) (*pgxpool.Pool, error) {
	return db.New(ctx, e.cfg.PGDSN)
}

func (e *env) redis(ctx context.Context) (*redis.Client, error) {
	return cache.New(ctx, e.cfg.RedisAddr)
}

// NewRootCommand assembles the command tree.
func NewRootCommand() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "billingctl",
		Short:         "Operator tools for the mobile shop billing service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.logger = app.NewLogger(cfg).With(slog.String("component", "billingctl"), slog.String("command", cmd.Name()))
			return nil
		},
	}
	root.AddCommand(
		newJobsCommand(e),
		newLedgerCommand(e),
		newNumberCommand(e),
	)
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "billingctl: %v\n", err)
		return 1
	}
	return 0
}
