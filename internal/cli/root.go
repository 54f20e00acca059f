package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"pixelmart/internal/repos"
	"pixelmart/internal/services"
)

// RootOptions holds flags shared by every subcommand.
type RootOptions struct {
	DB     string
	Format string
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pixelctl",
		Short: "Operator tool for the pixelmart store",
		Long: `pixelctl works directly on a pixelmart store database.

It is meant for maintenance while the storefront is stopped: the server keeps
the whole state in memory and rewrites it on every change, so edits made here
while it runs are overwritten by the next storefront write.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	defaultDB := os.Getenv("DB_DSN")
	if defaultDB == "" {
		defaultDB = "pixelmart.db"
	}
	cmd.PersistentFlags().StringVar(&opts.DB, "db", defaultDB, "store DSN (sqlite path or postgres:// URL)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")

	cmd.AddCommand(NewOrdersCommand(opts))
	cmd.AddCommand(NewBalanceCommand(opts))
	cmd.AddCommand(NewPromoCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewResetCatalogCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// store bundles an opened database with the state loaded from it.
type store struct {
	db    *sqlx.DB
	repo  *repos.StateRepo
	shop  *services.Shop
	admin *services.AdminService
}

func openStore(ctx context.Context, dsn string) (*store, error) {
	db, err := repos.OpenDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	repo := repos.NewStateRepo(db)
	st, err := repo.Load(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load state: %w", err)
	}
	shop := services.NewShop(st, repo)
	shop.Durable = true
	return &store{db: db, repo: repo, shop: shop, admin: services.NewAdminService(shop)}, nil
}

func (s *store) Close() error { return s.db.Close() }
