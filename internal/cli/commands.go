package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"pixelmart/internal/domain"
	"pixelmart/internal/repos"
	"pixelmart/internal/services"
)

func errCode(err error) string {
	switch services.KindOf(err) {
	case services.KindValidation:
		return "INVALID"
	case services.KindNotFound:
		return "NOT_FOUND"
	case services.KindConflict:
		return "CONFLICT"
	}
	return "STORE"
}

func NewOrdersCommand(opts *RootOptions) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutputFormatter(opts.Format, cmd.OutOrStdout())
			s, err := openStore(cmd.Context(), opts.DB)
			if err != nil {
				return out.Fail("STORE", err)
			}
			defer s.Close()

			orders := s.admin.Orders()
			if status != "" {
				kept := orders[:0]
				for _, o := range orders {
					if strings.EqualFold(string(o.Status), status) {
						kept = append(kept, o)
					}
				}
				orders = kept
			}

			var b strings.Builder
			for _, o := range orders {
				fmt.Fprintf(&b, "%s\t%s\t%s\t%s\t%s\n", o.ID, o.Date, o.Email, domain.FormatMoney(o.TotalAmount), o.Status)
			}
			fmt.Fprintf(&b, "%d order(s)", len(orders))
			return out.Success(orders, b.String())
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only show orders with this status")
	return cmd
}

func NewBalanceCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <email> <amount>",
		Short: "Set a user's wallet balance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutputFormatter(opts.Format, cmd.OutOrStdout())
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return out.Fail("INVALID", fmt.Errorf("amount %q is not a number", args[1]))
			}
			s, err := openStore(cmd.Context(), opts.DB)
			if err != nil {
				return out.Fail("STORE", err)
			}
			defer s.Close()

			if err := s.admin.SetUserBalance(cmd.Context(), args[0], amount); err != nil {
				return out.Fail(errCode(err), err)
			}
			return out.Success(
				map[string]any{"email": args[0], "balance": amount},
				fmt.Sprintf("%s balance set to %s", args[0], domain.FormatMoney(amount)),
			)
		},
	}
}

func NewPromoCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promo",
		Short: "Manage promo codes",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List promo codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutputFormatter(opts.Format, cmd.OutOrStdout())
			s, err := openStore(cmd.Context(), opts.DB)
			if err != nil {
				return out.Fail("STORE", err)
			}
			defer s.Close()

			promos := s.shop.Snapshot().Promos
			lines := make([]string, 0, len(promos))
			for _, p := range promos {
				lines = append(lines, fmt.Sprintf("%s\t%g%%", p.Code, p.Discount))
			}
			return out.Success(promos, strings.Join(lines, "\n"))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <code> <percent>",
		Short: "Add a promo code",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutputFormatter(opts.Format, cmd.OutOrStdout())
			pct, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return out.Fail("INVALID", fmt.Errorf("percent %q is not a number", args[1]))
			}
			s, err := openStore(cmd.Context(), opts.DB)
			if err != nil {
				return out.Fail("STORE", err)
			}
			defer s.Close()

			p, err := s.admin.AddPromo(cmd.Context(), args[0], pct)
			if err != nil {
				return out.Fail(errCode(err), err)
			}
			return out.Success(p, fmt.Sprintf("added %s (%g%%)", p.Code, p.Discount))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <code-or-id>",
		Short: "Remove a promo code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutputFormatter(opts.Format, cmd.OutOrStdout())
			s, err := openStore(cmd.Context(), opts.DB)
			if err != nil {
				return out.Fail("STORE", err)
			}
			defer s.Close()

			if err := s.admin.DeletePromo(cmd.Context(), args[0]); err != nil {
				return out.Fail(errCode(err), err)
			}
			return out.Success(map[string]string{"removed": args[0]}, "removed "+args[0])
		},
	})
	return cmd
}

// NewExportCommand dumps stored blobs. With no argument every key is written
// as one JSON object; with a key only that blob is written.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [key]",
		Short: "Print stored state as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutputFormatter(opts.Format, cmd.OutOrStdout())
			s, err := openStore(cmd.Context(), opts.DB)
			if err != nil {
				return out.Fail("STORE", err)
			}
			defer s.Close()

			keys := args
			if len(keys) == 0 {
				if keys, err = s.repo.Keys(cmd.Context()); err != nil {
					return out.Fail("STORE", err)
				}
			}
			dump := make(map[string]json.RawMessage, len(keys))
			for _, k := range keys {
				raw, ok, err := s.repo.Get(cmd.Context(), k)
				if err != nil {
					return out.Fail("STORE", err)
				}
				if !ok {
					return out.Fail("NOT_FOUND", fmt.Errorf("key %q is not stored", k))
				}
				dump[k] = raw
			}

			var data any = dump
			if len(args) == 1 {
				data = dump[args[0]]
			}
			b, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return out.Fail("STORE", err)
			}
			return out.Success(data, string(b))
		},
	}
}

func NewResetCatalogCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-catalog",
		Short: "Replace the product catalog with the seed catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutputFormatter(opts.Format, cmd.OutOrStdout())
			s, err := openStore(cmd.Context(), opts.DB)
			if err != nil {
				return out.Fail("STORE", err)
			}
			defer s.Close()

			catalog := repos.SeedCatalog()
			if err := s.repo.Put(cmd.Context(), domain.KeyProducts, catalog); err != nil {
				return out.Fail("STORE", err)
			}
			return out.Success(
				map[string]int{"products": len(catalog)},
				fmt.Sprintf("catalog reset to %d products", len(catalog)),
			)
		},
	}
}
