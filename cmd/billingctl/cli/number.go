package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/mobileshop/billing/internal/numbering"
)

func newNumberCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "number",
		Short: "Inspect or advance the invoice counter",
	}

	withIssuer := func(cmd *cobra.Command, fn func(*numbering.Issuer) error) error {
		client, err := e.redis(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()
		return fn(numbering.NewIssuer(client, time.Now))
	}

	last := &cobra.Command{
		Use:   "last",
		Short: "Print the most recently issued invoice number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withIssuer(cmd, func(issuer *numbering.Issuer) error {
				seq, err := issuer.Last(cmd.Context())
				if err != nil {
					return err
				}
				if seq == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no invoice number issued yet")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), numbering.Format(seq, time.Now().Year()))
				return nil
			})
		},
	}

	next := &cobra.Command{
		Use:   "next",
		Short: "Issue and print a fresh invoice number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withIssuer(cmd, func(issuer *numbering.Issuer) error {
				number, err := issuer.Next(cmd.Context())
				if err != nil {
					return err
				}
				e.logger.Info("invoice number issued", slog.String("invoice", number))
				fmt.Fprintln(cmd.OutOrStdout(), number)
				return nil
			})
		},
	}

	cmd.AddCommand(last, next)
	return cmd
}
