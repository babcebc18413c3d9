package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erazemk/knjiznica/internal/db"
	"github.com/erazemk/knjiznica/internal/store"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database schema and reference codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := db.Open(a.cfg.DB)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := db.EnsureSchema(database); err != nil {
				return fmt.Errorf("ensuring schema: %w", err)
			}

			ctx := context.Background()
			statuses, err := store.ListBookStatuses(ctx, database)
			if err != nil {
				return err
			}
			classes, err := store.ListBookClasses(ctx, database)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database ready: %s\n", a.cfg.DB)
			fmt.Fprintf(out, "%d book statuses, %d book classes.\n", len(statuses), len(classes))
			fmt.Fprintln(out, "Add members with: knjiznica member add <id> <name> [english name]")
			return nil
		},
	}
}
