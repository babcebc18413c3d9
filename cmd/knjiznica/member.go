package main

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/erazemk/knjiznica/internal/db"
	"github.com/erazemk/knjiznica/internal/store"
)

func newMemberCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage library members",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <id> <name> [english name]",
		Short: "Register a member who can borrow books",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := db.Open(a.cfg.DB)
			if err != nil {
				return err
			}
			defer database.Close()
			if err := db.EnsureSchema(database); err != nil {
				return fmt.Errorf("ensuring schema: %w", err)
			}

			ename := ""
			if len(args) == 3 {
				ename = args[2]
			}

			ctx := cmd.Context()
			existing, err := store.GetMember(ctx, database, args[0])
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("member %s already exists", args[0])
			}

			m, err := store.CreateMember(ctx, database, args[0], args[1], ename)
			if err != nil {
				return err
			}

			slog.Info("member created", "member", m.ID, "name", m.Cname)
			fmt.Fprintf(cmd.OutOrStdout(), "Member %s added.\n", m.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List members",
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

			members, err := store.ListMembers(cmd.Context(), database)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tENGLISH NAME\tSINCE")
			for _, m := range members {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.ID, m.Cname, m.Ename, m.CreatedAt.Format("2006-01-02"))
			}
			return tw.Flush()
		},
	})

	return cmd
}
