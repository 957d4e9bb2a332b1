package main

import (
	"fmt"

	"cofrinho/internal/cli"
	"cofrinho/internal/storage"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long: `Bring the database schema up to date. Opening the ledger migrates
automatically, so this is mostly useful to verify a database file by hand.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			version, err := store.SchemaVersion(ctx)
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"Database is at schema version %d (latest is %d).",
				version, storage.ExpectedSchemaVersion)))
			return nil
		},
	}
}
