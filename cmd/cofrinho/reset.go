package main

import (
	"fmt"

	"cofrinho/internal/cli"

	"github.com/spf13/cobra"
)

func resetCmd() *cobra.Command {
	var (
		force      bool
		categories bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every transaction and zero all balances",
		Long: `Wipe the transaction log and reset every category's cached balance to
zero. Categories themselves survive unless --categories is also given, in
which case they are deleted too. There is no undo.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if !force {
				fmt.Println(cli.WarningStyle.Render("This permanently deletes every recorded transaction."))
				if categories {
					fmt.Println(cli.WarningStyle.Render("All categories will be deleted as well."))
				}
				fmt.Print("Are you sure you want to continue? [y/N]: ")

				var response string
				_, _ = fmt.Scanln(&response)
				if response != "y" && response != "Y" {
					fmt.Println("Canceled.")
					return nil
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteAllTransactions(ctx); err != nil {
				return fmt.Errorf("failed to reset transactions: %w", err)
			}
			if categories {
				if err := store.DeleteAllCategories(ctx); err != nil {
					return fmt.Errorf("failed to delete categories: %w", err)
				}
			}

			fmt.Println(cli.SuccessStyle.Render("Ledger reset."))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")
	cmd.Flags().BoolVar(&categories, "categories", false, "also delete all categories")

	return cmd
}
