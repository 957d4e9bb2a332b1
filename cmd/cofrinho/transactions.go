package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"cofrinho/internal/cli"
	"cofrinho/internal/model"
	"cofrinho/internal/money"

	"github.com/spf13/cobra"
)

func incomeCmd() *cobra.Command {
	var (
		date  string
		label string
	)

	cmd := &cobra.Command{
		Use:   "income <amount>",
		Short: "Record an income transaction",
		Long: `Record money coming in. Income carries no category; it only raises the
overall balance. Amounts accept both decimal separators: 1234.56 and 1234,56.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cents, err := money.ParseCents(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}

			when, err := parseDate(date)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txn, err := store.CreateTransaction(ctx, model.Transaction{
				Type:  model.TypeIncome,
				Value: cents,
				Date:  when,
				Label: label,
			})
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"Recorded income of %s (id %d)", money.FormatCents(txn.Value), txn.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&label, "label", "", "free-form description")

	return cmd
}

func expenseCmd() *cobra.Command {
	var (
		date  string
		label string
	)

	cmd := &cobra.Command{
		Use:   "expense <amount> <category>",
		Short: "Record an expense transaction",
		Long: `Record money going out against a category. The category may be given by
numeric id or by title, and its cached balance is raised by the same amount in
the same database transaction.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cents, err := money.ParseCents(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}

			when, err := parseDate(date)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cat, err := resolveCategory(ctx, store, args[1])
			if err != nil {
				if isNotFound(err) {
					return fmt.Errorf("category %q does not exist; create it with 'cofrinho category add'", args[1])
				}
				return err
			}

			txn, err := store.CreateTransaction(ctx, model.Transaction{
				Type:       model.TypeExpense,
				Value:      cents,
				Date:       when,
				Label:      label,
				CategoryID: &cat.ID,
			})
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"Recorded expense of %s on %q (id %d)",
				money.FormatCents(txn.Value), cat.Title, txn.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&label, "label", "", "free-form description")

	return cmd
}

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transaction",
		Aliases: []string{"transactions", "txn"},
		Short:   "Inspect and manage recorded transactions",
	}

	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(updateTransactionCmd())
	cmd.AddCommand(deleteTransactionCmd())

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txns, err := store.ListTransactions(ctx)
			if err != nil {
				return fmt.Errorf("failed to get transactions: %w", err)
			}

			if len(txns) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions recorded yet."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Date"),
				cli.HeaderStyle.Render("Type"),
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Label"),
				cli.HeaderStyle.Render("Amount"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 10),
				strings.Repeat("-", 7),
				strings.Repeat("-", 14),
				strings.Repeat("-", 18),
				strings.Repeat("-", 12))

			for _, txn := range txns {
				category := "-"
				if txn.Category != nil {
					category = txn.Category.Title
				}

				amount := money.FormatCents(txn.Value)
				if txn.Type == model.TypeExpense {
					amount = cli.ExpenseStyle.Render("-" + amount)
				} else {
					amount = cli.IncomeStyle.Render("+" + amount)
				}

				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					txn.ID,
					txn.Date.Format("2006-01-02"),
					txn.Type,
					category,
					txn.Label,
					amount)
			}

			return nil
		},
	}
}

func updateTransactionCmd() *cobra.Command {
	var (
		amount   string
		date     string
		label    string
		category string
		txnType  string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an existing transaction",
		Long: `Rewrite a transaction in place. Fields not given keep their current value.
Category balances are reconciled automatically: the old expense contribution
is removed and the new one applied, all in one database transaction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txn, err := store.GetTransactionByID(ctx, id)
			if err != nil {
				if isNotFound(err) {
					return fmt.Errorf("transaction %d does not exist", id)
				}
				return err
			}

			updated := *txn
			updated.Category = nil

			if cmd.Flags().Changed("amount") {
				cents, err := money.ParseCents(amount)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", amount, err)
				}
				updated.Value = cents
			}
			if cmd.Flags().Changed("date") {
				when, err := parseDate(date)
				if err != nil {
					return err
				}
				updated.Date = when
			}
			if cmd.Flags().Changed("label") {
				updated.Label = label
			}
			if cmd.Flags().Changed("type") {
				parsed, err := model.ParseTransactionType(txnType)
				if err != nil {
					return err
				}
				updated.Type = parsed
				if parsed == model.TypeIncome {
					updated.CategoryID = nil
				}
			}
			if cmd.Flags().Changed("category") {
				cat, err := resolveCategory(ctx, store, category)
				if err != nil {
					if isNotFound(err) {
						return fmt.Errorf("category %q does not exist", category)
					}
					return err
				}
				updated.CategoryID = &cat.ID
			}

			if err := store.UpdateTransaction(ctx, updated); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Updated transaction %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "new amount")
	cmd.Flags().StringVar(&date, "date", "", "new date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&label, "label", "", "new description")
	cmd.Flags().StringVar(&category, "category", "", "new category (id or title)")
	cmd.Flags().StringVar(&txnType, "type", "", "new type (income or expense)")

	return cmd
}

func deleteTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Long: `Delete a transaction. An expense deletion lowers its category's cached
balance by the same amount in the same database transaction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteTransaction(ctx, id); err != nil {
				if isNotFound(err) {
					return fmt.Errorf("transaction %d does not exist", id)
				}
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Deleted transaction %d", id)))
			return nil
		},
	}
}
