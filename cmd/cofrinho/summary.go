package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"cofrinho/internal/cli"
	"cofrinho/internal/money"

	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show overall totals and spending per category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			income, err := store.TotalIncome(ctx)
			if err != nil {
				return fmt.Errorf("failed to get total income: %w", err)
			}
			expense, err := store.TotalExpense(ctx)
			if err != nil {
				return fmt.Errorf("failed to get total expense: %w", err)
			}
			balance, err := store.TotalBalance(ctx)
			if err != nil {
				return fmt.Errorf("failed to get balance: %w", err)
			}

			fmt.Println(cli.TitleStyle.Render("Summary"))
			fmt.Printf("  Income:  %s\n", cli.IncomeStyle.Render(money.FormatCents(income)))
			fmt.Printf("  Expense: %s\n", cli.ExpenseStyle.Render(money.FormatCents(expense)))

			balanceStyle := cli.IncomeStyle
			if balance < 0 {
				balanceStyle = cli.ExpenseStyle
			}
			fmt.Printf("  Balance: %s\n", balanceStyle.Render(money.FormatCents(balance)))

			categories, err := store.CategoriesByBalance(ctx)
			if err != nil {
				return fmt.Errorf("failed to rank categories: %w", err)
			}
			if len(categories) == 0 {
				return nil
			}

			fmt.Println()
			fmt.Println(cli.TitleStyle.Render("Spending by category"))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "  %s\t%s\t%s\n",
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Spent"),
				cli.HeaderStyle.Render("Share"))
			fmt.Fprintf(w, "  %s\t%s\t%s\n",
				strings.Repeat("-", 20),
				strings.Repeat("-", 12),
				strings.Repeat("-", 6))

			for _, cat := range categories {
				share := "-"
				if expense > 0 {
					share = fmt.Sprintf("%.1f%%", float64(cat.Balance)/float64(expense)*100)
				}
				fmt.Fprintf(w, "  %s\t%s\t%s\n",
					cat.Title, money.FormatCents(cat.Balance), share)
			}

			return nil
		},
	}
}
