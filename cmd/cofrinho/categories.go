package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"cofrinho/internal/cli"
	"cofrinho/internal/money"

	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories"},
		Short:   "Manage expense categories",
		Long:    `List, add, and delete the categories expenses are organized under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.ListCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found. Use 'cofrinho category add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Title"),
				cli.HeaderStyle.Render("Color"),
				cli.HeaderStyle.Render("Balance"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 20),
				strings.Repeat("-", 8),
				strings.Repeat("-", 12))

			for _, cat := range categories {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
					cat.ID, cat.Title, cat.Color, money.FormatCents(cat.Balance))
			}

			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new category",
		Long:  `Create a new expense category. Titles are unique, ignoring case.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cat, err := store.CreateCategory(ctx, args[0], color)
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("Created category %q (id %d)", cat.Title, cat.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "#2E8B57", "display color for the category")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category and its transactions",
		Long: `Delete a category. Every transaction recorded against it is deleted with
it, permanently. There is no undo and no balance is restored anywhere.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid category id %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cat, err := store.GetCategoryByID(ctx, id)
			if err != nil {
				if isNotFound(err) {
					return fmt.Errorf("category %d does not exist", id)
				}
				return err
			}

			if !force {
				fmt.Println(cli.WarningStyle.Render(fmt.Sprintf(
					"This permanently deletes %q and all transactions recorded against it.", cat.Title)))
				fmt.Print("Are you sure you want to continue? [y/N]: ")

				var response string
				_, _ = fmt.Scanln(&response)
				if response != "y" && response != "Y" {
					fmt.Println("Canceled.")
					return nil
				}
			}

			if err := store.DeleteCategory(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Deleted category %q", cat.Title)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}
