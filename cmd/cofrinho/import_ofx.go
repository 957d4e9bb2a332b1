package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cofrinho/internal/cli"
	"cofrinho/internal/model"
	"cofrinho/internal/money"
	"cofrinho/internal/ofx"
	"cofrinho/internal/service"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	var (
		category string
		color    string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "import <file.ofx...>",
		Short: "Import transactions from OFX bank statements",
		Long: `Read one or more OFX statement files and record their entries. Debits
become expenses against --category (created on first use if missing) and
credits become income. Statement descriptions are kept as labels. Glob
patterns in arguments are expanded.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			files, err := expandGlobs(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return errors.New("no files matched the given arguments")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cat, err := resolveCategory(ctx, store, category)
			if err != nil {
				if !isNotFound(err) {
					return err
				}
				if dryRun {
					fmt.Println(cli.InfoStyle.Render(fmt.Sprintf(
						"Would create category %q", category)))
				} else {
					cat, err = store.CreateCategory(ctx, category, color)
					if err != nil {
						return fmt.Errorf("failed to create category %q: %w", category, err)
					}
					fmt.Println(cli.InfoStyle.Render(fmt.Sprintf(
						"Created category %q (id %d)", cat.Title, cat.ID)))
				}
			}

			parser := ofx.NewParser()

			var entries []ofx.Entry
			for _, file := range files {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", file, err)
				}

				parsed, err := parser.ParseFile(ctx, f)
				_ = f.Close()
				if err != nil {
					return fmt.Errorf("failed to parse %s: %w", file, err)
				}

				slog.Debug("parsed statement", "file", file, "entries", len(parsed))
				entries = append(entries, parsed...)
			}

			if len(entries) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions found in the given statements."))
				return nil
			}

			if dryRun {
				for _, entry := range entries {
					kind := "income "
					if entry.Cents < 0 {
						kind = "expense"
					}
					fmt.Printf("  %s %s  %s  %s\n",
						kind,
						entry.Date.Format("2006-01-02"),
						money.FormatCents(abs(entry.Cents)),
						entry.Description)
				}
				fmt.Println(cli.InfoStyle.Render(fmt.Sprintf(
					"Dry run: %d transaction(s) would be imported.", len(entries))))
				return nil
			}

			bar := progressbar.NewOptions(len(entries),
				progressbar.OptionSetDescription("Importing"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			imported, err := importEntries(cmd, store, cat.ID, entries, bar)
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"Imported %d transaction(s) from %d file(s).", imported, len(files))))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "Imported", "category for imported expenses (id or title)")
	cmd.Flags().StringVar(&color, "color", "#4682B4", "color if the category has to be created")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be imported without writing")

	return cmd
}

func importEntries(cmd *cobra.Command, store service.Storage, categoryID int64, entries []ofx.Entry, bar *progressbar.ProgressBar) (int, error) {
	ctx := cmd.Context()

	imported := 0
	for _, entry := range entries {
		txn := model.Transaction{
			Date:  entry.Date,
			Label: entry.Description,
		}
		if entry.Cents < 0 {
			txn.Type = model.TypeExpense
			txn.Value = -entry.Cents
			txn.CategoryID = &categoryID
		} else {
			txn.Type = model.TypeIncome
			txn.Value = entry.Cents
		}

		if _, err := store.CreateTransaction(ctx, txn); err != nil {
			return imported, fmt.Errorf("failed to import %q: %w", entry.Description, err)
		}

		imported++
		_ = bar.Add(1)
	}

	return imported, nil
}

func expandGlobs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			// Not a pattern; let the open fail later with a clear error.
			files = append(files, arg)
			continue
		}
		files = append(files, matches...)
	}
	return files, nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
