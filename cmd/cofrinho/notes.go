package main

import (
	"fmt"
	"strconv"
	"strings"

	"cofrinho/internal/cli"
	"cofrinho/internal/model"
	"cofrinho/internal/money"

	"github.com/spf13/cobra"
)

func noteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "note",
		Aliases: []string{"notes"},
		Short:   "Manage monthly budget notes",
		Long: `Budget notes are monthly checklists of amounts to pay or to receive.
They are planning annotations only and never touch balances or the
transaction log.`,
	}

	cmd.AddCommand(addNoteCmd())
	cmd.AddCommand(listNotesCmd())
	cmd.AddCommand(replaceNoteCmd())
	cmd.AddCommand(setNoteKindCmd())
	cmd.AddCommand(deleteNoteCmd())
	cmd.AddCommand(noteItemCmd())

	return cmd
}

// parseNoteItems turns "Rent=1200,00" style arguments into annotation items.
func parseNoteItems(args []string) ([]model.AnnotationItem, error) {
	items := make([]model.AnnotationItem, 0, len(args))
	for _, arg := range args {
		content, amount, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid item %q: expected CONTENT=AMOUNT", arg)
		}

		cents, err := money.ParseCents(amount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount in item %q: %w", arg, err)
		}

		items = append(items, model.AnnotationItem{
			Content: strings.TrimSpace(content),
			Value:   cents,
		})
	}
	return items, nil
}

func addNoteCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "add <month> [item=amount...]",
		Short: "Create a budget note for a month",
		Long: `Create a note such as 'cofrinho note add May Rent=1200,00 Power=180,50'.
Each item is CONTENT=AMOUNT and starts unchecked.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			parsedKind, err := model.ParseAnnotationKind(kind)
			if err != nil {
				return err
			}

			items, err := parseNoteItems(args[1:])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			note, err := store.CreateAnnotation(ctx, args[0], parsedKind, items)
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"Created %s note for %s with %d item(s) (id %d)",
				note.Kind, note.Month, len(note.Items), note.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "pagar", "note kind (pagar or receber)")

	return cmd
}

func listNotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all budget notes with their items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			notes, err := store.ListAnnotations(ctx)
			if err != nil {
				return fmt.Errorf("failed to get notes: %w", err)
			}

			if len(notes) == 0 {
				fmt.Println(cli.InfoStyle.Render("No budget notes yet. Use 'cofrinho note add' to create one."))
				return nil
			}

			for i, note := range notes {
				if i > 0 {
					fmt.Println()
				}
				fmt.Println(cli.TitleStyle.Render(fmt.Sprintf(
					"[%d] %s (%s) — total %s",
					note.ID, note.Month, note.Kind, money.FormatCents(note.Total()))))

				for _, item := range note.Items {
					check := "[ ]"
					if item.Completed {
						check = "[x]"
					}
					line := fmt.Sprintf("  %s %d. %s  %s",
						check, item.ID, item.Content, money.FormatCents(item.Value))
					if item.Completed {
						line = cli.SubtleStyle.Render(line)
					}
					fmt.Println(line)
				}
			}

			return nil
		},
	}
}

func replaceNoteCmd() *cobra.Command {
	var (
		month string
		kind  string
	)

	cmd := &cobra.Command{
		Use:   "replace <id> [item=amount...]",
		Short: "Replace a note's items wholesale",
		Long: `Overwrite a note's entire item list with the items given. Passing no
items clears the list. Item ids are reassigned; completion state does not
carry over.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid note id %q", args[0])
			}

			items, err := parseNoteItems(args[1:])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			notes, err := store.ListAnnotations(ctx)
			if err != nil {
				return err
			}
			var current *model.Annotation
			for i := range notes {
				if notes[i].ID == id {
					current = &notes[i]
					break
				}
			}
			if current == nil {
				return fmt.Errorf("note %d does not exist", id)
			}

			newMonth := current.Month
			if cmd.Flags().Changed("month") {
				newMonth = month
			}
			newKind := current.Kind
			if cmd.Flags().Changed("kind") {
				newKind, err = model.ParseAnnotationKind(kind)
				if err != nil {
					return err
				}
			}

			if err := store.ReplaceAnnotationItems(ctx, id, newMonth, newKind, items); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"Replaced note %d with %d item(s)", id, len(items))))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "new month label")
	cmd.Flags().StringVar(&kind, "kind", "", "new kind (pagar or receber)")

	return cmd
}

func setNoteKindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-kind <id> <kind>",
		Short: "Flip a note between pagar and receber",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid note id %q", args[0])
			}

			kind, err := model.ParseAnnotationKind(args[1])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SetAnnotationKind(ctx, id, kind); err != nil {
				if isNotFound(err) {
					return fmt.Errorf("note %d does not exist", id)
				}
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Note %d is now %s", id, kind)))
			return nil
		},
	}
}

func deleteNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note and all its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid note id %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteAnnotation(ctx, id); err != nil {
				if isNotFound(err) {
					return fmt.Errorf("note %d does not exist", id)
				}
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Deleted note %d", id)))
			return nil
		},
	}
}

func noteItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage individual note items",
	}

	cmd.AddCommand(noteItemDoneCmd())
	cmd.AddCommand(noteItemDeleteCmd())

	return cmd
}

func noteItemDoneCmd() *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done <item-id>",
		Short: "Check off a note item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			itemID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SetAnnotationItemDone(ctx, itemID, !undo); err != nil {
				if isNotFound(err) {
					return fmt.Errorf("item %d does not exist", itemID)
				}
				return err
			}

			state := "done"
			if undo {
				state = "pending"
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Item %d marked %s", itemID, state)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "mark the item pending again")

	return cmd
}

func noteItemDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete a single note item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			itemID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteAnnotationItem(ctx, itemID); err != nil {
				if isNotFound(err) {
					return fmt.Errorf("item %d does not exist", itemID)
				}
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Deleted item %d", itemID)))
			return nil
		},
	}
}
