package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jsalinas/tally/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the seeded account and transaction categories",
		RunE:  runCategories,
	}
	cmd.Flags().String("kind", "transaction", "which categories to list (account, transaction)")
	return cmd
}

func runCategories(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	kind, _ := cmd.Flags().GetString("kind")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	var categories []model.Category
	switch kind {
	case "account":
		categories, err = store.ListAccountCategories(ctx)
	case "transaction":
		categories, err = store.ListTransactionCategories(ctx)
	default:
		return fmt.Errorf("invalid --kind %q, expected account or transaction", kind)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME")
	for _, cat := range categories {
		fmt.Fprintf(w, "%d\t%s\n", cat.ID, cat.Name)
	}
	return w.Flush()
}
