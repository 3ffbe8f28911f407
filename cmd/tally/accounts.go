package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jsalinas/tally/internal/ledger"
)

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}
	cmd.AddCommand(accountAddCmd())
	cmd.AddCommand(accountEditCmd())
	cmd.AddCommand(accountListCmd())
	return cmd
}

func accountAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Open a new account with a zero balance",
		RunE:  runAccountAdd,
	}
	addUserFlag(cmd)
	cmd.Flags().String("name", "", "account name (required)")
	cmd.Flags().Int64("category", 0, "account category id (required, see 'tally categories')")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func runAccountAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	userID, err := userIDFlag(cmd)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("name")
	categoryID, _ := cmd.Flags().GetInt64("category")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	account, err := ledger.NewAccountService(store).Create(ctx, name, categoryID, userID)
	if err != nil {
		return err
	}

	fmt.Printf("Created account %d (%s, %s)\n", account.ID, account.Name, account.CategoryName) //nolint:forbidigo // User-facing output
	return nil
}

func accountEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <account-id>",
		Short: "Rename an account or move it to another category",
		Args:  cobra.ExactArgs(1),
		RunE:  runAccountEdit,
	}
	addUserFlag(cmd)
	cmd.Flags().String("name", "", "new account name (required)")
	cmd.Flags().Int64("category", 0, "new account category id (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func runAccountEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	accountID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid account id %q", args[0])
	}
	userID, err := userIDFlag(cmd)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("name")
	categoryID, _ := cmd.Flags().GetInt64("category")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	account, err := ledger.NewAccountService(store).Update(ctx, accountID, name, categoryID, userID)
	if err != nil {
		return err
	}

	fmt.Printf("Updated account %d (%s, %s)\n", account.ID, account.Name, account.CategoryName) //nolint:forbidigo // User-facing output
	return nil
}

func accountListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts with balances",
		RunE:  runAccountList,
	}
	addUserFlag(cmd)
	return cmd
}

func runAccountList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	userID, err := userIDFlag(cmd)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	accounts, err := ledger.NewAccountService(store).List(ctx, userID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tBALANCE")
	for _, account := range accounts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			account.ID, account.Name, account.CategoryName, formatMoney(account.Balance))
	}
	return w.Flush()
}
