package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsalinas/tally/internal/ledger"
	"github.com/jsalinas/tally/internal/model"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
	}
	cmd.AddCommand(txAddCmd())
	cmd.AddCommand(txListCmd())
	cmd.AddCommand(txEditCmd())
	cmd.AddCommand(txDeleteCmd())
	return cmd
}

// addTxInputFlags registers the flags shared by tx add and tx edit.
func addTxInputFlags(cmd *cobra.Command) {
	cmd.Flags().Int64("account", 0, "account id (required)")
	cmd.Flags().String("amount", "", "amount, e.g. 12.50 (required)")
	cmd.Flags().String("type", "", "transaction type: C (credit) or D (debit) (required)")
	cmd.Flags().Int64("category", 0, "transaction category id (required)")
	cmd.Flags().String("date", "", "date, YYYY-MM-DD or \"YYYY-MM-DD HH:MM\" (default: now)")
	cmd.Flags().String("description", "", "optional description")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("category")
}

// txInputFromFlags builds a service input from the shared flags, applying
// the posting-window validation that belongs at this boundary.
func txInputFromFlags(cmd *cobra.Command) (ledger.TransactionInput, error) {
	var in ledger.TransactionInput

	accountID, _ := cmd.Flags().GetInt64("account")
	amountStr, _ := cmd.Flags().GetString("amount")
	typeStr, _ := cmd.Flags().GetString("type")
	categoryID, _ := cmd.Flags().GetInt64("category")
	dateStr, _ := cmd.Flags().GetString("date")
	description, _ := cmd.Flags().GetString("description")

	amount, err := parseMoney(amountStr)
	if err != nil {
		return in, err
	}
	txType, err := model.ParseTransactionType(typeStr)
	if err != nil {
		return in, err
	}
	ts, err := parseDateTime(dateStr)
	if err != nil {
		return in, err
	}
	if err := model.ValidateDateTime(ts, time.Now()); err != nil {
		return in, err
	}

	return ledger.TransactionInput{
		Amount:      amount,
		DateTime:    ts,
		CategoryID:  categoryID,
		AccountID:   accountID,
		Type:        txType,
		Description: description,
	}, nil
}

func txAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		RunE:  runTxAdd,
	}
	addUserFlag(cmd)
	addTxInputFlags(cmd)
	return cmd
}

func runTxAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	userID, err := userIDFlag(cmd)
	if err != nil {
		return err
	}
	in, err := txInputFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	txn, err := ledger.NewTransactionService(store).Create(ctx, in, userID)
	if err != nil {
		return err
	}

	fmt.Printf("Recorded transaction %d: %s %s on %s (%s)\n", //nolint:forbidigo // User-facing output
		txn.ID, typeWord(txn.Type), formatMoney(txn.Amount), txn.AccountName, txn.CategoryName)
	return nil
}

func txEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <transaction-id>",
		Short: "Rewrite a transaction, rebalancing the affected accounts",
		Args:  cobra.ExactArgs(1),
		RunE:  runTxEdit,
	}
	addUserFlag(cmd)
	addTxInputFlags(cmd)
	return cmd
}

func runTxEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	transactionID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid transaction id %q", args[0])
	}
	userID, err := userIDFlag(cmd)
	if err != nil {
		return err
	}
	in, err := txInputFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	txn, err := ledger.NewTransactionService(store).Update(ctx, transactionID, in, userID)
	if err != nil {
		return err
	}

	fmt.Printf("Updated transaction %d: %s %s on %s\n", //nolint:forbidigo // User-facing output
		txn.ID, typeWord(txn.Type), formatMoney(txn.Amount), txn.AccountName)
	return nil
}

func txDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <transaction-id>",
		Short: "Delete a transaction, reversing its balance effect",
		Args:  cobra.ExactArgs(1),
		RunE:  runTxDelete,
	}
	addUserFlag(cmd)
	return cmd
}

func runTxDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	transactionID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid transaction id %q", args[0])
	}
	userID, err := userIDFlag(cmd)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	if err := ledger.NewTransactionService(store).Delete(ctx, transactionID, userID); err != nil {
		return err
	}

	fmt.Printf("Deleted transaction %d\n", transactionID) //nolint:forbidigo // User-facing output
	return nil
}

func txListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, most recent first",
		RunE:  runTxList,
	}
	addUserFlag(cmd)
	cmd.Flags().Int64("account", 0, "narrow to one account")
	cmd.Flags().Int64("category", 0, "narrow to one transaction category (requires --account)")
	return cmd
}

func runTxList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	userID, err := userIDFlag(cmd)
	if err != nil {
		return err
	}

	var accountID, categoryID *int64
	if v, _ := cmd.Flags().GetInt64("account"); v > 0 {
		accountID = &v
	}
	if v, _ := cmd.Flags().GetInt64("category"); v > 0 {
		categoryID = &v
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	transactions, err := ledger.NewTransactionService(store).List(ctx, userID, accountID, categoryID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTYPE\tAMOUNT\tACCOUNT\tCATEGORY\tDESCRIPTION")
	for _, txn := range transactions {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			txn.ID, txn.DateTime.Format("2006-01-02 15:04"), typeWord(txn.Type),
			formatMoney(txn.Amount), txn.AccountName, txn.CategoryName, txn.Description)
	}
	return w.Flush()
}

func typeWord(t model.TransactionType) string {
	if t == model.TypeCredit {
		return "credit"
	}
	return "debit"
}
