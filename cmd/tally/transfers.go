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

func transferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move money between your accounts",
	}
	cmd.AddCommand(transferCreateCmd())
	cmd.AddCommand(transferListCmd())
	cmd.AddCommand(transferShowCmd())
	return cmd
}

func transferCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Transfer money from one account to another",
		Long: `Transfer money between two of your accounts. The transfer is recorded
as a debit transaction on the source, a credit transaction on the
destination, and a transfer record linking them; all of it commits
together or not at all.`,
		RunE: runTransferCreate,
	}
	addUserFlag(cmd)
	cmd.Flags().Int64("from", 0, "source account id (required)")
	cmd.Flags().Int64("to", 0, "destination account id (required)")
	cmd.Flags().String("amount", "", "amount, e.g. 250.00 (required)")
	cmd.Flags().String("date", "", "date, YYYY-MM-DD or \"YYYY-MM-DD HH:MM\" (default: now)")
	cmd.Flags().String("description", "", "optional description")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func runTransferCreate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	userID, err := userIDFlag(cmd)
	if err != nil {
		return err
	}
	fromID, _ := cmd.Flags().GetInt64("from")
	toID, _ := cmd.Flags().GetInt64("to")
	amountStr, _ := cmd.Flags().GetString("amount")
	dateStr, _ := cmd.Flags().GetString("date")
	description, _ := cmd.Flags().GetString("description")

	amount, err := parseMoney(amountStr)
	if err != nil {
		return err
	}
	ts, err := parseDateTime(dateStr)
	if err != nil {
		return err
	}
	if err := model.ValidateDateTime(ts, time.Now()); err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	transfer, err := ledger.NewTransferService(store).Create(ctx, ledger.TransferInput{
		Amount:        amount,
		DateTime:      ts,
		FromAccountID: fromID,
		ToAccountID:   toID,
		Description:   description,
	}, userID)
	if err != nil {
		return err
	}

	fmt.Printf("Transfer %s: %s from %s to %s\n", //nolint:forbidigo // User-facing output
		transfer.ReferenceNumber, formatMoney(transfer.Amount),
		transfer.FromAccountName, transfer.ToAccountName)
	return nil
}

func transferListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transfers, most recent first",
		RunE:  runTransferList,
	}
	addUserFlag(cmd)
	return cmd
}

func runTransferList(cmd *cobra.Command, _ []string) error {
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

	transfers, err := ledger.NewTransferService(store).List(ctx, userID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tREFERENCE\tDATE\tAMOUNT\tFROM\tTO")
	for _, transfer := range transfers {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			transfer.ID, transfer.ReferenceNumber,
			transfer.DateTime.Format("2006-01-02 15:04"),
			formatMoney(transfer.Amount),
			transfer.FromAccountName, transfer.ToAccountName)
	}
	return w.Flush()
}

func transferShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <transfer-id>",
		Short: "Show one transfer",
		Args:  cobra.ExactArgs(1),
		RunE:  runTransferShow,
	}
	addUserFlag(cmd)
	return cmd
}

func runTransferShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	transferID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid transfer id %q", args[0])
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

	transfer, err := ledger.NewTransferService(store).Get(ctx, transferID, userID)
	if err != nil {
		return err
	}

	fmt.Printf("Transfer %d (%s)\n", transfer.ID, transfer.ReferenceNumber)                    //nolint:forbidigo // User-facing output
	fmt.Printf("  Date:        %s\n", transfer.DateTime.Format("2006-01-02 15:04"))            //nolint:forbidigo // User-facing output
	fmt.Printf("  Amount:      %s\n", formatMoney(transfer.Amount))                            //nolint:forbidigo // User-facing output
	fmt.Printf("  From:        %s (account %d)\n", transfer.FromAccountName, transfer.FromAccountID) //nolint:forbidigo // User-facing output
	fmt.Printf("  To:          %s (account %d)\n", transfer.ToAccountName, transfer.ToAccountID)     //nolint:forbidigo // User-facing output
	if transfer.Description != "" {
		fmt.Printf("  Description: %s\n", transfer.Description) //nolint:forbidigo // User-facing output
	}
	if transfer.DebitTransactionID != nil && transfer.CreditTransactionID != nil {
		fmt.Printf("  Legs:        debit tx %d, credit tx %d\n", //nolint:forbidigo // User-facing output
			*transfer.DebitTransactionID, *transfer.CreditTransactionID)
	}
	return nil
}
