package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(userAddCmd())
	cmd.AddCommand(userListCmd())
	return cmd
}

func userAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		RunE:  runUserAdd,
	}
	cmd.Flags().String("name", "", "user name (required)")
	cmd.Flags().String("email", "", "user email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func runUserAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	user, err := store.CreateUser(ctx, name, email)
	if err != nil {
		return err
	}

	fmt.Printf("Created user %d (%s)\n", user.ID, user.Name) //nolint:forbidigo // User-facing output
	return nil
}

func userListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE:  runUserList,
	}
}

func runUserList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	users, err := store.ListUsers(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL")
	for _, user := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\n", user.ID, user.Name, user.Email)
	}
	return w.Flush()
}
