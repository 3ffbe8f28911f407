package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jsalinas/tally/internal/common"
	"github.com/jsalinas/tally/internal/config"
	"github.com/jsalinas/tally/internal/ledger"
	"github.com/jsalinas/tally/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (ledger.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/tally/tally.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("could not open the ledger database at %s", dbPath), err)
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, common.NewUserError("could not bring the ledger database up to date", err)
	}

	return store, nil
}

// closeStorage closes the store at the end of a command, logging rather
// than failing on a close error.
func closeStorage(store ledger.Storage) {
	if err := store.Close(); err != nil {
		common.LogError(err, "failed to close storage", nil)
	}
}

// addUserFlag registers the --user flag every ownership-scoped command needs.
func addUserFlag(cmd *cobra.Command) {
	cmd.Flags().Int64("user", 0, "owning user id (required)")
	_ = cmd.MarkFlagRequired("user")
}

func userIDFlag(cmd *cobra.Command) (int64, error) {
	userID, err := cmd.Flags().GetInt64("user")
	if err != nil {
		return 0, err
	}
	if userID <= 0 {
		return 0, fmt.Errorf("--user must be a positive id")
	}
	return userID, nil
}

// parseMoney parses a user-entered amount string into a decimal.
func parseMoney(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return amount, nil
}

// parseDateTime parses the --date flag. An empty value means now.
func parseDateTime(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or \"YYYY-MM-DD HH:MM\"", s)
}

func formatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
