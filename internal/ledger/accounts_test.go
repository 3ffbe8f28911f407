package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsalinas/tally/internal/common"
	"github.com/jsalinas/tally/internal/ledger"
	"github.com/jsalinas/tally/internal/testutil"
)

func TestAccountService_Create(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, store, "alice")
	svc := ledger.NewAccountService(store)

	account, err := svc.Create(ctx, "Holiday Fund", 2, user.ID)
	require.NoError(t, err)

	assert.Equal(t, "Holiday Fund", account.Name)
	assert.Equal(t, "Savings", account.CategoryName)
	assert.True(t, account.Balance.IsZero())
}

func TestAccountService_Create_Validation(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, store, "alice")
	svc := ledger.NewAccountService(store)

	_, err := svc.Create(ctx, "", 1, user.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidArgument), "got %v", err)

	_, err = svc.Create(ctx, "Everyday", 999, user.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidArgument), "got %v", err)

	_, err = svc.Create(ctx, "Everyday", 1, 999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound), "got %v", err)

	_, err = svc.Create(ctx, "Everyday", 1, user.ID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Everyday", 1, user.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDuplicateEntry), "got %v", err)
}

func TestAccountService_Update(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, store, "alice")
	svc := ledger.NewAccountService(store)

	account, err := svc.Create(ctx, "Everyday", 1, user.ID)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, account.ID, "Daily Spending", 2, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Daily Spending", updated.Name)
	assert.Equal(t, "Savings", updated.CategoryName)
	assert.True(t, updated.Balance.Equal(account.Balance), "balance must survive a rename")

	_, err = svc.Update(ctx, 9999, "Ghost", 1, user.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound), "got %v", err)

	// Another user cannot rename it.
	bob := testutil.CreateTestUser(t, store, "bob")
	_, err = svc.Update(ctx, account.ID, "Stolen", 1, bob.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound), "got %v", err)
}

func TestAccountService_GetAndList(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, store, "alice")
	svc := ledger.NewAccountService(store)

	created, err := svc.Create(ctx, "Everyday", 1, user.ID)
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	accounts, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
}
