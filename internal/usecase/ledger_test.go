package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
	"github.com/iho/fintrack/internal/usecase"
	"github.com/iho/fintrack/internal/usecase/mocks"
)

func TestLedger_LoadMissingSnapshotStartsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSnapshotStore(ctrl)
	store.EXPECT().Load(gomock.Any(), "finance").Return(nil, usecase.ErrSnapshotNotFound)

	ledger := usecase.NewLedger(store, "finance", mocks.NewSequenceIDGenerator(), nil, zerolog.Nop(), nil)
	require.NoError(t, ledger.Load(context.Background(), "EUR"))

	s := ledger.Snapshot()
	assert.Equal(t, "EUR", s.Currency)
	assert.Empty(t, s.Accounts)
}

func TestLedger_LoadRestoresSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSnapshotStore(ctrl)
	store.EXPECT().
		Load(gomock.Any(), "finance").
		Return([]byte(`{"accounts":[{"id":"a1","name":"Cash","type":"cash","balance":12.5,"currency":"USD"}],"currency":"USD"}`), nil)

	ledger := usecase.NewLedger(store, "finance", mocks.NewSequenceIDGenerator(), nil, zerolog.Nop(), nil)
	require.NoError(t, ledger.Load(context.Background(), "EUR"))

	acc, ok := usecase.NewAccountUseCase(ledger).GetAccount("a1")
	require.True(t, ok)
	assert.True(t, acc.Balance.Equal(decStr("12.5")))
	assert.Empty(t, ledger.Snapshot().Transactions)
}

func TestLedger_LoadPropagatesStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSnapshotStore(ctrl)
	store.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	ledger := usecase.NewLedger(store, "", mocks.NewSequenceIDGenerator(), nil, zerolog.Nop(), nil)
	err := ledger.Load(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), usecase.DefaultSnapshotKey)
}

func TestLedger_PersistsEveryCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSnapshotStore(ctrl)
	store.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, usecase.ErrSnapshotNotFound)

	var saved []byte
	store.EXPECT().
		Save(gomock.Any(), "finance", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte) error {
			saved = data
			return nil
		})

	ledger := usecase.NewLedger(store, "finance", mocks.NewSequenceIDGenerator(), mocks.NewFixedClock(testNow), zerolog.Nop(), nil)
	require.NoError(t, ledger.Load(context.Background(), "USD"))

	_, err := usecase.NewAccountUseCase(ledger).CreateAccount(context.Background(), usecase.CreateAccountInput{
		Name: "Wallet",
		Kind: domain.AccountKindWallet,
	})
	require.NoError(t, err)

	decoded, err := domain.DecodeSnapshot(saved)
	require.NoError(t, err)
	require.Len(t, decoded.Accounts, 1)
	assert.Equal(t, "Wallet", decoded.Accounts[0].Name)
}

func TestLedger_PersistFailureKeepsTransition(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSnapshotStore(ctrl)
	store.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, usecase.ErrSnapshotNotFound)
	store.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	m := metrics.New(prometheus.NewRegistry())
	ledger := usecase.NewLedger(store, "finance", mocks.NewSequenceIDGenerator(), mocks.NewFixedClock(testNow), zerolog.Nop(), m)
	require.NoError(t, ledger.Load(context.Background(), "USD"))

	acc, err := usecase.NewAccountUseCase(ledger).CreateAccount(context.Background(), usecase.CreateAccountInput{
		Name: "Wallet",
		Kind: domain.AccountKindWallet,
	})
	require.NoError(t, err)

	_, ok := usecase.NewAccountUseCase(ledger).GetAccount(acc.ID)
	assert.True(t, ok)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SnapshotWriteFailures))
}

func TestLedger_RejectedTransitionIsNotCommittedOrPersisted(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSnapshotStore(ctrl)
	store.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, usecase.ErrSnapshotNotFound)
	// one write for the account, none for the rejected transaction
	store.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

	ledger := usecase.NewLedger(store, "finance", mocks.NewSequenceIDGenerator(), mocks.NewFixedClock(testNow), zerolog.Nop(), nil)
	require.NoError(t, ledger.Load(context.Background(), "USD"))

	acc, err := usecase.NewAccountUseCase(ledger).CreateAccount(context.Background(), usecase.CreateAccountInput{
		Name:    "Bank",
		Kind:    domain.AccountKindBank,
		Balance: dec(100),
	})
	require.NoError(t, err)

	_, err = usecase.NewTransactionUseCase(ledger).AddTransaction(context.Background(), usecase.CreateTransactionInput{
		Type:      domain.TransactionTypeTransfer,
		Amount:    dec(10),
		AccountID: acc.ID,
		// missing destination
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	s := ledger.Snapshot()
	assert.Empty(t, s.Transactions)
	assert.True(t, s.Accounts[0].Balance.Equal(dec(100)))
}

func TestLedger_MutationOnUnknownIDIsNoop(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.transactions.DeleteTransaction(context.Background(), "missing"))
	require.NoError(t, env.accounts.DeleteAccount(context.Background(), "missing"))
	require.NoError(t, env.accounts.SetDefaultAccount(context.Background(), "missing"))

	updated, err := env.budgets.UpdateBudget(context.Background(), "missing", usecase.UpdateBudgetInput{})
	require.NoError(t, err)
	assert.Nil(t, updated)

	assert.Equal(t, 0, env.store.Writes)
}
