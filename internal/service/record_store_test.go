package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordStore_Snapshot(t *testing.T) {
	f := newFixture()
	f.addTransaction(1, domain.TransactionKindIncome, "100", day(2024, 3, 1))

	snapshot, err := f.store.Snapshot(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, snapshot.Ready())
	assert.Len(t, snapshot.Transactions, 1)
	assert.NotNil(t, snapshot.Expenses)
	assert.NotNil(t, snapshot.Goals)
	assert.Nil(t, snapshot.Salary)
	assert.Equal(t, "EUR", snapshot.Profile.BaseCurrency)
}

func TestRecordStore_Snapshot_CreatesProfile(t *testing.T) {
	f := newFixture()

	snapshot, err := f.store.Snapshot(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCurrency, snapshot.Profile.BaseCurrency)
	assert.Equal(t, day(2024, 3, 10), snapshot.Profile.StartDate)
}

func TestRecordStore_Snapshot_FailsWhole(t *testing.T) {
	f := newFixture()
	f.salaries.GetFn = func(int32) (*domain.SalarySchedule, error) {
		return nil, errors.New("timeout")
	}

	snapshot, err := f.store.Snapshot(context.Background(), 1)

	assert.Nil(t, snapshot)
	assert.ErrorContains(t, err, "load salary schedule: timeout")
}

func TestRecordStore_GetSalarySchedule(t *testing.T) {
	f := newFixture()

	schedule, err := f.store.GetSalarySchedule(1)
	require.NoError(t, err)
	assert.Nil(t, schedule)

	f.salaries.Schedules[1] = &domain.SalarySchedule{ID: 4, WorkspaceID: 1}
	schedule, err = f.store.GetSalarySchedule(1)
	require.NoError(t, err)
	assert.Equal(t, int32(4), schedule.ID)
}

func TestRecordStore_Snapshot_CancelledContext(t *testing.T) {
	f := newFixture()
	var loads atomic.Int32
	f.transactions.ListFn = func(int32, *domain.TransactionFilters) ([]*domain.Transaction, error) {
		loads.Add(1)
		return nil, nil
	}
	f.expenses.ListFn = func(int32) ([]*domain.ExpenseDefinition, error) {
		loads.Add(1)
		return nil, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snapshot, err := f.store.Snapshot(ctx, 1)

	assert.Nil(t, snapshot)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, loads.Load())
}
