package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/safespender/safespender-backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// RecordStore reads the five record kinds a projection needs. It never caches:
// every call observes all writes completed before it.
type RecordStore struct {
	transactionRepo domain.TransactionRepository
	expenseRepo     domain.ExpenseRepository
	goalRepo        domain.SavingsGoalRepository
	salaryRepo      domain.SalaryScheduleRepository
	profiles        *ProfileService
}

// NewRecordStore creates a new RecordStore
func NewRecordStore(
	transactionRepo domain.TransactionRepository,
	expenseRepo domain.ExpenseRepository,
	goalRepo domain.SavingsGoalRepository,
	salaryRepo domain.SalaryScheduleRepository,
	profiles *ProfileService,
) *RecordStore {
	return &RecordStore{
		transactionRepo: transactionRepo,
		expenseRepo:     expenseRepo,
		goalRepo:        goalRepo,
		salaryRepo:      salaryRepo,
		profiles:        profiles,
	}
}

func (r *RecordStore) ListTransactions(workspaceID int32) ([]*domain.Transaction, error) {
	transactions, err := r.transactionRepo.ListByWorkspace(workspaceID, nil)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return nonNil(transactions), nil
}

func (r *RecordStore) ListExpenseDefinitions(workspaceID int32) ([]*domain.ExpenseDefinition, error) {
	expenses, err := r.expenseRepo.ListByWorkspace(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("load expense definitions: %w", err)
	}
	return nonNil(expenses), nil
}

func (r *RecordStore) ListSavingsGoals(workspaceID int32) ([]*domain.SavingsGoal, error) {
	goals, err := r.goalRepo.ListByWorkspace(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("load savings goals: %w", err)
	}
	return nonNil(goals), nil
}

// GetSalarySchedule returns nil without error when no schedule is configured
func (r *RecordStore) GetSalarySchedule(workspaceID int32) (*domain.SalarySchedule, error) {
	schedule, err := r.salaryRepo.GetByWorkspace(workspaceID)
	if errors.Is(err, domain.ErrSalaryScheduleNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load salary schedule: %w", err)
	}
	return schedule, nil
}

// GetProfile returns the profile, creating defaults on first access
func (r *RecordStore) GetProfile(workspaceID int32) (*domain.FinancialProfile, error) {
	profile, err := r.profiles.GetProfile(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return profile, nil
}

// Snapshot loads all five record kinds concurrently. Any failure fails the whole
// snapshot; a partial one is never returned. A load does not start once ctx is
// done or another load has failed.
func (r *RecordStore) Snapshot(ctx context.Context, workspaceID int32) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var snapshot domain.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	load := func(fn func() error) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn()
		})
	}

	load(func() (err error) {
		snapshot.Transactions, err = r.ListTransactions(workspaceID)
		return err
	})
	load(func() (err error) {
		snapshot.Expenses, err = r.ListExpenseDefinitions(workspaceID)
		return err
	})
	load(func() (err error) {
		snapshot.Goals, err = r.ListSavingsGoals(workspaceID)
		return err
	})
	load(func() (err error) {
		snapshot.Salary, err = r.GetSalarySchedule(workspaceID)
		return err
	})
	load(func() (err error) {
		snapshot.Profile, err = r.GetProfile(workspaceID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// nonNil turns an empty result into a loaded, empty collection
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
