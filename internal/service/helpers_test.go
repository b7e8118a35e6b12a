package service

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/projection"
	"github.com/safespender/safespender-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func fixedClock(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 12, 0, 0, 0, time.UTC) }
}

func day(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decRef(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intRef(i int) *int { return &i }

// fixture wires every service over in-memory repositories, with the clock at 2024-03-10
type fixture struct {
	transactions *testutil.MockTransactionRepository
	expenses     *testutil.MockExpenseRepository
	goals        *testutil.MockSavingsGoalRepository
	salaries     *testutil.MockSalaryScheduleRepository
	profiles     *testutil.MockProfileRepository
	objects      *testutil.MockObjectStore
	publisher    *testutil.MockEventPublisher

	store          *RecordStore
	summaryService *SummaryService
	calendar       *CalendarService
	goalService    *SavingsGoalService
	exportService  *ExportService
}

func newFixture() *fixture {
	f := &fixture{
		transactions: testutil.NewMockTransactionRepository(),
		expenses:     testutil.NewMockExpenseRepository(),
		goals:        testutil.NewMockSavingsGoalRepository(),
		salaries:     testutil.NewMockSalaryScheduleRepository(),
		profiles:     testutil.NewMockProfileRepository(),
		objects:      testutil.NewMockObjectStore(),
		publisher:    testutil.NewMockEventPublisher(),
	}
	clock := fixedClock(2024, 3, 10)

	profileService := NewProfileService(f.profiles)
	profileService.now = clock
	f.store = NewRecordStore(f.transactions, f.expenses, f.goals, f.salaries, profileService)

	f.summaryService = NewSummaryService(f.store, projection.DefaultOptions())
	f.summaryService.now = clock

	transactionService := NewTransactionService(f.transactions, f.goals)
	transactionService.now = clock
	transactionService.SetEventPublisher(f.publisher)
	f.calendar = NewCalendarService(f.store, transactionService, projection.DefaultOptions())

	f.goalService = NewSavingsGoalService(f.goals, f.transactions, f.summaryService, NewImageService(f.objects))
	f.goalService.now = clock
	f.goalService.SetEventPublisher(f.publisher)

	f.exportService = NewExportService(f.calendar, f.summaryService, f.objects, 15*time.Minute)
	f.exportService.now = clock

	f.profiles.Profiles[1] = &domain.FinancialProfile{WorkspaceID: 1, BaseCurrency: "EUR", StartDate: day(2024, 3, 1)}
	return f
}

func (f *fixture) addTransaction(id int32, kind domain.TransactionKind, amount string, date civil.Date) {
	f.transactions.AddTransaction(&domain.Transaction{
		ID:          id,
		WorkspaceID: 1,
		Kind:        kind,
		Amount:      dec(amount),
		Date:        date,
		Description: string(kind),
	})
}
