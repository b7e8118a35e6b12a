package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/labstack/echo/v4"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/middleware"
	"github.com/safespender/safespender-backend/internal/projection"
	"github.com/safespender/safespender-backend/internal/service"
	"github.com/safespender/safespender-backend/internal/testutil"
)

// Helper to set up auth context
func setupAuthContext(c echo.Context, auth0ID string, email, name, picture string) {
	setupAuthContextWithWorkspace(c, auth0ID, email, name, picture, 0)
}

// Helper to set up auth context with workspace ID
func setupAuthContextWithWorkspace(c echo.Context, auth0ID string, email, name, picture string, workspaceID int32) {
	customClaims := &middleware.CustomClaims{
		Email:   email,
		Name:    name,
		Picture: picture,
	}
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Subject: auth0ID,
		},
		CustomClaims: customClaims,
	}
	ctx := context.WithValue(c.Request().Context(), middleware.ClaimsKey, claims)
	ctx = context.WithValue(ctx, middleware.Auth0IDKey, auth0ID)
	if workspaceID > 0 {
		ctx = context.WithValue(ctx, middleware.WorkspaceIDKey, workspaceID)
	}
	c.SetRequest(c.Request().WithContext(ctx))
}

// api wires the handlers over in-memory repositories for workspace 1
type api struct {
	transactions *testutil.MockTransactionRepository
	expenses     *testutil.MockExpenseRepository
	goals        *testutil.MockSavingsGoalRepository
	salaries     *testutil.MockSalaryScheduleRepository
	profiles     *testutil.MockProfileRepository
	objects      *testutil.MockObjectStore
	publisher    *testutil.MockEventPublisher

	transaction *TransactionHandler
	expense     *ExpenseHandler
	salary      *SalaryHandler
	profile     *ProfileHandler
	goal        *SavingsGoalHandler
	summary     *SummaryHandler
	calendar    *CalendarHandler
	export      *ExportHandler
}

func newAPI() *api {
	a := &api{
		transactions: testutil.NewMockTransactionRepository(),
		expenses:     testutil.NewMockExpenseRepository(),
		goals:        testutil.NewMockSavingsGoalRepository(),
		salaries:     testutil.NewMockSalaryScheduleRepository(),
		profiles:     testutil.NewMockProfileRepository(),
		objects:      testutil.NewMockObjectStore(),
		publisher:    testutil.NewMockEventPublisher(),
	}
	a.profiles.Profiles[1] = &domain.FinancialProfile{
		WorkspaceID:  1,
		BaseCurrency: "EUR",
		StartDate:    civil.Date{Year: 2024, Month: time.March, Day: 1},
	}

	opts := projection.DefaultOptions()
	profileService := service.NewProfileService(a.profiles)
	profileService.SetEventPublisher(a.publisher)
	store := service.NewRecordStore(a.transactions, a.expenses, a.goals, a.salaries, profileService)
	summaries := service.NewSummaryService(store, opts)

	transactionService := service.NewTransactionService(a.transactions, a.goals)
	transactionService.SetEventPublisher(a.publisher)
	calendarService := service.NewCalendarService(store, transactionService, opts)

	goalService := service.NewSavingsGoalService(a.goals, a.transactions, summaries, service.NewImageService(a.objects))
	goalService.SetEventPublisher(a.publisher)

	expenseService := service.NewExpenseService(a.expenses)
	expenseService.SetEventPublisher(a.publisher)
	salaryService := service.NewSalaryService(a.salaries)
	salaryService.SetEventPublisher(a.publisher)

	a.transaction = NewTransactionHandler(transactionService)
	a.expense = NewExpenseHandler(expenseService)
	a.salary = NewSalaryHandler(salaryService)
	a.profile = NewProfileHandler(profileService)
	a.goal = NewSavingsGoalHandler(goalService)
	a.summary = NewSummaryHandler(summaries)
	a.calendar = NewCalendarHandler(calendarService)
	a.export = NewExportHandler(service.NewExportService(calendarService, summaries, a.objects, 15*time.Minute), summaries)
	return a
}

// newContext builds a request context authenticated for workspace 1
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithWorkspace(c, "auth0|user1", "user@example.com", "User", "", 1)
	return c, rec
}

func withParam(c echo.Context, name, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetails {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader(rec.Body.Bytes()))
	var problem ProblemDetails
	if err := dec.Decode(&problem); err != nil {
		t.Fatalf("Failed to unmarshal problem: %v", err)
	}
	if dec.More() {
		t.Fatalf("Expected a single JSON body, got: %s", rec.Body.String())
	}
	return problem
}
