package handler

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestCreateExpense(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantField  string
	}{
		{"recurring", `{"description":"Rent","amount":"900","recurring":true,"dayOfMonth":1,"createdAt":"2024-01-01"}`, http.StatusCreated, ""},
		{"one-time", `{"description":"Concert","amount":"60","createdAt":"2024-03-20"}`, http.StatusCreated, ""},
		{"recurring without day", `{"description":"Rent","amount":"900","recurring":true}`, http.StatusBadRequest, "dayOfMonth"},
		{"day out of range", `{"description":"Rent","amount":"900","recurring":true,"dayOfMonth":32}`, http.StatusBadRequest, "dayOfMonth"},
		{"bad end date", `{"description":"Rent","amount":"900","endDate":"soon"}`, http.StatusBadRequest, "endDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAPI()
			c, rec := newContext(http.MethodPost, "/api/v1/expenses", tt.body)

			if err := a.expense.CreateExpense(c); err != nil {
				t.Fatalf("Expected JSON response, got error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantField != "" {
				problem := decodeProblem(t, rec)
				if len(problem.Errors) != 1 || problem.Errors[0].Field != tt.wantField {
					t.Errorf("Expected error on field %s, got %+v", tt.wantField, problem.Errors)
				}
				return
			}

			types := a.publisher.Types()
			if len(types) != 1 || types[0] != "expense.created" {
				t.Errorf("Expected an expense.created event, got %v", types)
			}
		})
	}
}

func TestSalarySchedule_Lifecycle(t *testing.T) {
	a := newAPI()

	c, rec := newContext(http.MethodGet, "/api/v1/salary-schedule", "")
	if err := a.salary.GetSchedule(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404 before a schedule exists, got %d", rec.Code)
	}

	c, rec = newContext(http.MethodPut, "/api/v1/salary-schedule",
		`{"scheduleType":"biweekly","payDaysOfMonth":[1,15],"paycheckAmounts":["1000","1000.5"]}`)
	if err := a.salary.SaveSchedule(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var saved SalaryScheduleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if saved.ScheduleType != "biweekly" || len(saved.PayDaysOfMonth) != 2 || saved.PaycheckAmounts[1] != "1000.50" {
		t.Errorf("Unexpected schedule %+v", saved)
	}

	c, rec = newContext(http.MethodDelete, "/api/v1/salary-schedule", "")
	if err := a.salary.DeleteSchedule(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}

	types := a.publisher.Types()
	if len(types) != 2 || types[0] != "salary_schedule.updated" || types[1] != "salary_schedule.deleted" {
		t.Errorf("Unexpected events %v", types)
	}
}

func TestSaveSchedule_Validation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"unknown type", `{"scheduleType":"daily","payDaysOfMonth":[1],"paycheckAmounts":["10"]}`, "scheduleType"},
		{"bad day", `{"payDaysOfMonth":[0],"paycheckAmounts":["10"]}`, "dayOfMonth"},
		{"bad amount", `{"payDaysOfMonth":[1],"paycheckAmounts":["ten"]}`, "paycheckAmounts"},
		{"negative amount", `{"payDaysOfMonth":[1],"paycheckAmounts":["-10"]}`, "amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAPI()
			c, rec := newContext(http.MethodPut, "/api/v1/salary-schedule", tt.body)

			if err := a.salary.SaveSchedule(c); err != nil {
				t.Fatalf("Expected JSON response, got error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d", rec.Code)
			}
			problem := decodeProblem(t, rec)
			if len(problem.Errors) != 1 || problem.Errors[0].Field != tt.field {
				t.Errorf("Expected error on field %s, got %+v", tt.field, problem.Errors)
			}
		})
	}
}

func TestProfile(t *testing.T) {
	a := newAPI()

	c, rec := newContext(http.MethodPut, "/api/v1/profile", `{"baseCurrency":" gbp ","startDate":"2024-02-01"}`)
	if err := a.profile.UpdateProfile(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var response ProfileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.BaseCurrency != "GBP" || response.StartDate != "2024-02-01" {
		t.Errorf("Unexpected profile %+v", response)
	}

	c, rec = newContext(http.MethodPost, "/api/v1/profile/onboarding", "")
	if err := a.profile.CompleteOnboarding(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !response.HasCompletedOnboarding || response.HasCompletedFeatureTour {
		t.Errorf("Expected only onboarding completed, got %+v", response)
	}

	c, rec = newContext(http.MethodPut, "/api/v1/profile", `{"baseCurrency":"euro"}`)
	if err := a.profile.UpdateProfile(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
