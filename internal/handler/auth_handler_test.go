package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/service"
	"github.com/safespender/safespender-backend/internal/testutil"
)

type authFixture struct {
	users      *testutil.MockUserRepository
	workspaces *testutil.MockWorkspaceRepository
	handler    *AuthHandler
}

func newAuthFixture() *authFixture {
	users := testutil.NewMockUserRepository()
	workspaces := testutil.NewMockWorkspaceRepository()
	return &authFixture{
		users:      users,
		workspaces: workspaces,
		handler:    NewAuthHandler(service.NewAuthService(users, workspaces)),
	}
}

// seedOwner registers a returning user who already has workspace 7
func (f *authFixture) seedOwner(auth0ID string) {
	user := &domain.User{ID: uuid.New(), Auth0ID: auth0ID, Email: "owner@example.com"}
	f.users.AddUser(user)
	f.workspaces.AddWorkspace(&domain.Workspace{ID: 7, UserID: user.ID, Name: "Household"}, auth0ID)
}

func authRequest(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestCallback(t *testing.T) {
	tests := []struct {
		name          string
		auth0ID       string
		email         string
		seed          bool
		createErr     error
		wantStatus    int
		wantNew       bool
		wantWorkspace string
		wantField     string
	}{
		{"first login provisions a workspace", "auth0|first", "first@example.com", false, nil, http.StatusOK, true, service.DefaultWorkspaceName, ""},
		{"returning user keeps their workspace", "auth0|owner", "owner@example.com", true, nil, http.StatusOK, false, "Household", ""},
		{"token without email", "auth0|noemail", "", false, nil, http.StatusBadRequest, false, "", "email"},
		{"unauthenticated", "", "", false, nil, http.StatusUnauthorized, false, "", ""},
		{"user store failure", "auth0|broken", "broken@example.com", false, errors.New("db down"), http.StatusInternalServerError, false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			if tt.seed {
				f.seedOwner(tt.auth0ID)
			}
			if tt.createErr != nil {
				f.users.CreateFn = func(string, string, *string, *string) (*domain.User, error) {
					return nil, tt.createErr
				}
			}

			c, rec := authRequest(http.MethodPost, "/api/v1/auth/callback", "")
			if tt.auth0ID != "" {
				setupAuthContext(c, tt.auth0ID, tt.email, "Sam", "")
			}

			if err := f.handler.Callback(c); err != nil {
				t.Fatalf("Expected JSON response, got error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			if tt.wantStatus != http.StatusOK {
				problem := decodeProblem(t, rec)
				if tt.wantField != "" && (len(problem.Errors) != 1 || problem.Errors[0].Field != tt.wantField) {
					t.Errorf("Expected error on field %s, got %+v", tt.wantField, problem.Errors)
				}
				return
			}

			var response AuthCallbackResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
				t.Fatalf("Failed to unmarshal response: %v", err)
			}
			if response.IsNewUser != tt.wantNew {
				t.Errorf("Expected IsNewUser %v, got %v", tt.wantNew, response.IsNewUser)
			}
			if response.Workspace.Name != tt.wantWorkspace {
				t.Errorf("Expected workspace %q, got %q", tt.wantWorkspace, response.Workspace.Name)
			}
			if response.Workspace.ID == 0 {
				t.Error("Expected a workspace ID to scope records by")
			}
		})
	}
}

func TestCallback_SecondLoginReusesWorkspace(t *testing.T) {
	f := newAuthFixture()
	var ids []int32
	for range 2 {
		c, rec := authRequest(http.MethodPost, "/api/v1/auth/callback", "")
		setupAuthContext(c, "auth0|repeat", "repeat@example.com", "", "")
		if err := f.handler.Callback(c); err != nil {
			t.Fatalf("Expected JSON response, got error: %v", err)
		}
		var response AuthCallbackResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		ids = append(ids, response.Workspace.ID)
	}

	if ids[0] != ids[1] {
		t.Errorf("Expected one workspace per user, got %v", ids)
	}
	if len(f.workspaces.Workspaces) != 1 {
		t.Errorf("Expected 1 stored workspace, got %d", len(f.workspaces.Workspaces))
	}
}

func TestMe(t *testing.T) {
	tests := []struct {
		name        string
		auth0ID     string
		workspaceID int32
		wantStatus  int
		wantType    string
	}{
		{"signed in", "auth0|owner", 7, http.StatusOK, ""},
		{"unauthenticated", "", 0, http.StatusUnauthorized, ErrorTypeUnauthorized},
		{"no workspace resolved", "auth0|owner", 0, http.StatusInternalServerError, ErrorTypeInternal},
		{"unknown user", "auth0|ghost", 7, http.StatusNotFound, ErrorTypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			f.seedOwner("auth0|owner")

			c, rec := authRequest(http.MethodGet, "/api/v1/auth/me", "")
			if tt.auth0ID != "" {
				setupAuthContextWithWorkspace(c, tt.auth0ID, "owner@example.com", "", "", tt.workspaceID)
			}

			if err := f.handler.Me(c); err != nil {
				t.Fatalf("Expected JSON response, got error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantType != "" {
				if problem := decodeProblem(t, rec); problem.Type != tt.wantType {
					t.Errorf("Expected error type %s, got %s", tt.wantType, problem.Type)
				}
				return
			}

			var response AuthCallbackResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
				t.Fatalf("Failed to unmarshal response: %v", err)
			}
			if response.Workspace.ID != 7 || response.User.Email != "owner@example.com" {
				t.Errorf("Unexpected session %+v", response)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	f := newAuthFixture()

	c, rec := authRequest(http.MethodPost, "/api/v1/auth/logout", "")
	setupAuthContext(c, "auth0|owner", "owner@example.com", "", "")
	if err := f.handler.Logout(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	c, rec = authRequest(http.MethodPost, "/api/v1/auth/logout", "")
	if err := f.handler.Logout(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestUpdateName(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantName   string
		wantField  string
	}{
		{"renamed", `{"name":"  Ada  "}`, http.StatusOK, "Ada", ""},
		{"blank", `{"name":"   "}`, http.StatusBadRequest, "", "name"},
		{"too long", `{"name":"` + strings.Repeat("a", domain.MaxNameLength+1) + `"}`, http.StatusBadRequest, "", "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			f.seedOwner("auth0|owner")

			c, rec := authRequest(http.MethodPut, "/api/v1/auth/me", tt.body)
			setupAuthContextWithWorkspace(c, "auth0|owner", "owner@example.com", "", "", 7)

			if err := f.handler.UpdateName(c); err != nil {
				t.Fatalf("Expected JSON response, got error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			if tt.wantField != "" {
				problem := decodeProblem(t, rec)
				if len(problem.Errors) != 1 || problem.Errors[0].Field != tt.wantField {
					t.Errorf("Expected error on field %s, got %+v", tt.wantField, problem.Errors)
				}
				return
			}

			var response UserResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
				t.Fatalf("Failed to unmarshal response: %v", err)
			}
			if response.Name == nil || *response.Name != tt.wantName {
				t.Errorf("Expected name %q, got %v", tt.wantName, response.Name)
			}
		})
	}
}
