package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/labstack/echo/v4"
)

type stubValidator struct {
	claims interface{}
	err    error
	tokens []string
}

func (s *stubValidator) ValidateToken(ctx context.Context, token string) (interface{}, error) {
	s.tokens = append(s.tokens, token)
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

type MockWorkspaceProvider struct {
	workspaceID int32
	err         error
}

func (m *MockWorkspaceProvider) GetWorkspaceByAuth0ID(auth0ID string) (int32, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.workspaceID, nil
}

func validClaims(subject string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: subject},
		CustomClaims:     &CustomClaims{Email: "a@example.com", Name: "Ann"},
	}
}

func serveAuthenticated(m *AuthMiddleware, header string) (*httptest.ResponseRecorder, echo.Context, bool) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := m.Authenticate()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, c, called
}

func TestAuthenticate_Success(t *testing.T) {
	v := &stubValidator{claims: validClaims("auth0|123")}
	m := NewAuthMiddlewareWithValidator(v, &MockWorkspaceProvider{workspaceID: 42})

	rec, c, called := serveAuthenticated(m, "Bearer abc.def")

	if !called || rec.Code != http.StatusOK {
		t.Fatalf("Expected handler to run, got status %d", rec.Code)
	}
	if len(v.tokens) != 1 || v.tokens[0] != "abc.def" {
		t.Errorf("Expected token 'abc.def' to be validated, got %v", v.tokens)
	}
	if GetAuth0ID(c) != "auth0|123" {
		t.Errorf("Expected auth0 id in context, got %q", GetAuth0ID(c))
	}
	if GetWorkspaceID(c) != 42 {
		t.Errorf("Expected workspace 42, got %d", GetWorkspaceID(c))
	}
	if custom := GetCustomClaims(c); custom == nil || custom.Name != "Ann" {
		t.Errorf("Expected custom claims, got %+v", custom)
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		v        *stubValidator
		provider WorkspaceProvider
		detail   string
	}{
		{"missing header", "", &stubValidator{}, nil, "missing authorization header"},
		{"no bearer prefix", "invalid-token", &stubValidator{}, nil, "invalid authorization header format"},
		{"wrong scheme", "Basic token123", &stubValidator{}, nil, "invalid authorization header format"},
		{"empty token", "Bearer ", &stubValidator{}, nil, "invalid authorization header format"},
		{"invalid token", "Bearer bad", &stubValidator{err: errors.New("expired")}, nil, "invalid token"},
		{"unexpected claims", "Bearer ok", &stubValidator{claims: "nope"}, nil, "invalid claims"},
		{"empty subject", "Bearer ok", &stubValidator{claims: validClaims("")}, nil, "invalid claims"},
		{"unknown workspace", "Bearer ok", &stubValidator{claims: validClaims("auth0|x")}, &MockWorkspaceProvider{err: errors.New("not found")}, "workspace not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAuthMiddlewareWithValidator(tt.v, tt.provider)

			rec, _, called := serveAuthenticated(m, tt.header)

			if called {
				t.Fatal("Handler should not run")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("Expected status 401, got %d", rec.Code)
			}
			var problem problemDetails
			if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
				t.Fatalf("Failed to decode body: %v", err)
			}
			if problem.Type != errorTypeUnauthorized || problem.Detail != tt.detail {
				t.Errorf("Unexpected problem %+v", problem)
			}
			if problem.Instance != "/api/v1/summary" {
				t.Errorf("Expected instance path, got %q", problem.Instance)
			}
		})
	}
}

func TestAuthenticate_NilProviderSkipsWorkspace(t *testing.T) {
	m := NewAuthMiddlewareWithValidator(&stubValidator{claims: validClaims("auth0|1")}, nil)

	rec, c, called := serveAuthenticated(m, "bearer token")

	if !called || rec.Code != http.StatusOK {
		t.Fatalf("Expected handler to run, got status %d", rec.Code)
	}
	if GetWorkspaceID(c) != 0 {
		t.Errorf("Expected no workspace, got %d", GetWorkspaceID(c))
	}
}

func TestContextGetters_Empty(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if GetAuth0ID(c) != "" {
		t.Error("Expected empty auth0 id")
	}
	if GetClaims(c) != nil || GetCustomClaims(c) != nil {
		t.Error("Expected nil claims")
	}
	if GetWorkspaceID(c) != 0 {
		t.Error("Expected workspace 0")
	}
}

func TestCustomClaims_Validate(t *testing.T) {
	claims := CustomClaims{Email: "test@example.com"}

	if err := claims.Validate(context.Background()); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}
