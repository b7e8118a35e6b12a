package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticateUser_NewUser(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	svc := NewAuthService(userRepo, workspaceRepo)
	name := "Test User"

	result, err := svc.AuthenticateUser("auth0|12345", "test@example.com", &name, nil)

	require.NoError(t, err)
	assert.True(t, result.IsNewUser)
	assert.Equal(t, "auth0|12345", result.User.Auth0ID)
	assert.Equal(t, DefaultWorkspaceName, result.Workspace.Name)
	assert.Equal(t, result.User.ID, result.Workspace.UserID)
}

func TestAuthenticateUser_ExistingUser(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	svc := NewAuthService(userRepo, workspaceRepo)

	user := &domain.User{ID: uuid.New(), Auth0ID: "auth0|existing", Email: "existing@example.com"}
	userRepo.AddUser(user)
	workspaceRepo.AddWorkspace(&domain.Workspace{ID: 7, UserID: user.ID, Name: "Mine"}, "")

	result, err := svc.AuthenticateUser(user.Auth0ID, user.Email, nil, nil)

	require.NoError(t, err)
	assert.False(t, result.IsNewUser)
	assert.Equal(t, int32(7), result.Workspace.ID)
}

func TestAuthenticateUser_WorkspaceLookupFails(t *testing.T) {
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	workspaceRepo.GetByUserIDFn = func(uuid.UUID) (*domain.Workspace, error) {
		return nil, errors.New("connection reset")
	}
	svc := NewAuthService(testutil.NewMockUserRepository(), workspaceRepo)

	_, err := svc.AuthenticateUser("auth0|1", "a@b.c", nil, nil)

	assert.EqualError(t, err, "connection reset")
	assert.Empty(t, workspaceRepo.Workspaces)
}

func TestUpdateUserName(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: uuid.New(), Auth0ID: "auth0|1"})
	svc := NewAuthService(userRepo, testutil.NewMockWorkspaceRepository())

	user, err := svc.UpdateUserName("auth0|1", "  Ada  ")
	require.NoError(t, err)
	assert.Equal(t, "Ada", *user.Name)

	_, err = svc.UpdateUserName("auth0|1", "   ")
	assert.ErrorIs(t, err, domain.ErrNameRequired)

	_, err = svc.UpdateUserName("auth0|1", strings.Repeat("x", domain.MaxNameLength+1))
	assert.ErrorIs(t, err, domain.ErrNameTooLong)

	_, err = svc.UpdateUserName("auth0|missing", "Ada")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetWorkspaceByAuth0ID(t *testing.T) {
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	workspaceRepo.AddWorkspace(&domain.Workspace{ID: 3, UserID: uuid.New()}, "auth0|abc")
	svc := NewAuthService(testutil.NewMockUserRepository(), workspaceRepo)

	ws, err := svc.GetWorkspaceByAuth0ID("auth0|abc")
	require.NoError(t, err)
	assert.Equal(t, int32(3), ws.ID)

	_, err = svc.GetWorkspaceByAuth0ID("auth0|nobody")
	assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
}
