package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/safespender/safespender-backend/internal/domain"
)

// DefaultWorkspaceName names the workspace created on first login
const DefaultWorkspaceName = "Personal"

// AuthService handles users and their workspace
type AuthService struct {
	userRepo      domain.UserRepository
	workspaceRepo domain.WorkspaceRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, workspaceRepo domain.WorkspaceRepository) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		workspaceRepo: workspaceRepo,
	}
}

// AuthResult represents the result of an authentication operation
type AuthResult struct {
	User      *domain.User
	Workspace *domain.Workspace
	IsNewUser bool
}

// AuthenticateUser runs after the Auth0 callback. A first login creates the user
// and the single workspace every record of theirs is scoped to.
func (s *AuthService) AuthenticateUser(auth0ID, email string, name, pictureURL *string) (*AuthResult, error) {
	user, err := s.userRepo.CreateOrGetByAuth0ID(auth0ID, email, name, pictureURL)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to create or get user")
		return nil, err
	}

	workspace, err := s.workspaceRepo.GetByUserID(user.ID)
	if err == nil {
		log.Info().Str("user_id", user.ID.String()).Msg("Existing user authenticated")
		return &AuthResult{User: user, Workspace: workspace}, nil
	}
	if !errors.Is(err, domain.ErrWorkspaceNotFound) {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to get workspace")
		return nil, err
	}

	workspace, err = s.workspaceRepo.Create(&domain.Workspace{UserID: user.ID, Name: DefaultWorkspaceName})
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to create default workspace")
		return nil, err
	}
	log.Info().
		Str("user_id", user.ID.String()).
		Int32("workspace_id", workspace.ID).
		Msg("Created new user with default workspace")

	return &AuthResult{User: user, Workspace: workspace, IsNewUser: true}, nil
}

// UpdateUserName changes the display name of the user behind auth0ID
func (s *AuthService) UpdateUserName(auth0ID string, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	return s.userRepo.UpdateName(auth0ID, name)
}

func (s *AuthService) GetUserByID(id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}

func (s *AuthService) GetUserByAuth0ID(auth0ID string) (*domain.User, error) {
	return s.userRepo.GetByAuth0ID(auth0ID)
}

// GetWorkspaceByAuth0ID retrieves a user's workspace by their Auth0 ID
func (s *AuthService) GetWorkspaceByAuth0ID(auth0ID string) (*domain.Workspace, error) {
	return s.workspaceRepo.GetByUserAuth0ID(auth0ID)
}

func (s *AuthService) GetWorkspaceByID(id int32) (*domain.Workspace, error) {
	return s.workspaceRepo.GetByID(id)
}
