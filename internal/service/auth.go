package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/hongminglow/taskboard/internal/apperr"
	"github.com/hongminglow/taskboard/internal/auth"
	"github.com/hongminglow/taskboard/internal/models"
	"github.com/hongminglow/taskboard/internal/models/dto"
	"github.com/hongminglow/taskboard/internal/storage"
)

// AuthService owns registration, login and user administration.
type AuthService struct {
	users  storage.UserStore
	tokens *auth.TokenManager
	hasher auth.Hasher
	log    *zap.Logger
}

func NewAuthService(users storage.UserStore, tokens *auth.TokenManager, hasher auth.Hasher, log *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, hasher: hasher, log: log}
}

// Register creates a USER account and issues a token. Input must already be validated.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error) {
	_, err := s.users.FindUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return dto.AuthResponse{}, apperr.Conflict("User with this email already exists")
	case !errors.Is(err, storage.ErrNotFound):
		return dto.AuthResponse{}, apperr.Internal("failed to look up user", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return dto.AuthResponse{}, apperr.Internal("failed to hash password", err)
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Email:        req.Email,
		Name:         req.Name,
		Role:         models.RoleUser,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return dto.AuthResponse{}, apperr.Conflict("User with this email already exists")
		}
		return dto.AuthResponse{}, apperr.Internal("failed to create user", err)
	}
	s.log.Info("user registered", zap.String("user_id", user.ID))

	return s.issue(user)
}

// Login checks credentials. Unknown email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	user, err := s.users.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return dto.AuthResponse{}, apperr.Unauthorized("Invalid email or password")
		}
		return dto.AuthResponse{}, apperr.Internal("failed to fetch user", err)
	}
	if !s.hasher.Check(user.PasswordHash, req.Password) {
		return dto.AuthResponse{}, apperr.Unauthorized("Invalid email or password")
	}
	return s.issue(user)
}

// Authenticate verifies a token and confirms the user still exists.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.Principal, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return models.Principal{}, apperr.Unauthorized("Token expired")
		}
		return models.Principal{}, apperr.Unauthorized("Invalid token")
	}
	user, err := s.users.FindUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Principal{}, apperr.Unauthorized("User no longer exists")
		}
		return models.Principal{}, apperr.Internal("failed to load principal", err)
	}
	return models.PrincipalFromUser(user), nil
}

// Me returns the stored profile of p.
func (s *AuthService) Me(ctx context.Context, p models.Principal) (models.User, error) {
	user, err := s.users.FindUserByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, apperr.NotFound("User not found")
		}
		return models.User{}, apperr.Internal("failed to fetch user", err)
	}
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list users", err)
	}
	return users, nil
}

// DeleteUser removes a user and, by cascade, their tasks.
func (s *AuthService) DeleteUser(ctx context.Context, actor models.Principal, id string) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal("failed to delete user", err)
	}
	s.log.Info("user deleted", zap.String("user_id", id), zap.String("actor_id", actor.ID))
	return nil
}

// SetRole changes the role of the user with email. Only reachable from the CLI.
func (s *AuthService) SetRole(ctx context.Context, email string, role models.Role) (models.User, error) {
	if !role.Valid() {
		return models.User{}, apperr.BadRequest("unknown role " + string(role))
	}
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, apperr.NotFound("User not found")
		}
		return models.User{}, apperr.Internal("failed to fetch user", err)
	}
	updated, err := s.users.UpdateUserRole(ctx, user.ID, role)
	if err != nil {
		return models.User{}, apperr.Internal("failed to update role", err)
	}
	s.log.Info("user role changed", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return updated, nil
}

func (s *AuthService) issue(user models.User) (dto.AuthResponse, error) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		return dto.AuthResponse{}, apperr.Internal("failed to generate token", err)
	}
	return dto.AuthResponse{User: user, Token: token}, nil
}
