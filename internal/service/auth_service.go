package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/gameup-app/gameup-backend/internal/models"
	"github.com/gameup-app/gameup-backend/internal/repository"
	"github.com/gameup-app/gameup-backend/pkg/token"
)

type AuthService interface {
	SignupParent(ctx context.Context, req *models.SignupParentRequest) (*models.AuthResponse, error)
	SignupChild(ctx context.Context, req *models.SignupChildRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, role string, req *models.LoginRequest) (*models.AuthResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *token.Manager
	logger   zerolog.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *token.Manager, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

func (s *authService) SignupParent(ctx context.Context, req *models.SignupParentRequest) (*models.AuthResponse, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrMissingField)
	}

	user, err := s.createUser(ctx, req.Name, req.Email, req.Password, models.RoleParent.String(), nil)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("role", user.Role).
		Msg("Parent account created")

	return s.authResponse(user)
}

func (s *authService) SignupChild(ctx context.Context, req *models.SignupChildRequest) (*models.AuthResponse, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.ParentID == "" {
		return nil, fmt.Errorf("%w: name, email, password and parent_id are required", ErrMissingField)
	}

	parentExists, err := s.userRepo.Exists(ctx, req.ParentID, models.RoleParent.String())
	if err != nil {
		return nil, fmt.Errorf("failed to check parent existence: %w", err)
	}
	if !parentExists {
		return nil, ErrParentNotFound
	}

	user, err := s.createUser(ctx, req.Name, req.Email, req.Password, models.RoleChild.String(), &req.ParentID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("parent_id", req.ParentID).
		Msg("Child account created")

	return s.authResponse(user)
}

func (s *authService) createUser(ctx context.Context, name, email, password, role string, parentID *string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Role:         role,
		ParentID:     parentID,
		TotalXP:      0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, role string, req *models.LoginRequest) (*models.AuthResponse, error) {
	if !models.IsValidRole(role) {
		return nil, ErrInvalidRole
	}
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrMissingField)
	}

	user, err := s.userRepo.GetByEmailAndRole(ctx, strings.ToLower(strings.TrimSpace(req.Email)), role)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("role", user.Role).
		Msg("User logged in")

	return s.authResponse(user)
}

func (s *authService) authResponse(user *models.User) (*models.AuthResponse, error) {
	signed, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &models.AuthResponse{
		User:      user,
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}
