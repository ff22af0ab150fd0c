package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	jwtservice "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.ApiService/implementation/jwt"
	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
	api_models "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models/api"
	interfaces "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Interfaces"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service handles account creation and credential verification.
type Service struct {
	users             interfaces.UserRepository
	jwt               *jwtservice.Service
	passwordMinLength int
}

func NewService(users interfaces.UserRepository, jwt *jwtservice.Service, passwordMinLength int) *Service {
	return &Service{
		users:             users,
		jwt:               jwt,
		passwordMinLength: passwordMinLength,
	}
}

// Signup creates a user with default settings and returns a token.
func (s *Service) Signup(ctx context.Context, req api_models.SignupRequest) (*api_models.AuthResponse, error) {
	if len(req.Password) < s.passwordMinLength {
		return nil, fmt.Errorf("password must be at least %d characters", s.passwordMinLength)
	}

	if _, err := s.users.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if err != interfaces.ErrNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := wsnmodels.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
		Settings:     wsnmodels.DefaultUserSettings(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.respond(user)
}

// Login verifies credentials and returns a token.
func (s *Service) Login(ctx context.Context, req api_models.LoginRequest) (*api_models.AuthResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if err == interfaces.ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.respond(*user)
}

func (s *Service) respond(user wsnmodels.User) (*api_models.AuthResponse, error) {
	pair, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &api_models.AuthResponse{
		Token:  pair.AccessToken,
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}, nil
}
