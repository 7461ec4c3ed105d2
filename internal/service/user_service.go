package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/khoabkhn-byte/quizdesk-api/internal/dto"
	"github.com/khoabkhn-byte/quizdesk-api/internal/models"
	"github.com/khoabkhn-byte/quizdesk-api/internal/repository"
)

// ErrUserNotFound indicates the requested account does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameTaken indicates the username is already registered.
var ErrUsernameTaken = errors.New("username already exists")

// ErrInvalidCredentials indicates a failed login attempt.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserService exposes account and login use cases.
type UserService interface {
	List(ctx context.Context, filter repository.UserFilter) ([]dto.UserResponse, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	Create(ctx context.Context, payload dto.UserCreateRequest) (dto.UserResponse, error)
	Update(ctx context.Context, id string, payload dto.UserUpdateRequest) (dto.UserResponse, error)
	Delete(ctx context.Context, id string) error
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
}

type userService struct {
	users     repository.UserRepository
	validator *validator.Validate
	jwtSecret string
	jwtExpiry time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewUserService builds a new user service.
func NewUserService(users repository.UserRepository, validate *validator.Validate, jwtSecret string, jwtExpiry time.Duration, logger zerolog.Logger) UserService {
	return &userService{
		users:     users,
		validator: validate,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		logger:    logger.With().Str("component", "user_service").Logger(),
		now:       time.Now,
	}
}

func (s *userService) List(ctx context.Context, filter repository.UserFilter) ([]dto.UserResponse, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewUserResponseSlice(users), nil
}

func (s *userService) Get(ctx context.Context, id string) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) Create(ctx context.Context, payload dto.UserCreateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	if _, err := s.users.GetByUsername(ctx, payload.Username); err == nil {
		return dto.UserResponse{}, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	role := payload.Role
	if role == "" {
		role = models.RoleStudent
	}

	user := models.User{
		ID:       uuid.NewString(),
		Username: payload.Username,
		Password: string(hashed),
		Name:     payload.Name,
		Role:     role,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user created")

	return dto.NewUserResponse(user), nil
}

func (s *userService) Update(ctx context.Context, id string, payload dto.UserUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	if payload.Name != nil {
		user.Name = *payload.Name
	}

	if payload.Role != nil {
		user.Role = *payload.Role
	}

	if payload.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), bcrypt.DefaultCost)
		if err != nil {
			return dto.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user updated")

	return dto.NewUserResponse(user), nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func (s *userService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.users.GetByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	issuedAt := s.now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"iat":  issuedAt.Unix(),
		"exp":  issuedAt.Add(s.jwtExpiry).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return dto.LoginResponse{}, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")

	return dto.LoginResponse{
		Token: token,
		User:  dto.NewUserResponse(user),
	}, nil
}
