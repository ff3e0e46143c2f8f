package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"poll-service/internal/models"
	"poll-service/internal/repositories/postgres"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	repo       *postgres.UserRepository
	jwtSecret  string
	expiration time.Duration
	logger     *zap.Logger
}

func NewUserService(repo *postgres.UserRepository, jwtSecret string, expiration time.Duration, logger *zap.Logger) *UserService {
	if expiration <= 0 {
		expiration = 7 * 24 * time.Hour
	}
	return &UserService{
		repo:       repo,
		jwtSecret:  jwtSecret,
		expiration: expiration,
		logger:     logger,
	}
}

// generateJWT creates a new JWT token for the user
func (s *UserService) generateJWT(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     now.Add(s.expiration).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrInvalidRequest
	}

	user, err := s.createUser(ctx, req.Email, req.Password, req.FirstName, req.LastName, false)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	resp := user.ToResponse()
	return &resp, nil
}

// CreateSuperuser bootstraps an admin account.
func (s *UserService) CreateSuperuser(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidRequest
	}
	return s.createUser(ctx, email, password, "", "", true)
}

// HasSuperuser reports whether any superuser account exists.
func (s *UserService) HasSuperuser(ctx context.Context) (bool, error) {
	n, err := s.repo.CountSuperusers(ctx)
	return n > 0, err
}

func (s *UserService) createUser(ctx context.Context, email, password, first, last string, superuser bool) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:       email,
		Password:    string(hashed),
		FirstName:   first,
		LastName:    last,
		IsSuperuser: superuser,
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		if errors.Is(err, postgres.ErrEmailExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req *models.UpdateUserRequest) (*models.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}
