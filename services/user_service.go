package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/inherbver/herbisveritas-sub008/models"
	"github.com/inherbver/herbisveritas-sub008/repository"
)

// UserService defines the interface for account business logic.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, *ServiceError)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *ServiceError)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, *ServiceError)
	ListUsers(ctx context.Context, page, limit int) ([]models.User, int64, *ServiceError)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) (*models.User, *ServiceError)
}

// userServiceImpl implements UserService.
type userServiceImpl struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, jwtSecret string, logger *zap.Logger) UserService {
	return &userServiceImpl{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  24 * time.Hour,
		logger:    logger,
	}
}

// generateToken issues an HS256 access token carrying user ID, email and role.
func (s *userServiceImpl) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// Register creates an account and signs the new user in.
func (s *userServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, *ServiceError) {
	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Error("Failed to check existing email", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to register"}
	}
	if existing != nil {
		return nil, &ServiceError{StatusCode: 409, Message: "Email already exists"}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to register"}
	}

	user := &models.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		Name:     req.Name,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if isDuplicateErr(err) {
			return nil, &ServiceError{StatusCode: 409, Message: "Email already exists"}
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to register"}
	}

	token, err := s.generateToken(user)
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to generate token"}
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return &models.AuthResponse{Token: token, User: *user}, nil
}

// Login authenticates by email and password.
func (s *userServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *ServiceError) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Error("Failed to look up user", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to sign in"}
	}
	if user == nil {
		return nil, &ServiceError{StatusCode: 401, Message: "Invalid credentials"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, &ServiceError{StatusCode: 401, Message: "Invalid credentials"}
	}

	token, err := s.generateToken(user)
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to generate token"}
	}

	s.logger.Info("User signed in", zap.String("user_id", user.ID.String()))
	return &models.AuthResponse{Token: token, User: *user}, nil
}

// GetByID returns one user.
func (s *userServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.User, *ServiceError) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get user", zap.String("user_id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to get user"}
	}
	if user == nil {
		return nil, &ServiceError{StatusCode: 404, Message: "User not found"}
	}
	return user, nil
}

// ListUsers returns a page of accounts for the back office.
func (s *userServiceImpl) ListUsers(ctx context.Context, page, limit int) ([]models.User, int64, *ServiceError) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := s.userRepo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to list users"}
	}
	return users, total, nil
}

// UpdateRole changes a user's role.
func (s *userServiceImpl) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*models.User, *ServiceError) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, &ServiceError{StatusCode: 400, Message: "Unknown role"}
	}

	if err := s.userRepo.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "User not found"}
		}
		s.logger.Error("Failed to update role", zap.String("user_id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update role"}
	}

	user, svcErr := s.GetByID(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}

	s.logger.Info("User role updated", zap.String("user_id", id.String()), zap.String("role", role))
	return user, nil
}
