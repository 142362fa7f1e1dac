package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/loongallday/pdeservice-spb-sub004/internal/auth"
	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
	"github.com/loongallday/pdeservice-spb-sub004/internal/repository"
	apperrors "github.com/loongallday/pdeservice-spb-sub004/pkg/util"
)

// AuthService authenticates employees and issues access tokens.
type AuthService struct {
	employees repository.EmployeeRepository
	tokens    *auth.TokenManager
	logger    *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(employees repository.EmployeeRepository, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{employees: employees, tokens: tokens, logger: logger}
}

// Login verifies credentials and returns the employee plus a signed token.
// Bad email and bad password return the same error to avoid account probing.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Employee, string, time.Time, error) {
	employee, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if !employee.Active {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(employee.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(employee.ID, employee.Level)
	if err != nil {
		s.logger.Error("token generation failed", zap.Error(err))
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return employee, token, expiresAt, nil
}
