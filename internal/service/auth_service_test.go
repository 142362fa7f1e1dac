package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/loongallday/pdeservice-spb-sub004/internal/auth"
	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
	apperrors "github.com/loongallday/pdeservice-spb-sub004/pkg/util"
)

func newAuthFixture(t *testing.T, active bool) *AuthService {
	t.Helper()
	hashed, err := auth.HashPassword("correct horse", 4)
	require.NoError(t, err)
	employees := newFakeEmployeeRepo(domain.Employee{
		ID:           "emp1",
		Email:        "tech@example.com",
		PasswordHash: hashed,
		Level:        domain.LevelTechnician,
		Active:       active,
	})
	return NewAuthService(employees, auth.NewTokenManager("test-secret", 30), zap.NewNop())
}

func TestLoginSuccess(t *testing.T) {
	svc := newAuthFixture(t, true)
	employee, token, expiresAt, err := svc.Login(context.Background(), "tech@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "emp1", employee.ID)
	assert.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())
}

func TestLoginUniformErrorForBadCredentials(t *testing.T) {
	svc := newAuthFixture(t, true)
	ctx := context.Background()

	_, _, _, badEmail := svc.Login(ctx, "unknown@example.com", "correct horse")
	_, _, _, badPassword := svc.Login(ctx, "tech@example.com", "wrong")

	for _, err := range []error{badEmail, badPassword} {
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
		assert.Equal(t, "invalid credentials", domainErr.Message)
	}
}

func TestLoginDeactivatedEmployee(t *testing.T) {
	svc := newAuthFixture(t, false)
	_, _, _, err := svc.Login(context.Background(), "tech@example.com", "correct horse")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}
