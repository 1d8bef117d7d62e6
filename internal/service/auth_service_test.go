package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/e-wheels/workshop-service/internal/auth"
	"github.com/e-wheels/workshop-service/internal/config"
	"github.com/e-wheels/workshop-service/internal/domain"
	"github.com/e-wheels/workshop-service/pkg/errorutil"
)

var testAuthCfg = config.AuthConfig{
	JWTSecret:             "test-secret",
	AccessTokenTTLMinutes: 5,
	BcryptCost:            4,
}

func TestLoginIssuesParseableToken(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(testAuthCfg, store.Technicians(), zap.NewNop())
	ctx := context.Background()

	hash, err := auth.HashPassword("hunter2", testAuthCfg.BcryptCost)
	require.NoError(t, err)
	require.NoError(t, store.Technicians().Create(ctx, &domain.Technician{
		Email:        "desk@shop.dev",
		FullName:     "Front Desk",
		PasswordHash: hash,
		Role:         domain.RoleFrontDesk,
		IsActive:     true,
	}))

	tech, token, exp, err := svc.Login(ctx, "desk@shop.dev", "hunter2")
	require.NoError(t, err)
	assert.False(t, exp.IsZero())

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, tech.ID, claims.TechnicianID)
	assert.Equal(t, domain.RoleFrontDesk, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(testAuthCfg, store.Technicians(), zap.NewNop())
	ctx := context.Background()

	hash, err := auth.HashPassword("hunter2", testAuthCfg.BcryptCost)
	require.NoError(t, err)
	require.NoError(t, store.Technicians().Create(ctx, &domain.Technician{
		Email: "desk@shop.dev", PasswordHash: hash, Role: domain.RoleFrontDesk, IsActive: true,
	}))

	_, _, _, err = svc.Login(ctx, "desk@shop.dev", "wrong")
	assert.True(t, errorutil.IsCode(err, errorutil.CodeUnauthorized))

	_, _, _, err = svc.Login(ctx, "ghost@shop.dev", "hunter2")
	assert.True(t, errorutil.IsCode(err, errorutil.CodeUnauthorized))
}

func TestLoginRejectsInactive(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(testAuthCfg, store.Technicians(), zap.NewNop())
	ctx := context.Background()

	hash, err := auth.HashPassword("hunter2", testAuthCfg.BcryptCost)
	require.NoError(t, err)
	require.NoError(t, store.Technicians().Create(ctx, &domain.Technician{
		Email: "gone@shop.dev", PasswordHash: hash, Role: domain.RoleTechnician, IsActive: false,
	}))

	_, _, _, err = svc.Login(ctx, "gone@shop.dev", "hunter2")
	assert.True(t, errorutil.IsCode(err, errorutil.CodeUnauthorized))
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(testAuthCfg, store.Technicians(), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "admin@shop.dev", "changeme"))
	tech, err := store.Technicians().GetByEmail(ctx, "admin@shop.dev")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, tech.Role)
	assert.True(t, tech.IsActive)

	// idempotent on second boot
	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "admin@shop.dev", "changeme"))

	// unconfigured bootstrap is a no-op
	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "", ""))
}
