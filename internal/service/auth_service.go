package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/e-wheels/workshop-service/internal/auth"
	"github.com/e-wheels/workshop-service/internal/config"
	"github.com/e-wheels/workshop-service/internal/domain"
	"github.com/e-wheels/workshop-service/internal/repository"
	"github.com/e-wheels/workshop-service/pkg/errorutil"
)

// AuthService coordinates technician login.
type AuthService struct {
	technicians repository.TechnicianRepository
	tokenMgr    *auth.TokenManager
	bcryptCost  int
	logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, technicians repository.TechnicianRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		technicians: technicians,
		tokenMgr:    auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost:  cfg.BcryptCost,
		logger:      logger,
	}
}

// TokenManager exposes the manager for the HTTP middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login authenticates a technician and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Technician, string, time.Time, error) {
	tech, err := s.technicians.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, errorutil.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, errorutil.NewPersistenceError(err)
	}
	if !tech.IsActive {
		return nil, "", time.Time{}, errorutil.NewUnauthorized("account is deactivated")
	}
	if err := auth.ComparePassword(tech.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errorutil.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(tech)
	if err != nil {
		return nil, "", time.Time{}, errorutil.NewInternalError(err)
	}
	return tech, token, exp, nil
}

// EnsureBootstrapAdmin creates the initial admin account when the instance
// starts with an empty technician table. No-op when the email already exists
// or bootstrap credentials are not configured.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.technicians.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return errorutil.NewPersistenceError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return errorutil.NewInternalError(err)
	}
	tech := &domain.Technician{
		Email:        email,
		FullName:     "Workshop Admin",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := s.technicians.Create(ctx, tech); err != nil {
		return errorutil.NewPersistenceError(err)
	}
	s.logger.Info("bootstrap admin created", zap.String("email", email))
	return nil
}
