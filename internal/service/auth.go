package service

import (
	"context"
	"crypto/subtle"
	"sync"

	"go.uber.org/zap"

	"LeafPanel/config"
	"LeafPanel/internal/model/dto"
	"LeafPanel/pkg/errors"
	"LeafPanel/pkg/logger"
	"LeafPanel/pkg/token"
)

var (
	authService *AuthService
	authOnce    sync.Once
)

func Auth() *AuthService {
	authOnce.Do(func() {
		authService = &AuthService{}
	})
	return authService
}

type AuthService struct{}

// Login 校验管理员凭证并签发 token
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(config.Cfg.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(config.Cfg.AdminPassword)) == 1

	if !userOK || !passOK {
		logger.Logger.Warn("login rejected", zap.String("username", req.Username))
		return nil, errors.LoginFailed
	}

	accessToken, expiresIn, err := token.GenerateToken(token.AdminIdentity)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{Token: accessToken, ExpiresIn: expiresIn}, nil
}
