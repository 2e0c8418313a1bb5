package usecase

import (
	"context"

	"medguide/config"
	"medguide/internal/delivery/dto"
	"medguide/internal/domain/entity"
	"medguide/internal/service"
	"medguide/pkg/jwt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminSubject is the token subject and audit actor of the shared admin login.
const AdminSubject = "admin"

type AuthUsecase interface {
	AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.TokenResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	admin        config.AdminConfig
	jwtService   *jwt.JWTService
	auditService service.AuditService
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	admin config.AdminConfig,
	jwtService *jwt.JWTService,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		admin:        admin,
		jwtService:   jwtService,
		auditService: auditService,
	}
}

func (u *authUsecase) AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.TokenResponse, error) {
	if u.admin.AccessCodeHash == "" {
		return nil, ErrAdminLoginDisabled
	}

	// Verify access code
	if err := bcrypt.CompareHashAndPassword([]byte(u.admin.AccessCodeHash), []byte(req.AccessCode)); err != nil {
		u.log.Info("Rejected admin login attempt")
		return nil, ErrInvalidAccessCode
	}

	accessToken, tokenID, err := u.jwtService.GenerateAccessToken(AdminSubject, jwt.RoleAdmin)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogAction(ctx, u.db, AdminSubject, entity.AuditActionAdminLogin, map[string]interface{}{
		"token_id": tokenID,
	}); err != nil {
		u.log.Warnf("Admin login succeeded but audit failed: %+v", err)
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}
