// Package auth 提供员工认证与权限校验
package auth

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/crypto"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/errors"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/jwt"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/logger"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/repository"
)

// Service 认证服务
type Service struct {
	staffRepo  *repository.StaffRepository
	jwtManager *jwt.Manager
}

// NewService 创建认证服务
func NewService(db *gorm.DB, jwtManager *jwt.Manager) *Service {
	return &Service{
		staffRepo:  repository.NewStaffRepository(db),
		jwtManager: jwtManager,
	}
}

// LoginResult 登录结果
type LoginResult struct {
	Token        string        `json:"token"`
	RefreshToken string        `json:"refresh_token"`
	Staff        *models.Staff `json:"staff"`
}

// Login 员工登录
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	staff, err := s.staffRepo.GetByUsername(ctx, username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUnauthorized.WithMessage("用户名或密码错误")
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if staff.Status != models.StaffStatusActive {
		return nil, errors.ErrPermissionDenied.WithMessage("账号已禁用")
	}
	if !crypto.VerifyPassword(password, staff.Password) {
		return nil, errors.ErrUnauthorized.WithMessage("用户名或密码错误")
	}

	roleCode := ""
	if staff.Role != nil {
		roleCode = staff.Role.Code
	}

	token, err := s.jwtManager.GenerateToken(staff.ID, staff.Username, roleCode)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(staff.ID, staff.Username, roleCode)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	// 登录时间只做记录，失败不影响登录
	if err := s.staffRepo.UpdateLastLogin(ctx, staff.ID, time.Now()); err != nil {
		logger.Warn("update last login failed", logger.StaffID(staff.ID), logger.Err(err))
	}

	logger.Info("staff login", logger.StaffID(staff.ID), logger.String("username", staff.Username))
	return &LoginResult{
		Token:        token,
		RefreshToken: refreshToken,
		Staff:        staff,
	}, nil
}

// GetProfile 获取当前员工信息
func (s *Service) GetProfile(ctx context.Context, staffID int64) (*models.Staff, error) {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUnauthorized
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return staff, nil
}

// HasPermission 实现 middleware.PermissionChecker
func (s *Service) HasPermission(c *gin.Context, staffID int64, permissionCode string) (bool, error) {
	return s.staffRepo.HasPermission(c.Request.Context(), staffID, permissionCode)
}
