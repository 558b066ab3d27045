// Package auth 认证服务单元测试
package auth

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/config"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/crypto"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/errors"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/jwt"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Role{}, &models.Permission{}, &models.Staff{}))
	return db
}

func setupAuthService(t *testing.T) (*Service, *gorm.DB) {
	db := setupAuthTestDB(t)
	manager := jwt.NewManager(&config.JWTConfig{
		Secret:             "test-secret-key-for-auth-service",
		AccessTokenExpire:  2,
		RefreshTokenExpire: 168,
		Issuer:             "salmiya-grand-hotel-test",
	})
	return NewService(db, manager), db
}

// seedStaff 创建带角色的员工，返回明文密码对应的员工记录
func seedStaff(t *testing.T, db *gorm.DB, username, password string, status int8) *models.Staff {
	role := &models.Role{Code: models.RoleCodeFrontDesk, Name: "前台"}
	require.NoError(t, db.Create(role).Error)

	hashed, err := crypto.HashPassword(password)
	require.NoError(t, err)

	staff := &models.Staff{
		Username: username,
		Password: hashed,
		Name:     "Fatima",
		RoleID:   role.ID,
		Status:   status,
	}
	require.NoError(t, db.Create(staff).Error)
	return staff
}

func TestLogin(t *testing.T) {
	svc, db := setupAuthService(t)
	seedStaff(t, db, "fatima", "pass-1234", models.StaffStatusActive)

	result, err := svc.Login(context.Background(), "fatima", "pass-1234")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.RefreshToken)
	assert.NotEqual(t, result.Token, result.RefreshToken)
	require.NotNil(t, result.Staff)
	assert.Equal(t, "fatima", result.Staff.Username)
	require.NotNil(t, result.Staff.Role)
	assert.Equal(t, models.RoleCodeFrontDesk, result.Staff.Role.Code)

	// 登录成功后应记录最后登录时间
	var reloaded models.Staff
	require.NoError(t, db.First(&reloaded, result.Staff.ID).Error)
	assert.NotNil(t, reloaded.LastLoginAt)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, db := setupAuthService(t)
	seedStaff(t, db, "fatima", "pass-1234", models.StaffStatusActive)

	_, err := svc.Login(context.Background(), "fatima", "wrong-pass")
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Login(context.Background(), "nobody", "pass-1234")
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
}

func TestLogin_DisabledAccount(t *testing.T) {
	svc, db := setupAuthService(t)
	seedStaff(t, db, "fatima", "pass-1234", models.StaffStatusDisabled)

	_, err := svc.Login(context.Background(), "fatima", "pass-1234")
	assert.ErrorIs(t, err, errors.ErrPermissionDenied)
}

func TestGetProfile(t *testing.T) {
	svc, db := setupAuthService(t)
	staff := seedStaff(t, db, "fatima", "pass-1234", models.StaffStatusActive)

	got, err := svc.GetProfile(context.Background(), staff.ID)
	require.NoError(t, err)
	assert.Equal(t, staff.ID, got.ID)
	require.NotNil(t, got.Role)
	assert.Equal(t, models.RoleCodeFrontDesk, got.Role.Code)
}

func TestGetProfile_NotFound(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.GetProfile(context.Background(), 9999)
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
}

func TestHasPermission(t *testing.T) {
	svc, db := setupAuthService(t)
	staff := seedStaff(t, db, "fatima", "pass-1234", models.StaffStatusActive)

	perm := &models.Permission{Code: models.PermissionReservationCancel, Name: "取消预订"}
	require.NoError(t, db.Create(perm).Error)

	var role models.Role
	require.NoError(t, db.First(&role, staff.RoleID).Error)
	require.NoError(t, db.Model(&role).Association("Permissions").Append(perm))

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)

	ok, err := svc.HasPermission(c, staff.ID, models.PermissionReservationCancel)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasPermission(c, staff.ID, models.PermissionSweepRun)
	require.NoError(t, err)
	assert.False(t, ok)
}
