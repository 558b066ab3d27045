// Package auth 提供员工认证相关的 HTTP Handler
package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/handler"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/response"
	authService "github.com/shakeelviam/salmiya-grand-hotel-backend/internal/service/auth"
)

// Handler 认证处理器
type Handler struct {
	authService *authService.Service
}

// NewHandler 创建认证处理器
func NewHandler(authSvc *authService.Service) *Handler {
	return &Handler{authService: authSvc}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 员工登录
// @Summary 员工登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "请求参数"
// @Success 200 {object} response.Response{data=authService.LoginResult}
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	handler.MustSucceed(c, err, result)
}

// Profile 获取当前员工信息
// @Summary 获取当前员工信息
// @Tags 认证
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=models.Staff}
// @Router /api/v1/auth/profile [get]
func (h *Handler) Profile(c *gin.Context) {
	staffID, ok := handler.RequireStaffID(c)
	if !ok {
		return
	}

	staff, err := h.authService.GetProfile(c.Request.Context(), staffID)
	handler.MustSucceed(c, err, staff)
}
