package admin

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/errors"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/handler"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/response"
	reservationService "github.com/shakeelviam/salmiya-grand-hotel-backend/internal/service/reservation"
)

// SweepHandler 预订扫描触发处理器
// 定时任务之外还允许外部调度（cron、运维脚本）凭共享密钥触发一轮扫描
type SweepHandler struct {
	sweepService *reservationService.SweepService
	sharedSecret string
}

// NewSweepHandler 创建扫描触发处理器
func NewSweepHandler(sweepSvc *reservationService.SweepService, sharedSecret string) *SweepHandler {
	return &SweepHandler{
		sweepService: sweepSvc,
		sharedSecret: sharedSecret,
	}
}

// Run 触发一轮扫描
// @Summary 触发一轮预订过期扫描
// @Tags 运维
// @Produce json
// @Param X-Sweep-Secret header string true "共享密钥"
// @Success 200 {object} response.Response{data=reservationService.SweepResult}
// @Router /api/v1/ops/sweep [post]
func (h *SweepHandler) Run(c *gin.Context) {
	if h.sharedSecret == "" {
		response.Error(c, errors.ErrSweepSecretError.WithMessage("扫描触发接口未配置密钥"))
		return
	}
	secret := c.GetHeader("X-Sweep-Secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.sharedSecret)) != 1 {
		response.Error(c, errors.ErrSweepSecretError)
		return
	}

	result, err := h.sweepService.Run(c.Request.Context())
	handler.MustSucceed(c, err, result)
}
