// Package admin 提供策略配置与运维触发的 HTTP Handler
package admin

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/handler"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/response"
	reservationService "github.com/shakeelviam/salmiya-grand-hotel-backend/internal/service/reservation"
)

// PolicyHandler 酒店策略处理器
type PolicyHandler struct {
	policyService *reservationService.PolicyService
}

// NewPolicyHandler 创建策略处理器
func NewPolicyHandler(policySvc *reservationService.PolicyService) *PolicyHandler {
	return &PolicyHandler{policyService: policySvc}
}

// GetPolicy 获取当前策略
// @Summary 获取当前酒店策略
// @Tags 策略
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=models.HotelPolicy}
// @Router /api/v1/policy [get]
func (h *PolicyHandler) GetPolicy(c *gin.Context) {
	policy, err := h.policyService.GetPolicy(c.Request.Context())
	handler.MustSucceed(c, err, policy)
}

// UpdatePolicyRequest 更新策略请求
type UpdatePolicyRequest struct {
	CheckInTime            *string          `json:"check_in_time"`
	CheckOutTime           *string          `json:"check_out_time"`
	NoShowHours            *int             `json:"no_show_hours"`
	NoShowRefundPercent    *decimal.Decimal `json:"no_show_refund_percent"`
	UnconfirmedHoldHours   *int             `json:"unconfirmed_hold_hours"`
	CancellationFeePercent *decimal.Decimal `json:"cancellation_fee_percent"`
	RefundApprovalRequired *bool            `json:"refund_approval_required"`
}

// UpdatePolicy 更新策略
// 调整只影响之后的判定，已转换的预订不回溯
// @Summary 更新酒店策略
// @Tags 策略
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body UpdatePolicyRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.HotelPolicy}
// @Router /api/v1/policy [put]
func (h *PolicyHandler) UpdatePolicy(c *gin.Context) {
	var req UpdatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	policy, err := h.policyService.GetPolicy(c.Request.Context())
	if handler.HandleError(c, err) {
		return
	}

	if req.CheckInTime != nil {
		policy.CheckInTime = *req.CheckInTime
	}
	if req.CheckOutTime != nil {
		policy.CheckOutTime = *req.CheckOutTime
	}
	if req.NoShowHours != nil {
		policy.NoShowHours = *req.NoShowHours
	}
	if req.NoShowRefundPercent != nil {
		policy.NoShowRefundPercent = *req.NoShowRefundPercent
	}
	if req.UnconfirmedHoldHours != nil {
		policy.UnconfirmedHoldHours = *req.UnconfirmedHoldHours
	}
	if req.CancellationFeePercent != nil {
		policy.CancellationFeePercent = *req.CancellationFeePercent
	}
	if req.RefundApprovalRequired != nil {
		policy.RefundApprovalRequired = *req.RefundApprovalRequired
	}

	updated, err := h.policyService.UpdatePolicy(c.Request.Context(), policy)
	handler.MustSucceed(c, err, updated)
}
