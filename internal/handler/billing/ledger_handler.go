// Package billing 提供账务与退款审批相关的 HTTP Handler
package billing

import (
	"github.com/gin-gonic/gin"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/handler"
	billingService "github.com/shakeelviam/salmiya-grand-hotel-backend/internal/service/billing"
)

// Handler 账务处理器
type Handler struct {
	ledgerService *billingService.LedgerService
}

// NewHandler 创建账务处理器
func NewHandler(ledgerSvc *billingService.LedgerService) *Handler {
	return &Handler{ledgerService: ledgerSvc}
}

// ApproveRefund 审批通过退款
// @Summary 审批通过待处理退款
// @Tags 账务
// @Produce json
// @Security Bearer
// @Param id path int true "流水ID"
// @Success 200 {object} response.Response{data=models.LedgerEntry}
// @Router /api/v1/ledger/{id}/approve [post]
func (h *Handler) ApproveRefund(c *gin.Context) {
	staffID, id, ok := handler.RequireStaffAndParseID(c, "流水")
	if !ok {
		return
	}

	entry, err := h.ledgerService.ApproveRefund(c.Request.Context(), id, staffID)
	handler.MustSucceed(c, err, entry)
}

// RejectRefund 驳回退款
// @Summary 驳回待处理退款
// @Tags 账务
// @Produce json
// @Security Bearer
// @Param id path int true "流水ID"
// @Success 200 {object} response.Response{data=models.LedgerEntry}
// @Router /api/v1/ledger/{id}/reject [post]
func (h *Handler) RejectRefund(c *gin.Context) {
	staffID, id, ok := handler.RequireStaffAndParseID(c, "流水")
	if !ok {
		return
	}

	entry, err := h.ledgerService.RejectRefund(c.Request.Context(), id, staffID)
	handler.MustSucceed(c, err, entry)
}

// ListPaymentModes 获取支付方式列表
// @Summary 获取启用的支付方式
// @Tags 账务
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=[]models.PaymentMode}
// @Router /api/v1/payment-modes [get]
func (h *Handler) ListPaymentModes(c *gin.Context) {
	modes, err := h.ledgerService.ListPaymentModes(c.Request.Context())
	handler.MustSucceed(c, err, modes)
}
