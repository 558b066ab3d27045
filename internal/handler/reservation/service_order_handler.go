package reservation

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/handler"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/response"
	reservationService "github.com/shakeelviam/salmiya-grand-hotel-backend/internal/service/reservation"
)

// ServiceOrderHandler 客房服务单处理器
type ServiceOrderHandler struct {
	chargeService *reservationService.ServiceChargeService
}

// NewServiceOrderHandler 创建客房服务单处理器
func NewServiceOrderHandler(chargeSvc *reservationService.ServiceChargeService) *ServiceOrderHandler {
	return &ServiceOrderHandler{chargeService: chargeSvc}
}

// ApplyChargeRequest 下服务单请求
type ApplyChargeRequest struct {
	ItemName  string          `json:"item_name" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// ApplyCharge 对在住预订下服务单
// @Summary 下客房服务单
// @Tags 客房服务
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Param request body ApplyChargeRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.ServiceOrder}
// @Router /api/v1/reservations/{id}/service-orders [post]
func (h *ServiceOrderHandler) ApplyCharge(c *gin.Context) {
	staffID, id, ok := handler.RequireStaffAndParseID(c, "预订")
	if !ok {
		return
	}

	var req ApplyChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	order, err := h.chargeService.ApplyCharge(c.Request.Context(), &reservationService.ApplyChargeParams{
		ReservationID: id,
		ItemName:      req.ItemName,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		PlacedBy:      &staffID,
	})
	handler.MustSucceed(c, err, order)
}

// ReverseCharge 撤销服务单
// @Summary 撤销客房服务单
// @Tags 客房服务
// @Produce json
// @Security Bearer
// @Param id path int true "服务单ID"
// @Success 200 {object} response.Response{data=models.ServiceOrder}
// @Router /api/v1/service-orders/{id}/cancel [post]
func (h *ServiceOrderHandler) ReverseCharge(c *gin.Context) {
	staffID, id, ok := handler.RequireStaffAndParseID(c, "服务单")
	if !ok {
		return
	}

	order, err := h.chargeService.ReverseCharge(c.Request.Context(), id, &staffID)
	handler.MustSucceed(c, err, order)
}

// ListByReservation 获取预订的服务单列表
// @Summary 获取预订的服务单列表
// @Tags 客房服务
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=[]models.ServiceOrder}
// @Router /api/v1/reservations/{id}/service-orders [get]
func (h *ServiceOrderHandler) ListByReservation(c *gin.Context) {
	id, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	orders, err := h.chargeService.ListByReservation(c.Request.Context(), id)
	handler.MustSucceed(c, err, orders)
}
