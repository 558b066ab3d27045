// Package reservation 提供预订生命周期相关的 HTTP Handler
package reservation

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/handler"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/response"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/repository"
	billingService "github.com/shakeelviam/salmiya-grand-hotel-backend/internal/service/billing"
	reservationService "github.com/shakeelviam/salmiya-grand-hotel-backend/internal/service/reservation"
)

// Handler 预订处理器
type Handler struct {
	reservationService *reservationService.Service
	ledgerService      *billingService.LedgerService
}

// NewHandler 创建预订处理器
func NewHandler(reservationSvc *reservationService.Service, ledgerSvc *billingService.LedgerService) *Handler {
	return &Handler{
		reservationService: reservationSvc,
		ledgerService:      ledgerSvc,
	}
}

// CreateReservationRequest 创建预订请求
type CreateReservationRequest struct {
	GuestID       int64           `json:"guest_id" binding:"required"`
	RoomTypeID    int64           `json:"room_type_id" binding:"required"`
	CheckIn       string          `json:"check_in" binding:"required"`
	CheckOut      string          `json:"check_out" binding:"required"`
	Adults        int             `json:"adults" binding:"required,min=1"`
	Children      int             `json:"children" binding:"min=0"`
	ExtraBeds     int             `json:"extra_beds" binding:"min=0"`
	AdvanceAmount decimal.Decimal `json:"advance_amount"`
	PaymentModeID *int64          `json:"payment_mode_id"`
	Notes         *string         `json:"notes"`
}

// Create 创建预订
// @Summary 创建预订
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateReservationRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/reservations [post]
func (h *Handler) Create(c *gin.Context) {
	staffID, ok := handler.RequireStaffID(c)
	if !ok {
		return
	}

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	checkIn, err := handler.ParseDateTime(req.CheckIn)
	if err != nil {
		response.BadRequest(c, "入住时间格式错误")
		return
	}
	checkOut, err := handler.ParseDateTime(req.CheckOut)
	if err != nil {
		response.BadRequest(c, "退房时间格式错误")
		return
	}

	reservation, err := h.reservationService.Create(c.Request.Context(), &reservationService.CreateParams{
		GuestID:       req.GuestID,
		RoomTypeID:    req.RoomTypeID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Adults:        req.Adults,
		Children:      req.Children,
		ExtraBeds:     req.ExtraBeds,
		AdvanceAmount: req.AdvanceAmount,
		PaymentModeID: req.PaymentModeID,
		Notes:         req.Notes,
		CreatedBy:     &staffID,
	})
	handler.MustSucceed(c, err, reservation)
}

// GetDetail 获取预订详情
// @Summary 获取预订详情
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/reservations/{id} [get]
func (h *Handler) GetDetail(c *gin.Context) {
	id, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	reservation, err := h.reservationService.GetByID(c.Request.Context(), id)
	handler.MustSucceed(c, err, reservation)
}

// List 获取预订列表
// @Summary 获取预订列表
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param status query string false "状态"
// @Param guest_id query int false "住客ID"
// @Param room_type_id query int false "房型ID"
// @Param room_id query int false "房间ID"
// @Param check_in_from query string false "入住起始时间"
// @Param check_in_to query string false "入住截止时间"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/reservations [get]
func (h *Handler) List(c *gin.Context) {
	page, pageSize := handler.ParsePagination(c)

	guestID, ok := handler.ParseQueryID(c, "guest_id", "住客")
	if !ok {
		return
	}
	roomTypeID, ok := handler.ParseQueryID(c, "room_type_id", "房型")
	if !ok {
		return
	}
	roomID, ok := handler.ParseQueryID(c, "room_id", "房间")
	if !ok {
		return
	}
	checkInFrom, ok := handler.ParseQueryDateTime(c, "check_in_from")
	if !ok {
		return
	}
	checkInTo, ok := handler.ParseQueryDateTime(c, "check_in_to")
	if !ok {
		return
	}

	params := &repository.ReservationListParams{
		Status:      c.Query("status"),
		CheckInFrom: checkInFrom,
		CheckInTo:   checkInTo,
		Page:        page,
		PageSize:    pageSize,
	}
	if guestID != nil {
		params.GuestID = *guestID
	}
	if roomTypeID != nil {
		params.RoomTypeID = *roomTypeID
	}
	if roomID != nil {
		params.RoomID = *roomID
	}

	list, total, err := h.reservationService.List(c.Request.Context(), params)
	handler.MustSucceedPage(c, err, list, total, page, pageSize)
}

// ConfirmRequest 确认预订请求
type ConfirmRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentModeID *int64          `json:"payment_mode_id"`
}

// Confirm 确认预订
// @Summary 收取预付款并确认预订
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Param request body ConfirmRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/reservations/{id}/confirm [post]
func (h *Handler) Confirm(c *gin.Context) {
	staffID, id, ok := handler.RequireStaffAndParseID(c, "预订")
	if !ok {
		return
	}

	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	reservation, err := h.reservationService.Confirm(c.Request.Context(), id, req.Amount, req.PaymentModeID, &staffID)
	handler.MustSucceed(c, err, reservation)
}

// CheckInRequest 入住请求
type CheckInRequest struct {
	RoomID int64 `json:"room_id" binding:"required"`
}

// CheckIn 办理入住
// @Summary 分配房间并办理入住
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Param request body CheckInRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/reservations/{id}/check-in [post]
func (h *Handler) CheckIn(c *gin.Context) {
	staffID, id, ok := handler.RequireStaffAndParseID(c, "预订")
	if !ok {
		return
	}

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	reservation, err := h.reservationService.CheckIn(c.Request.Context(), id, req.RoomID, &staffID)
	handler.MustSucceed(c, err, reservation)
}

// CheckOutRequest 退房请求
type CheckOutRequest struct {
	SettlementAmount decimal.Decimal `json:"settlement_amount"`
	PaymentModeID    *int64          `json:"payment_mode_id"`
}

// CheckOut 办理退房
// @Summary 办理退房并结算
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Param request body CheckOutRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/reservations/{id}/check-out [post]
func (h *Handler) CheckOut(c *gin.Context) {
	staffID, id, ok := handler.RequireStaffAndParseID(c, "预订")
	if !ok {
		return
	}

	var req CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	reservation, err := h.reservationService.CheckOut(c.Request.Context(), id, &reservationService.CheckOutParams{
		SettlementAmount: req.SettlementAmount,
		PaymentModeID:    req.PaymentModeID,
		ProcessedBy:      &staffID,
	})
	handler.MustSucceed(c, err, reservation)
}

// SettleRequest 补收尾款请求
type SettleRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentModeID *int64          `json:"payment_mode_id"`
}

// Settle 退房后补收尾款
// @Summary 补收尾款
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Param request body SettleRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/reservations/{id}/settle [post]
func (h *Handler) Settle(c *gin.Context) {
	staffID, id, ok := handler.RequireStaffAndParseID(c, "预订")
	if !ok {
		return
	}

	var req SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	reservation, err := h.reservationService.SettleOutstanding(c.Request.Context(), id, req.Amount, req.PaymentModeID, &staffID)
	handler.MustSucceed(c, err, reservation)
}

// CancelRequest 取消预订请求
type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Cancel 取消预订
// @Summary 取消预订
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Param request body CancelRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/reservations/{id}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	staffID, id, ok := handler.RequireStaffAndParseID(c, "预订")
	if !ok {
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	reservation, err := h.reservationService.Cancel(c.Request.Context(), id, req.Reason, &staffID)
	handler.MustSucceed(c, err, reservation)
}

// MarkNoShow 标记未入住
// @Summary 标记未入住
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/reservations/{id}/no-show [post]
func (h *Handler) MarkNoShow(c *gin.Context) {
	staffID, id, ok := handler.RequireStaffAndParseID(c, "预订")
	if !ok {
		return
	}

	reservation, err := h.reservationService.MarkNoShow(c.Request.Context(), id, &staffID)
	handler.MustSucceed(c, err, reservation)
}

// RefundRequest 退款请求
type RefundRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// Refund 对预订退款
// @Summary 对预订退款
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Param request body RefundRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/reservations/{id}/refund [post]
func (h *Handler) Refund(c *gin.Context) {
	staffID, id, ok := handler.RequireStaffAndParseID(c, "预订")
	if !ok {
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	reservation, err := h.reservationService.Refund(c.Request.Context(), id, req.Amount, &staffID)
	handler.MustSucceed(c, err, reservation)
}

// AdminRefund 管理员退款
// @Summary 管理员退款
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/reservations/{id}/admin-refund [post]
func (h *Handler) AdminRefund(c *gin.Context) {
	staffID, id, ok := handler.RequireStaffAndParseID(c, "预订")
	if !ok {
		return
	}

	reservation, err := h.reservationService.AdminRefund(c.Request.Context(), id, &staffID)
	handler.MustSucceed(c, err, reservation)
}

// ExtendStayRequest 延住请求
type ExtendStayRequest struct {
	CheckOut string `json:"check_out" binding:"required"`
}

// ExtendStay 延长住宿
// @Summary 延长住宿并重算费用
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Param request body ExtendStayRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/reservations/{id}/extend [post]
func (h *Handler) ExtendStay(c *gin.Context) {
	staffID, id, ok := handler.RequireStaffAndParseID(c, "预订")
	if !ok {
		return
	}

	var req ExtendStayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	newCheckOut, err := handler.ParseDateTime(req.CheckOut)
	if err != nil {
		response.BadRequest(c, "退房时间格式错误")
		return
	}

	reservation, err := h.reservationService.ExtendStay(c.Request.Context(), id, newCheckOut, &staffID)
	handler.MustSucceed(c, err, reservation)
}

// PaymentRequest 收款请求
type PaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentModeID *int64          `json:"payment_mode_id"`
}

// RecordPayment 住中收款
// @Summary 记录一笔付款
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Param request body PaymentRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/reservations/{id}/payments [post]
func (h *Handler) RecordPayment(c *gin.Context) {
	staffID, id, ok := handler.RequireStaffAndParseID(c, "预订")
	if !ok {
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	reservation, err := h.reservationService.RecordPayment(c.Request.Context(), id, req.Amount, req.PaymentModeID, &staffID)
	handler.MustSucceed(c, err, reservation)
}

// ListLedger 获取预订账务流水
// @Summary 获取预订账务流水
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=[]models.LedgerEntry}
// @Router /api/v1/reservations/{id}/ledger [get]
func (h *Handler) ListLedger(c *gin.Context) {
	id, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	entries, err := h.ledgerService.ListEntries(c.Request.Context(), id)
	handler.MustSucceed(c, err, entries)
}

// ListActivity 获取预订操作记录
// @Summary 获取预订操作记录
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=[]models.ActivityLog}
// @Router /api/v1/reservations/{id}/activity [get]
func (h *Handler) ListActivity(c *gin.Context) {
	id, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	logs, err := h.reservationService.ListActivity(c.Request.Context(), id)
	handler.MustSucceed(c, err, logs)
}
