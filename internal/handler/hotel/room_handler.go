// Package hotel 提供房型、房间与住客管理的 HTTP Handler
package hotel

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/handler"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/response"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/repository"
	hotelService "github.com/shakeelviam/salmiya-grand-hotel-backend/internal/service/hotel"
)

// RoomHandler 房型与房间处理器
type RoomHandler struct {
	roomService *hotelService.RoomService
}

// NewRoomHandler 创建房间处理器
func NewRoomHandler(roomSvc *hotelService.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomSvc}
}

// CreateRoomTypeRequest 新建房型请求
type CreateRoomTypeRequest struct {
	Name           string          `json:"name" binding:"required"`
	Code           string          `json:"code" binding:"required"`
	BasePrice      decimal.Decimal `json:"base_price" binding:"required"`
	ExtraBedCharge decimal.Decimal `json:"extra_bed_charge"`
	AdultCapacity  int             `json:"adult_capacity" binding:"required,min=1"`
	ChildCapacity  int             `json:"child_capacity" binding:"min=0"`
	Description    *string         `json:"description"`
}

// CreateRoomType 新建房型
// @Summary 新建房型
// @Tags 房间
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateRoomTypeRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.RoomType}
// @Router /api/v1/room-types [post]
func (h *RoomHandler) CreateRoomType(c *gin.Context) {
	var req CreateRoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	roomType, err := h.roomService.CreateRoomType(c.Request.Context(), &hotelService.CreateRoomTypeParams{
		Name:           req.Name,
		Code:           req.Code,
		BasePrice:      req.BasePrice,
		ExtraBedCharge: req.ExtraBedCharge,
		AdultCapacity:  req.AdultCapacity,
		ChildCapacity:  req.ChildCapacity,
		Description:    req.Description,
	})
	handler.MustSucceed(c, err, roomType)
}

// UpdateRoomTypeRequest 更新房型请求
type UpdateRoomTypeRequest struct {
	Name           *string          `json:"name"`
	BasePrice      *decimal.Decimal `json:"base_price"`
	ExtraBedCharge *decimal.Decimal `json:"extra_bed_charge"`
	AdultCapacity  *int             `json:"adult_capacity"`
	ChildCapacity  *int             `json:"child_capacity"`
	Description    *string          `json:"description"`
	IsActive       *bool            `json:"is_active"`
}

// UpdateRoomType 更新房型
// @Summary 更新房型
// @Tags 房间
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "房型ID"
// @Param request body UpdateRoomTypeRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.RoomType}
// @Router /api/v1/room-types/{id} [put]
func (h *RoomHandler) UpdateRoomType(c *gin.Context) {
	id, ok := handler.ParseID(c, "房型")
	if !ok {
		return
	}

	var req UpdateRoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.BasePrice != nil {
		updates["base_price"] = *req.BasePrice
	}
	if req.ExtraBedCharge != nil {
		updates["extra_bed_charge"] = *req.ExtraBedCharge
	}
	if req.AdultCapacity != nil {
		updates["adult_capacity"] = *req.AdultCapacity
	}
	if req.ChildCapacity != nil {
		updates["child_capacity"] = *req.ChildCapacity
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		response.BadRequest(c, "没有需要更新的字段")
		return
	}

	roomType, err := h.roomService.UpdateRoomType(c.Request.Context(), id, updates)
	handler.MustSucceed(c, err, roomType)
}

// ListRoomTypes 获取房型列表
// @Summary 获取启用的房型列表
// @Tags 房间
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=[]models.RoomType}
// @Router /api/v1/room-types [get]
func (h *RoomHandler) ListRoomTypes(c *gin.Context) {
	roomTypes, err := h.roomService.ListRoomTypes(c.Request.Context())
	handler.MustSucceed(c, err, roomTypes)
}

// CreateRoomRequest 新建房间请求
type CreateRoomRequest struct {
	RoomNo     string `json:"room_no" binding:"required"`
	Floor      int    `json:"floor" binding:"required,min=1"`
	RoomTypeID int64  `json:"room_type_id" binding:"required"`
}

// CreateRoom 新建房间
// @Summary 新建房间
// @Tags 房间
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateRoomRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/v1/rooms [post]
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), &hotelService.CreateRoomParams{
		RoomNo:     req.RoomNo,
		Floor:      req.Floor,
		RoomTypeID: req.RoomTypeID,
	})
	handler.MustSucceed(c, err, room)
}

// GetRoom 获取房间详情
// @Summary 获取房间详情
// @Tags 房间
// @Produce json
// @Security Bearer
// @Param id path int true "房间ID"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/v1/rooms/{id} [get]
func (h *RoomHandler) GetRoom(c *gin.Context) {
	id, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	room, err := h.roomService.GetRoom(c.Request.Context(), id)
	handler.MustSucceed(c, err, room)
}

// ListRooms 获取房间列表
// @Summary 获取房间列表
// @Tags 房间
// @Produce json
// @Security Bearer
// @Param room_type_id query int false "房型ID"
// @Param status query string false "房态"
// @Param floor query int false "楼层"
// @Success 200 {object} response.Response{data=[]models.Room}
// @Router /api/v1/rooms [get]
func (h *RoomHandler) ListRooms(c *gin.Context) {
	roomTypeID, ok := handler.ParseQueryID(c, "room_type_id", "房型")
	if !ok {
		return
	}

	params := &repository.RoomListParams{
		Status: c.Query("status"),
	}
	if roomTypeID != nil {
		params.RoomTypeID = *roomTypeID
	}

	rooms, err := h.roomService.ListRooms(c.Request.Context(), params)
	handler.MustSucceed(c, err, rooms)
}

// ListAvailableRooms 获取某房型可入住的房间
// @Summary 获取某房型可入住的房间
// @Tags 房间
// @Produce json
// @Security Bearer
// @Param id path int true "房型ID"
// @Success 200 {object} response.Response{data=[]models.Room}
// @Router /api/v1/room-types/{id}/available-rooms [get]
func (h *RoomHandler) ListAvailableRooms(c *gin.Context) {
	id, ok := handler.ParseID(c, "房型")
	if !ok {
		return
	}

	rooms, err := h.roomService.ListAvailableRooms(c.Request.Context(), id)
	handler.MustSucceed(c, err, rooms)
}

// SetRoomStatusRequest 调整房态请求
type SetRoomStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetRoomStatus 人工调整房态
// @Summary 人工调整房态
// @Tags 房间
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "房间ID"
// @Param request body SetRoomStatusRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/v1/rooms/{id}/status [put]
func (h *RoomHandler) SetRoomStatus(c *gin.Context) {
	id, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	var req SetRoomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.SetRoomStatus(c.Request.Context(), id, req.Status)
	handler.MustSucceed(c, err, room)
}

// SetRoomActiveRequest 启停房间请求
type SetRoomActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetRoomActive 启用或停用房间
// @Summary 启用或停用房间
// @Tags 房间
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "房间ID"
// @Param request body SetRoomActiveRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/v1/rooms/{id}/active [put]
func (h *RoomHandler) SetRoomActive(c *gin.Context) {
	id, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	var req SetRoomActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.SetRoomActive(c.Request.Context(), id, *req.IsActive)
	handler.MustSucceed(c, err, room)
}
