package hotel

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/crypto"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/handler"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/response"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
	hotelService "github.com/shakeelviam/salmiya-grand-hotel-backend/internal/service/hotel"
)

// GuestHandler 住客处理器
type GuestHandler struct {
	guestService *hotelService.GuestService
}

// NewGuestHandler 创建住客处理器
func NewGuestHandler(guestSvc *hotelService.GuestService) *GuestHandler {
	return &GuestHandler{guestService: guestSvc}
}

// maskGuest 查询类接口返回脱敏副本，联系方式与证件号不回显完整值
func maskGuest(g *models.Guest) *models.Guest {
	if g == nil {
		return nil
	}
	masked := *g
	if g.Phone != nil {
		v := crypto.MaskPhone(*g.Phone)
		masked.Phone = &v
	}
	if g.Email != nil {
		v := crypto.MaskEmail(*g.Email)
		masked.Email = &v
	}
	if g.IDNumber != nil {
		v := crypto.MaskIDNumber(*g.IDNumber)
		masked.IDNumber = &v
	}
	return &masked
}

func maskGuests(list []*models.Guest) []*models.Guest {
	masked := make([]*models.Guest, 0, len(list))
	for _, g := range list {
		masked = append(masked, maskGuest(g))
	}
	return masked
}

// CreateGuestRequest 登记住客请求
type CreateGuestRequest struct {
	Name     string  `json:"name" binding:"required"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	IDNumber *string `json:"id_number"`
	Notes    *string `json:"notes"`
}

// CreateGuest 登记住客
// @Summary 登记住客
// @Tags 住客
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateGuestRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Guest}
// @Router /api/v1/guests [post]
func (h *GuestHandler) CreateGuest(c *gin.Context) {
	var req CreateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	guest, err := h.guestService.CreateGuest(c.Request.Context(), &hotelService.CreateGuestParams{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		IDNumber: req.IDNumber,
		Notes:    req.Notes,
	})
	handler.MustSucceed(c, err, guest)
}

// GetGuest 获取住客档案
// @Summary 获取住客档案
// @Tags 住客
// @Produce json
// @Security Bearer
// @Param id path int true "住客ID"
// @Success 200 {object} response.Response{data=models.Guest}
// @Router /api/v1/guests/{id} [get]
func (h *GuestHandler) GetGuest(c *gin.Context) {
	id, ok := handler.ParseID(c, "住客")
	if !ok {
		return
	}

	guest, err := h.guestService.GetGuest(c.Request.Context(), id)
	handler.MustSucceed(c, err, maskGuest(guest))
}

// UpdateGuestRequest 更新住客请求
type UpdateGuestRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	IDNumber *string `json:"id_number"`
	Notes    *string `json:"notes"`
}

// UpdateGuest 更新住客档案
// @Summary 更新住客档案
// @Tags 住客
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "住客ID"
// @Param request body UpdateGuestRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Guest}
// @Router /api/v1/guests/{id} [put]
func (h *GuestHandler) UpdateGuest(c *gin.Context) {
	id, ok := handler.ParseID(c, "住客")
	if !ok {
		return
	}

	var req UpdateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.IDNumber != nil {
		updates["id_number"] = *req.IDNumber
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) == 0 {
		response.BadRequest(c, "没有需要更新的字段")
		return
	}

	guest, err := h.guestService.UpdateGuest(c.Request.Context(), id, updates)
	handler.MustSucceed(c, err, guest)
}

// SearchGuests 搜索住客
// @Summary 按姓名或手机号搜索住客
// @Tags 住客
// @Produce json
// @Security Bearer
// @Param keyword query string true "关键字"
// @Param limit query int false "返回数量"
// @Success 200 {object} response.Response{data=[]models.Guest}
// @Router /api/v1/guests/search [get]
func (h *GuestHandler) SearchGuests(c *gin.Context) {
	keyword := c.Query("keyword")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	guests, err := h.guestService.SearchGuests(c.Request.Context(), keyword, limit)
	handler.MustSucceed(c, err, maskGuests(guests))
}
