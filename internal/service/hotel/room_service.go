// Package hotel 提供房型与房间的前台管理服务
package hotel

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/errors"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/repository"
)

// RoomService 房型与房间管理服务
type RoomService struct {
	db           *gorm.DB
	roomRepo     *repository.RoomRepository
	roomTypeRepo *repository.RoomTypeRepository
}

// NewRoomService 创建房间管理服务
func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{
		db:           db,
		roomRepo:     repository.NewRoomRepository(db),
		roomTypeRepo: repository.NewRoomTypeRepository(db),
	}
}

// CreateRoomTypeParams 新建房型参数
type CreateRoomTypeParams struct {
	Name           string
	Code           string
	BasePrice      decimal.Decimal
	ExtraBedCharge decimal.Decimal
	AdultCapacity  int
	ChildCapacity  int
	Description    *string
}

// CreateRoomType 新建房型
func (s *RoomService) CreateRoomType(ctx context.Context, params *CreateRoomTypeParams) (*models.RoomType, error) {
	if params.Name == "" || params.Code == "" {
		return nil, errors.ErrInvalidParams.WithMessage("房型名称和编码不能为空")
	}
	if params.BasePrice.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrInvalidAmount.WithMessage("基础价必须大于零")
	}
	if params.ExtraBedCharge.IsNegative() {
		return nil, errors.ErrInvalidAmount.WithMessage("加床价不能为负")
	}
	if params.AdultCapacity < 1 {
		return nil, errors.ErrInvalidParams.WithMessage("成人容量至少为 1")
	}

	if _, err := s.roomTypeRepo.GetByCode(ctx, params.Code); err == nil {
		return nil, errors.ErrInvalidParams.WithMessage("房型编码已存在")
	} else if err != gorm.ErrRecordNotFound {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	roomType := &models.RoomType{
		Name:           params.Name,
		Code:           params.Code,
		BasePrice:      params.BasePrice.Round(2),
		ExtraBedCharge: params.ExtraBedCharge.Round(2),
		AdultCapacity:  params.AdultCapacity,
		ChildCapacity:  params.ChildCapacity,
		Description:    params.Description,
		IsActive:       true,
	}
	if err := s.roomTypeRepo.Create(ctx, roomType); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return roomType, nil
}

// UpdateRoomType 更新房型
// 价格调整只影响之后创建的预订，已有预订金额不变
func (s *RoomService) UpdateRoomType(ctx context.Context, id int64, updates map[string]interface{}) (*models.RoomType, error) {
	if _, err := s.roomTypeRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomTypeNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if price, ok := updates["base_price"].(decimal.Decimal); ok && price.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrInvalidAmount.WithMessage("基础价必须大于零")
	}
	if err := s.roomTypeRepo.Update(ctx, id, updates); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.roomTypeRepo.GetByID(ctx, id)
}

// ListRoomTypes 列出启用的房型
func (s *RoomService) ListRoomTypes(ctx context.Context) ([]*models.RoomType, error) {
	roomTypes, err := s.roomTypeRepo.ListActive(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return roomTypes, nil
}

// CreateRoomParams 新建房间参数
type CreateRoomParams struct {
	RoomNo     string
	Floor      int
	RoomTypeID int64
}

// CreateRoom 新建房间，初始状态可入住
func (s *RoomService) CreateRoom(ctx context.Context, params *CreateRoomParams) (*models.Room, error) {
	if params.RoomNo == "" {
		return nil, errors.ErrInvalidParams.WithMessage("房间号不能为空")
	}
	if _, err := s.roomTypeRepo.GetByID(ctx, params.RoomTypeID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomTypeNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if _, err := s.roomRepo.GetByRoomNo(ctx, params.RoomNo); err == nil {
		return nil, errors.ErrInvalidParams.WithMessage("房间号已存在")
	} else if err != gorm.ErrRecordNotFound {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	room := &models.Room{
		RoomNo:      params.RoomNo,
		Floor:       params.Floor,
		RoomTypeID:  params.RoomTypeID,
		Status:      models.RoomStatusAvailable,
		IsActive:    true,
		IsAvailable: true,
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return room, nil
}

// GetRoom 获取房间详情
func (s *RoomService) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return room, nil
}

// ListRooms 按条件列出房间
func (s *RoomService) ListRooms(ctx context.Context, params *repository.RoomListParams) ([]*models.Room, error) {
	rooms, err := s.roomRepo.List(ctx, params)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return rooms, nil
}

// ListAvailableRooms 列出某房型当前可入住的房间，入住分配时用
func (s *RoomService) ListAvailableRooms(ctx context.Context, roomTypeID int64) ([]*models.Room, error) {
	rooms, err := s.roomRepo.ListAvailableByType(ctx, roomTypeID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return rooms, nil
}

// SetRoomStatus 人工调整房态
// occupied 只能由入住动作产生；清洁完成、停用维修走这里
func (s *RoomService) SetRoomStatus(ctx context.Context, id int64, status string) (*models.Room, error) {
	switch status {
	case models.RoomStatusAvailable, models.RoomStatusCleaning, models.RoomStatusMaintenance:
	default:
		return nil, errors.ErrInvalidParams.WithMessage("不支持的目标房态")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := repository.GetRoomForUpdate(tx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrRoomNotFound
			}
			return errors.ErrDatabaseError.WithError(err)
		}
		if room.Status == models.RoomStatusOccupied {
			return errors.ErrRoomUnavailable.WithMessage("在住房间不能人工调整房态")
		}
		return repository.UpdateRoomStatusTx(tx, id, status)
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.ErrTransactionFailed.WithError(err)
	}
	return s.GetRoom(ctx, id)
}

// SetRoomActive 启用或停用房间
func (s *RoomService) SetRoomActive(ctx context.Context, id int64, active bool) (*models.Room, error) {
	if _, err := s.GetRoom(ctx, id); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Model(&models.Room{}).
		Where("id = ?", id).
		Update("is_active", active).Error
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.GetRoom(ctx, id)
}
