package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
)

// RoomRepository 房间仓储
type RoomRepository struct {
	db *gorm.DB
}

// NewRoomRepository 创建房间仓储
func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create 创建房间
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// GetByID 根据 ID 获取房间
func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).Preload("RoomType").First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetByRoomNo 根据房间号获取房间
func (r *RoomRepository) GetByRoomNo(ctx context.Context, roomNo string) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Where("room_no = ?", roomNo).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetRoomForUpdate 在事务内加行锁获取房间
// 入住分配房间时必须持有该锁再检查占用
func GetRoomForUpdate(tx *gorm.DB, id int64) (*models.Room, error) {
	var room models.Room
	err := lockForUpdate(tx).First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// UpdateStatus 更新房态，同步维护可用标记
func (r *RoomRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return UpdateRoomStatusTx(r.db.WithContext(ctx), id, status)
}

// UpdateRoomStatusTx 在事务内更新房态
func UpdateRoomStatusTx(tx *gorm.DB, id int64, status string) error {
	return tx.Model(&models.Room{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"is_available": status == models.RoomStatusAvailable,
		}).Error
}

// RoomListParams 房间列表查询参数
type RoomListParams struct {
	RoomTypeID int64
	Status     string
	Floor      int
	OnlyActive bool
}

// List 查询房间列表
func (r *RoomRepository) List(ctx context.Context, params *RoomListParams) ([]*models.Room, error) {
	query := r.db.WithContext(ctx).Model(&models.Room{})

	if params.RoomTypeID > 0 {
		query = query.Where("room_type_id = ?", params.RoomTypeID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Floor > 0 {
		query = query.Where("floor = ?", params.Floor)
	}
	if params.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var rooms []*models.Room
	err := query.Preload("RoomType").Order("room_no ASC").Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// ListAvailableByType 查询指定房型下可分配的房间
func (r *RoomRepository) ListAvailableByType(ctx context.Context, roomTypeID int64) ([]*models.Room, error) {
	var rooms []*models.Room
	err := r.db.WithContext(ctx).
		Where("room_type_id = ?", roomTypeID).
		Where("status = ?", models.RoomStatusAvailable).
		Where("is_active = ?", true).
		Order("room_no ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// CountOccupied 统计在住房间数
func (r *RoomRepository) CountOccupied(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Room{}).
		Where("status = ?", models.RoomStatusOccupied).
		Count(&count).Error
	return count, err
}

// RoomTypeRepository 房型仓储
type RoomTypeRepository struct {
	db *gorm.DB
}

// NewRoomTypeRepository 创建房型仓储
func NewRoomTypeRepository(db *gorm.DB) *RoomTypeRepository {
	return &RoomTypeRepository{db: db}
}

// Create 创建房型
func (r *RoomTypeRepository) Create(ctx context.Context, roomType *models.RoomType) error {
	return r.db.WithContext(ctx).Create(roomType).Error
}

// GetByID 根据 ID 获取房型
func (r *RoomTypeRepository) GetByID(ctx context.Context, id int64) (*models.RoomType, error) {
	var roomType models.RoomType
	err := r.db.WithContext(ctx).First(&roomType, id).Error
	if err != nil {
		return nil, err
	}
	return &roomType, nil
}

// GetByCode 根据编码获取房型
func (r *RoomTypeRepository) GetByCode(ctx context.Context, code string) (*models.RoomType, error) {
	var roomType models.RoomType
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&roomType).Error
	if err != nil {
		return nil, err
	}
	return &roomType, nil
}

// ListActive 查询启用的房型
func (r *RoomTypeRepository) ListActive(ctx context.Context) ([]*models.RoomType, error) {
	var roomTypes []*models.RoomType
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("base_price ASC").
		Find(&roomTypes).Error
	if err != nil {
		return nil, err
	}
	return roomTypes, nil
}

// Update 更新房型字段
func (r *RoomTypeRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.RoomType{}).
		Where("id = ?", id).
		Updates(updates).Error
}
