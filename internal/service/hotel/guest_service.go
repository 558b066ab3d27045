package hotel

import (
	"context"

	"gorm.io/gorm"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/errors"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/repository"
)

// GuestService 住客档案服务
type GuestService struct {
	guestRepo *repository.GuestRepository
}

// NewGuestService 创建住客服务
func NewGuestService(db *gorm.DB) *GuestService {
	return &GuestService{guestRepo: repository.NewGuestRepository(db)}
}

// CreateGuestParams 登记住客参数
type CreateGuestParams struct {
	Name     string
	Phone    *string
	Email    *string
	IDNumber *string
	Notes    *string
}

// CreateGuest 登记住客
// 手机号相同视为同一住客，直接返回已有档案
func (s *GuestService) CreateGuest(ctx context.Context, params *CreateGuestParams) (*models.Guest, error) {
	if params.Name == "" {
		return nil, errors.ErrInvalidParams.WithMessage("住客姓名不能为空")
	}

	if params.Phone != nil && *params.Phone != "" {
		existing, err := s.guestRepo.GetByPhone(ctx, *params.Phone)
		if err == nil {
			return existing, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	}

	guest := &models.Guest{
		Name:     params.Name,
		Phone:    params.Phone,
		Email:    params.Email,
		IDNumber: params.IDNumber,
		Notes:    params.Notes,
	}
	if err := s.guestRepo.Create(ctx, guest); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return guest, nil
}

// GetGuest 获取住客档案
func (s *GuestService) GetGuest(ctx context.Context, id int64) (*models.Guest, error) {
	guest, err := s.guestRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrGuestNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return guest, nil
}

// UpdateGuest 更新住客档案
func (s *GuestService) UpdateGuest(ctx context.Context, id int64, updates map[string]interface{}) (*models.Guest, error) {
	if _, err := s.GetGuest(ctx, id); err != nil {
		return nil, err
	}
	if name, ok := updates["name"].(string); ok && name == "" {
		return nil, errors.ErrInvalidParams.WithMessage("住客姓名不能为空")
	}
	if err := s.guestRepo.Update(ctx, id, updates); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.GetGuest(ctx, id)
}

// SearchGuests 按姓名或手机号搜索住客
func (s *GuestService) SearchGuests(ctx context.Context, keyword string, limit int) ([]*models.Guest, error) {
	if keyword == "" {
		return nil, errors.ErrInvalidParams.WithMessage("搜索关键字不能为空")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	guests, err := s.guestRepo.Search(ctx, keyword, limit)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return guests, nil
}
