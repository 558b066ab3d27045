package reservation

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/cache"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/errors"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/logger"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/repository"
)

// 策略缓存时长
const policyCacheTTL = 5 * time.Minute

// PolicyService 酒店策略服务
// 读多写少：读路径走 Redis 缓存，更新后失效
type PolicyService struct {
	policyRepo *repository.PolicyRepository
	useCache   bool
}

// NewPolicyService 创建策略服务
func NewPolicyService(db *gorm.DB, useCache bool) *PolicyService {
	return &PolicyService{
		policyRepo: repository.NewPolicyRepository(db),
		useCache:   useCache,
	}
}

// GetPolicy 获取当前策略快照
// 未配置时返回 ErrPolicyNotConfigured
func (s *PolicyService) GetPolicy(ctx context.Context) (*models.HotelPolicy, error) {
	if s.useCache {
		var cached models.HotelPolicy
		if err := cache.Get(ctx, cache.KeyPrefixPolicy, &cached); err == nil {
			return &cached, nil
		}
	}

	policy, err := s.policyRepo.Get(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPolicyNotConfigured
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if s.useCache {
		if err := cache.Set(ctx, cache.KeyPrefixPolicy, policy, policyCacheTTL); err != nil {
			logger.Warn("policy cache set failed", logger.Err(err))
		}
	}
	return policy, nil
}

// UpdatePolicyParams 策略更新参数
type UpdatePolicyParams struct {
	CheckInTime            string
	CheckOutTime           string
	NoShowHours            int
	NoShowRefundPercent    string
	UnconfirmedHoldHours   int
	CancellationFeePercent string
	RefundApprovalRequired bool
	UpdatedBy              int64
}

// UpdatePolicy 更新策略并失效缓存
func (s *PolicyService) UpdatePolicy(ctx context.Context, policy *models.HotelPolicy) (*models.HotelPolicy, error) {
	if err := ValidatePolicy(policy); err != nil {
		return nil, err
	}

	if err := s.policyRepo.Save(ctx, policy); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if s.useCache {
		if err := cache.Delete(ctx, cache.KeyPrefixPolicy); err != nil {
			logger.Warn("policy cache invalidate failed", logger.Err(err))
		}
	}

	logger.Info("hotel policy updated",
		logger.Int("no_show_hours", policy.NoShowHours),
		logger.Int("hold_hours", policy.UnconfirmedHoldHours),
	)
	return policy, nil
}

// EnsureDefaultPolicy 启动时无策略则写入默认值
func (s *PolicyService) EnsureDefaultPolicy(ctx context.Context) error {
	_, err := s.policyRepo.Get(ctx)
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return errors.ErrDatabaseError.WithError(err)
	}
	return s.policyRepo.Save(ctx, models.DefaultHotelPolicy())
}
