package reservation

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/errors"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/logger"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/repository"
)

// SweepService 预订过期扫描服务
// 批量处理两类到期预订：保留期已过的待确认预订自动取消，
// 超过判定时刻仍未入住的已确认预订标记 no-show
type SweepService struct {
	db              *gorm.DB
	reservationRepo *repository.ReservationRepository
	reservations    *Service
	policyService   *PolicyService
	batchSize       int
	now             func() time.Time
}

// NewSweepService 创建扫描服务
func NewSweepService(db *gorm.DB, reservations *Service, policyService *PolicyService, batchSize int) *SweepService {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &SweepService{
		db:              db,
		reservationRepo: repository.NewReservationRepository(db),
		reservations:    reservations,
		policyService:   policyService,
		batchSize:       batchSize,
		now:             time.Now,
	}
}

// SweepResult 扫描结果
type SweepResult struct {
	ExpiredHolds int      `json:"expired_holds"`
	NoShows      int      `json:"no_shows"`
	Errors       []string `json:"errors,omitempty"`
}

// Processed 本轮处理总数
func (r *SweepResult) Processed() int {
	return r.ExpiredHolds + r.NoShows
}

// Run 执行一轮扫描
// 策略快照在批次开始时取一次；单条失败记录后继续，策略缺失则立刻失败
func (s *SweepService) Run(ctx context.Context) (*SweepResult, error) {
	policy, err := s.policyService.GetPolicy(ctx)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{}
	now := s.now()

	// 待确认保留过期
	holdCutoff := now.Add(-time.Duration(policy.UnconfirmedHoldHours) * time.Hour)
	stale, err := s.reservationRepo.ListUnconfirmedCreatedBefore(ctx, holdCutoff, s.batchSize)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	for _, r := range stale {
		if err := s.expireHold(ctx, r); err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.ExpiredHolds++
	}

	// 已确认未入住
	noShowCutoff := now.Add(-time.Duration(policy.NoShowHours) * time.Hour)
	overdue, err := s.reservationRepo.ListConfirmedWithCheckInBefore(ctx, noShowCutoff, s.batchSize)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	for _, r := range overdue {
		if _, err := s.reservations.markNoShowWithPolicy(ctx, r.ID, policy, nil); err != nil {
			// 状态已被并发操作推进时的转换冲突属于正常竞态，不算失败
			if appErr, ok := err.(*errors.AppError); ok && appErr.Code == errors.ErrInvalidStatusForTransition.Code {
				continue
			}
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.NoShows++
	}

	logger.Info("reservation sweep finished",
		logger.Int("expired_holds", result.ExpiredHolds),
		logger.Int("no_shows", result.NoShows),
		logger.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// expireHold 自动取消一条保留期已过的待确认预订
func (s *SweepService) expireHold(ctx context.Context, reservation *models.Reservation) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := repository.GetReservationForUpdate(tx, reservation.ID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrReservationNotFound
			}
			return errors.ErrDatabaseError.WithError(err)
		}
		// 并发确认过的跳过
		if current.Status != models.ReservationStatusUnconfirmed {
			return nil
		}

		now := s.now()
		reason := "保留期已过，系统自动取消"
		if err := tx.Model(&models.Reservation{}).
			Where("id = ?", current.ID).
			Updates(map[string]interface{}{
				"status":              models.ReservationStatusCancelled,
				"cancelled_at":        now,
				"cancellation_reason": reason,
			}).Error; err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		return repository.AppendActivityTx(tx, current.ID, models.ActivityActionAutoExpire, reason, nil)
	})
}
