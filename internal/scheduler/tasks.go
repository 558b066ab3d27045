package scheduler

import (
	"context"

	"gorm.io/gorm"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/metrics"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/repository"
	reservationService "github.com/shakeelviam/salmiya-grand-hotel-backend/internal/service/reservation"
)

// TaskHandler 定时任务处理器
type TaskHandler struct {
	db           *gorm.DB
	roomRepo     *repository.RoomRepository
	sweepService *reservationService.SweepService
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(db *gorm.DB, sweepSvc *reservationService.SweepService) *TaskHandler {
	return &TaskHandler{
		db:           db,
		roomRepo:     repository.NewRoomRepository(db),
		sweepService: sweepSvc,
	}
}

// SweepReservations 执行一轮预订过期扫描
func (h *TaskHandler) SweepReservations(ctx context.Context) error {
	result, err := h.sweepService.Run(ctx)

	if m := metrics.Get(); m != nil {
		m.RecordSweepRun(err == nil)
		if result != nil {
			m.RecordSweepProcessed(models.ActivityActionAutoExpire, result.ExpiredHolds)
			m.RecordSweepProcessed(models.ActivityActionNoShow, result.NoShows)
		}
	}
	return err
}

// RefreshOccupancyGauge 刷新在住房间数指标
func (h *TaskHandler) RefreshOccupancyGauge(ctx context.Context) error {
	count, err := h.roomRepo.CountOccupied(ctx)
	if err != nil {
		return err
	}
	if m := metrics.Get(); m != nil {
		m.SetOccupiedRooms(int(count))
	}
	return nil
}
