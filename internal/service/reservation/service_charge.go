package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/errors"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/logger"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/utils"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/repository"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/service/billing"
)

// ServiceChargeService 客房服务费调整服务
// 只对在住预订生效：下单累加服务费，取消反向冲减并在零值处截断
type ServiceChargeService struct {
	db        *gorm.DB
	orderRepo *repository.ServiceOrderRepository
}

// NewServiceChargeService 创建服务费调整服务
func NewServiceChargeService(db *gorm.DB) *ServiceChargeService {
	return &ServiceChargeService{
		db:        db,
		orderRepo: repository.NewServiceOrderRepository(db),
	}
}

// ApplyChargeParams 下单参数
type ApplyChargeParams struct {
	ReservationID int64
	ItemName      string
	Quantity      int
	UnitPrice     decimal.Decimal
	PlacedBy      *int64
}

// ApplyCharge 下客房服务单并把金额计入预订服务费
func (s *ServiceChargeService) ApplyCharge(ctx context.Context, params *ApplyChargeParams) (*models.ServiceOrder, error) {
	if params.Quantity < 1 {
		return nil, errors.ErrInvalidParams.WithMessage("数量至少为 1")
	}
	if params.UnitPrice.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrInvalidAmount.WithMessage("单价必须大于零")
	}

	amount := params.UnitPrice.Mul(decimal.NewFromInt(int64(params.Quantity))).Round(2)

	var order *models.ServiceOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := repository.GetReservationForUpdate(tx, params.ReservationID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrReservationNotFound
			}
			return errors.ErrDatabaseError.WithError(err)
		}
		if reservation.Status != models.ReservationStatusCheckedIn {
			return errors.ErrReservationNotCheckedIn
		}

		order = &models.ServiceOrder{
			OrderNo:       utils.GenerateServiceOrderNo(),
			ReservationID: params.ReservationID,
			ItemName:      params.ItemName,
			Quantity:      params.Quantity,
			Amount:        amount,
			Status:        models.ServiceOrderStatusPlaced,
			PlacedBy:      params.PlacedBy,
		}
		if err := tx.Create(order).Error; err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		newServiceCharges := reservation.ServiceCharges.Add(amount)
		newTotal := reservation.TotalAmount.Add(amount)
		if err := tx.Model(&models.Reservation{}).
			Where("id = ?", params.ReservationID).
			Updates(map[string]interface{}{
				"service_charges": newServiceCharges,
				"total_amount":    newTotal,
			}).Error; err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		if err := billing.SyncPendingAmountTx(tx, params.ReservationID); err != nil {
			return err
		}

		return repository.AppendActivityTx(tx, params.ReservationID, models.ActivityActionServiceCharge,
			fmt.Sprintf("客房服务 %s x%d，金额 %s", params.ItemName, params.Quantity, amount), params.PlacedBy)
	})
	if err != nil {
		return nil, asAppError(err)
	}

	logger.Info("service charge applied",
		logger.ReservationID(params.ReservationID),
		logger.String("item", params.ItemName),
		logger.Amount(amount.String()),
	)
	return order, nil
}

// ReverseCharge 取消客房服务单并冲减预订服务费
// 服务费与总额在零值处截断，不允许出现负数
func (s *ServiceChargeService) ReverseCharge(ctx context.Context, orderID int64, cancelledBy *int64) (*models.ServiceOrder, error) {
	var order *models.ServiceOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = repository.GetServiceOrderForUpdate(tx, orderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrServiceOrderNotFound
			}
			return errors.ErrDatabaseError.WithError(err)
		}
		if order.Status == models.ServiceOrderStatusCancelled {
			return errors.ErrServiceOrderCancelled
		}

		reservation, err := repository.GetReservationForUpdate(tx, order.ReservationID)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if reservation.Status != models.ReservationStatusCheckedIn {
			return errors.ErrReservationNotCheckedIn
		}

		newServiceCharges := reservation.ServiceCharges.Sub(order.Amount)
		if newServiceCharges.IsNegative() {
			newServiceCharges = decimal.Zero
		}
		newTotal := reservation.TotalAmount.Sub(order.Amount)
		floor := reservation.RoomCharges.Add(reservation.ExtraBedCharges)
		if newTotal.LessThan(floor) {
			newTotal = floor
		}

		now := time.Now()
		if err := tx.Model(&models.ServiceOrder{}).
			Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"status":       models.ServiceOrderStatusCancelled,
				"cancelled_at": now,
			}).Error; err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		order.Status = models.ServiceOrderStatusCancelled

		if err := tx.Model(&models.Reservation{}).
			Where("id = ?", order.ReservationID).
			Updates(map[string]interface{}{
				"service_charges": newServiceCharges,
				"total_amount":    newTotal,
			}).Error; err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		if err := billing.SyncPendingAmountTx(tx, order.ReservationID); err != nil {
			return err
		}

		return repository.AppendActivityTx(tx, order.ReservationID, models.ActivityActionServiceCharge,
			fmt.Sprintf("取消客房服务 %s，冲减 %s", order.ItemName, order.Amount), cancelledBy)
	})
	if err != nil {
		return nil, asAppError(err)
	}
	return order, nil
}

// ListByReservation 查询预订的服务单
func (s *ServiceChargeService) ListByReservation(ctx context.Context, reservationID int64) ([]*models.ServiceOrder, error) {
	orders, err := s.orderRepo.ListByReservation(ctx, reservationID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return orders, nil
}
