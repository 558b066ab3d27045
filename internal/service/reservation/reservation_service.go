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
	"github.com/shakeelviam/salmiya-grand-hotel-backend/pkg/mailer"
)

// Service 预订状态机服务
// 每个状态转换在单个数据库事务内完成：状态、房态、账务流水、操作日志要么全部落库要么全部回滚
type Service struct {
	db              *gorm.DB
	reservationRepo *repository.ReservationRepository
	guestRepo       *repository.GuestRepository
	roomRepo        *repository.RoomRepository
	roomTypeRepo    *repository.RoomTypeRepository
	ledgerRepo      *repository.LedgerRepository
	activityRepo    *repository.ActivityLogRepository
	policyService   *PolicyService
	mailSender      mailer.Sender
	now             func() time.Time
}

// NewService 创建预订服务
func NewService(db *gorm.DB, policyService *PolicyService, mailSender mailer.Sender) *Service {
	if mailSender == nil {
		mailSender = mailer.NopSender{}
	}
	return &Service{
		db:              db,
		reservationRepo: repository.NewReservationRepository(db),
		guestRepo:       repository.NewGuestRepository(db),
		roomRepo:        repository.NewRoomRepository(db),
		roomTypeRepo:    repository.NewRoomTypeRepository(db),
		ledgerRepo:      repository.NewLedgerRepository(db),
		activityRepo:    repository.NewActivityLogRepository(db),
		policyService:   policyService,
		mailSender:      mailSender,
		now:             time.Now,
	}
}

// CreateParams 创建预订参数
type CreateParams struct {
	GuestID       int64
	RoomTypeID    int64
	CheckIn       time.Time
	CheckOut      time.Time
	Adults        int
	Children      int
	ExtraBeds     int
	AdvanceAmount decimal.Decimal // 大于零时立即记一笔预付款并确认
	PaymentModeID *int64
	Notes         *string
	CreatedBy     *int64
}

// Create 创建预订
// 无预付款时为待确认状态，带预付款则直接确认
func (s *Service) Create(ctx context.Context, params *CreateParams) (*models.Reservation, error) {
	guest, err := s.guestRepo.GetByID(ctx, params.GuestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrGuestNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	roomType, err := s.roomTypeRepo.GetByID(ctx, params.RoomTypeID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomTypeNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if !roomType.IsActive {
		return nil, errors.ErrRoomTypeNotFound.WithMessage("房型已停用")
	}

	if err := billing.ValidateCapacity(roomType, params.Adults, params.Children); err != nil {
		return nil, err
	}

	checkIn, err := s.anchorCheckIn(ctx, params.CheckIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := s.anchorCheckOut(ctx, params.CheckOut)
	if err != nil {
		return nil, err
	}

	breakdown, err := billing.CalculateCharges(roomType, checkIn, checkOut, params.ExtraBeds, decimal.Zero)
	if err != nil {
		return nil, err
	}

	if params.AdvanceAmount.IsNegative() {
		return nil, errors.ErrInvalidAmount.WithMessage("预付款不能为负")
	}

	now := s.now()
	reservation := &models.Reservation{
		ReservationNo:   utils.GenerateReservationNo(),
		GuestID:         params.GuestID,
		RoomTypeID:      params.RoomTypeID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Adults:          params.Adults,
		Children:        params.Children,
		ExtraBeds:       params.ExtraBeds,
		RoomCharges:     breakdown.RoomCharges,
		ExtraBedCharges: breakdown.ExtraBedCharges,
		ServiceCharges:  decimal.Zero,
		TotalAmount:     breakdown.TotalAmount,
		AdvanceAmount:   params.AdvanceAmount.Round(2),
		PendingAmount:   breakdown.TotalAmount,
		SettledAmount:   decimal.Zero,
		Status:          models.ReservationStatusUnconfirmed,
		Notes:           params.Notes,
	}

	confirmNow := params.AdvanceAmount.GreaterThan(decimal.Zero)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reservation).Error; err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		if err := repository.AppendActivityTx(tx, reservation.ID, models.ActivityActionCreate,
			fmt.Sprintf("创建预订 %s，总额 %s", reservation.ReservationNo, reservation.TotalAmount), params.CreatedBy); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		if confirmNow {
			if _, err := billing.RecordPaymentTx(tx, &billing.RecordPaymentParams{
				ReservationID: reservation.ID,
				Amount:        params.AdvanceAmount,
				Type:          models.LedgerTypeAdvance,
				PaymentModeID: params.PaymentModeID,
				ProcessedBy:   params.CreatedBy,
				Description:   "预订预付款",
			}); err != nil {
				return err
			}

			if err := tx.Model(&models.Reservation{}).
				Where("id = ?", reservation.ID).
				Updates(map[string]interface{}{
					"status":       models.ReservationStatusConfirmed,
					"confirmed_at": now,
				}).Error; err != nil {
				return errors.ErrDatabaseError.WithError(err)
			}
			reservation.Status = models.ReservationStatusConfirmed
			reservation.ConfirmedAt = &now

			if err := repository.AppendActivityTx(tx, reservation.ID, models.ActivityActionConfirm,
				fmt.Sprintf("收到预付款 %s，预订已确认", params.AdvanceAmount), params.CreatedBy); err != nil {
				return errors.ErrDatabaseError.WithError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err)
	}

	if confirmNow {
		s.sendConfirmationMail(ctx, reservation, guest)
	}

	logger.Info("reservation created",
		logger.ReservationNo(reservation.ReservationNo),
		logger.GuestID(reservation.GuestID),
		logger.String("status", reservation.Status),
		logger.Amount(reservation.TotalAmount.String()),
	)
	return s.reservationRepo.GetByID(ctx, reservation.ID)
}

// Confirm 确认待确认预订
// 收到预付款后调用，金额必须大于零
func (s *Service) Confirm(ctx context.Context, id int64, amount decimal.Decimal, paymentModeID, processedBy *int64) (*models.Reservation, error) {
	var guest *models.Guest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := repository.GetReservationForUpdate(tx, id)
		if err != nil {
			return notFoundOrDB(err)
		}
		if reservation.Status != models.ReservationStatusUnconfirmed {
			return errors.ErrInvalidStatusForTransition.WithMessagef("状态 %s 不允许确认", reservation.Status)
		}

		if _, err := billing.RecordPaymentTx(tx, &billing.RecordPaymentParams{
			ReservationID: id,
			Amount:        amount,
			Type:          models.LedgerTypeAdvance,
			PaymentModeID: paymentModeID,
			ProcessedBy:   processedBy,
			Description:   "预订预付款",
		}); err != nil {
			return err
		}

		now := s.now()
		if err := tx.Model(&models.Reservation{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":         models.ReservationStatusConfirmed,
				"confirmed_at":   now,
				"advance_amount": amount.Round(2),
			}).Error; err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		if err := repository.AppendActivityTx(tx, id, models.ActivityActionConfirm,
			fmt.Sprintf("收到预付款 %s，预订已确认", amount), processedBy); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		guest, _ = s.guestRepo.GetByID(ctx, reservation.GuestID)
		return nil
	})
	if err != nil {
		return nil, asAppError(err)
	}

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	s.sendConfirmationMail(ctx, reservation, guest)
	return reservation, nil
}

// CheckIn 办理入住
// 在事务内对房间加行锁，确认无其他活跃预订占用后落房
func (s *Service) CheckIn(ctx context.Context, id, roomID int64, processedBy *int64) (*models.Reservation, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := repository.GetReservationForUpdate(tx, id)
		if err != nil {
			return notFoundOrDB(err)
		}
		if reservation.Status != models.ReservationStatusConfirmed {
			return errors.ErrInvalidStatusForTransition.WithMessagef("状态 %s 不允许入住", reservation.Status)
		}

		room, err := repository.GetRoomForUpdate(tx, roomID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrRoomNotFound
			}
			return errors.ErrDatabaseError.WithError(err)
		}
		if !room.IsActive {
			return errors.ErrRoomDisabled
		}
		if room.RoomTypeID != reservation.RoomTypeID {
			return errors.ErrRoomTypeMismatch
		}
		if room.Status != models.RoomStatusAvailable {
			return errors.ErrRoomUnavailable
		}

		occupied, err := repository.ExistsActiveReservationByRoomID(tx, roomID, reservation.ID)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if occupied {
			return errors.ErrRoomUnavailable.WithMessage("房间已被其他预订占用")
		}

		now := s.now()
		if err := tx.Model(&models.Reservation{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"room_id":       roomID,
				"status":        models.ReservationStatusCheckedIn,
				"checked_in_at": now,
			}).Error; err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		if err := repository.UpdateRoomStatusTx(tx, roomID, models.RoomStatusOccupied); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		if err := repository.AppendActivityTx(tx, id, models.ActivityActionCheckIn,
			fmt.Sprintf("入住房间 %s", room.RoomNo), processedBy); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err)
	}

	logger.Info("reservation checked in",
		logger.ReservationID(id),
		logger.Int64("room_id", roomID),
	)
	return s.reservationRepo.GetByID(ctx, id)
}

// CheckOutParams 退房参数
type CheckOutParams struct {
	SettlementAmount decimal.Decimal // 退房时收取的结算款，可为零
	PaymentModeID    *int64
	ProcessedBy      *int64
}

// CheckOut 办理退房
// 账务结清转 completed，否则停在 checked_out；房间转入清洁
func (s *Service) CheckOut(ctx context.Context, id int64, params *CheckOutParams) (*models.Reservation, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := repository.GetReservationForUpdate(tx, id)
		if err != nil {
			return notFoundOrDB(err)
		}
		if reservation.Status != models.ReservationStatusCheckedIn {
			return errors.ErrInvalidStatusForTransition.WithMessagef("状态 %s 不允许退房", reservation.Status)
		}

		if params.SettlementAmount.GreaterThan(decimal.Zero) {
			if _, err := billing.RecordPaymentTx(tx, &billing.RecordPaymentParams{
				ReservationID: id,
				Amount:        params.SettlementAmount,
				Type:          models.LedgerTypeSettlement,
				PaymentModeID: params.PaymentModeID,
				ProcessedBy:   params.ProcessedBy,
				Description:   "退房结算",
			}); err != nil {
				return err
			}
		}

		netPaid, err := repository.NetPaidTx(tx, id)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		now := s.now()
		updates := map[string]interface{}{
			"checked_out_at": now,
		}
		settled := netPaid.GreaterThanOrEqual(reservation.TotalAmount)
		if settled {
			updates["status"] = models.ReservationStatusCompleted
			updates["settled_amount"] = netPaid
			updates["pending_amount"] = decimal.Zero
		} else {
			updates["status"] = models.ReservationStatusCheckedOut
		}

		if err := tx.Model(&models.Reservation{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		if reservation.RoomID != nil {
			if err := repository.UpdateRoomStatusTx(tx, *reservation.RoomID, models.RoomStatusCleaning); err != nil {
				return errors.ErrDatabaseError.WithError(err)
			}
		}

		desc := fmt.Sprintf("退房，已付 %s / 应付 %s", netPaid, reservation.TotalAmount)
		if settled {
			desc = fmt.Sprintf("退房并结清，合计 %s", netPaid)
		}
		if err := repository.AppendActivityTx(tx, id, models.ActivityActionCheckOut, desc, params.ProcessedBy); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err)
	}
	return s.reservationRepo.GetByID(ctx, id)
}

// SettleOutstanding 补收退房后的欠款，结清后转 completed
func (s *Service) SettleOutstanding(ctx context.Context, id int64, amount decimal.Decimal, paymentModeID, processedBy *int64) (*models.Reservation, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := repository.GetReservationForUpdate(tx, id)
		if err != nil {
			return notFoundOrDB(err)
		}
		if reservation.Status != models.ReservationStatusCheckedOut {
			return errors.ErrInvalidStatusForTransition.WithMessagef("状态 %s 不允许补收", reservation.Status)
		}

		if _, err := billing.RecordPaymentTx(tx, &billing.RecordPaymentParams{
			ReservationID: id,
			Amount:        amount,
			Type:          models.LedgerTypeSettlement,
			PaymentModeID: paymentModeID,
			ProcessedBy:   processedBy,
			Description:   "欠款补收",
		}); err != nil {
			return err
		}

		netPaid, err := repository.NetPaidTx(tx, id)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if netPaid.GreaterThanOrEqual(reservation.TotalAmount) {
			if err := tx.Model(&models.Reservation{}).
				Where("id = ?", id).
				Updates(map[string]interface{}{
					"status":         models.ReservationStatusCompleted,
					"settled_amount": netPaid,
					"pending_amount": decimal.Zero,
				}).Error; err != nil {
				return errors.ErrDatabaseError.WithError(err)
			}
		}

		return repository.AppendActivityTx(tx, id, models.ActivityActionPayment,
			fmt.Sprintf("补收 %s", amount), processedBy)
	})
	if err != nil {
		return nil, asAppError(err)
	}
	return s.reservationRepo.GetByID(ctx, id)
}

// Cancel 取消预订
// 待确认和已确认可取消；按策略计算手续费，余款生成退款流水
func (s *Service) Cancel(ctx context.Context, id int64, reason string, processedBy *int64) (*models.Reservation, error) {
	policy, err := s.policyService.GetPolicy(ctx)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := repository.GetReservationForUpdate(tx, id)
		if err != nil {
			return notFoundOrDB(err)
		}
		if reservation.Status != models.ReservationStatusUnconfirmed &&
			reservation.Status != models.ReservationStatusConfirmed {
			return errors.ErrInvalidStatusForTransition.WithMessagef("状态 %s 不允许取消", reservation.Status)
		}

		now := s.now()
		updates := map[string]interface{}{
			"status":              models.ReservationStatusCancelled,
			"cancelled_at":        now,
			"cancellation_reason": reason,
		}

		netPaid, err := repository.NetPaidTx(tx, id)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		refundable := decimal.Zero
		if netPaid.GreaterThan(decimal.Zero) {
			fee := CancellationFee(policy, netPaid)
			refundable = netPaid.Sub(fee)
			if refundable.GreaterThan(decimal.Zero) {
				if policy.RefundApprovalRequired {
					updates["requires_admin_refund"] = true
				}
				if _, err := billing.RecordRefundTx(tx, &billing.RecordRefundParams{
					ReservationID:   id,
					Amount:          refundable,
					RequireApproval: policy.RefundApprovalRequired,
					ProcessedBy:     processedBy,
					Description:     fmt.Sprintf("取消退款（手续费 %s）", fee),
				}); err != nil {
					return err
				}
			}
		}

		if err := tx.Model(&models.Reservation{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		desc := fmt.Sprintf("取消预订：%s", reason)
		if refundable.GreaterThan(decimal.Zero) {
			desc = fmt.Sprintf("取消预订：%s，应退 %s", reason, refundable)
		}
		return repository.AppendActivityTx(tx, id, models.ActivityActionCancel, desc, processedBy)
	})
	if err != nil {
		return nil, asAppError(err)
	}

	logger.Info("reservation cancelled", logger.ReservationID(id), logger.String("reason", reason))
	return s.reservationRepo.GetByID(ctx, id)
}

// MarkNoShow 标记未入住
// 超过策略判定时刻的已确认预订转 no_show，按比例退款
func (s *Service) MarkNoShow(ctx context.Context, id int64, processedBy *int64) (*models.Reservation, error) {
	policy, err := s.policyService.GetPolicy(ctx)
	if err != nil {
		return nil, err
	}
	return s.markNoShowWithPolicy(ctx, id, policy, processedBy)
}

// markNoShowWithPolicy 扫描任务复用的内部入口，策略快照由调用方提供
func (s *Service) markNoShowWithPolicy(ctx context.Context, id int64, policy *models.HotelPolicy, processedBy *int64) (*models.Reservation, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := repository.GetReservationForUpdate(tx, id)
		if err != nil {
			return notFoundOrDB(err)
		}
		if reservation.Status != models.ReservationStatusConfirmed {
			return errors.ErrInvalidStatusForTransition.WithMessagef("状态 %s 不允许标记未入住", reservation.Status)
		}
		if !IsNoShowEligible(policy, reservation.CheckIn, s.now()) {
			return errors.ErrInvalidParams.WithMessage("尚未到未入住判定时刻")
		}

		now := s.now()
		updates := map[string]interface{}{
			"status":     models.ReservationStatusNoShow,
			"no_show_at": now,
		}

		netPaid, err := repository.NetPaidTx(tx, id)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		refund := NoShowRefundAmount(policy, netPaid)
		if refund.GreaterThan(decimal.Zero) {
			if policy.RefundApprovalRequired {
				updates["requires_admin_refund"] = true
			}
			if _, err := billing.RecordRefundTx(tx, &billing.RecordRefundParams{
				ReservationID:   id,
				Amount:          refund,
				RequireApproval: policy.RefundApprovalRequired,
				ProcessedBy:     processedBy,
				Description:     fmt.Sprintf("未入住退款 %s%%", policy.NoShowRefundPercent),
			}); err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Reservation{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		return repository.AppendActivityTx(tx, id, models.ActivityActionNoShow,
			fmt.Sprintf("标记未入住，已付 %s，应退 %s", netPaid, refund), processedBy)
	})
	if err != nil {
		return nil, asAppError(err)
	}

	logger.Info("reservation marked no-show", logger.ReservationID(id))
	return s.reservationRepo.GetByID(ctx, id)
}

// Refund 手工退款
// 仅 confirmed / cancelled / no_show 可退；退完剩余款后转 refunded
func (s *Service) Refund(ctx context.Context, id int64, amount decimal.Decimal, processedBy *int64) (*models.Reservation, error) {
	policy, err := s.policyService.GetPolicy(ctx)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := repository.GetReservationForUpdate(tx, id)
		if err != nil {
			return notFoundOrDB(err)
		}
		if !reservation.CanRefund() {
			return errors.ErrInvalidStatusForTransition.WithMessagef("状态 %s 不允许退款", reservation.Status)
		}

		entry, err := billing.RecordRefundTx(tx, &billing.RecordRefundParams{
			ReservationID:   id,
			Amount:          amount,
			RequireApproval: policy.RefundApprovalRequired,
			ProcessedBy:     processedBy,
			Description:     "人工退款",
		})
		if err != nil {
			return err
		}

		if entry.Status == models.LedgerStatusCompleted {
			netPaid, err := repository.NetPaidTx(tx, id)
			if err != nil {
				return errors.ErrDatabaseError.WithError(err)
			}
			if netPaid.LessThanOrEqual(decimal.Zero) {
				if err := tx.Model(&models.Reservation{}).
					Where("id = ?", id).
					Updates(map[string]interface{}{
						"status":                models.ReservationStatusRefunded,
						"requires_admin_refund": false,
					}).Error; err != nil {
					return errors.ErrDatabaseError.WithError(err)
				}
			}
		}

		return repository.AppendActivityTx(tx, id, models.ActivityActionRefund,
			fmt.Sprintf("退款 %s", amount), processedBy)
	})
	if err != nil {
		return nil, asAppError(err)
	}
	return s.reservationRepo.GetByID(ctx, id)
}

// AdminRefund 管理员退款
// 已有待审批退款时直接完成该笔；否则按余款现退：cancelled 退净已付全额，
// no_show 按策略比例保留罚金。完成后整单转 refunded 并清除待退标记
func (s *Service) AdminRefund(ctx context.Context, id int64, processedBy *int64) (*models.Reservation, error) {
	policy, err := s.policyService.GetPolicy(ctx)
	if err != nil {
		return nil, err
	}

	var refunded decimal.Decimal
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := repository.GetReservationForUpdate(tx, id)
		if err != nil {
			return notFoundOrDB(err)
		}
		if !reservation.CanRefund() {
			return errors.ErrInvalidStatusForTransition.WithMessagef("状态 %s 不允许退款", reservation.Status)
		}

		netPaid, err := repository.NetPaidTx(tx, id)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if netPaid.LessThanOrEqual(decimal.Zero) {
			return errors.ErrAlreadyRefunded
		}

		completed, err := billing.CompletePendingRefundTx(tx, id, processedBy)
		if err != nil {
			return err
		}
		if completed != nil {
			refunded = completed.Amount.Neg()
		} else {
			refunded = netPaid
			if reservation.Status == models.ReservationStatusNoShow {
				refunded = NoShowRefundAmount(policy, netPaid)
			}
			if refunded.LessThanOrEqual(decimal.Zero) {
				return errors.ErrAlreadyRefunded.WithMessage("按策略无可退金额")
			}
			if _, err := billing.RecordRefundTx(tx, &billing.RecordRefundParams{
				ReservationID: id,
				Amount:        refunded,
				ProcessedBy:   processedBy,
				Description:   "管理员退款",
			}); err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Reservation{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":                models.ReservationStatusRefunded,
				"requires_admin_refund": false,
			}).Error; err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		return repository.AppendActivityTx(tx, id, models.ActivityActionRefund,
			fmt.Sprintf("管理员退款 %s", refunded), processedBy)
	})
	if err != nil {
		return nil, asAppError(err)
	}

	logger.Info("admin refund issued", logger.ReservationID(id))
	return s.reservationRepo.GetByID(ctx, id)
}

// ExtendStay 延住
// 仅在住预订可延，新退房时间必须晚于当前退房时间，重算房费与加床费
func (s *Service) ExtendStay(ctx context.Context, id int64, newCheckOut time.Time, processedBy *int64) (*models.Reservation, error) {
	newCheckOut, err := s.anchorCheckOut(ctx, newCheckOut)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := repository.GetReservationForUpdate(tx, id)
		if err != nil {
			return notFoundOrDB(err)
		}
		if reservation.Status != models.ReservationStatusCheckedIn {
			return errors.ErrReservationNotCheckedIn
		}
		if !newCheckOut.After(reservation.CheckOut) {
			return errors.ErrInvalidDateRange.WithMessage("新退房时间必须晚于当前退房时间")
		}

		var roomType models.RoomType
		if err := tx.First(&roomType, reservation.RoomTypeID).Error; err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		breakdown, err := billing.CalculateCharges(&roomType, reservation.CheckIn, newCheckOut, reservation.ExtraBeds, reservation.ServiceCharges)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Reservation{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"check_out":         newCheckOut,
				"room_charges":      breakdown.RoomCharges,
				"extra_bed_charges": breakdown.ExtraBedCharges,
				"total_amount":      breakdown.TotalAmount,
			}).Error; err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		if err := billing.SyncPendingAmountTx(tx, id); err != nil {
			return err
		}

		return repository.AppendActivityTx(tx, id, models.ActivityActionExtend,
			fmt.Sprintf("延住至 %s，新总额 %s", newCheckOut.Format("2006-01-02 15:04"), breakdown.TotalAmount), processedBy)
	})
	if err != nil {
		return nil, asAppError(err)
	}
	return s.reservationRepo.GetByID(ctx, id)
}

// RecordPayment 在住期间或确认后补收款项
func (s *Service) RecordPayment(ctx context.Context, id int64, amount decimal.Decimal, paymentModeID, processedBy *int64) (*models.Reservation, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := repository.GetReservationForUpdate(tx, id)
		if err != nil {
			return notFoundOrDB(err)
		}
		switch reservation.Status {
		case models.ReservationStatusConfirmed, models.ReservationStatusCheckedIn:
		default:
			return errors.ErrInvalidStatusForTransition.WithMessagef("状态 %s 不允许收款", reservation.Status)
		}

		if _, err := billing.RecordPaymentTx(tx, &billing.RecordPaymentParams{
			ReservationID: id,
			Amount:        amount,
			Type:          models.LedgerTypePayment,
			PaymentModeID: paymentModeID,
			ProcessedBy:   processedBy,
			Description:   "收款",
		}); err != nil {
			return err
		}

		return repository.AppendActivityTx(tx, id, models.ActivityActionPayment,
			fmt.Sprintf("收款 %s", amount), processedBy)
	})
	if err != nil {
		return nil, asAppError(err)
	}
	return s.reservationRepo.GetByID(ctx, id)
}

// GetByID 查询预订详情
func (s *Service) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return reservation, nil
}

// List 查询预订列表
func (s *Service) List(ctx context.Context, params *repository.ReservationListParams) ([]*models.Reservation, int64, error) {
	list, total, err := s.reservationRepo.List(ctx, params)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return list, total, nil
}

// ListActivity 查询预订操作日志
func (s *Service) ListActivity(ctx context.Context, id int64) ([]*models.ActivityLog, error) {
	if _, err := s.reservationRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	logs, err := s.activityRepo.ListByReservation(ctx, id)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return logs, nil
}

// sendConfirmationMail 发送确认邮件，失败只记日志不影响业务
func (s *Service) sendConfirmationMail(ctx context.Context, reservation *models.Reservation, guest *models.Guest) {
	if guest == nil || guest.Email == nil || *guest.Email == "" {
		return
	}
	body := fmt.Sprintf(
		"尊敬的 %s：\n\n您的预订 %s 已确认。\n入住：%s\n退房：%s\n总额：%s\n\nSalmiya Grand Hotel",
		guest.Name,
		reservation.ReservationNo,
		reservation.CheckIn.Format("2006-01-02 15:04"),
		reservation.CheckOut.Format("2006-01-02 15:04"),
		reservation.TotalAmount,
	)
	if err := s.mailSender.Send(ctx, *guest.Email, "预订确认 "+reservation.ReservationNo, body); err != nil {
		logger.Warn("confirmation mail failed",
			logger.ReservationNo(reservation.ReservationNo),
			logger.Err(err),
		)
	}
}

// anchorCheckIn 日期型（零点）入住时间补齐为策略入住时刻
func (s *Service) anchorCheckIn(ctx context.Context, t time.Time) (time.Time, error) {
	return s.anchorToPolicyClock(ctx, t, func(p *models.HotelPolicy) string { return p.CheckInTime })
}

// anchorCheckOut 日期型（零点）退房时间补齐为策略退房时刻
func (s *Service) anchorCheckOut(ctx context.Context, t time.Time) (time.Time, error) {
	return s.anchorToPolicyClock(ctx, t, func(p *models.HotelPolicy) string { return p.CheckOutTime })
}

func (s *Service) anchorToPolicyClock(ctx context.Context, t time.Time, clock func(*models.HotelPolicy) string) (time.Time, error) {
	if !t.Equal(utils.TruncateToDay(t)) {
		return t, nil
	}
	policy, err := s.policyService.GetPolicy(ctx)
	if err != nil {
		return time.Time{}, err
	}
	anchored, err := utils.CombineDateAndClock(t, clock(policy))
	if err != nil {
		return time.Time{}, errors.ErrInvalidPolicyValue.WithError(err)
	}
	return anchored, nil
}

func notFoundOrDB(err error) error {
	if err == gorm.ErrRecordNotFound {
		return errors.ErrReservationNotFound
	}
	return errors.ErrDatabaseError.WithError(err)
}

func asAppError(err error) *errors.AppError {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr
	}
	return errors.ErrTransactionFailed.WithError(err)
}
