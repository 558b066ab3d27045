package billing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/errors"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/logger"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/utils"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/repository"
)

// LedgerService 账务流水服务
// 流水只追加：completed 流水金额不可变，冲正通过反向流水完成
type LedgerService struct {
	db              *gorm.DB
	ledgerRepo      *repository.LedgerRepository
	paymentModeRepo *repository.PaymentModeRepository
	reservationRepo *repository.ReservationRepository
}

// NewLedgerService 创建账务流水服务
func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{
		db:              db,
		ledgerRepo:      repository.NewLedgerRepository(db),
		paymentModeRepo: repository.NewPaymentModeRepository(db),
		reservationRepo: repository.NewReservationRepository(db),
	}
}

// NetPaid 预订的净已付金额
func (s *LedgerService) NetPaid(ctx context.Context, reservationID int64) (decimal.Decimal, error) {
	return s.ledgerRepo.NetPaid(ctx, reservationID)
}

// ListEntries 查询预订的流水明细
func (s *LedgerService) ListEntries(ctx context.Context, reservationID int64) ([]*models.LedgerEntry, error) {
	if _, err := s.reservationRepo.GetByID(ctx, reservationID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	entries, err := s.ledgerRepo.ListByReservation(ctx, reservationID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return entries, nil
}

// ListPaymentModes 列出启用的支付方式
func (s *LedgerService) ListPaymentModes(ctx context.Context) ([]*models.PaymentMode, error) {
	modes, err := s.paymentModeRepo.ListActive(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return modes, nil
}

// RecordPaymentParams 记录付款参数
type RecordPaymentParams struct {
	ReservationID int64
	Amount        decimal.Decimal
	Type          string // advance / payment / settlement
	PaymentModeID *int64
	ProcessedBy   *int64
	Description   string
}

// RecordPaymentTx 在事务内记录一笔付款流水并同步预订待付金额
// 付款金额必须为正
func RecordPaymentTx(tx *gorm.DB, params *RecordPaymentParams) (*models.LedgerEntry, error) {
	if params.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrInvalidAmount.WithMessage("付款金额必须大于零")
	}
	valid := false
	for _, t := range models.PaymentLedgerTypes {
		if params.Type == t {
			valid = true
			break
		}
	}
	if !valid {
		return nil, errors.ErrInvalidParams.WithMessage("无效的流水类型")
	}

	entry := &models.LedgerEntry{
		EntryNo:       utils.GenerateEntryNo(),
		ReservationID: params.ReservationID,
		Amount:        params.Amount.Round(2),
		Type:          params.Type,
		Status:        models.LedgerStatusCompleted,
		PaymentModeID: params.PaymentModeID,
		ProcessedBy:   params.ProcessedBy,
		Description:   params.Description,
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if err := syncPendingAmountTx(tx, params.ReservationID); err != nil {
		return nil, err
	}
	return entry, nil
}

// RecordRefundParams 记录退款参数
type RecordRefundParams struct {
	ReservationID   int64
	Amount          decimal.Decimal // 正数表示要退的金额
	RequireApproval bool            // 需要审批时流水以 pending 创建
	ProcessedBy     *int64
	Description     string
}

// RecordRefundTx 在事务内记录一笔退款流水
// 存储时金额取负；退款不得超过净已付金额
func RecordRefundTx(tx *gorm.DB, params *RecordRefundParams) (*models.LedgerEntry, error) {
	if params.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrInvalidAmount.WithMessage("退款金额必须大于零")
	}

	netPaid, err := repository.NetPaidTx(tx, params.ReservationID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if netPaid.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrAlreadyRefunded
	}
	if params.Amount.GreaterThan(netPaid) {
		return nil, errors.ErrInvalidAmount.WithMessagef("退款金额超出可退上限 %s", netPaid)
	}

	status := models.LedgerStatusCompleted
	if params.RequireApproval {
		status = models.LedgerStatusPending
	}

	entry := &models.LedgerEntry{
		EntryNo:       utils.GenerateEntryNo(),
		ReservationID: params.ReservationID,
		Amount:        params.Amount.Round(2).Neg(),
		Type:          models.LedgerTypeRefund,
		Status:        status,
		ProcessedBy:   params.ProcessedBy,
		Description:   params.Description,
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if status == models.LedgerStatusCompleted {
		if err := syncPendingAmountTx(tx, params.ReservationID); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

// CompletePendingRefundTx 在事务内完成最早一笔待审批退款
// 没有待审批退款时返回 (nil, nil)
func CompletePendingRefundTx(tx *gorm.DB, reservationID int64, processedBy *int64) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := tx.Where("reservation_id = ? AND type = ? AND status = ?",
		reservationID, models.LedgerTypeRefund, models.LedgerStatusPending).
		Order("id ASC").
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	updates := map[string]interface{}{"status": models.LedgerStatusCompleted}
	if processedBy != nil {
		updates["processed_by"] = *processedBy
	}
	if err := tx.Model(&models.LedgerEntry{}).
		Where("id = ?", entry.ID).
		Updates(updates).Error; err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	entry.Status = models.LedgerStatusCompleted

	if err := syncPendingAmountTx(tx, reservationID); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ApproveRefund 审批通过一笔待处理退款
func (s *LedgerService) ApproveRefund(ctx context.Context, entryID int64, approvedBy int64) (*models.LedgerEntry, error) {
	var approved *models.LedgerEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := findEntryForUpdate(tx, entryID)
		if err != nil {
			return err
		}
		if entry.Type != models.LedgerTypeRefund {
			return errors.ErrInvalidParams.WithMessage("只能审批退款流水")
		}
		if entry.Status != models.LedgerStatusPending {
			return errors.ErrRefundNotPending
		}

		if err := tx.Model(&models.LedgerEntry{}).
			Where("id = ?", entry.ID).
			Updates(map[string]interface{}{
				"status":       models.LedgerStatusCompleted,
				"processed_by": approvedBy,
			}).Error; err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		entry.Status = models.LedgerStatusCompleted

		if err := syncPendingAmountTx(tx, entry.ReservationID); err != nil {
			return err
		}

		// 审批完成即视为人工处理完毕；余款退尽则整单转 refunded
		netPaid, err := repository.NetPaidTx(tx, entry.ReservationID)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		resUpdates := map[string]interface{}{"requires_admin_refund": false}
		if netPaid.LessThanOrEqual(decimal.Zero) {
			resUpdates["status"] = models.ReservationStatusRefunded
		}
		if err := tx.Model(&models.Reservation{}).
			Where("id = ?", entry.ReservationID).
			Updates(resUpdates).Error; err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		if err := repository.AppendActivityTx(tx, entry.ReservationID, models.ActivityActionRefund,
			fmt.Sprintf("退款 %s 审批通过", entry.Amount.Neg()), &approvedBy); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		approved = entry
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.ErrTransactionFailed.WithError(err)
	}

	logger.Info("refund approved",
		logger.ReservationID(approved.ReservationID),
		logger.Amount(approved.Amount.String()),
		logger.StaffID(approvedBy),
	)
	return approved, nil
}

// RejectRefund 驳回一笔待处理退款
func (s *LedgerService) RejectRefund(ctx context.Context, entryID int64, rejectedBy int64) (*models.LedgerEntry, error) {
	var rejected *models.LedgerEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := findEntryForUpdate(tx, entryID)
		if err != nil {
			return err
		}
		if entry.Status != models.LedgerStatusPending {
			return errors.ErrRefundNotPending
		}

		if err := tx.Model(&models.LedgerEntry{}).
			Where("id = ?", entry.ID).
			Updates(map[string]interface{}{
				"status":       models.LedgerStatusFailed,
				"processed_by": rejectedBy,
			}).Error; err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		entry.Status = models.LedgerStatusFailed
		rejected = entry

		return repository.AppendActivityTx(tx, entry.ReservationID, models.ActivityActionRefund,
			fmt.Sprintf("退款 %s 被驳回", entry.Amount.Neg()), &rejectedBy)
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.ErrTransactionFailed.WithError(err)
	}
	return rejected, nil
}

func findEntryForUpdate(tx *gorm.DB, entryID int64) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	if err := tx.First(&entry, entryID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrLedgerEntryNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return &entry, nil
}

// syncPendingAmountTx 重算预订的待付金额
// pending = total - netPaid，下限为零
func syncPendingAmountTx(tx *gorm.DB, reservationID int64) error {
	var reservation models.Reservation
	if err := tx.First(&reservation, reservationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrReservationNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	netPaid, err := repository.NetPaidTx(tx, reservationID)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	pending := reservation.TotalAmount.Sub(netPaid)
	if pending.IsNegative() {
		pending = decimal.Zero
	}

	if err := tx.Model(&models.Reservation{}).
		Where("id = ?", reservationID).
		Update("pending_amount", pending).Error; err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// SyncPendingAmountTx 对外暴露的待付金额重算入口
func SyncPendingAmountTx(tx *gorm.DB, reservationID int64) error {
	return syncPendingAmountTx(tx, reservationID)
}
