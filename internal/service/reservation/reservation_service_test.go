// Package reservation 预订状态机单元测试
package reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/errors"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/utils"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
	billingService "github.com/shakeelviam/salmiya-grand-hotel-backend/internal/service/billing"
)

// fakeMailSender 记录发送的邮件
type fakeMailSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeMailSender) Send(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	return nil
}

type testEnv struct {
	db       *gorm.DB
	svc      *Service
	policy   *PolicyService
	mail     *fakeMailSender
	guest    *models.Guest
	roomType *models.RoomType
	room     *models.Room
}

func setupEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Guest{}, &models.RoomType{}, &models.Room{},
		&models.Reservation{}, &models.LedgerEntry{}, &models.PaymentMode{},
		&models.ServiceOrder{}, &models.HotelPolicy{}, &models.ActivityLog{},
	)
	require.NoError(t, err)

	// 缓存在单元测试中关闭，直接读库
	policyService := NewPolicyService(db, false)
	require.NoError(t, policyService.EnsureDefaultPolicy(context.Background()))

	mail := &fakeMailSender{}
	svc := NewService(db, policyService, mail)

	email := "guest@example.com"
	guest := &models.Guest{Name: "测试住客", Email: &email}
	require.NoError(t, db.Create(guest).Error)

	roomType := &models.RoomType{
		Name: "标准间", Code: "STD",
		BasePrice:      decimal.NewFromInt(100),
		ExtraBedCharge: decimal.NewFromInt(30),
		AdultCapacity:  2, ChildCapacity: 1, IsActive: true,
	}
	require.NoError(t, db.Create(roomType).Error)

	room := &models.Room{
		RoomNo: "101", Floor: 1, RoomTypeID: roomType.ID,
		Status: models.RoomStatusAvailable, IsActive: true, IsAvailable: true,
	}
	require.NoError(t, db.Create(room).Error)

	return &testEnv{db: db, svc: svc, policy: policyService, mail: mail, guest: guest, roomType: roomType, room: room}
}

func (e *testEnv) setPolicy(t *testing.T, mutate func(*models.HotelPolicy)) {
	t.Helper()
	policy, err := e.policy.GetPolicy(context.Background())
	require.NoError(t, err)
	mutate(policy)
	_, err = e.policy.UpdatePolicy(context.Background(), policy)
	require.NoError(t, err)
}

func (e *testEnv) createConfirmed(t *testing.T, advance int64) *models.Reservation {
	t.Helper()
	now := time.Now()
	reservation, err := e.svc.Create(context.Background(), &CreateParams{
		GuestID:       e.guest.ID,
		RoomTypeID:    e.roomType.ID,
		CheckIn:       now.Add(24 * time.Hour),
		CheckOut:      now.Add(72 * time.Hour),
		Adults:        2,
		AdvanceAmount: decimal.NewFromInt(advance),
	})
	require.NoError(t, err)
	return reservation
}

func activityActions(t *testing.T, db *gorm.DB, reservationID int64) []string {
	t.Helper()
	var logs []models.ActivityLog
	require.NoError(t, db.Where("reservation_id = ?", reservationID).Order("id ASC").Find(&logs).Error)
	actions := make([]string, 0, len(logs))
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	return actions
}

func TestCreate_Unconfirmed(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	now := time.Now()
	reservation, err := env.svc.Create(ctx, &CreateParams{
		GuestID:    env.guest.ID,
		RoomTypeID: env.roomType.ID,
		CheckIn:    now.Add(24 * time.Hour),
		CheckOut:   now.Add(72 * time.Hour),
		Adults:     2,
		ExtraBeds:  1,
	})
	require.NoError(t, err)

	assert.Equal(t, models.ReservationStatusUnconfirmed, reservation.Status)
	// 两晚：房费 200 + 加床 60
	assert.True(t, reservation.RoomCharges.Equal(decimal.NewFromInt(200)))
	assert.True(t, reservation.ExtraBedCharges.Equal(decimal.NewFromInt(60)))
	assert.True(t, reservation.TotalAmount.Equal(decimal.NewFromInt(260)))
	assert.True(t, reservation.PendingAmount.Equal(decimal.NewFromInt(260)))
	assert.NotEmpty(t, reservation.ReservationNo)
	assert.Empty(t, env.mail.sent)

	assert.Equal(t, []string{models.ActivityActionCreate}, activityActions(t, env.db, reservation.ID))
}

func TestCreate_WithAdvanceConfirmsImmediately(t *testing.T) {
	env := setupEnv(t)

	reservation := env.createConfirmed(t, 100)

	assert.Equal(t, models.ReservationStatusConfirmed, reservation.Status)
	require.NotNil(t, reservation.ConfirmedAt)
	assert.True(t, reservation.PendingAmount.Equal(decimal.NewFromInt(100)), "pending = %s", reservation.PendingAmount)
	assert.Equal(t, []string{models.ActivityActionCreate, models.ActivityActionConfirm}, activityActions(t, env.db, reservation.ID))
	assert.Len(t, env.mail.sent, 1)
}

func TestCreate_InvalidDateRange(t *testing.T) {
	env := setupEnv(t)

	_, err := env.svc.Create(context.Background(), &CreateParams{
		GuestID:    env.guest.ID,
		RoomTypeID: env.roomType.ID,
		CheckIn:    time.Now().Add(72 * time.Hour),
		CheckOut:   time.Now().Add(24 * time.Hour),
		Adults:     1,
	})
	assert.ErrorIs(t, err, errors.ErrInvalidDateRange)
}

func TestCreate_CapacityExceeded(t *testing.T) {
	env := setupEnv(t)

	_, err := env.svc.Create(context.Background(), &CreateParams{
		GuestID:    env.guest.ID,
		RoomTypeID: env.roomType.ID,
		CheckIn:    time.Now().Add(24 * time.Hour),
		CheckOut:   time.Now().Add(48 * time.Hour),
		Adults:     3,
	})
	assert.ErrorIs(t, err, errors.ErrCapacityExceeded)
}

func TestCreate_DateOnlyAnchoredToPolicyClock(t *testing.T) {
	env := setupEnv(t)

	checkIn := utils.TruncateToDay(time.Now().Add(48 * time.Hour))
	checkOut := utils.TruncateToDay(time.Now().Add(96 * time.Hour))
	reservation, err := env.svc.Create(context.Background(), &CreateParams{
		GuestID:    env.guest.ID,
		RoomTypeID: env.roomType.ID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Adults:     2,
	})
	require.NoError(t, err)

	// 默认策略 14:00 入住 12:00 退房
	assert.Equal(t, 14, reservation.CheckIn.Hour())
	assert.Equal(t, 12, reservation.CheckOut.Hour())
	// 对齐后 14:00 至 12:00 的两天区间仍按两晚计
	assert.True(t, reservation.RoomCharges.Equal(decimal.NewFromInt(200)), "room charges = %s", reservation.RoomCharges)
}

func TestConfirm(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	now := time.Now()
	reservation, err := env.svc.Create(ctx, &CreateParams{
		GuestID:    env.guest.ID,
		RoomTypeID: env.roomType.ID,
		CheckIn:    now.Add(24 * time.Hour),
		CheckOut:   now.Add(72 * time.Hour),
		Adults:     2,
	})
	require.NoError(t, err)

	confirmed, err := env.svc.Confirm(ctx, reservation.ID, decimal.NewFromInt(80), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusConfirmed, confirmed.Status)
	assert.True(t, confirmed.PendingAmount.Equal(decimal.NewFromInt(120)))

	// 重复确认
	_, err = env.svc.Confirm(ctx, reservation.ID, decimal.NewFromInt(10), nil, nil)
	assert.ErrorIs(t, err, errors.ErrInvalidStatusForTransition)
}

func TestCheckIn(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	reservation := env.createConfirmed(t, 100)

	checkedIn, err := env.svc.CheckIn(ctx, reservation.ID, env.room.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCheckedIn, checkedIn.Status)
	require.NotNil(t, checkedIn.RoomID)
	assert.Equal(t, env.room.ID, *checkedIn.RoomID)
	require.NotNil(t, checkedIn.CheckedInAt)

	var room models.Room
	require.NoError(t, env.db.First(&room, env.room.ID).Error)
	assert.Equal(t, models.RoomStatusOccupied, room.Status)
	assert.False(t, room.IsAvailable)
}

func TestCheckIn_RoomOccupiedByOther(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	first := env.createConfirmed(t, 100)
	_, err := env.svc.CheckIn(ctx, first.ID, env.room.ID, nil)
	require.NoError(t, err)

	second := env.createConfirmed(t, 100)
	_, err = env.svc.CheckIn(ctx, second.ID, env.room.ID, nil)
	assert.ErrorIs(t, err, errors.ErrRoomUnavailable)
}

func TestCheckIn_RoomTypeMismatch(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	other := &models.RoomType{
		Name: "套房", Code: "SUI",
		BasePrice: decimal.NewFromInt(300), ExtraBedCharge: decimal.NewFromInt(50),
		AdultCapacity: 3, ChildCapacity: 2, IsActive: true,
	}
	require.NoError(t, env.db.Create(other).Error)
	suiteRoom := &models.Room{RoomNo: "501", RoomTypeID: other.ID, Status: models.RoomStatusAvailable, IsActive: true, IsAvailable: true}
	require.NoError(t, env.db.Create(suiteRoom).Error)

	reservation := env.createConfirmed(t, 100)
	_, err := env.svc.CheckIn(ctx, reservation.ID, suiteRoom.ID, nil)
	assert.ErrorIs(t, err, errors.ErrRoomTypeMismatch)
}

func TestCheckIn_RequiresConfirmed(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	reservation, err := env.svc.Create(ctx, &CreateParams{
		GuestID:    env.guest.ID,
		RoomTypeID: env.roomType.ID,
		CheckIn:    time.Now().Add(24 * time.Hour),
		CheckOut:   time.Now().Add(48 * time.Hour),
		Adults:     1,
	})
	require.NoError(t, err)

	_, err = env.svc.CheckIn(ctx, reservation.ID, env.room.ID, nil)
	assert.ErrorIs(t, err, errors.ErrInvalidStatusForTransition)
}

func TestCheckOut_FullySettledCompletes(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	reservation := env.createConfirmed(t, 100) // 总额 200
	_, err := env.svc.CheckIn(ctx, reservation.ID, env.room.ID, nil)
	require.NoError(t, err)

	out, err := env.svc.CheckOut(ctx, reservation.ID, &CheckOutParams{
		SettlementAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	assert.Equal(t, models.ReservationStatusCompleted, out.Status)
	assert.True(t, out.SettledAmount.Equal(decimal.NewFromInt(200)))
	assert.True(t, out.PendingAmount.IsZero())
	require.NotNil(t, out.CheckedOutAt)

	var room models.Room
	require.NoError(t, env.db.First(&room, env.room.ID).Error)
	assert.Equal(t, models.RoomStatusCleaning, room.Status)
}

func TestCheckOut_OutstandingStaysCheckedOut(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	reservation := env.createConfirmed(t, 100) // 总额 200
	_, err := env.svc.CheckIn(ctx, reservation.ID, env.room.ID, nil)
	require.NoError(t, err)

	out, err := env.svc.CheckOut(ctx, reservation.ID, &CheckOutParams{SettlementAmount: decimal.Zero})
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCheckedOut, out.Status)
	assert.True(t, out.PendingAmount.Equal(decimal.NewFromInt(100)))

	// 补收欠款后转完成
	settled, err := env.svc.SettleOutstanding(ctx, reservation.ID, decimal.NewFromInt(100), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCompleted, settled.Status)
	assert.True(t, settled.PendingAmount.IsZero())
}

func TestCancel_RefundsNetPaidMinusFee(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.setPolicy(t, func(p *models.HotelPolicy) {
		p.CancellationFeePercent = decimal.NewFromInt(10)
	})

	reservation := env.createConfirmed(t, 100)

	cancelled, err := env.svc.Cancel(ctx, reservation.ID, "行程变更", nil)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	require.NotNil(t, cancelled.CancellationReason)

	// 已付 100，手续费 10，退 90
	var refund models.LedgerEntry
	require.NoError(t, env.db.Where("reservation_id = ? AND type = ?", reservation.ID, models.LedgerTypeRefund).First(&refund).Error)
	assert.True(t, refund.Amount.Equal(decimal.NewFromInt(-90)), "refund = %s", refund.Amount)
	assert.Equal(t, models.LedgerStatusCompleted, refund.Status)
}

func TestCancel_UnpaidNoRefundEntry(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	reservation, err := env.svc.Create(ctx, &CreateParams{
		GuestID:    env.guest.ID,
		RoomTypeID: env.roomType.ID,
		CheckIn:    time.Now().Add(24 * time.Hour),
		CheckOut:   time.Now().Add(48 * time.Hour),
		Adults:     1,
	})
	require.NoError(t, err)

	cancelled, err := env.svc.Cancel(ctx, reservation.ID, "未付款取消", nil)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCancelled, cancelled.Status)

	var count int64
	require.NoError(t, env.db.Model(&models.LedgerEntry{}).Where("reservation_id = ?", reservation.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCancel_TerminalStateRejected(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	reservation := env.createConfirmed(t, 100)
	_, err := env.svc.CheckIn(ctx, reservation.ID, env.room.ID, nil)
	require.NoError(t, err)

	_, err = env.svc.Cancel(ctx, reservation.ID, "太晚了", nil)
	assert.ErrorIs(t, err, errors.ErrInvalidStatusForTransition)
}

func TestMarkNoShow_RefundsPolicyPercent(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	reservation := env.createConfirmed(t, 200)
	// 回拨入住时间使其超过判定时刻（默认 12 小时）
	require.NoError(t, env.db.Model(&models.Reservation{}).
		Where("id = ?", reservation.ID).
		Update("check_in", time.Now().Add(-20*time.Hour)).Error)

	marked, err := env.svc.MarkNoShow(ctx, reservation.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusNoShow, marked.Status)
	require.NotNil(t, marked.NoShowAt)

	// 默认退款比例 50%：退 100
	var refund models.LedgerEntry
	require.NoError(t, env.db.Where("reservation_id = ? AND type = ?", reservation.ID, models.LedgerTypeRefund).First(&refund).Error)
	assert.True(t, refund.Amount.Equal(decimal.NewFromInt(-100)), "refund = %s", refund.Amount)
}

func TestMarkNoShow_BeforeCutoffRejected(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	reservation := env.createConfirmed(t, 100)

	_, err := env.svc.MarkNoShow(ctx, reservation.ID, nil)
	assert.ErrorIs(t, err, errors.ErrInvalidParams)
}

func TestRefund_RemainingExhaustedBecomesRefunded(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	reservation := env.createConfirmed(t, 150)
	cancelled, err := env.svc.Cancel(ctx, reservation.ID, "测试", nil)
	require.NoError(t, err)
	// 默认无手续费，取消时已全额退款
	assert.Equal(t, models.ReservationStatusCancelled, cancelled.Status)

	// 再退报 ErrAlreadyRefunded
	_, err = env.svc.Refund(ctx, reservation.ID, decimal.NewFromInt(10), nil)
	assert.ErrorIs(t, err, errors.ErrAlreadyRefunded)
}

func TestRefund_PartialThenFull(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.setPolicy(t, func(p *models.HotelPolicy) {
		// 手续费 100%：取消时不产生退款，余款留待人工退
		p.CancellationFeePercent = decimal.NewFromInt(100)
	})

	reservation := env.createConfirmed(t, 200)
	_, err := env.svc.Cancel(ctx, reservation.ID, "测试", nil)
	require.NoError(t, err)

	partial, err := env.svc.Refund(ctx, reservation.ID, decimal.NewFromInt(80), nil)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCancelled, partial.Status)

	full, err := env.svc.Refund(ctx, reservation.ID, decimal.NewFromInt(120), nil)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusRefunded, full.Status)
}

func TestRefund_ApprovalRequiredLeavesPending(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.setPolicy(t, func(p *models.HotelPolicy) {
		p.RefundApprovalRequired = true
		p.CancellationFeePercent = decimal.NewFromInt(100)
	})

	reservation := env.createConfirmed(t, 200)
	_, err := env.svc.Cancel(ctx, reservation.ID, "测试", nil)
	require.NoError(t, err)

	after, err := env.svc.Refund(ctx, reservation.ID, decimal.NewFromInt(200), nil)
	require.NoError(t, err)
	// 待审批：状态不动
	assert.Equal(t, models.ReservationStatusCancelled, after.Status)

	var entry models.LedgerEntry
	require.NoError(t, env.db.Where("reservation_id = ? AND type = ?", reservation.ID, models.LedgerTypeRefund).First(&entry).Error)
	assert.Equal(t, models.LedgerStatusPending, entry.Status)
}

func TestCancel_ApprovalRequiredCreatesPendingRefund(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.setPolicy(t, func(p *models.HotelPolicy) {
		p.RefundApprovalRequired = true
		p.CancellationFeePercent = decimal.NewFromInt(10)
	})

	reservation := env.createConfirmed(t, 100)

	cancelled, err := env.svc.Cancel(ctx, reservation.ID, "行程变更", nil)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCancelled, cancelled.Status)
	assert.True(t, cancelled.RequiresAdminRefund)

	// 应退金额按策略落为待审批流水，不等管理员手填
	var refund models.LedgerEntry
	require.NoError(t, env.db.Where("reservation_id = ? AND type = ?", reservation.ID, models.LedgerTypeRefund).First(&refund).Error)
	assert.True(t, refund.Amount.Equal(decimal.NewFromInt(-90)), "refund = %s", refund.Amount)
	assert.Equal(t, models.LedgerStatusPending, refund.Status)
}

func TestMarkNoShow_ApprovalRequiredCreatesPendingRefund(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.setPolicy(t, func(p *models.HotelPolicy) {
		p.RefundApprovalRequired = true
	})

	reservation := env.createConfirmed(t, 100)
	backdate(t, env, reservation.ID, "check_in", time.Now().Add(-20*time.Hour))

	marked, err := env.svc.MarkNoShow(ctx, reservation.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusNoShow, marked.Status)
	assert.True(t, marked.RequiresAdminRefund)

	// 默认退款比例 50%：待审批流水 -50
	var refund models.LedgerEntry
	require.NoError(t, env.db.Where("reservation_id = ? AND type = ?", reservation.ID, models.LedgerTypeRefund).First(&refund).Error)
	assert.True(t, refund.Amount.Equal(decimal.NewFromInt(-50)), "refund = %s", refund.Amount)
	assert.Equal(t, models.LedgerStatusPending, refund.Status)
}

func TestAdminRefund_CancelledRefundsNetPaid(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.setPolicy(t, func(p *models.HotelPolicy) {
		// 手续费 100%：取消时不产生自动退款
		p.CancellationFeePercent = decimal.NewFromInt(100)
	})

	reservation := env.createConfirmed(t, 200)
	_, err := env.svc.Cancel(ctx, reservation.ID, "测试", nil)
	require.NoError(t, err)

	staffID := int64(7)
	refunded, err := env.svc.AdminRefund(ctx, reservation.ID, &staffID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusRefunded, refunded.Status)
	assert.False(t, refunded.RequiresAdminRefund)

	var refund models.LedgerEntry
	require.NoError(t, env.db.Where("reservation_id = ? AND type = ?", reservation.ID, models.LedgerTypeRefund).First(&refund).Error)
	assert.True(t, refund.Amount.Equal(decimal.NewFromInt(-200)))
	assert.Equal(t, models.LedgerStatusCompleted, refund.Status)
}

func TestAdminRefund_NoShowRetainsPenalty(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	reservation := env.createConfirmed(t, 200)
	backdate(t, env, reservation.ID, "check_in", time.Now().Add(-20*time.Hour))

	// 默认比例 50%，标记时自动退 100
	_, err := env.svc.MarkNoShow(ctx, reservation.ID, nil)
	require.NoError(t, err)

	staffID := int64(7)
	refunded, err := env.svc.AdminRefund(ctx, reservation.ID, &staffID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusRefunded, refunded.Status)

	// 余款 100 再按比例退 50，罚金不因管理员退款而消失
	var refunds []models.LedgerEntry
	require.NoError(t, env.db.
		Where("reservation_id = ? AND type = ?", reservation.ID, models.LedgerTypeRefund).
		Order("id ASC").
		Find(&refunds).Error)
	require.Len(t, refunds, 2)
	assert.True(t, refunds[0].Amount.Equal(decimal.NewFromInt(-100)))
	assert.True(t, refunds[1].Amount.Equal(decimal.NewFromInt(-50)), "second refund = %s", refunds[1].Amount)
}

func TestAdminRefund_CompletesPendingEntry(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.setPolicy(t, func(p *models.HotelPolicy) {
		p.RefundApprovalRequired = true
	})

	reservation := env.createConfirmed(t, 100)
	backdate(t, env, reservation.ID, "check_in", time.Now().Add(-20*time.Hour))

	marked, err := env.svc.MarkNoShow(ctx, reservation.ID, nil)
	require.NoError(t, err)
	require.True(t, marked.RequiresAdminRefund)

	staffID := int64(7)
	refunded, err := env.svc.AdminRefund(ctx, reservation.ID, &staffID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusRefunded, refunded.Status)
	assert.False(t, refunded.RequiresAdminRefund)

	// 完成的是标记未入住时落库的那笔流水，不另开新流水
	var refunds []models.LedgerEntry
	require.NoError(t, env.db.
		Where("reservation_id = ? AND type = ?", reservation.ID, models.LedgerTypeRefund).
		Find(&refunds).Error)
	require.Len(t, refunds, 1)
	assert.True(t, refunds[0].Amount.Equal(decimal.NewFromInt(-50)))
	assert.Equal(t, models.LedgerStatusCompleted, refunds[0].Status)
}

func TestMarkNoShow_PendingRefundApprovedViaLedger(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.setPolicy(t, func(p *models.HotelPolicy) {
		p.RefundApprovalRequired = true
	})

	reservation := env.createConfirmed(t, 100)
	backdate(t, env, reservation.ID, "check_in", time.Now().Add(-20*time.Hour))

	_, err := env.svc.MarkNoShow(ctx, reservation.ID, nil)
	require.NoError(t, err)

	var pending models.LedgerEntry
	require.NoError(t, env.db.Where("reservation_id = ? AND type = ?", reservation.ID, models.LedgerTypeRefund).First(&pending).Error)
	require.Equal(t, models.LedgerStatusPending, pending.Status)

	ledgerSvc := billingService.NewLedgerService(env.db)
	approved, err := ledgerSvc.ApproveRefund(ctx, pending.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, models.LedgerStatusCompleted, approved.Status)

	// 审批通过后待退标记清除；罚金部分仍保留，状态停在 no_show
	var got models.Reservation
	require.NoError(t, env.db.First(&got, reservation.ID).Error)
	assert.False(t, got.RequiresAdminRefund)
	assert.Equal(t, models.ReservationStatusNoShow, got.Status)
}

func TestExtendStay_RecalculatesCharges(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	reservation := env.createConfirmed(t, 100) // 两晚 200
	_, err := env.svc.CheckIn(ctx, reservation.ID, env.room.ID, nil)
	require.NoError(t, err)

	newCheckOut := reservation.CheckOut.Add(48 * time.Hour) // 共四晚
	extended, err := env.svc.ExtendStay(ctx, reservation.ID, newCheckOut, nil)
	require.NoError(t, err)

	assert.True(t, extended.RoomCharges.Equal(decimal.NewFromInt(400)))
	assert.True(t, extended.TotalAmount.Equal(decimal.NewFromInt(400)))
	assert.True(t, extended.PendingAmount.Equal(decimal.NewFromInt(300)))
}

func TestExtendStay_EarlierCheckOutRejected(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	reservation := env.createConfirmed(t, 100)
	_, err := env.svc.CheckIn(ctx, reservation.ID, env.room.ID, nil)
	require.NoError(t, err)

	_, err = env.svc.ExtendStay(ctx, reservation.ID, reservation.CheckOut.Add(-1*time.Hour), nil)
	assert.ErrorIs(t, err, errors.ErrInvalidDateRange)
}

func TestExtendStay_DateOnlyAnchoredToPolicyClock(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	reservation := env.createConfirmed(t, 100)
	_, err := env.svc.CheckIn(ctx, reservation.ID, env.room.ID, nil)
	require.NoError(t, err)

	newDate := utils.TruncateToDay(reservation.CheckOut.Add(72 * time.Hour))
	extended, err := env.svc.ExtendStay(ctx, reservation.ID, newDate, nil)
	require.NoError(t, err)
	assert.Equal(t, 12, extended.CheckOut.Hour())
}

func TestExtendStay_RequiresCheckedIn(t *testing.T) {
	env := setupEnv(t)

	reservation := env.createConfirmed(t, 100)
	_, err := env.svc.ExtendStay(context.Background(), reservation.ID, reservation.CheckOut.Add(24*time.Hour), nil)
	assert.ErrorIs(t, err, errors.ErrReservationNotCheckedIn)
}

func TestListActivity_TracksLifecycle(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	reservation := env.createConfirmed(t, 100)
	_, err := env.svc.CheckIn(ctx, reservation.ID, env.room.ID, nil)
	require.NoError(t, err)
	_, err = env.svc.CheckOut(ctx, reservation.ID, &CheckOutParams{SettlementAmount: decimal.NewFromInt(100)})
	require.NoError(t, err)

	logs, err := env.svc.ListActivity(ctx, reservation.ID)
	require.NoError(t, err)

	actions := make([]string, 0, len(logs))
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	assert.Equal(t, []string{
		models.ActivityActionCreate,
		models.ActivityActionConfirm,
		models.ActivityActionCheckIn,
		models.ActivityActionCheckOut,
	}, actions)
}
