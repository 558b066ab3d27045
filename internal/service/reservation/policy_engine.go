// Package reservation 提供预订状态机与相关服务
package reservation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/errors"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
)

// 策略引擎：对策略快照求值的纯函数集合
// 不读库不写库，同一快照同一时刻求值结果稳定

// NoShowCutoff 计算 no-show 判定时刻
// 入住时间加上策略的宽限小时数
func NoShowCutoff(policy *models.HotelPolicy, checkIn time.Time) time.Time {
	return checkIn.Add(time.Duration(policy.NoShowHours) * time.Hour)
}

// IsNoShowEligible 判断已确认预订此刻是否应标记为 no-show
func IsNoShowEligible(policy *models.HotelPolicy, checkIn, now time.Time) bool {
	return now.After(NoShowCutoff(policy, checkIn))
}

// HoldCutoff 计算待确认预订的保留截止时刻
func HoldCutoff(policy *models.HotelPolicy, createdAt time.Time) time.Time {
	return createdAt.Add(time.Duration(policy.UnconfirmedHoldHours) * time.Hour)
}

// IsHoldExpired 判断待确认预订的保留期此刻是否已过
func IsHoldExpired(policy *models.HotelPolicy, createdAt, now time.Time) bool {
	return now.After(HoldCutoff(policy, createdAt))
}

// NoShowRefundAmount 计算 no-show 应退金额
// 净已付金额乘以策略退款比例，保留两位小数
func NoShowRefundAmount(policy *models.HotelPolicy, netPaid decimal.Decimal) decimal.Decimal {
	if netPaid.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return netPaid.Mul(policy.NoShowRefundPercent).Div(decimal.NewFromInt(100)).Round(2)
}

// CancellationFee 计算取消手续费
func CancellationFee(policy *models.HotelPolicy, netPaid decimal.Decimal) decimal.Decimal {
	if netPaid.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return netPaid.Mul(policy.CancellationFeePercent).Div(decimal.NewFromInt(100)).Round(2)
}

// ValidatePolicy 校验策略配置值
func ValidatePolicy(policy *models.HotelPolicy) error {
	if policy.NoShowHours < 0 || policy.UnconfirmedHoldHours <= 0 {
		return errors.ErrInvalidPolicyValue
	}
	hundred := decimal.NewFromInt(100)
	if policy.NoShowRefundPercent.IsNegative() || policy.NoShowRefundPercent.GreaterThan(hundred) {
		return errors.ErrInvalidPolicyValue
	}
	if policy.CancellationFeePercent.IsNegative() || policy.CancellationFeePercent.GreaterThan(hundred) {
		return errors.ErrInvalidPolicyValue
	}
	if _, err := time.Parse("15:04", policy.CheckInTime); err != nil {
		return errors.ErrInvalidPolicyValue
	}
	if _, err := time.Parse("15:04", policy.CheckOutTime); err != nil {
		return errors.ErrInvalidPolicyValue
	}
	return nil
}
