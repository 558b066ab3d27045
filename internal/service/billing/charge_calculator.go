// Package billing 提供计费与账务服务
package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/errors"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
)

// ChargeBreakdown 费用明细
type ChargeBreakdown struct {
	Nights          int             `json:"nights"`
	RoomCharges     decimal.Decimal `json:"room_charges"`
	ExtraBedCharges decimal.Decimal `json:"extra_bed_charges"`
	ServiceCharges  decimal.Decimal `json:"service_charges"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

// Nights 计算间夜数，不足一天按一天计
func Nights(checkIn, checkOut time.Time) (int, error) {
	if !checkOut.After(checkIn) {
		return 0, errors.ErrInvalidDateRange
	}
	d := checkOut.Sub(checkIn)
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		nights++
	}
	return nights, nil
}

// CalculateCharges 根据房型价格计算预订费用
// serviceCharges 为已累计的服务费，重算时原样保留
func CalculateCharges(roomType *models.RoomType, checkIn, checkOut time.Time, extraBeds int, serviceCharges decimal.Decimal) (*ChargeBreakdown, error) {
	if roomType == nil {
		return nil, errors.ErrRoomTypeNotFound
	}
	nights, err := Nights(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	nightsDec := decimal.NewFromInt(int64(nights))
	roomCharges := roomType.BasePrice.Mul(nightsDec)
	extraBedCharges := roomType.ExtraBedCharge.
		Mul(decimal.NewFromInt(int64(extraBeds))).
		Mul(nightsDec)

	total := roomCharges.Add(extraBedCharges).Add(serviceCharges)

	return &ChargeBreakdown{
		Nights:          nights,
		RoomCharges:     roomCharges.Round(2),
		ExtraBedCharges: extraBedCharges.Round(2),
		ServiceCharges:  serviceCharges.Round(2),
		TotalAmount:     total.Round(2),
	}, nil
}

// ValidateCapacity 校验人数不超过房型容量
func ValidateCapacity(roomType *models.RoomType, adults, children int) error {
	if adults < 1 {
		return errors.ErrInvalidParams.WithMessage("至少一名成人")
	}
	if adults > roomType.AdultCapacity || children > roomType.ChildCapacity {
		return errors.ErrCapacityExceeded
	}
	return nil
}

// Percentage 按百分比计算金额，保留两位小数
func Percentage(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(decimal.NewFromInt(100)).Round(2)
}
