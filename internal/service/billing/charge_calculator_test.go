// Package billing 计费服务单元测试
package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/errors"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
)

func stdRoomType() *models.RoomType {
	return &models.RoomType{
		Name:           "标准间",
		Code:           "STD",
		BasePrice:      decimal.NewFromInt(100),
		ExtraBedCharge: decimal.NewFromInt(30),
		AdultCapacity:  2,
		ChildCapacity:  1,
	}
}

func TestNights(t *testing.T) {
	base := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		checkOut time.Time
		want     int
		wantErr  error
	}{
		{"整三天", base.Add(72 * time.Hour), 3, nil},
		{"不足一天按一天", base.Add(10 * time.Hour), 1, nil},
		{"超过两天不足三天", base.Add(50 * time.Hour), 3, nil},
		{"退房早于入住", base.Add(-1 * time.Hour), 0, errors.ErrInvalidDateRange},
		{"退房等于入住", base, 0, errors.ErrInvalidDateRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Nights(base, tt.checkOut)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateCharges(t *testing.T) {
	checkIn := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(48 * time.Hour)

	breakdown, err := CalculateCharges(stdRoomType(), checkIn, checkOut, 1, decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, 2, breakdown.Nights)
	assert.True(t, breakdown.RoomCharges.Equal(decimal.NewFromInt(200)))
	assert.True(t, breakdown.ExtraBedCharges.Equal(decimal.NewFromInt(60)))
	assert.True(t, breakdown.TotalAmount.Equal(decimal.NewFromInt(260)))
}

func TestCalculateCharges_KeepsServiceCharges(t *testing.T) {
	checkIn := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(24 * time.Hour)

	breakdown, err := CalculateCharges(stdRoomType(), checkIn, checkOut, 0, decimal.NewFromFloat(45.50))
	require.NoError(t, err)

	assert.True(t, breakdown.ServiceCharges.Equal(decimal.NewFromFloat(45.50)))
	assert.True(t, breakdown.TotalAmount.Equal(decimal.NewFromFloat(145.50)))
}

func TestCalculateCharges_NilRoomType(t *testing.T) {
	_, err := CalculateCharges(nil, time.Now(), time.Now().Add(24*time.Hour), 0, decimal.Zero)
	assert.ErrorIs(t, err, errors.ErrRoomTypeNotFound)
}

func TestValidateCapacity(t *testing.T) {
	rt := stdRoomType()

	assert.NoError(t, ValidateCapacity(rt, 2, 1))
	assert.ErrorIs(t, ValidateCapacity(rt, 3, 0), errors.ErrCapacityExceeded)
	assert.ErrorIs(t, ValidateCapacity(rt, 1, 2), errors.ErrCapacityExceeded)

	err := ValidateCapacity(rt, 0, 0)
	assert.ErrorIs(t, err, errors.ErrInvalidParams)
}

func TestPercentage(t *testing.T) {
	got := Percentage(decimal.NewFromInt(250), decimal.NewFromInt(50))
	assert.True(t, got.Equal(decimal.NewFromInt(125)))

	// 两位小数舍入
	got = Percentage(decimal.NewFromFloat(100.33), decimal.NewFromInt(15))
	assert.True(t, got.Equal(decimal.NewFromFloat(15.05)), "got %s", got)
}
