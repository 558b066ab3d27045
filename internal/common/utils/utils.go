// Package utils 提供通用工具函数
package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateReservationNo 生成预订号，格式: RSV + 时间戳 + 6位随机数字
func GenerateReservationNo() string {
	return generateNo("RSV")
}

// GenerateEntryNo 生成账务流水号，格式: LED + 时间戳 + 6位随机数字
func GenerateEntryNo() string {
	return generateNo("LED")
}

// GenerateServiceOrderNo 生成服务订单号，格式: SVC + 时间戳 + 6位随机数字
func GenerateServiceOrderNo() string {
	return generateNo("SVC")
}

func generateNo(prefix string) string {
	timestamp := time.Now().Format("20060102150405")
	return fmt.Sprintf("%s%s%06d", prefix, timestamp, randomInt(1000000))
}

// randomInt 生成 [0, max) 范围内的随机整数
func randomInt(max int64) int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return time.Now().UnixNano() % max
	}
	return n.Int64()
}

// TruncateToDay 截断到当天零点
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CombineDateAndClock 将日期与 "HH:MM" 格式的时刻合并
func CombineDateAndClock(date time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock %q: %w", clock, err)
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, date.Location(),
	), nil
}
