package tzindex

import (
	"fmt"
	"math"
)

const (
	// DegPixels 每度对应的像素数
	DegPixels = 32
	// Width、Height 全球像素平面的宽高
	Width  = 360 * DegPixels
	Height = 180 * DegPixels
)

// CheckCoord 校验经纬度范围；NaN 同样视为越界
func CheckCoord(lat, lon float64) error {
	if !(lat >= -90 && lat <= 90) {
		return fmt.Errorf("lat %v: %w", lat, ErrCoordOutOfRange)
	}
	if !(lon >= -180 && lon <= 180) {
		return fmt.Errorf("lon %v: %w", lon, ErrCoordOutOfRange)
	}
	return nil
}

// 文档注释：经纬度转换为全球像素坐标
// 背景：x 自 -180° 向东，y 自 90° 向南，每度 DegPixels 像素。
// 约束：输入越界属于调用方违约，直接 panic；只对换算后的像素做钳制，以吸收 ±90/±180 处的浮点边界。
func ToPixel(lat, lon float64) (x, y int) {
	if err := CheckCoord(lat, lon); err != nil {
		panic(err)
	}
	x = clampPixel(math.Floor((lon+180)*DegPixels), Width)
	y = clampPixel(math.Floor((90-lat)*DegPixels), Height)
	return x, y
}

func clampPixel(v float64, limit int) int {
	if v < 0 {
		return 0
	}
	if v > float64(limit-1) {
		return limit - 1
	}
	return int(v)
}
