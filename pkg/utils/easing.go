package utils

import "math"

// EasingFunc 缓动函数：进度 t ∈ [0,1] 映射到缓动后的进度，t=0 得 0，t=1 得 1
type EasingFunc func(t float64) float64

// EaseLinear 匀速
func EaseLinear(t float64) float64 {
	return t
}

// EaseOutCubic 先快后慢，跳跃上升段
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInCubic 先慢后快，跳跃下降段
func EaseInCubic(t float64) float64 {
	return t * t * t
}

// EaseInOutSine 两端柔和，空翻旋转
func EaseInOutSine(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}

// EaseOutBounce 到达终点后回弹，用于平台回弹和入场
func EaseOutBounce(t float64) float64 {
	const (
		n1 = 7.5625
		d1 = 2.75
	)

	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

// Lerp 线性插值，t=0 得 a，t=1 得 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
