package utils

import "math"

// 效果动画使用的缓动函数
// 所有函数接受进度 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]

// EaseOutCubic 三次方缓出，开始快结束慢（闪光扩散）
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseOutQuad 二次方缓出（得分飘字上升）
// 公式：f(t) = 1 - (1-t)²
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// Lerp 线性插值，t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// BlinkAlpha 在 high 和 low 之间交替的透明度
// 每个 halfPeriod 秒切换一次，从 high 开始
func BlinkAlpha(elapsed, halfPeriod, high, low float64) float64 {
	if halfPeriod <= 0 || elapsed < 0 {
		return high
	}
	if int(elapsed/halfPeriod)%2 == 0 {
		return high
	}
	return low
}
