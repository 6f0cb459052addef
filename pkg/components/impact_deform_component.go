package components

import "math"

// 形变动画参数
const (
	// DeformSquashDuration 压扁阶段时长（秒）
	DeformSquashDuration = 0.05
	// DeformRestoreDuration 恢复阶段时长（秒）
	DeformRestoreDuration = 0.08
	// DeformMaxAmount 最大压扁比例
	DeformMaxAmount = 0.15
	// DeformPerPixel 每像素中心距离对应的压扁比例
	DeformPerPixel = 0.0005
	// DeformMinDistance 中心距离小于此值时不做形变
	DeformMinDistance = 50.0
)

// ImpactDeformComponent 碰撞形变效果
// 只影响绘制缩放，不影响物理半径
type ImpactDeformComponent struct {
	// DirX, DirY 碰撞方向（单位向量）
	DirX, DirY float64
	// Amount 压扁比例（0 ~ DeformMaxAmount）
	Amount float64
	// Elapsed 已播放时间（秒）
	Elapsed float64
}

// NewImpactDeform 根据两个泡泡中心的连线计算形变
// 返回 nil 表示距离太小不需要形变
func NewImpactDeform(dx, dy float64) *ImpactDeformComponent {
	dist := math.Hypot(dx, dy)
	if dist <= DeformMinDistance {
		return nil
	}
	return &ImpactDeformComponent{
		DirX:   dx / dist,
		DirY:   dy / dist,
		Amount: math.Min(dist*DeformPerPixel, DeformMaxAmount),
	}
}

// Duration 动画总时长
func (d *ImpactDeformComponent) Duration() float64 {
	return DeformSquashDuration + DeformRestoreDuration
}

// IsComplete 动画是否结束
func (d *ImpactDeformComponent) IsComplete() bool {
	return d.Elapsed >= d.Duration()
}

// Scale 返回当前时刻的 X/Y 绘制缩放
func (d *ImpactDeformComponent) Scale() (sx, sy float64) {
	var k float64
	switch {
	case d.Elapsed <= 0:
		k = 0
	case d.Elapsed < DeformSquashDuration:
		k = d.Elapsed / DeformSquashDuration
	case d.Elapsed < d.Duration():
		k = 1 - (d.Elapsed-DeformSquashDuration)/DeformRestoreDuration
	default:
		k = 0
	}
	sx = 1 - math.Abs(d.DirX)*d.Amount*k
	sy = 1 - math.Abs(d.DirY)*d.Amount*k
	return sx, sy
}
