package components

import "image/color"

// EffectKind 短时视觉效果的类型
type EffectKind int

const (
	// EffectMergeFlash 合并位置的闪光
	EffectMergeFlash EffectKind = iota
	// EffectChainFlash 连锁合并的闪光（更大）
	EffectChainFlash
	// EffectMegaBurst 最大等级湮灭的爆发
	EffectMegaBurst
	// EffectScorePopup 得分飘字
	EffectScorePopup
)

// EffectComponent 短时视觉效果，由场景根据事件创建，到期后销毁
type EffectComponent struct {
	Kind   EffectKind
	X, Y   float64
	Radius float64
	Color  color.RGBA
	// Text 飘字内容
	Text string
}

// LifetimeComponent 管理实体的生命周期
// 用于自动清理存在时间超过上限的实体（效果、飘字）
type LifetimeComponent struct {
	MaxLifetime     float64 // 最大生命周期(秒)
	CurrentLifetime float64 // 当前已存在时间(秒)
	IsExpired       bool    // 是否已过期
}

// Progress 生命周期进度（0.0 ~ 1.0）
func (l *LifetimeComponent) Progress() float64 {
	if l.MaxLifetime <= 0 {
		return 1
	}
	p := l.CurrentLifetime / l.MaxLifetime
	if p > 1 {
		return 1
	}
	return p
}
