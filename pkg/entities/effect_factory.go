package entities

import (
	"fmt"
	"image/color"

	"github.com/gonewx/bubblesky/pkg/components"
	"github.com/gonewx/bubblesky/pkg/ecs"
)

// 效果持续时间（秒）
const (
	MergeFlashDuration = 0.25
	ChainFlashDuration = 0.4
	MegaBurstDuration  = 0.8
	ScorePopupDuration = 0.9
)

// NewEffect 创建短时视觉效果实体
//
// 参数:
//   - em: 实体管理器
//   - kind: 效果类型
//   - x, y: 效果中心（屏幕坐标）
//   - radius: 效果半径
//   - c: 颜色
//
// 返回: 效果实体 ID
func NewEffect(em *ecs.EntityManager, kind components.EffectKind, x, y, radius float64, c color.RGBA) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.EffectComponent{
		Kind:   kind,
		X:      x,
		Y:      y,
		Radius: radius,
		Color:  c,
	})
	ecs.AddComponent(em, id, &components.LifetimeComponent{
		MaxLifetime: effectDuration(kind),
	})
	return id
}

// NewScorePopup 创建得分飘字
func NewScorePopup(em *ecs.EntityManager, x, y float64, points int) ecs.EntityID {
	id := NewEffect(em, components.EffectScorePopup, x, y, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	if effect, ok := ecs.GetComponent[*components.EffectComponent](em, id); ok {
		effect.Text = fmt.Sprintf("+%d", points)
	}
	return id
}

func effectDuration(kind components.EffectKind) float64 {
	switch kind {
	case components.EffectChainFlash:
		return ChainFlashDuration
	case components.EffectMegaBurst:
		return MegaBurstDuration
	case components.EffectScorePopup:
		return ScorePopupDuration
	default:
		return MergeFlashDuration
	}
}
