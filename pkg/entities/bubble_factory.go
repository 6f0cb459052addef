package entities

import (
	"math/rand"

	"github.com/gonewx/bubblesky/pkg/components"
	"github.com/gonewx/bubblesky/pkg/config"
	"github.com/gonewx/bubblesky/pkg/ecs"
	"github.com/gonewx/bubblesky/pkg/physics"
	"github.com/gonewx/bubblesky/pkg/types"
)

// BubbleParams 创建泡泡的参数
type BubbleParams struct {
	Type     types.BubbleType
	Position physics.Vec2
	// Dynamic 为 false 时泡泡停在发射台上，不受物理影响
	Dynamic bool
	Origin  components.BubbleOrigin
	// SpawnedAt 生成时的游戏时钟（秒）
	SpawnedAt float64
}

// NewBubble 创建泡泡实体及其物理刚体
//
// 参数:
//   - em: 实体管理器
//   - engine: 物理引擎，刚体与实体使用同一个 ID
//   - table: 泡泡等级表，提供半径、质量等属性
//   - rng: 弹性和摩擦的随机扰动来源，可为 nil（使用基础值）
//   - p: 泡泡参数
//
// 返回: 新实体 ID，等级无效时返回 ecs.InvalidEntity
func NewBubble(em *ecs.EntityManager, engine physics.Engine, table *config.BubbleTable, rng *rand.Rand, p BubbleParams) ecs.EntityID {
	if !p.Type.IsValid() {
		return ecs.InvalidEntity
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.BubbleComponent{
		Type:           p.Type,
		LastImpactTime: components.NeverImpacted,
		SpawnedAt:      p.SpawnedAt,
		Origin:         p.Origin,
	})

	engine.AddBody(physics.BodyDef{
		ID:          id,
		Position:    p.Position,
		Radius:      table.BodyRadius(p.Type),
		Mass:        table.Mass(p.Type),
		Restitution: table.Restitution(p.Type, rng),
		Friction:    table.Friction(p.Type, rng),
		Dynamic:     p.Dynamic,
	})
	return id
}

// RemoveBubble 移除泡泡的刚体并标记实体待删除
// 实体在帧末 RemoveMarkedEntities 时才真正删除，期间 Merging 标记使其不可见
func RemoveBubble(em *ecs.EntityManager, engine physics.Engine, id ecs.EntityID) {
	if bubble, ok := ecs.GetComponent[*components.BubbleComponent](em, id); ok {
		bubble.Merging = true
	}
	engine.RemoveBody(id)
	em.DestroyEntity(id)
}

// GetBubble 返回仍然有效（存在且未被合并消耗）的泡泡组件
func GetBubble(em *ecs.EntityManager, id ecs.EntityID) (*components.BubbleComponent, bool) {
	bubble, ok := ecs.GetComponent[*components.BubbleComponent](em, id)
	if !ok || !bubble.IsLive() {
		return nil, false
	}
	return bubble, true
}

// LiveBubbles 按 ID 升序返回所有有效泡泡
func LiveBubbles(em *ecs.EntityManager) []ecs.EntityID {
	ids := ecs.GetEntitiesWith1[*components.BubbleComponent](em)
	live := ids[:0]
	for _, id := range ids {
		if _, ok := GetBubble(em, id); ok {
			live = append(live, id)
		}
	}
	return live
}

// ClearBubbles 移除所有泡泡（重新开局）
func ClearBubbles(em *ecs.EntityManager, engine physics.Engine) {
	for _, id := range ecs.GetEntitiesWith1[*components.BubbleComponent](em) {
		RemoveBubble(em, engine, id)
	}
}
