package systems

import (
	"github.com/gonewx/bubblesky/pkg/components"
	"github.com/gonewx/bubblesky/pkg/ecs"
)

// EffectSystem 推进短时视觉效果
//   - 碰撞形变：播放完毕后移除组件
//   - 闪光和飘字：生命周期结束后标记实体待删除
type EffectSystem struct {
	entityManager *ecs.EntityManager
}

// NewEffectSystem 创建效果系统
func NewEffectSystem(em *ecs.EntityManager) *EffectSystem {
	return &EffectSystem{
		entityManager: em,
	}
}

// Update 更新所有形变和生命周期组件
// 参数：
//   - dt: 时间增量（秒）
func (s *EffectSystem) Update(dt float64) {
	deforming := ecs.GetEntitiesWith1[*components.ImpactDeformComponent](s.entityManager)
	for _, id := range deforming {
		deform, ok := ecs.GetComponent[*components.ImpactDeformComponent](s.entityManager, id)
		if !ok {
			continue
		}
		deform.Elapsed += dt
		if deform.IsComplete() {
			ecs.RemoveComponent[*components.ImpactDeformComponent](s.entityManager, id)
		}
	}

	expiring := ecs.GetEntitiesWith1[*components.LifetimeComponent](s.entityManager)
	for _, id := range expiring {
		lifetime, ok := ecs.GetComponent[*components.LifetimeComponent](s.entityManager, id)
		if !ok || lifetime.IsExpired {
			continue
		}

		lifetime.CurrentLifetime += dt
		if lifetime.CurrentLifetime >= lifetime.MaxLifetime {
			lifetime.IsExpired = true
			s.entityManager.DestroyEntity(id)
		}
	}
}
