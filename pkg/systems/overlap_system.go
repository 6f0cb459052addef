package systems

import (
	"github.com/gonewx/bubblesky/pkg/config"
	"github.com/gonewx/bubblesky/pkg/ecs"
	"github.com/gonewx/bubblesky/pkg/entities"
	"github.com/gonewx/bubblesky/pkg/physics"
)

// OverlapSystem 严重重叠修正
//
// 物理引擎处理普通接触；静止堆叠时偶尔会出现引擎无法分开的深度重叠，
// 本系统以较低频率扫描所有泡泡对，对重叠超过阈值的泡泡施加反向冲量。
// 只通过冲量推开，从不直接修改位置。
type OverlapSystem struct {
	entityManager *ecs.EntityManager
	engine        physics.Engine
	table         *config.BubbleTable
	cfg           config.OverlapConfig

	accumulator float64
}

// NewOverlapSystem 创建重叠修正系统
func NewOverlapSystem(em *ecs.EntityManager, engine physics.Engine, table *config.BubbleTable, cfg config.OverlapConfig) *OverlapSystem {
	return &OverlapSystem{
		entityManager: em,
		engine:        engine,
		table:         table,
		cfg:           cfg,
	}
}

// Update 累积时间，每个间隔执行一次修正
// 返回本帧修正的泡泡对数量
func (s *OverlapSystem) Update(deltaTime float64) int {
	s.accumulator += deltaTime
	if s.accumulator < s.cfg.Interval {
		return 0
	}
	s.accumulator -= s.cfg.Interval
	// 长时间卡顿后不补跑
	if s.accumulator > s.cfg.Interval {
		s.accumulator = 0
	}
	return s.Resolve()
}

// Resolve 立即对所有有效泡泡对执行一次修正，O(n²)
func (s *OverlapSystem) Resolve() int {
	ids := entities.LiveBubbles(s.entityManager)
	fixed := 0

	for i := 0; i < len(ids); i++ {
		a, _ := entities.GetBubble(s.entityManager, ids[i])
		posA, ok := s.engine.Position(ids[i])
		if !ok {
			continue
		}
		for j := i + 1; j < len(ids); j++ {
			b, _ := entities.GetBubble(s.entityManager, ids[j])
			posB, ok := s.engine.Position(ids[j])
			if !ok {
				continue
			}

			minDistance := s.table.BodyRadius(a.Type) + s.table.BodyRadius(b.Type) - s.cfg.AllowedSlack
			delta := posB.Sub(posA)
			dist := delta.Len()
			if dist <= 0 || dist >= minDistance {
				continue
			}
			overlap := minDistance - dist
			if overlap <= s.cfg.SeverityThreshold {
				continue
			}

			n := delta.Scale(1 / dist)
			push := overlap * s.cfg.PushFactor
			s.engine.ApplyImpulse(ids[i], n.Scale(-push))
			s.engine.ApplyImpulse(ids[j], n.Scale(push))
			fixed++
		}
	}
	return fixed
}

// Reset 清空累积时间
func (s *OverlapSystem) Reset() {
	s.accumulator = 0
}
