package systems

import (
	"log"
	"math/rand"

	"github.com/gonewx/bubblesky/pkg/components"
	"github.com/gonewx/bubblesky/pkg/config"
	"github.com/gonewx/bubblesky/pkg/ecs"
	"github.com/gonewx/bubblesky/pkg/entities"
	"github.com/gonewx/bubblesky/pkg/game"
	"github.com/gonewx/bubblesky/pkg/physics"
	"github.com/gonewx/bubblesky/pkg/types"
)

// MergeSystem 合并规则
//
// 由物理引擎的接触回调驱动：
//   - 同级泡泡接触：两者被消耗，在中点生成高一级泡泡，并在短暂延迟后检测连锁
//   - 两个最大等级泡泡接触：两者湮灭，获得固定奖励，不生成新泡泡
//   - 强烈碰撞：仅触发形变和随机扰动，不影响合并判定
//
// 被消耗的泡泡立即标记 Merging，同一帧内对它的其他接触都会被忽略。
type MergeSystem struct {
	entityManager *ecs.EntityManager
	engine        physics.Engine
	table         *config.BubbleTable
	session       *game.GameSession
	rng           *rand.Rand
	cfg           config.MergeConfig
}

// NewMergeSystem 创建合并系统
//
// 参数:
//   - em: 实体管理器
//   - engine: 物理引擎（位置、速度以其为准）
//   - table: 泡泡等级表
//   - session: 当前会话（计分、调度、事件）
//   - rng: 碰撞扰动的随机源，可为 nil
//   - cfg: 合并参数
func NewMergeSystem(em *ecs.EntityManager, engine physics.Engine, table *config.BubbleTable,
	session *game.GameSession, rng *rand.Rand, cfg config.MergeConfig) *MergeSystem {
	return &MergeSystem{
		entityManager: em,
		engine:        engine,
		table:         table,
		session:       session,
		rng:           rng,
		cfg:           cfg,
	}
}

// OnContactBegin 处理物理引擎报告的新接触
func (s *MergeSystem) OnContactBegin(c physics.Contact) {
	if !s.session.IsGameActive() {
		return
	}

	a, okA := entities.GetBubble(s.entityManager, c.A)
	b, okB := entities.GetBubble(s.entityManager, c.B)
	if !okA || !okB {
		return
	}
	// 发射台上或已冻结的泡泡不参与合并
	if !s.engine.IsDynamic(c.A) || !s.engine.IsDynamic(c.B) {
		return
	}

	s.applyImpact(c, a, b)

	if a.Type != b.Type {
		return
	}
	if a.Type.IsMax() {
		s.annihilate(c.A, c.B, false)
		return
	}
	s.merge(c.A, c.B, false)
}

// applyImpact 强烈碰撞的形变和随机扰动，只有视觉和手感效果
func (s *MergeSystem) applyImpact(c physics.Contact, a, b *components.BubbleComponent) {
	if c.RelativeSpeed <= s.cfg.ImpactThreshold {
		return
	}

	posA, _ := s.engine.Position(c.A)
	posB, _ := s.engine.Position(c.B)
	dir := posB.Sub(posA)
	now := s.session.Clock()

	s.impactOne(c.A, c.B, a, dir, posA, now)
	s.impactOne(c.B, c.A, b, dir.Scale(-1), posB, now)
}

func (s *MergeSystem) impactOne(id, other ecs.EntityID, bubble *components.BubbleComponent, dir, pos physics.Vec2, now float64) {
	if now-bubble.LastImpactTime < s.cfg.ImpactCooldown {
		return
	}
	bubble.LastImpactTime = now

	if deform := components.NewImpactDeform(dir.X, dir.Y); deform != nil {
		ecs.AddComponent(s.entityManager, id, deform)
	}

	s.engine.ApplyImpulse(id, physics.Vec2{
		X: randRange(s.rng, s.cfg.ScatterX),
		Y: randRange(s.rng, s.cfg.ScatterY),
	})
	s.engine.AddAngularVelocity(id, randRange(s.rng, s.cfg.ScatterAngular))

	s.session.Events().Push(game.Event{
		Type:       game.EventBubbleImpact,
		Entity:     id,
		Other:      other,
		BubbleType: bubble.Type,
		Position:   pos,
		Direction:  dir.Normalize(),
	})
}

// CheckChainReaction 检测新生成的泡泡是否与相邻的同级泡泡接触
// 只处理按 ID 顺序找到的第一个匹配
func (s *MergeSystem) CheckChainReaction(id ecs.EntityID) {
	if !s.session.IsGameActive() {
		return
	}
	bubble, ok := entities.GetBubble(s.entityManager, id)
	if !ok || !s.engine.IsDynamic(id) {
		return
	}
	pos, ok := s.engine.Position(id)
	if !ok {
		return
	}
	radius := s.table.BodyRadius(bubble.Type)

	for _, other := range entities.LiveBubbles(s.entityManager) {
		if other == id || !s.engine.IsDynamic(other) {
			continue
		}
		neighbour, _ := entities.GetBubble(s.entityManager, other)
		otherPos, ok := s.engine.Position(other)
		if !ok {
			continue
		}
		if pos.Dist(otherPos) > radius+s.table.BodyRadius(neighbour.Type)+s.cfg.ChainEpsilon {
			continue
		}
		if neighbour.Type != bubble.Type {
			continue
		}

		if bubble.Type.IsMax() {
			s.annihilate(id, other, true)
		} else {
			s.merge(id, other, true)
		}
		return
	}
}

// merge 消耗两个同级泡泡并在中点生成高一级泡泡，返回新泡泡 ID
func (s *MergeSystem) merge(aID, bID ecs.EntityID, chain bool) ecs.EntityID {
	a, _ := entities.GetBubble(s.entityManager, aID)
	b, _ := entities.GetBubble(s.entityManager, bID)
	next, ok := a.Type.Next()
	if !ok {
		return ecs.InvalidEntity
	}
	a.Merging = true
	b.Merging = true

	posA, _ := s.engine.Position(aID)
	posB, _ := s.engine.Position(bID)
	mid := posA.Midpoint(posB)
	tier := a.Type

	points := s.session.AddScoreForMerge(tier)
	if chain {
		points += s.session.AddScoreForChainBonus()
	}

	s.remove(aID, tier, posA)
	s.remove(bID, tier, posB)

	origin := components.OriginMerged
	if chain {
		origin = components.OriginChain
	}
	newID := entities.NewBubble(s.entityManager, s.engine, s.table, s.rng, entities.BubbleParams{
		Type:      next,
		Position:  mid,
		Dynamic:   true,
		Origin:    origin,
		SpawnedAt: s.session.Clock(),
	})
	s.engine.SetVelocity(newID, physics.Vec2{})

	events := s.session.Events()
	events.Push(game.Event{Type: game.EventBubbleSpawned, Entity: newID, BubbleType: next, Position: mid})
	eventType := game.EventBubbleMerged
	if chain {
		eventType = game.EventChainMerged
	}
	events.Push(game.Event{Type: eventType, Entity: newID, BubbleType: tier, Position: mid, Score: points})

	log.Printf("[MergeSystem] %s + %s -> %s (chain=%v, +%d)", tier, tier, next, chain, points)

	s.session.Scheduler().After(s.cfg.ChainCheckDelay, func() {
		s.CheckChainReaction(newID)
	})
	return newID
}

// annihilate 两个最大等级泡泡湮灭，只获得固定奖励
func (s *MergeSystem) annihilate(aID, bID ecs.EntityID, chain bool) {
	a, _ := entities.GetBubble(s.entityManager, aID)
	b, _ := entities.GetBubble(s.entityManager, bID)
	a.Merging = true
	b.Merging = true

	posA, _ := s.engine.Position(aID)
	posB, _ := s.engine.Position(bID)
	tier := a.Type

	points := s.session.AddScoreForMegaSpecial()
	s.remove(aID, tier, posA)
	s.remove(bID, tier, posB)

	s.session.Events().Push(game.Event{
		Type:       game.EventMegaAnnihilated,
		BubbleType: tier,
		Position:   posA.Midpoint(posB),
		Score:      points,
	})
	log.Printf("[MergeSystem] %s annihilated (chain=%v, +%d)", tier, chain, points)
}

func (s *MergeSystem) remove(id ecs.EntityID, tier types.BubbleType, pos physics.Vec2) {
	entities.RemoveBubble(s.entityManager, s.engine, id)
	s.session.Events().Push(game.Event{Type: game.EventBubbleRemoved, Entity: id, BubbleType: tier, Position: pos})
}

// randRange 返回 [-span, span] 内的随机数，rng 为 nil 时返回 0
func randRange(rng *rand.Rand, span float64) float64 {
	if rng == nil || span <= 0 {
		return 0
	}
	return (rng.Float64()*2 - 1) * span
}
