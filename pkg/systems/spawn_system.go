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

// maxStreak 同一等级最多连续出现的次数
const maxStreak = 2

// SpawnSystem 发射台
//
// 决定下一个发射的泡泡等级（按权重随机，避免同一等级连续三次），
// 在发射台上生成非动态泡泡，处理左右移动和发射。
type SpawnSystem struct {
	entityManager *ecs.EntityManager
	engine        physics.Engine
	table         *config.BubbleTable
	session       *game.GameSession
	rng           *rand.Rand
	layout        config.PlayAreaLayout
	cfg           config.LaunchConfig

	lastType types.BubbleType
	streak   int

	padBubble ecs.EntityID
	padX      float64
	nextSpawn game.TaskID
}

// NewSpawnSystem 创建发射台系统
// rng 不能为 nil：等级选择必须可复现
func NewSpawnSystem(em *ecs.EntityManager, engine physics.Engine, table *config.BubbleTable,
	session *game.GameSession, rng *rand.Rand, layout config.PlayAreaLayout, cfg config.LaunchConfig) *SpawnSystem {
	return &SpawnSystem{
		entityManager: em,
		engine:        engine,
		table:         table,
		session:       session,
		rng:           rng,
		layout:        layout,
		cfg:           cfg,
		padX:          layout.CenterX,
	}
}

// NextType 选择下一个发射等级
//
// 先按发射权重掷 1..总权重 的骰子；如果结果会让同一等级第三次连续出现，
// 改为从其他可发射等级中均匀随机选择，并把连续计数重置为 1。
func (s *SpawnSystem) NextType() types.BubbleType {
	t := s.rollWeighted()

	if t == s.lastType && s.streak >= maxStreak {
		candidates := make([]types.BubbleType, 0, len(types.LaunchableBubbleTypes()))
		for _, c := range types.LaunchableBubbleTypes() {
			if c != t {
				candidates = append(candidates, c)
			}
		}
		t = candidates[s.rng.Intn(len(candidates))]
		s.streak = 1
	} else if t == s.lastType {
		s.streak++
	} else {
		s.streak = 1
	}

	s.lastType = t
	return t
}

func (s *SpawnSystem) rollWeighted() types.BubbleType {
	total := s.table.TotalLaunchWeight()
	roll := s.rng.Intn(total) + 1

	cumulative := 0
	for _, t := range types.LaunchableBubbleTypes() {
		cumulative += s.table.LaunchWeight(t)
		if roll <= cumulative {
			return t
		}
	}
	return types.BubbleTiny
}

// SpawnPadBubble 在发射台上生成下一个泡泡
// 非 Playing 状态或发射台上已有泡泡时不生成
func (s *SpawnSystem) SpawnPadBubble() ecs.EntityID {
	s.nextSpawn = 0
	if !s.session.IsGameActive() || s.padBubble != ecs.InvalidEntity {
		return ecs.InvalidEntity
	}

	t := s.NextType()
	pos := physics.Vec2{X: s.padX, Y: s.layout.PadY}
	s.padBubble = entities.NewBubble(s.entityManager, s.engine, s.table, s.rng, entities.BubbleParams{
		Type:      t,
		Position:  pos,
		Origin:    components.OriginPad,
		SpawnedAt: s.session.Clock(),
	})

	s.session.Events().Push(game.Event{
		Type:       game.EventBubbleSpawned,
		Entity:     s.padBubble,
		BubbleType: t,
		Position:   pos,
	})
	return s.padBubble
}

// PadBubble 发射台上等待发射的泡泡，没有时返回 InvalidEntity
func (s *SpawnSystem) PadBubble() ecs.EntityID {
	return s.padBubble
}

// PadX 发射台当前横坐标
func (s *SpawnSystem) PadX() float64 {
	return s.padX
}

// MovePad 移动发射台（限制在游戏区中间 80% 范围内）
func (s *SpawnSystem) MovePad(x float64) {
	if !s.session.IsGameActive() {
		return
	}
	s.padX = s.layout.ClampPadX(x)
	if s.padBubble != ecs.InvalidEntity {
		s.engine.SetPosition(s.padBubble, physics.Vec2{X: s.padX, Y: s.layout.PadY})
	}
}

// Launch 发射发射台上的泡泡
// 返回是否发射成功
func (s *SpawnSystem) Launch() bool {
	if !s.session.IsGameActive() || s.padBubble == ecs.InvalidEntity {
		return false
	}
	id := s.padBubble
	bubble, ok := entities.GetBubble(s.entityManager, id)
	if !ok {
		s.padBubble = ecs.InvalidEntity
		return false
	}

	s.session.IncrementShotCount()

	velocity := physics.Vec2{
		X: randRange(s.rng, s.cfg.HorizontalJitter),
		// 屏幕坐标 y 向下，向上发射
		Y: -s.cfg.BaseVelocity * s.table.VelocityMultiplier(bubble.Type),
	}
	s.engine.SetDynamic(id, true)
	s.engine.SetVelocity(id, velocity)
	s.engine.SetAngularVelocity(id, randRange(s.rng, s.cfg.AngularJitter))

	pos, _ := s.engine.Position(id)
	s.session.Events().Push(game.Event{
		Type:       game.EventBubbleLaunched,
		Entity:     id,
		BubbleType: bubble.Type,
		Position:   pos,
		Direction:  velocity.Normalize(),
	})
	log.Printf("[SpawnSystem] Launched %s (shot #%d)", bubble.Type, s.session.TotalShots())

	s.padBubble = ecs.InvalidEntity
	s.nextSpawn = s.session.Scheduler().After(s.cfg.SpawnDelay, func() {
		s.SpawnPadBubble()
	})
	return true
}

// SpawnPending 是否有等待中的生成任务
func (s *SpawnSystem) SpawnPending() bool {
	return s.nextSpawn != 0 && s.session.Scheduler().Pending(s.nextSpawn)
}

// Reset 重新开局时清除连续记录和发射台状态
func (s *SpawnSystem) Reset() {
	s.lastType = types.BubbleUnknown
	s.streak = 0
	s.padBubble = ecs.InvalidEntity
	s.padX = s.layout.CenterX
	s.nextSpawn = 0
}
