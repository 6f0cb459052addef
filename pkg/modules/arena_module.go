package modules

import (
	"log"
	"math/rand"

	"github.com/gonewx/bubblesky/pkg/components"
	"github.com/gonewx/bubblesky/pkg/config"
	"github.com/gonewx/bubblesky/pkg/ecs"
	"github.com/gonewx/bubblesky/pkg/entities"
	"github.com/gonewx/bubblesky/pkg/game"
	"github.com/gonewx/bubblesky/pkg/physics"
	"github.com/gonewx/bubblesky/pkg/systems"
	"github.com/gonewx/bubblesky/pkg/types"
)

// ArenaModule 泡泡竞技场模块
//
// 封装一局游戏需要的全部状态和系统：
//   - ECS 实体管理器和物理世界
//   - 会话（状态机、计分、延迟任务、事件队列）
//   - 合并、重叠修正、发射台、游戏结束判定、效果系统
//
// 模块不依赖窗口和渲染，游戏场景负责输入和绘制，
// 无头模拟器和测试直接驱动模块。
type ArenaModule struct {
	cfg    *config.GameplayConfig
	layout config.PlayAreaLayout
	table  *config.BubbleTable

	entityManager *ecs.EntityManager
	world         *physics.World
	session       *game.GameSession
	rng           *rand.Rand

	mergeSystem   *systems.MergeSystem
	overlapSystem *systems.OverlapSystem
	spawnSystem   *systems.SpawnSystem
	watchSystem   *systems.GameOverWatchSystem
	effectSystem  *systems.EffectSystem

	eventCounts map[game.EventType]int

	// 回调函数（由外部场景提供）
	onEvent func(game.Event)
}

// ArenaConfig 竞技场模块的创建参数
type ArenaConfig struct {
	// Gameplay 玩法参数，nil 时使用默认值
	Gameplay *config.GameplayConfig
	// Table 泡泡等级表，nil 时使用默认值
	Table *config.BubbleTable
	// Store 最高分存储，nil 时只保存在内存
	Store game.BestScoreStore
	// Seed 随机种子，相同种子和输入得到相同的对局
	Seed int64
	// OnEvent 每个游戏事件分发后调用，可为 nil
	OnEvent func(game.Event)
}

// NewArenaModule 创建竞技场模块，处于 Ready 状态
// 调用 Start 开始第一局
func NewArenaModule(cfg ArenaConfig) *ArenaModule {
	if cfg.Gameplay == nil {
		cfg.Gameplay = config.DefaultGameplayConfig()
	}
	if cfg.Table == nil {
		cfg.Table = config.DefaultBubbleTable()
	}

	layout := config.NewPlayAreaLayout(cfg.Gameplay)
	m := &ArenaModule{
		cfg:           cfg.Gameplay,
		layout:        layout,
		table:         cfg.Table,
		entityManager: ecs.NewEntityManager(),
		world:         physics.NewWorldForLayout(cfg.Gameplay.Physics, layout),
		session:       game.NewGameSession(cfg.Gameplay.Score, cfg.Store),
		rng:           rand.New(rand.NewSource(cfg.Seed)),
		eventCounts:   make(map[game.EventType]int),
		onEvent:       cfg.OnEvent,
	}

	m.mergeSystem = systems.NewMergeSystem(m.entityManager, m.world, m.table, m.session, m.rng, m.cfg.Merge)
	m.overlapSystem = systems.NewOverlapSystem(m.entityManager, m.world, m.table, m.cfg.Overlap)
	m.spawnSystem = systems.NewSpawnSystem(m.entityManager, m.world, m.table, m.session, m.rng, layout, m.cfg.Launch)
	m.watchSystem = systems.NewGameOverWatchSystem(m.entityManager, m.world, m.session, layout, m.cfg.GameOver)
	m.effectSystem = systems.NewEffectSystem(m.entityManager)
	m.world.SetContactListener(m.mergeSystem.OnContactBegin)

	log.Printf("[ArenaModule] Initialized (seed=%d, play area %.0fx%.0f)", cfg.Seed, layout.Width(), layout.Height())
	return m
}

// Start 开始新的一局
func (m *ArenaModule) Start() {
	m.session.StartNewGame()
	m.spawnSystem.SpawnPadBubble()
}

// Restart 清空场上所有泡泡和效果，重新开始
func (m *ArenaModule) Restart() {
	entities.ClearBubbles(m.entityManager, m.world)
	m.entityManager.Clear()
	m.world.Clear()

	m.spawnSystem.Reset()
	m.watchSystem.Reset()
	m.overlapSystem.Reset()
	m.session.RestartGame()
	m.spawnSystem.SpawnPadBubble()
	log.Printf("[ArenaModule] Restarted")
}

// TogglePause 在 Playing 和 Paused 之间切换
func (m *ArenaModule) TogglePause() {
	switch m.session.State() {
	case game.StatePlaying:
		m.session.PauseGame()
	case game.StatePaused:
		m.session.ResumeGame()
	}
}

// MovePad 移动发射台
func (m *ArenaModule) MovePad(x float64) {
	m.spawnSystem.MovePad(x)
}

// Launch 发射发射台上的泡泡
func (m *ArenaModule) Launch() bool {
	return m.spawnSystem.Launch()
}

// Update 推进一帧
//
// 顺序：延迟任务 → 物理步进（接触回调触发合并）→ 重叠修正 →
// 游戏结束判定 → 效果 → 清理实体 → 分发事件
func (m *ArenaModule) Update(deltaTime float64) {
	m.session.Update(deltaTime)

	if m.session.IsGameActive() {
		m.world.Step(deltaTime)
		m.overlapSystem.Update(deltaTime)
		m.watchSystem.Update()
	}

	m.effectSystem.Update(deltaTime)
	m.entityManager.RemoveMarkedEntities()
	m.dispatchEvents()
}

// dispatchEvents 把本帧事件转换为视觉效果并通知外部
func (m *ArenaModule) dispatchEvents() {
	for _, ev := range m.session.Events().Drain() {
		m.eventCounts[ev.Type]++

		switch ev.Type {
		case game.EventBubbleMerged, game.EventChainMerged:
			next, _ := ev.BubbleType.Next()
			kind := components.EffectMergeFlash
			if ev.Type == game.EventChainMerged {
				kind = components.EffectChainFlash
			}
			entities.NewEffect(m.entityManager, kind, ev.Position.X, ev.Position.Y, m.table.BodyRadius(next), m.table.Color(next))
			entities.NewScorePopup(m.entityManager, ev.Position.X, ev.Position.Y, ev.Score)
		case game.EventMegaAnnihilated:
			entities.NewEffect(m.entityManager, components.EffectMegaBurst, ev.Position.X, ev.Position.Y,
				m.table.BodyRadius(types.MaxBubbleType)*2, m.table.Color(types.MaxBubbleType))
			entities.NewScorePopup(m.entityManager, ev.Position.X, ev.Position.Y, ev.Score)
		case game.EventGameOver:
			log.Printf("[ArenaModule] Game over\n%s", m.session.Summary())
		}

		if m.onEvent != nil {
			m.onEvent(ev)
		}
	}
}

// SaveOnExit 程序退出时保存最高分
func (m *ArenaModule) SaveOnExit() bool {
	return m.session.SaveOnExit()
}

// Session 当前会话
func (m *ArenaModule) Session() *game.GameSession {
	return m.session
}

// EntityManager 实体管理器
func (m *ArenaModule) EntityManager() *ecs.EntityManager {
	return m.entityManager
}

// World 物理世界
func (m *ArenaModule) World() *physics.World {
	return m.world
}

// Layout 游戏区布局
func (m *ArenaModule) Layout() config.PlayAreaLayout {
	return m.layout
}

// Table 泡泡等级表
func (m *ArenaModule) Table() *config.BubbleTable {
	return m.table
}

// Rand 模块的随机源，与对局共享同一序列
func (m *ArenaModule) Rand() *rand.Rand {
	return m.rng
}

// PadX 发射台横坐标
func (m *ArenaModule) PadX() float64 {
	return m.spawnSystem.PadX()
}

// PadBubble 发射台上等待发射的泡泡
func (m *ArenaModule) PadBubble() ecs.EntityID {
	return m.spawnSystem.PadBubble()
}

// GameOverArmed 游戏结束宽限计时是否进行中
func (m *ArenaModule) GameOverArmed() bool {
	return m.watchSystem.Armed()
}

// BubbleCount 场上有效泡泡数量（包括发射台上的）
func (m *ArenaModule) BubbleCount() int {
	return len(entities.LiveBubbles(m.entityManager))
}

// EventCounts 已分发事件的累计数量
func (m *ArenaModule) EventCounts() map[game.EventType]int {
	out := make(map[game.EventType]int, len(m.eventCounts))
	for k, v := range m.eventCounts {
		out[k] = v
	}
	return out
}
