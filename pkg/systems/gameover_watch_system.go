package systems

import (
	"log"
	"sort"

	"github.com/gonewx/bubblesky/pkg/config"
	"github.com/gonewx/bubblesky/pkg/ecs"
	"github.com/gonewx/bubblesky/pkg/entities"
	"github.com/gonewx/bubblesky/pkg/game"
	"github.com/gonewx/bubblesky/pkg/physics"
)

// GameOverWatchSystem 游戏结束判定
//
// 每帧统计位于游戏结束线以下的泡泡。集合非空时启动宽限计时，
// 集合变空时取消计时；计时到期且仍在游戏中则结束游戏并冻结所有泡泡。
// 计时器处于启动状态当且仅当集合非空。
type GameOverWatchSystem struct {
	entityManager *ecs.EntityManager
	engine        physics.Engine
	session       *game.GameSession
	layout        config.PlayAreaLayout
	cfg           config.GameOverConfig

	offending []ecs.EntityID
	timer     game.TaskID
	fired     bool
}

// NewGameOverWatchSystem 创建游戏结束判定系统
func NewGameOverWatchSystem(em *ecs.EntityManager, engine physics.Engine, session *game.GameSession,
	layout config.PlayAreaLayout, cfg config.GameOverConfig) *GameOverWatchSystem {
	return &GameOverWatchSystem{
		entityManager: em,
		engine:        engine,
		session:       session,
		layout:        layout,
		cfg:           cfg,
	}
}

// Update 重新计算越线集合并维护宽限计时器
func (s *GameOverWatchSystem) Update() {
	if !s.session.IsGameActive() {
		return
	}

	s.offending = s.offending[:0]
	for _, id := range entities.LiveBubbles(s.entityManager) {
		pos, ok := s.engine.Position(id)
		if !ok {
			continue
		}
		if s.layout.IsBelowLine(pos.Y) {
			s.offending = append(s.offending, id)
		}
	}

	events := s.session.Events()
	if len(s.offending) > 0 {
		if !s.Armed() {
			s.timer = s.session.Scheduler().After(s.cfg.GracePeriod, s.expire)
			events.Push(game.Event{Type: game.EventGameOverArmed, Entity: s.offending[0]})
			log.Printf("[GameOverWatch] %d bubble(s) below line, grace period %.1fs", len(s.offending), s.cfg.GracePeriod)
		}
		return
	}

	wasArmed := s.Armed()
	s.cancel()
	if wasArmed {
		events.Push(game.Event{Type: game.EventGameOverDisarmed})
		log.Printf("[GameOverWatch] All bubbles back above line")
	}
}

// expire 宽限时间到期
func (s *GameOverWatchSystem) expire() {
	s.timer = 0
	if s.fired || !s.session.IsGameActive() {
		return
	}
	s.fired = true

	for _, id := range entities.LiveBubbles(s.entityManager) {
		s.engine.SetDynamic(id, false)
	}
	s.session.EndGame()
	s.session.Events().Push(game.Event{Type: game.EventGameOver, Score: s.session.Score()})
}

func (s *GameOverWatchSystem) cancel() {
	if s.timer != 0 {
		s.session.Scheduler().Cancel(s.timer)
		s.timer = 0
	}
}

// Armed 宽限计时是否在进行中
func (s *GameOverWatchSystem) Armed() bool {
	return s.timer != 0 && s.session.Scheduler().Pending(s.timer)
}

// Offending 上次 Update 时位于线下的泡泡（按 ID 排序）
func (s *GameOverWatchSystem) Offending() []ecs.EntityID {
	out := make([]ecs.EntityID, len(s.offending))
	copy(out, s.offending)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Reset 新开局时清除状态
func (s *GameOverWatchSystem) Reset() {
	s.cancel()
	s.offending = s.offending[:0]
	s.fired = false
}
