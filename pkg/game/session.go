package game

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/gonewx/bubblesky/pkg/config"
	"github.com/gonewx/bubblesky/pkg/types"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// GameState 游戏状态
type GameState int

const (
	StateReady GameState = iota
	StatePlaying
	StatePaused
	StateGameOver
)

// String 返回状态名称
func (s GameState) String() string {
	switch s {
	case StateReady:
		return "Ready"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// GameSession 一局游戏的状态：状态机、分数、统计和延迟任务
//
// 会话是显式对象而不是全局单例，测试中可以同时存在多个会话。
// 分数和统计只在 Playing 状态下变化；调度器只在 Playing 状态下前进，
// 因此暂停期间游戏时间和所有延迟任务都被冻结。
type GameSession struct {
	cfg   config.ScoreConfig
	store BestScoreStore

	state      GameState
	score      int
	bestScore  int     // 存档中的最高分
	gameTime   float64 // 由 1Hz 计时任务累加（秒）
	totalShots int
	mergeStats map[types.BubbleType]int

	scheduler *Scheduler
	events    *EventQueue
	printer   *message.Printer
}

// NewGameSession 创建处于 Ready 状态的会话
// store 为 nil 时使用内存存储
func NewGameSession(cfg config.ScoreConfig, store BestScoreStore) *GameSession {
	if store == nil {
		store = &MemoryScoreStore{}
	}
	return &GameSession{
		cfg:        cfg,
		store:      store,
		state:      StateReady,
		mergeStats: make(map[types.BubbleType]int),
		scheduler:  NewScheduler(),
		events:     NewEventQueue(),
		printer:    message.NewPrinter(language.English),
	}
}

// StartNewGame 开始新的一局
// 重置分数、时间和统计，使所有旧任务失效，启动游戏计时并读取最高分
func (s *GameSession) StartNewGame() {
	s.state = StatePlaying
	s.score = 0
	s.gameTime = 0
	s.totalShots = 0
	s.mergeStats = make(map[types.BubbleType]int)

	s.scheduler.Reset()
	s.scheduler.Every(s.cfg.TimeTick, func() {
		s.gameTime += s.cfg.TimeTick
	})

	best, err := s.store.LoadBestScore()
	if err != nil {
		log.Printf("[Session] Warning: failed to load best score: %v", err)
		best = 0
	}
	s.bestScore = best

	s.events.Push(Event{Type: EventGameStarted})
	log.Printf("[Session] New game started (best=%d, epoch=%d)", s.bestScore, s.scheduler.Epoch())
}

// RestartGame 等同于 StartNewGame
func (s *GameSession) RestartGame() {
	s.StartNewGame()
}

// PauseGame 暂停（仅在 Playing 状态有效）
func (s *GameSession) PauseGame() {
	if s.state != StatePlaying {
		return
	}
	s.state = StatePaused
	s.events.Push(Event{Type: EventGamePaused})
	log.Printf("[Session] Paused")
}

// ResumeGame 恢复（仅在 Paused 状态有效）
func (s *GameSession) ResumeGame() {
	if s.state != StatePaused {
		return
	}
	s.state = StatePlaying
	s.events.Push(Event{Type: EventGameResumed})
	log.Printf("[Session] Resumed")
}

// EndGame 结束游戏（仅在 Playing 状态有效）
// 停止所有计时任务，分数超过最高分时写入存档
func (s *GameSession) EndGame() {
	if s.state != StatePlaying {
		return
	}
	s.state = StateGameOver
	s.scheduler.Reset()

	if s.score > s.bestScore {
		s.bestScore = s.score
		if err := s.store.SaveBestScore(s.score); err != nil {
			log.Printf("[Session] Warning: failed to save best score: %v", err)
		}
	}
	log.Printf("[Session] Game over: score=%d time=%s shots=%d", s.score, s.FormattedGameTime(), s.totalShots)
}

// SaveOnExit 程序退出时保存最高分
// 对局进行中且当前分数更高时也会写入存档
func (s *GameSession) SaveOnExit() bool {
	if s.score <= s.bestScore {
		return true
	}
	if err := s.store.SaveBestScore(s.score); err != nil {
		log.Printf("[Session] Warning: failed to save best score on exit: %v", err)
		return false
	}
	s.bestScore = s.score
	return true
}

// Update 推进会话调度器（仅在 Playing 状态）
func (s *GameSession) Update(dt float64) {
	if s.state != StatePlaying {
		return
	}
	s.scheduler.Update(dt)
}

// bonusMultiplier 合并得分倍率，目前固定为 1
func (s *GameSession) bonusMultiplier() int {
	return 1
}

// AddScoreForMerge 合并得分 = 等级 * PerTier * 倍率，并记录该等级的合并次数
// 返回获得的分数，非 Playing 状态返回 0
func (s *GameSession) AddScoreForMerge(t types.BubbleType) int {
	if s.state != StatePlaying || !t.IsValid() {
		return 0
	}
	points := int(t) * s.cfg.PerTier * s.bonusMultiplier()
	s.score += points
	s.mergeStats[t]++
	return points
}

// AddScoreForChainBonus 连锁合并奖励
func (s *GameSession) AddScoreForChainBonus() int {
	if s.state != StatePlaying {
		return 0
	}
	s.score += s.cfg.ChainBonus
	return s.cfg.ChainBonus
}

// AddScoreForMegaSpecial 最大等级湮灭奖励
func (s *GameSession) AddScoreForMegaSpecial() int {
	if s.state != StatePlaying {
		return 0
	}
	s.score += s.cfg.MegaBonus
	return s.cfg.MegaBonus
}

// IncrementShotCount 发射次数加一
func (s *GameSession) IncrementShotCount() {
	if s.state != StatePlaying {
		return
	}
	s.totalShots++
}

// State 当前状态
func (s *GameSession) State() GameState {
	return s.state
}

// IsGameActive 是否处于 Playing 状态
func (s *GameSession) IsGameActive() bool {
	return s.state == StatePlaying
}

// Score 当前分数
func (s *GameSession) Score() int {
	return s.score
}

// BestScore 最高分（存档最高分与当前分数中较大者）
func (s *GameSession) BestScore() int {
	if s.score > s.bestScore {
		return s.score
	}
	return s.bestScore
}

// GameTime 游戏时间（秒，不含暂停）
func (s *GameSession) GameTime() float64 {
	return s.gameTime
}

// TotalShots 发射次数
func (s *GameSession) TotalShots() int {
	return s.totalShots
}

// MergeStats 各等级合并次数的副本
func (s *GameSession) MergeStats() map[types.BubbleType]int {
	out := make(map[types.BubbleType]int, len(s.mergeStats))
	for t, n := range s.mergeStats {
		out[t] = n
	}
	return out
}

// TotalMerges 合并总次数
func (s *GameSession) TotalMerges() int {
	total := 0
	for _, n := range s.mergeStats {
		total += n
	}
	return total
}

// MergeSuccessRate 合并成功率 = 合并总次数 / 发射次数 * 100，未发射时为 0
func (s *GameSession) MergeSuccessRate() float64 {
	if s.totalShots == 0 {
		return 0
	}
	return float64(s.TotalMerges()) / float64(s.totalShots) * 100
}

// FormattedGameTime 返回 MM:SS 格式的游戏时间
func (s *GameSession) FormattedGameTime() string {
	total := int(s.gameTime)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormattedScore 返回带千位分隔符的分数
func (s *GameSession) FormattedScore() string {
	return s.printer.Sprintf("%d", s.score)
}

// Summary 返回对局统计摘要
func (s *GameSession) Summary() string {
	var b strings.Builder
	b.WriteString("Game Summary:\n")
	fmt.Fprintf(&b, "Score: %s\n", s.FormattedScore())
	fmt.Fprintf(&b, "Time: %s\n", s.FormattedGameTime())
	fmt.Fprintf(&b, "Total Shots: %d\n", s.totalShots)
	fmt.Fprintf(&b, "Success Rate: %.1f%%\n", s.MergeSuccessRate())

	if len(s.mergeStats) > 0 {
		tiers := make([]types.BubbleType, 0, len(s.mergeStats))
		for t := range s.mergeStats {
			tiers = append(tiers, t)
		}
		sort.Slice(tiers, func(i, j int) bool { return tiers[i] < tiers[j] })

		b.WriteString("\nMerge Statistics:\n")
		for _, t := range tiers {
			fmt.Fprintf(&b, "%s: %d\n", t, s.mergeStats[t])
		}
	}
	return b.String()
}

// Scheduler 会话的延迟任务队列
func (s *GameSession) Scheduler() *Scheduler {
	return s.scheduler
}

// Events 会话的事件队列
func (s *GameSession) Events() *EventQueue {
	return s.events
}

// Clock 本局的游戏时钟（秒，不含暂停），用于冷却判断
func (s *GameSession) Clock() float64 {
	return s.scheduler.Now()
}
