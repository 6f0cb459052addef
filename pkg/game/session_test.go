package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/gonewx/bubblesky/pkg/config"
	"github.com/gonewx/bubblesky/pkg/types"
)

func newTestSession(store BestScoreStore) *GameSession {
	return NewGameSession(config.DefaultGameplayConfig().Score, store)
}

type failingStore struct{}

func (failingStore) LoadBestScore() (int, error) { return 0, errors.New("disk on fire") }
func (failingStore) SaveBestScore(int) error { return errors.New("disk on fire") }

func TestGameSession_StateTransitions(t *testing.T) {
	s := newTestSession(nil)
	if s.State() != StateReady {
		t.Fatalf("new session should be Ready, got %v", s.State())
	}

	// Ready 状态下暂停、恢复、结束都无效
	s.PauseGame()
	s.ResumeGame()
	s.EndGame()
	if s.State() != StateReady {
		t.Fatalf("invalid transitions changed state to %v", s.State())
	}

	s.StartNewGame()
	if !s.IsGameActive() {
		t.Fatal("StartNewGame should enter Playing")
	}

	s.ResumeGame()
	if s.State() != StatePlaying {
		t.Error("ResumeGame from Playing must be a no-op")
	}

	s.PauseGame()
	if s.State() != StatePaused {
		t.Fatalf("PauseGame: got %v", s.State())
	}
	s.EndGame()
	if s.State() != StatePaused {
		t.Error("EndGame is only valid from Playing")
	}

	s.ResumeGame()
	s.EndGame()
	if s.State() != StateGameOver {
		t.Fatalf("EndGame: got %v", s.State())
	}

	s.RestartGame()
	if s.State() != StatePlaying {
		t.Errorf("RestartGame: got %v", s.State())
	}
}

func TestGameSession_ScoringOnlyWhilePlaying(t *testing.T) {
	s := newTestSession(nil)

	if got := s.AddScoreForMerge(types.BubbleTiny); got != 0 {
		t.Errorf("scoring in Ready should be ignored, got %d", got)
	}
	s.IncrementShotCount()

	s.StartNewGame()
	s.PauseGame()
	s.AddScoreForMerge(types.BubbleLarge)
	s.AddScoreForChainBonus()
	s.AddScoreForMegaSpecial()
	s.IncrementShotCount()

	if s.Score() != 0 || s.TotalShots() != 0 || s.TotalMerges() != 0 {
		t.Errorf("paused session must not mutate: score=%d shots=%d merges=%d",
			s.Score(), s.TotalShots(), s.TotalMerges())
	}
}

func TestGameSession_ScoreAccounting(t *testing.T) {
	tests := []struct {
		name string
		play func(s *GameSession)
		want int
	}{
		{"Tiny 合并", func(s *GameSession) { s.AddScoreForMerge(types.BubbleTiny) }, 10},
		{"Huge 合并", func(s *GameSession) { s.AddScoreForMerge(types.BubbleHuge) }, 50},
		{"SuperBig 合并", func(s *GameSession) { s.AddScoreForMerge(types.BubbleSuperBig) }, 80},
		{"连锁合并", func(s *GameSession) {
			s.AddScoreForMerge(types.BubbleSmall)
			s.AddScoreForChainBonus()
		}, 70},
		{"最大等级湮灭", func(s *GameSession) { s.AddScoreForMegaSpecial() }, 1000},
		{"无效等级", func(s *GameSession) { s.AddScoreForMerge(types.BubbleUnknown) }, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(nil)
			s.StartNewGame()
			tt.play(s)
			if s.Score() != tt.want {
				t.Errorf("score: got %d, want %d", s.Score(), tt.want)
			}
		})
	}
}

func TestGameSession_MergeStatsAndSuccessRate(t *testing.T) {
	s := newTestSession(nil)
	s.StartNewGame()

	if got := s.MergeSuccessRate(); got != 0 {
		t.Errorf("success rate without shots should be 0, got %v", got)
	}

	for i := 0; i < 4; i++ {
		s.IncrementShotCount()
	}
	s.AddScoreForMerge(types.BubbleTiny)
	s.AddScoreForMerge(types.BubbleTiny)
	s.AddScoreForMerge(types.BubbleSmall)
	// 湮灭不计入合并统计
	s.AddScoreForMegaSpecial()

	stats := s.MergeStats()
	if stats[types.BubbleTiny] != 2 || stats[types.BubbleSmall] != 1 {
		t.Errorf("unexpected merge stats: %v", stats)
	}
	stats[types.BubbleTiny] = 99
	if s.MergeStats()[types.BubbleTiny] != 2 {
		t.Error("MergeStats must return a copy")
	}

	if s.TotalMerges() != 3 {
		t.Errorf("TotalMerges: got %d, want 3", s.TotalMerges())
	}
	if got := s.MergeSuccessRate(); got != 75 {
		t.Errorf("MergeSuccessRate: got %v, want 75", got)
	}
}

func TestGameSession_StartResetsEverything(t *testing.T) {
	s := newTestSession(nil)
	s.StartNewGame()
	s.IncrementShotCount()
	s.AddScoreForMerge(types.BubbleMedium)
	s.Update(3.2)
	pending := s.Scheduler().After(10, func() {})

	s.RestartGame()

	if s.Score() != 0 || s.TotalShots() != 0 || s.TotalMerges() != 0 || s.GameTime() != 0 {
		t.Errorf("restart should reset stats: score=%d shots=%d merges=%d time=%v",
			s.Score(), s.TotalShots(), s.TotalMerges(), s.GameTime())
	}
	if s.Scheduler().Pending(pending) {
		t.Error("tasks from the previous game must be invalidated")
	}
}

func TestGameSession_GameTimeExcludesPause(t *testing.T) {
	s := newTestSession(nil)
	s.StartNewGame()

	s.Update(2.5)
	if s.GameTime() != 2 {
		t.Fatalf("after 2.5s playing expected 2 ticks, got %v", s.GameTime())
	}

	s.PauseGame()
	s.Update(100)
	if s.GameTime() != 2 {
		t.Errorf("time advanced while paused: %v", s.GameTime())
	}

	s.ResumeGame()
	s.Update(0.6)
	if s.GameTime() != 3 {
		t.Errorf("after resume expected 3, got %v", s.GameTime())
	}

	s.EndGame()
	s.Update(10)
	if s.GameTime() != 3 {
		t.Errorf("time advanced after game over: %v", s.GameTime())
	}
}

func TestGameSession_PausedTasksAreFrozen(t *testing.T) {
	s := newTestSession(nil)
	s.StartNewGame()
	fired := false
	s.Scheduler().After(0.5, func() { fired = true })

	s.PauseGame()
	s.Update(5)
	if fired {
		t.Fatal("deferred task fired while paused")
	}
	s.ResumeGame()
	s.Update(0.5)
	if !fired {
		t.Error("deferred task should fire after resuming")
	}
}

func TestGameSession_BestScorePersistence(t *testing.T) {
	store := &MemoryScoreStore{Best: 100}
	s := newTestSession(store)
	s.StartNewGame()

	if s.BestScore() != 100 {
		t.Fatalf("best score should be loaded on start, got %d", s.BestScore())
	}

	s.AddScoreForMegaSpecial()
	if s.BestScore() != 1000 {
		t.Errorf("BestScore reports the running score once it is higher, got %d", s.BestScore())
	}
	s.EndGame()
	if store.Best != 1000 || store.Saves != 1 {
		t.Errorf("new best should be saved once: best=%d saves=%d", store.Best, store.Saves)
	}

	// 未超过最高分时不写入
	s.RestartGame()
	s.AddScoreForMerge(types.BubbleTiny)
	s.EndGame()
	if store.Saves != 1 {
		t.Errorf("lower score must not be saved, saves=%d", store.Saves)
	}
	if s.BestScore() != 1000 {
		t.Errorf("BestScore after a worse game: got %d", s.BestScore())
	}
}

func TestGameSession_SaveOnExit(t *testing.T) {
	store := &MemoryScoreStore{Best: 10}
	s := newTestSession(store)
	s.StartNewGame()

	if !s.SaveOnExit() || store.Saves != 0 {
		t.Fatal("nothing to save yet")
	}
	s.AddScoreForMerge(types.BubbleHuge)
	if !s.SaveOnExit() {
		t.Fatal("SaveOnExit failed")
	}
	if store.Best != 50 {
		t.Errorf("running score should be saved on exit, got %d", store.Best)
	}
}

func TestGameSession_StoreFailuresDegrade(t *testing.T) {
	s := newTestSession(failingStore{})
	s.StartNewGame()
	if s.BestScore() != 0 {
		t.Errorf("failed load should fall back to 0, got %d", s.BestScore())
	}
	s.AddScoreForMerge(types.BubbleTiny)
	s.EndGame()
	if s.State() != StateGameOver {
		t.Error("save failure must not block EndGame")
	}
	if s.SaveOnExit() {
		t.Error("SaveOnExit should report the failure")
	}
}

func TestGameSession_Formatting(t *testing.T) {
	s := newTestSession(nil)
	s.StartNewGame()

	s.Update(125.5)
	if got := s.FormattedGameTime(); got != "02:05" {
		t.Errorf("FormattedGameTime: got %q, want 02:05", got)
	}

	for i := 0; i < 2; i++ {
		s.AddScoreForMegaSpecial()
	}
	s.AddScoreForMerge(types.BubbleSmall)
	if got := s.FormattedScore(); got != "2,020" {
		t.Errorf("FormattedScore: got %q, want 2,020", got)
	}
}

func TestGameSession_Summary(t *testing.T) {
	s := newTestSession(nil)
	s.StartNewGame()
	s.IncrementShotCount()
	s.IncrementShotCount()
	s.AddScoreForMerge(types.BubbleSmall)
	s.AddScoreForMerge(types.BubbleTiny)

	summary := s.Summary()
	for _, want := range []string{"Score: 30", "Total Shots: 2", "Success Rate: 100.0%", "Merge Statistics:"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
	if strings.Index(summary, "Tiny: 1") > strings.Index(summary, "Small: 1") {
		t.Errorf("merge statistics should be sorted by tier:\n%s", summary)
	}
}

func TestGameSession_Events(t *testing.T) {
	s := newTestSession(nil)
	s.StartNewGame()
	s.PauseGame()
	s.ResumeGame()

	events := s.Events().Drain()
	want := []EventType{EventGameStarted, EventGamePaused, EventGameResumed}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, e := range events {
		if e.Type != want[i] {
			t.Errorf("event %d: got %v, want %v", i, e.Type, want[i])
		}
	}
	if s.Events().Len() != 0 {
		t.Error("Drain should empty the queue")
	}
}

func TestGameSessions_AreIndependent(t *testing.T) {
	a := newTestSession(nil)
	b := newTestSession(nil)
	a.StartNewGame()
	b.StartNewGame()

	a.AddScoreForMegaSpecial()
	a.Update(3)

	if b.Score() != 0 || b.GameTime() != 0 {
		t.Error("sessions must not share state")
	}
}
