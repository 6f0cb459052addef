package scenes

import (
	"log"

	"github.com/gonewx/bubblesky/pkg/config"
	"github.com/gonewx/bubblesky/pkg/game"
	"github.com/gonewx/bubblesky/pkg/modules"
	"github.com/gonewx/bubblesky/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	// RestartButtonWidth / RestartButtonHeight 游戏结束界面"重新开始"区域尺寸
	RestartButtonWidth  = 160
	RestartButtonHeight = 44
	// RestartButtonOffsetY 重新开始区域相对屏幕中心的纵向偏移
	RestartButtonOffsetY = 120

	// LineBlinkHalfPeriod 结束线闪烁的半周期（秒）
	LineBlinkHalfPeriod = 0.3
)

// GameScene represents the main gameplay screen.
// It owns one arena (session + systems) and turns pointer input into
// pad movement, launches, pause and restart.
type GameScene struct {
	sceneManager *game.SceneManager
	arena        *modules.ArenaModule
	layout       config.PlayAreaLayout
	drag         *utils.DragManager
	fonts        sceneFonts

	// armedTime 结束线宽限计时开始后经过的时间，用于闪烁
	armedTime float64
	// restartRegion 游戏结束时点击重新开始的区域
	restartRegion utils.Rect
}

// NewGameScene creates the gameplay scene and starts the first game.
//
// 参数:
//   - sm: 场景管理器
//   - cfg: 竞技场配置（玩法参数、等级表、最高分存储、随机种子）
func NewGameScene(sm *game.SceneManager, cfg modules.ArenaConfig) *GameScene {
	arena := modules.NewArenaModule(cfg)
	layout := arena.Layout()

	s := &GameScene{
		sceneManager: sm,
		arena:        arena,
		layout:       layout,
		drag:         utils.GetDragManager(),
		restartRegion: utils.Rect{
			X: layout.CenterX - RestartButtonWidth/2,
			Y: layout.ScreenHeight/2 + RestartButtonOffsetY,
			W: RestartButtonWidth,
			H: RestartButtonHeight,
		},
	}
	fonts, err := loadSceneFonts()
	if err != nil {
		log.Printf("[GameScene] Warning: failed to load fonts, text will not be drawn: %v", err)
	}
	s.fonts = fonts

	s.drag.Reset()
	arena.Start()

	log.Printf("[GameScene] Created (screen %.0fx%.0f)", layout.ScreenWidth, layout.ScreenHeight)
	return s
}

// Update 处理输入并推进一帧
func (s *GameScene) Update(deltaTime float64) {
	s.handleInput()
	s.advance(deltaTime)
}

// advance 推进游戏逻辑（不读取输入）
func (s *GameScene) advance(deltaTime float64) {
	s.arena.Update(deltaTime)

	if s.arena.GameOverArmed() {
		s.armedTime += deltaTime
	} else {
		s.armedTime = 0
	}
}

// handleInput 读取键盘、鼠标和触摸输入
func (s *GameScene) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) || utils.IsSecondTouchJustPressed() {
		s.togglePause()
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		s.restart()
		return
	}
	if s.arena.Session().IsGameActive() && inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.arena.Launch()
	}

	s.drag.Update()
	s.handlePointer(s.drag.GetInfo(), s.drag.IsTap())
}

// handlePointer 根据拖拽状态和游戏状态执行操作
//   - Playing：按下和拖动时移动发射台，松手发射
//   - Paused：点击恢复
//   - GameOver：点击重新开始区域重新开始
func (s *GameScene) handlePointer(info utils.DragInfo, tap bool) {
	switch s.arena.Session().State() {
	case game.StatePlaying:
		switch info.State {
		case utils.DragStateStarted, utils.DragStateDragging:
			s.arena.MovePad(float64(info.CurrentX))
		case utils.DragStateEnded:
			s.arena.Launch()
		}

	case game.StatePaused:
		if info.State == utils.DragStateEnded && tap {
			s.togglePause()
		}

	case game.StateGameOver:
		if info.State == utils.DragStateEnded && tap && s.restartRegion.Contains(info.CurrentX, info.CurrentY) {
			s.restart()
		}
	}
}

func (s *GameScene) togglePause() {
	s.arena.TogglePause()
	// 第二根手指暂停时，第一根手指的拖拽不应在恢复后触发发射
	s.drag.Reset()
}

func (s *GameScene) restart() {
	s.arena.Restart()
	s.drag.Reset()
	s.armedTime = 0
}

// SaveOnExit 退出时保存最高分
func (s *GameScene) SaveOnExit() bool {
	return s.arena.SaveOnExit()
}

// Draw renders the play area, bubbles, effects and HUD.
func (s *GameScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	s.drawPlayArea(screen)
	s.drawGameOverLine(screen)
	s.drawLauncher(screen)
	s.drawBubbles(screen)
	s.drawEffects(screen)
	s.drawHUD(screen)

	switch s.arena.Session().State() {
	case game.StatePaused:
		s.drawPauseOverlay(screen)
	case game.StateGameOver:
		s.drawGameOverOverlay(screen)
	}
}
