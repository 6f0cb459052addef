// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/gonewx/bubblesky/pkg/config"
	"github.com/gonewx/bubblesky/pkg/game"
	"github.com/gonewx/bubblesky/pkg/modules"
	"github.com/gonewx/bubblesky/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Seed 随机种子，0 表示使用当前时间
	Seed int64
	// Gameplay 玩法参数，nil 时从嵌入的 data/gameplay.yaml 加载
	Gameplay *config.GameplayConfig
	// Store 最高分存储，nil 时只保存在内存
	Store game.BestScoreStore
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	screenWidth              int
	screenHeight             int
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	gameplay := cfg.Gameplay
	if gameplay == nil {
		loaded, err := config.LoadGameplayConfig(config.GameplayConfigPath)
		if err != nil {
			return nil, fmt.Errorf("玩法参数加载失败: %w", err)
		}
		gameplay = loaded
	}

	table, err := config.LoadBubbleTable(config.BubbleTypesConfigPath)
	if err != nil {
		return nil, fmt.Errorf("泡泡等级表加载失败: %w", err)
	}
	log.Printf("[Config] 加载玩法参数和泡泡等级表完成（屏幕 %dx%d）", gameplay.Screen.Width, gameplay.Screen.Height)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// 创建场景管理器，重新加载时每局换一个种子
	sceneManager := game.NewSceneManager()
	games := int64(0)
	newScene := func() game.Scene {
		arenaCfg := modules.ArenaConfig{
			Gameplay: gameplay,
			Table:    table,
			Store:    cfg.Store,
			Seed:     seed + games,
		}
		games++
		return scenes.NewGameScene(sceneManager, arenaCfg)
	}
	sceneManager.SetSceneFactory(newScene)
	sceneManager.SwitchTo(newScene())

	log.Printf("[App] Started with seed %d", seed)

	return &App{
		sceneManager: sceneManager,
		screenWidth:  gameplay.Screen.Width,
		screenHeight: gameplay.Screen.Height,
		verbose:      cfg.Verbose,
	}, nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 关闭窗口前保存最高分
	if ebiten.IsWindowBeingClosed() {
		a.SaveOnExit()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.screenWidth, a.screenHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.screenWidth, a.screenHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	// F5 重新创建场景（调试用）
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		a.sceneManager.Reload()
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.screenWidth, a.screenHeight
}

// ScreenSize 返回逻辑屏幕尺寸，用于设置初始窗口大小
func (a *App) ScreenSize() (int, int) {
	return a.screenWidth, a.screenHeight
}

// SaveOnExit 保存当前场景的状态（最高分）
func (a *App) SaveOnExit() bool {
	return a.sceneManager.SaveOnExit()
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
