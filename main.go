package main

import (
	"flag"
	"log"
	"os"

	"github.com/gonewx/bubblesky/pkg/app"
	"github.com/gonewx/bubblesky/pkg/config"
	"github.com/gonewx/bubblesky/pkg/embedded"
	"github.com/gonewx/bubblesky/pkg/game"
	"github.com/gonewx/bubblesky/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"
)

// saveAppName gdata 存储目录名
const saveAppName = "bubblesky"

var (
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
	seed       = flag.Int64("seed", 0, "随机种子（0 表示使用当前时间）")
	configPath = flag.String("config", "", "外部玩法参数 YAML 文件（覆盖内置 data/gameplay.yaml）")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源（dataFS 在 embed.go 中声明）
	embedded.Init(dataFS)

	var gameplay *config.GameplayConfig
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("读取配置文件失败: %v", err)
		}
		gameplay, err = config.ParseGameplayConfig(data)
		if err != nil {
			log.Fatalf("配置文件无效: %v", err)
		}
	}

	// 打开最高分存储，失败时降级为仅内存
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[Main] Warning: %v", err)
	}
	gdataManager, err := gdata.Open(gdata.Config{AppName: saveAppName})
	if err != nil {
		log.Printf("[Main] Warning: gdata unavailable, best score will not persist: %v", err)
		gdataManager = nil
	}

	gameApp, err := app.NewApp(app.Config{
		Verbose:  *verbose,
		Seed:     *seed,
		Gameplay: gameplay,
		Store:    game.NewGdataScoreStore(gdataManager),
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	width, height := gameApp.ScreenSize()
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("bubbleSky")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(gameApp); err != nil && err != ebiten.Termination {
		log.Fatal(err)
	}
}
