//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
// 手动构建：
//
//	# Android
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.gonewx.bubblesky -o build/android/bubblesky.aar -v ./mobile
//
//	# iOS (仅 macOS)
//	ebitenmobile bind -target ios -tags mobile -o build/ios/BubbleSky.xcframework -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"
	"github.com/quasilyte/gdata/v2"

	"github.com/gonewx/bubblesky/pkg/app"
	"github.com/gonewx/bubblesky/pkg/embedded"
	"github.com/gonewx/bubblesky/pkg/game"
	"github.com/gonewx/bubblesky/pkg/utils"
)

func init() {
	// 初始化嵌入资源（dataFS 在 embed.go 中声明）
	embedded.Init(dataFS)

	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[Mobile] Warning: %v", err)
	}
	gdataManager, err := gdata.Open(gdata.Config{AppName: "bubblesky"})
	if err != nil {
		log.Printf("[Mobile] Warning: gdata unavailable: %v", err)
		gdataManager = nil
	}

	gameApp, err := app.NewApp(app.Config{
		Verbose: true,
		Store:   game.NewGdataScoreStore(gdataManager),
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	// 注册游戏到 ebitenmobile
	mobile.SetGame(gameApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
