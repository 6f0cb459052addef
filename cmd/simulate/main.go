// simulate 无头运行一局 bubbleSky，用于调参和回归检查
//
// 用法：
//
//	go run ./cmd/simulate -seed 42 -duration 300 -interval 0.8
//
// 发射台每隔 interval 秒随机移动并发射一次，直到游戏结束或达到 duration。
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"sort"

	"github.com/gonewx/bubblesky/pkg/config"
	"github.com/gonewx/bubblesky/pkg/game"
	"github.com/gonewx/bubblesky/pkg/modules"
)

const tickRate = 60

var (
	seed       = flag.Int64("seed", 1, "随机种子")
	duration   = flag.Float64("duration", 600, "最长模拟时间（秒）")
	interval   = flag.Float64("interval", 0.8, "两次发射之间的间隔（秒）")
	configPath = flag.String("config", "", "玩法参数 YAML 文件，为空使用默认值")
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
)

func main() {
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	gameplay, err := loadGameplay(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置加载失败: %v\n", err)
		os.Exit(1)
	}

	arena := modules.NewArenaModule(modules.ArenaConfig{
		Gameplay: gameplay,
		Store:    &game.MemoryScoreStore{},
		Seed:     *seed,
	})
	arena.Start()

	// 发射台移动使用独立的随机源，不影响对局本身的随机序列
	aim := rand.New(rand.NewSource(*seed + 1))
	layout := arena.Layout()

	dt := 1.0 / tickRate
	ticks := int(*duration * tickRate)
	shotEvery := int(*interval * tickRate)
	if shotEvery < 1 {
		shotEvery = 1
	}

	frame := 0
	for ; frame < ticks && arena.Session().State() != game.StateGameOver; frame++ {
		if frame%shotEvery == 0 {
			arena.MovePad(layout.PadMinX + aim.Float64()*(layout.PadMaxX-layout.PadMinX))
			arena.Launch()
		}
		arena.Update(dt)
	}

	fmt.Printf("seed=%d frames=%d simulated=%.1fs\n", *seed, frame, float64(frame)*dt)
	fmt.Println(arena.Session().Summary())
	printEventCounts(arena.EventCounts())
}

// loadGameplay 读取外部配置文件，未指定时使用默认参数
func loadGameplay(path string) (*config.GameplayConfig, error) {
	if path == "" {
		return config.DefaultGameplayConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return config.ParseGameplayConfig(data)
}

func printEventCounts(counts map[game.EventType]int) {
	keys := make([]game.EventType, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	fmt.Println("events:")
	for _, k := range keys {
		fmt.Printf("  %-18s %d\n", k, counts[k])
	}
}
