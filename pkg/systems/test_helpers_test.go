package systems

import (
	"math/rand"
	"testing"

	"github.com/gonewx/bubblesky/pkg/components"
	"github.com/gonewx/bubblesky/pkg/config"
	"github.com/gonewx/bubblesky/pkg/ecs"
	"github.com/gonewx/bubblesky/pkg/entities"
	"github.com/gonewx/bubblesky/pkg/game"
	"github.com/gonewx/bubblesky/pkg/physics"
	"github.com/gonewx/bubblesky/pkg/types"
)

// testArena 无窗口的完整游戏环境，所有系统共享同一个会话和物理世界
type testArena struct {
	cfg     *config.GameplayConfig
	layout  config.PlayAreaLayout
	table   *config.BubbleTable
	em      *ecs.EntityManager
	world   *physics.World
	store   *game.MemoryScoreStore
	session *game.GameSession
	rng     *rand.Rand

	merge   *MergeSystem
	overlap *OverlapSystem
	spawn   *SpawnSystem
	watch   *GameOverWatchSystem
	effects *EffectSystem
}

// newTestArena 创建测试环境并开始一局游戏
func newTestArena(t *testing.T) *testArena {
	t.Helper()

	cfg := config.DefaultGameplayConfig()
	layout := config.NewPlayAreaLayout(cfg)
	a := &testArena{
		cfg:    cfg,
		layout: layout,
		table:  config.DefaultBubbleTable(),
		em:     ecs.NewEntityManager(),
		world:  physics.NewWorldForLayout(cfg.Physics, layout),
		store:  &game.MemoryScoreStore{},
		rng:    rand.New(rand.NewSource(42)),
	}
	a.session = game.NewGameSession(cfg.Score, a.store)
	a.merge = NewMergeSystem(a.em, a.world, a.table, a.session, a.rng, cfg.Merge)
	a.overlap = NewOverlapSystem(a.em, a.world, a.table, cfg.Overlap)
	a.spawn = NewSpawnSystem(a.em, a.world, a.table, a.session, a.rng, layout, cfg.Launch)
	a.watch = NewGameOverWatchSystem(a.em, a.world, a.session, layout, cfg.GameOver)
	a.effects = NewEffectSystem(a.em)
	a.world.SetContactListener(a.merge.OnContactBegin)

	a.session.StartNewGame()
	a.session.Events().Clear()
	return a
}

// place 在指定位置放置一个动态泡泡
func (a *testArena) place(t types.BubbleType, x, y float64) ecs.EntityID {
	return entities.NewBubble(a.em, a.world, a.table, a.rng, entities.BubbleParams{
		Type:     t,
		Position: physics.Vec2{X: x, Y: y},
		Dynamic:  true,
	})
}

// step 按游戏场景的顺序推进一帧
func (a *testArena) step(dt float64) {
	a.session.Update(dt)
	if a.session.IsGameActive() {
		a.world.Step(dt)
		a.overlap.Update(dt)
		a.watch.Update()
	}
	a.effects.Update(dt)
	a.em.RemoveMarkedEntities()
}

// bubbleType 返回有效泡泡的等级，泡泡不存在时返回 BubbleUnknown
func (a *testArena) bubbleType(id ecs.EntityID) types.BubbleType {
	bubble, ok := entities.GetBubble(a.em, id)
	if !ok {
		return types.BubbleUnknown
	}
	return bubble.Type
}

// liveOfType 返回指定等级的所有有效泡泡
func (a *testArena) liveOfType(t types.BubbleType) []ecs.EntityID {
	var out []ecs.EntityID
	for _, id := range entities.LiveBubbles(a.em) {
		if a.bubbleType(id) == t {
			out = append(out, id)
		}
	}
	return out
}

// countEvents 统计事件类型
func countEvents(events []game.Event, typ game.EventType) int {
	n := 0
	for _, ev := range events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

// isMerging 泡泡是否已被合并消耗
func isMerging(em *ecs.EntityManager, id ecs.EntityID) bool {
	bubble, ok := ecs.GetComponent[*components.BubbleComponent](em, id)
	return ok && bubble.Merging
}
