package systems

import (
	"math"
	"testing"

	"github.com/gonewx/bubblesky/pkg/components"
	"github.com/gonewx/bubblesky/pkg/ecs"
	"github.com/gonewx/bubblesky/pkg/entities"
	"github.com/gonewx/bubblesky/pkg/game"
	"github.com/gonewx/bubblesky/pkg/physics"
	"github.com/gonewx/bubblesky/pkg/types"
)

func contact(a, b ecs.EntityID) physics.Contact {
	return physics.Contact{A: a, B: b}
}

func TestMergeSystem_SameTierMerges(t *testing.T) {
	tests := []struct {
		name      string
		tier      types.BubbleType
		wantNext  types.BubbleType
		wantScore int
	}{
		{"Tiny 合成 Small", types.BubbleTiny, types.BubbleSmall, 10},
		{"Medium 合成 Large", types.BubbleMedium, types.BubbleLarge, 30},
		{"Huge 合成 Giant", types.BubbleHuge, types.BubbleGiant, 50},
		{"SuperBig 合成 UltraBig", types.BubbleSuperBig, types.BubbleUltraBig, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestArena(t)
			// 两侧留出足够空间，避免连锁检测命中
			idA := a.place(tt.tier, 150, 300)
			idB := a.place(tt.tier, 170, 300)

			a.merge.OnContactBegin(contact(idA, idB))

			if !isMerging(a.em, idA) || !isMerging(a.em, idB) {
				t.Error("both inputs should be consumed")
			}
			if a.world.HasBody(idA) || a.world.HasBody(idB) {
				t.Error("consumed bubbles should lose their bodies immediately")
			}

			spawned := a.liveOfType(tt.wantNext)
			if len(spawned) != 1 {
				t.Fatalf("expected one %s bubble, got %d", tt.wantNext, len(spawned))
			}
			pos, _ := a.world.Position(spawned[0])
			if pos != (physics.Vec2{X: 160, Y: 300}) {
				t.Errorf("merged bubble should appear at the midpoint, got %+v", pos)
			}
			if v, _ := a.world.Velocity(spawned[0]); v != (physics.Vec2{}) {
				t.Errorf("merged bubble should start at rest, got %+v", v)
			}
			if !a.world.IsDynamic(spawned[0]) {
				t.Error("merged bubble should be dynamic")
			}
			if bubble, _ := entities.GetBubble(a.em, spawned[0]); bubble.Origin != components.OriginMerged {
				t.Errorf("origin = %s, want merged", bubble.Origin)
			}

			if got := a.session.Score(); got != tt.wantScore {
				t.Errorf("score = %d, want %d", got, tt.wantScore)
			}
			if got := a.session.MergeStats()[tt.tier]; got != 1 {
				t.Errorf("merge stats[%s] = %d, want 1", tt.tier, got)
			}

			events := a.session.Events().Drain()
			if countEvents(events, game.EventBubbleMerged) != 1 {
				t.Errorf("expected one merged event, got %+v", events)
			}
			if countEvents(events, game.EventBubbleRemoved) != 2 {
				t.Errorf("expected two removed events, got %+v", events)
			}
		})
	}
}

func TestMergeSystem_IgnoresContacts(t *testing.T) {
	tests := []struct {
		name  string
		setup func(a *testArena) (ecs.EntityID, ecs.EntityID)
	}{
		{
			name: "不同等级不合并",
			setup: func(a *testArena) (ecs.EntityID, ecs.EntityID) {
				return a.place(types.BubbleTiny, 150, 300), a.place(types.BubbleSmall, 170, 300)
			},
		},
		{
			name: "发射台上的泡泡不合并",
			setup: func(a *testArena) (ecs.EntityID, ecs.EntityID) {
				idA := a.place(types.BubbleTiny, 150, 300)
				idB := a.place(types.BubbleTiny, 170, 300)
				a.world.SetDynamic(idB, false)
				return idA, idB
			},
		},
		{
			name: "暂停时不合并",
			setup: func(a *testArena) (ecs.EntityID, ecs.EntityID) {
				idA := a.place(types.BubbleTiny, 150, 300)
				idB := a.place(types.BubbleTiny, 170, 300)
				a.session.PauseGame()
				return idA, idB
			},
		},
		{
			name: "已移除的泡泡不合并",
			setup: func(a *testArena) (ecs.EntityID, ecs.EntityID) {
				idA := a.place(types.BubbleTiny, 150, 300)
				idB := a.place(types.BubbleTiny, 170, 300)
				entities.RemoveBubble(a.em, a.world, idB)
				return idA, idB
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestArena(t)
			idA, idB := tt.setup(a)
			before := len(entities.LiveBubbles(a.em))

			a.merge.OnContactBegin(contact(idA, idB))

			if got := len(entities.LiveBubbles(a.em)); got != before {
				t.Errorf("live bubbles changed from %d to %d", before, got)
			}
			if a.session.Score() != 0 {
				t.Errorf("score should stay 0, got %d", a.session.Score())
			}
			if isMerging(a.em, idA) {
				t.Error("first bubble should not be consumed")
			}
		})
	}
}

func TestMergeSystem_ConsumedBubbleMergesOnce(t *testing.T) {
	a := newTestArena(t)
	idA := a.place(types.BubbleTiny, 150, 300)
	idB := a.place(types.BubbleTiny, 170, 300)
	idC := a.place(types.BubbleTiny, 130, 300)

	// 同一步中 A 同时接触 B 和 C
	a.merge.OnContactBegin(contact(idA, idB))
	a.merge.OnContactBegin(contact(idA, idC))
	a.merge.OnContactBegin(contact(idB, idC))

	if a.session.Score() != 10 {
		t.Errorf("a consumed bubble must not merge again, score = %d", a.session.Score())
	}
	if a.bubbleType(idC) != types.BubbleTiny {
		t.Error("third bubble should remain untouched")
	}
	if got := len(a.liveOfType(types.BubbleSmall)); got != 1 {
		t.Errorf("expected exactly one Small, got %d", got)
	}
}

func TestMergeSystem_MaxTierAnnihilates(t *testing.T) {
	a := newTestArena(t)
	idA := a.place(types.BubbleUltraBig, 150, 300)
	idB := a.place(types.BubbleUltraBig, 250, 300)

	a.merge.OnContactBegin(contact(idA, idB))

	if got := len(entities.LiveBubbles(a.em)); got != 0 {
		t.Errorf("annihilation should leave no bubbles, got %d", got)
	}
	if a.session.Score() != 1000 {
		t.Errorf("score = %d, want 1000", a.session.Score())
	}
	if a.session.TotalMerges() != 0 {
		t.Errorf("annihilation must not count as a merge, got %d", a.session.TotalMerges())
	}

	events := a.session.Events().Drain()
	if countEvents(events, game.EventMegaAnnihilated) != 1 {
		t.Errorf("expected one annihilation event, got %+v", events)
	}
	if countEvents(events, game.EventBubbleSpawned) != 0 {
		t.Error("annihilation must not spawn a bubble")
	}
}

func TestMergeSystem_ChainReaction(t *testing.T) {
	a := newTestArena(t)
	a.session.IncrementShotCount()
	a.session.IncrementShotCount()

	idA := a.place(types.BubbleTiny, 150, 300)
	idB := a.place(types.BubbleTiny, 170, 300)
	// 已存在的 Small，与两个 Tiny 的中点相距 40，在刚体接触余量 44.78 之内
	idC := a.place(types.BubbleSmall, 160, 340)

	a.merge.OnContactBegin(contact(idA, idB))
	if a.session.Score() != 10 {
		t.Fatalf("score after first merge = %d, want 10", a.session.Score())
	}
	if stats := a.session.MergeStats(); len(stats) != 1 || stats[types.BubbleTiny] != 1 {
		t.Fatalf("stats after first merge = %v, want {Tiny:1}", stats)
	}

	// 连锁检测在 0.1 秒后执行
	a.session.Update(0.05)
	if a.bubbleType(idC) != types.BubbleSmall {
		t.Fatal("chain check must wait for its delay")
	}
	a.session.Update(0.06)

	if a.bubbleType(idC) != types.BubbleUnknown {
		t.Error("neighbouring Small should be consumed by the chain")
	}
	medium := a.liveOfType(types.BubbleMedium)
	if len(medium) != 1 {
		t.Fatalf("expected one Medium, got %d", len(medium))
	}
	pos, _ := a.world.Position(medium[0])
	if pos != (physics.Vec2{X: 160, Y: 320}) {
		t.Errorf("chain result should be at the midpoint, got %+v", pos)
	}
	if bubble, _ := entities.GetBubble(a.em, medium[0]); bubble.Origin != components.OriginChain {
		t.Errorf("origin = %s, want chain", bubble.Origin)
	}

	// 10 + (2*10 + 50)
	if a.session.Score() != 80 {
		t.Errorf("score = %d, want 80", a.session.Score())
	}
	stats := a.session.MergeStats()
	if stats[types.BubbleTiny] != 1 || stats[types.BubbleSmall] != 1 {
		t.Errorf("stats = %v, want {Tiny:1, Small:1}", stats)
	}
	if rate := a.session.MergeSuccessRate(); math.Abs(rate-100) > 1e-9 {
		t.Errorf("success rate = %v, want 100", rate)
	}

	events := a.session.Events().Drain()
	if countEvents(events, game.EventChainMerged) != 1 {
		t.Errorf("expected one chain event, got %+v", events)
	}
}

func TestMergeSystem_ChainTakesFirstMatchOnly(t *testing.T) {
	a := newTestArena(t)
	first := a.place(types.BubbleSmall, 160, 340)
	second := a.place(types.BubbleSmall, 160, 260)
	idA := a.place(types.BubbleTiny, 150, 300)
	idB := a.place(types.BubbleTiny, 170, 300)

	a.merge.OnContactBegin(contact(idA, idB))
	a.session.Update(0.1)

	if a.bubbleType(first) != types.BubbleUnknown {
		t.Error("lowest id neighbour should be consumed")
	}
	if a.bubbleType(second) != types.BubbleSmall {
		t.Error("only the first matching neighbour takes part in the chain")
	}
}

func TestMergeSystem_ChainIgnoresDistantAndInert(t *testing.T) {
	tests := []struct {
		name  string
		setup func(a *testArena) ecs.EntityID
	}{
		{
			name: "距离超出接触范围",
			setup: func(a *testArena) ecs.EntityID {
				// 刚体半径 19.89：19.89 + 19.89 + 5 = 44.78
				return a.place(types.BubbleSmall, 160, 352)
			},
		},
		{
			name: "刚体之间留有 7 像素间隙",
			setup: func(a *testArena) ecs.EntityID {
				gap := 2*a.table.BodyRadius(types.BubbleSmall) + 7
				return a.place(types.BubbleSmall, 160, 300+gap)
			},
		},
		{
			name: "相邻泡泡不是动态的",
			setup: func(a *testArena) ecs.EntityID {
				id := a.place(types.BubbleSmall, 160, 340)
				a.world.SetDynamic(id, false)
				return id
			},
		},
		{
			name: "相邻泡泡等级不同",
			setup: func(a *testArena) ecs.EntityID {
				return a.place(types.BubbleMedium, 160, 340)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestArena(t)
			neighbour := tt.setup(a)
			idA := a.place(types.BubbleTiny, 150, 300)
			idB := a.place(types.BubbleTiny, 170, 300)

			a.merge.OnContactBegin(contact(idA, idB))
			a.session.Update(0.2)

			if a.bubbleType(neighbour) == types.BubbleUnknown {
				t.Error("neighbour should not be consumed")
			}
			if a.session.Score() != 10 {
				t.Errorf("score = %d, want 10", a.session.Score())
			}
		})
	}
}

func TestMergeSystem_ChainAnnihilationAtMaxTier(t *testing.T) {
	a := newTestArena(t)
	existing := a.place(types.BubbleUltraBig, 160, 400)
	idA := a.place(types.BubbleSuperBig, 100, 300)
	idB := a.place(types.BubbleSuperBig, 220, 300)

	a.merge.OnContactBegin(contact(idA, idB))
	a.session.Update(0.1)

	if a.bubbleType(existing) != types.BubbleUnknown {
		t.Error("existing UltraBig should be annihilated by the chain")
	}
	if got := len(entities.LiveBubbles(a.em)); got != 0 {
		t.Errorf("no bubbles should remain, got %d", got)
	}
	// 8*10 合并 + 1000 湮灭，没有连锁奖励
	if a.session.Score() != 1080 {
		t.Errorf("score = %d, want 1080", a.session.Score())
	}
	if a.session.TotalMerges() != 1 {
		t.Errorf("only the SuperBig merge counts, got %d", a.session.TotalMerges())
	}
}

func TestMergeSystem_ChainCheckDroppedAfterRestart(t *testing.T) {
	a := newTestArena(t)
	idC := a.place(types.BubbleSmall, 160, 340)
	idA := a.place(types.BubbleTiny, 150, 300)
	idB := a.place(types.BubbleTiny, 170, 300)
	a.merge.OnContactBegin(contact(idA, idB))

	a.session.RestartGame()
	a.session.Update(1.0)

	if a.bubbleType(idC) != types.BubbleSmall {
		t.Error("chain check from the previous game must not fire")
	}
	if a.session.Score() != 0 {
		t.Errorf("score = %d, want 0", a.session.Score())
	}
}

func TestMergeSystem_ImpactDeformAndCooldown(t *testing.T) {
	a := newTestArena(t)
	idA := a.place(types.BubbleLarge, 100, 300)
	idB := a.place(types.BubbleHuge, 200, 300)

	hit := physics.Contact{A: idA, B: idB, RelativeSpeed: 250}
	a.merge.OnContactBegin(hit)

	for _, id := range []ecs.EntityID{idA, idB} {
		bubble, _ := entities.GetBubble(a.em, id)
		if bubble.LastImpactTime != a.session.Clock() {
			t.Errorf("bubble %d: LastImpactTime = %v, want %v", id, bubble.LastImpactTime, a.session.Clock())
		}
		deform, ok := ecs.GetComponent[*components.ImpactDeformComponent](a.em, id)
		if !ok {
			t.Fatalf("bubble %d should be deforming", id)
		}
		if math.Abs(deform.Amount-0.05) > 1e-9 {
			t.Errorf("deform amount = %v, want 0.05", deform.Amount)
		}
	}
	events := a.session.Events().Drain()
	if countEvents(events, game.EventBubbleImpact) != 2 {
		t.Fatalf("expected two impact events, got %+v", events)
	}

	// 冷却期内不再触发
	a.session.Update(0.1)
	a.merge.OnContactBegin(hit)
	if n := countEvents(a.session.Events().Drain(), game.EventBubbleImpact); n != 0 {
		t.Errorf("impact within cooldown should be ignored, got %d events", n)
	}

	a.session.Update(0.25)
	a.merge.OnContactBegin(hit)
	if n := countEvents(a.session.Events().Drain(), game.EventBubbleImpact); n != 2 {
		t.Errorf("impact after cooldown should fire again, got %d events", n)
	}
}

func TestMergeSystem_SlowContactHasNoImpact(t *testing.T) {
	a := newTestArena(t)
	idA := a.place(types.BubbleLarge, 100, 300)
	idB := a.place(types.BubbleHuge, 200, 300)

	a.merge.OnContactBegin(physics.Contact{A: idA, B: idB, RelativeSpeed: 100})

	if ecs.HasComponent[*components.ImpactDeformComponent](a.em, idA) {
		t.Error("contact at the threshold should not deform")
	}
	if v, _ := a.world.Velocity(idA); v != (physics.Vec2{}) {
		t.Errorf("slow contact should not scatter, got %+v", v)
	}
}

func TestMergeSystem_SameTierImpactStillMerges(t *testing.T) {
	a := newTestArena(t)
	idA := a.place(types.BubbleMedium, 100, 300)
	idB := a.place(types.BubbleMedium, 160, 300)

	a.merge.OnContactBegin(physics.Contact{A: idA, B: idB, RelativeSpeed: 300})

	if got := len(a.liveOfType(types.BubbleLarge)); got != 1 {
		t.Errorf("strong same-tier contact should still merge, got %d Large", got)
	}
}

// TestMergeSystem_Simulation 完整模拟中的不变量：
// 合并只生成高一级泡泡，所有得分都来自合并、连锁和湮灭事件
func TestMergeSystem_Simulation(t *testing.T) {
	a := newTestArena(t)
	a.spawn.SpawnPadBubble()

	spawnedType := make(map[ecs.EntityID]types.BubbleType)
	eventScore := 0
	merges := 0

	const dt = 1.0 / 60
	for frame := 0; frame < 60*90 && a.session.IsGameActive(); frame++ {
		if frame%40 == 0 {
			a.spawn.MovePad(a.layout.Left + a.rng.Float64()*a.layout.Width())
			a.spawn.Launch()
		}
		a.step(dt)

		for _, ev := range a.session.Events().Drain() {
			switch ev.Type {
			case game.EventBubbleSpawned:
				spawnedType[ev.Entity] = ev.BubbleType
			case game.EventBubbleMerged, game.EventChainMerged:
				merges++
				eventScore += ev.Score
				next, ok := ev.BubbleType.Next()
				if !ok || spawnedType[ev.Entity] != next {
					t.Fatalf("%s merge produced %s", ev.BubbleType, spawnedType[ev.Entity])
				}
			case game.EventMegaAnnihilated:
				eventScore += ev.Score
			}
		}

		for _, id := range entities.LiveBubbles(a.em) {
			if !a.bubbleType(id).IsValid() {
				t.Fatalf("bubble %d has invalid tier", id)
			}
		}
		if a.watch.Armed() != (len(a.watch.Offending()) > 0) && a.session.IsGameActive() {
			t.Fatalf("frame %d: armed=%v with %d offending bubbles", frame, a.watch.Armed(), len(a.watch.Offending()))
		}
	}

	if merges == 0 {
		t.Fatal("simulation should produce at least one merge")
	}
	if eventScore != a.session.Score() {
		t.Errorf("score %d does not match event total %d", a.session.Score(), eventScore)
	}
	if merges != a.session.TotalMerges() {
		t.Errorf("merge events %d, stats %d", merges, a.session.TotalMerges())
	}
}
