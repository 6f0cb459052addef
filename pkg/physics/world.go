package physics

import (
	"math"
	"sort"

	"github.com/gonewx/bubblesky/pkg/config"
	"github.com/gonewx/bubblesky/pkg/ecs"
)

const (
	// contactTolerance 距离在半径和之外这么多像素以内也算接触
	contactTolerance = 0.5
	// positionSlop 允许的轻微重叠，超出部分才做位置修正
	positionSlop = 0.5
	// correctionPercent 每个子步修正的穿透比例
	correctionPercent = 0.6
)

// WorldConfig 物理世界参数
type WorldConfig struct {
	Gravity         float64 // 向上的重力加速度（px/s²）
	TimeScale       float64
	LinearDamping   float64
	AngularDamping  float64
	WallRestitution float64
	WallFriction    float64
	SubSteps        int
}

// Bounds 世界边界
// 左右为竖直墙，Floor 为底部（泡泡不会掉出屏幕），顶部为 Ceiling(x) 曲线
type Bounds struct {
	Left, Right float64
	Floor       float64
	// Ceiling 返回 x 处顶部边界的 y 值，nil 表示没有顶部
	Ceiling func(x float64) float64
}

type body struct {
	id          ecs.EntityID
	pos, vel    Vec2
	angle       float64
	angVel      float64
	radius      float64
	mass        float64
	restitution float64
	friction    float64
	dynamic     bool
}

func (b *body) invMass() float64 {
	if !b.dynamic || b.mass <= 0 {
		return 0
	}
	return 1 / b.mass
}

type pairKey struct {
	a, b ecs.EntityID
}

func makePair(a, b ecs.EntityID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// World 圆形刚体物理世界，实现 Engine 接口
//
// 刚体按 ID 升序存放，步进、碰撞和接触回调的顺序完全确定，
// 相同输入和随机种子会得到相同的模拟结果。
type World struct {
	cfg    WorldConfig
	bounds Bounds

	bodies map[ecs.EntityID]*body
	order  []ecs.EntityID

	touching map[pairKey]bool
	listener ContactListener
}

// NewWorld 创建物理世界
func NewWorld(cfg WorldConfig, bounds Bounds) *World {
	if cfg.SubSteps < 1 {
		cfg.SubSteps = 1
	}
	if cfg.TimeScale <= 0 {
		cfg.TimeScale = 1
	}
	return &World{
		cfg:      cfg,
		bounds:   bounds,
		bodies:   make(map[ecs.EntityID]*body),
		touching: make(map[pairKey]bool),
	}
}

// NewWorldForLayout 根据玩法配置和游戏区布局创建物理世界
// 底部边界放在屏幕底边，泡泡被挤压时可以越过游戏结束线
func NewWorldForLayout(cfg config.PhysicsConfig, layout config.PlayAreaLayout) *World {
	return NewWorld(WorldConfig{
		Gravity:         cfg.Gravity,
		TimeScale:       cfg.TimeScale,
		LinearDamping:   cfg.LinearDamping,
		AngularDamping:  cfg.LinearDamping,
		WallRestitution: cfg.WallRestitution,
		WallFriction:    cfg.WallFriction,
		SubSteps:        cfg.SubSteps,
	}, Bounds{
		Left:    layout.Left,
		Right:   layout.Right,
		Floor:   layout.ScreenHeight,
		Ceiling: layout.CeilingAt,
	})
}

// AddBody 添加刚体，已存在的同 ID 刚体会被替换
func (w *World) AddBody(def BodyDef) {
	if def.ID == ecs.InvalidEntity {
		return
	}
	if _, exists := w.bodies[def.ID]; !exists {
		i := sort.Search(len(w.order), func(i int) bool { return w.order[i] >= def.ID })
		w.order = append(w.order, 0)
		copy(w.order[i+1:], w.order[i:])
		w.order[i] = def.ID
	}
	w.bodies[def.ID] = &body{
		id:          def.ID,
		pos:         def.Position,
		radius:      def.Radius,
		mass:        def.Mass,
		restitution: def.Restitution,
		friction:    def.Friction,
		dynamic:     def.Dynamic,
	}
}

// RemoveBody 移除刚体，不存在时忽略
func (w *World) RemoveBody(id ecs.EntityID) {
	if _, exists := w.bodies[id]; !exists {
		return
	}
	delete(w.bodies, id)
	i := sort.Search(len(w.order), func(i int) bool { return w.order[i] >= id })
	if i < len(w.order) && w.order[i] == id {
		w.order = append(w.order[:i], w.order[i+1:]...)
	}
	for k := range w.touching {
		if k.a == id || k.b == id {
			delete(w.touching, k)
		}
	}
}

// Clear 移除所有刚体（重新开局）
func (w *World) Clear() {
	w.bodies = make(map[ecs.EntityID]*body)
	w.order = w.order[:0]
	w.touching = make(map[pairKey]bool)
}

// HasBody 刚体是否存在
func (w *World) HasBody(id ecs.EntityID) bool {
	_, ok := w.bodies[id]
	return ok
}

// BodyIDs 按 ID 升序返回所有刚体
func (w *World) BodyIDs() []ecs.EntityID {
	ids := make([]ecs.EntityID, len(w.order))
	copy(ids, w.order)
	return ids
}

// BodyCount 刚体数量
func (w *World) BodyCount() int {
	return len(w.order)
}

func (w *World) Position(id ecs.EntityID) (Vec2, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return Vec2{}, false
	}
	return b.pos, true
}

func (w *World) SetPosition(id ecs.EntityID, p Vec2) {
	if b, ok := w.bodies[id]; ok {
		b.pos = p
	}
}

func (w *World) Velocity(id ecs.EntityID) (Vec2, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return Vec2{}, false
	}
	return b.vel, true
}

func (w *World) SetVelocity(id ecs.EntityID, v Vec2) {
	if b, ok := w.bodies[id]; ok {
		b.vel = v
	}
}

// Angle 刚体的旋转角度（弧度），只用于绘制
func (w *World) Angle(id ecs.EntityID) float64 {
	if b, ok := w.bodies[id]; ok {
		return b.angle
	}
	return 0
}

// AngularVelocity 角速度
func (w *World) AngularVelocity(id ecs.EntityID) float64 {
	if b, ok := w.bodies[id]; ok {
		return b.angVel
	}
	return 0
}

func (w *World) SetAngularVelocity(id ecs.EntityID, av float64) {
	if b, ok := w.bodies[id]; ok {
		b.angVel = av
	}
}

func (w *World) AddAngularVelocity(id ecs.EntityID, dw float64) {
	if b, ok := w.bodies[id]; ok && b.dynamic {
		b.angVel += dw
	}
}

func (w *World) ApplyImpulse(id ecs.EntityID, j Vec2) {
	b, ok := w.bodies[id]
	if !ok || !b.dynamic {
		return
	}
	b.vel = b.vel.Add(j.Scale(b.invMass()))
}

// SetDynamic 切换动态状态，变为非动态时清零速度
func (w *World) SetDynamic(id ecs.EntityID, dynamic bool) {
	b, ok := w.bodies[id]
	if !ok {
		return
	}
	b.dynamic = dynamic
	if !dynamic {
		b.vel = Vec2{}
		b.angVel = 0
	}
}

func (w *World) IsDynamic(id ecs.EntityID) bool {
	b, ok := w.bodies[id]
	return ok && b.dynamic
}

// Radius 刚体的碰撞半径
func (w *World) Radius(id ecs.EntityID) float64 {
	if b, ok := w.bodies[id]; ok {
		return b.radius
	}
	return 0
}

func (w *World) SetContactListener(l ContactListener) {
	w.listener = l
}

// Step 推进物理世界 dt 秒（乘以 TimeScale 后分成若干子步）
// 所有子步完成后才派发新接触，回调中删除的刚体不会再收到后续接触
func (w *World) Step(dt float64) {
	if dt <= 0 || len(w.order) == 0 {
		return
	}

	h := dt * w.cfg.TimeScale / float64(w.cfg.SubSteps)
	touching := make(map[pairKey]bool, len(w.touching))
	began := make(map[pairKey]Contact)

	for s := 0; s < w.cfg.SubSteps; s++ {
		w.integrate(h)
		w.solveContacts(func(k pairKey, c Contact) {
			touching[k] = true
			if w.touching[k] {
				return
			}
			if _, seen := began[k]; !seen {
				began[k] = c
			}
		})
		w.solveBounds()
	}
	w.touching = touching

	if w.listener == nil || len(began) == 0 {
		return
	}

	keys := make([]pairKey, 0, len(began))
	for k := range began {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].a != keys[j].a {
			return keys[i].a < keys[j].a
		}
		return keys[i].b < keys[j].b
	})
	for _, k := range keys {
		if !w.HasBody(k.a) || !w.HasBody(k.b) {
			continue
		}
		w.listener(began[k])
	}
}

func (w *World) integrate(h float64) {
	linear := 1 / (1 + w.cfg.LinearDamping*h)
	angular := 1 / (1 + w.cfg.AngularDamping*h)
	for _, id := range w.order {
		b := w.bodies[id]
		if !b.dynamic {
			continue
		}
		// 屏幕坐标 y 向下，重力向上
		b.vel.Y -= w.cfg.Gravity * h
		b.vel = b.vel.Scale(linear)
		b.pos = b.pos.Add(b.vel.Scale(h))
		b.angVel *= angular
		b.angle += b.angVel * h
	}
}

func (w *World) solveContacts(report func(pairKey, Contact)) {
	for i := 0; i < len(w.order); i++ {
		a := w.bodies[w.order[i]]
		for j := i + 1; j < len(w.order); j++ {
			b := w.bodies[w.order[j]]
			if !a.dynamic && !b.dynamic {
				continue
			}

			delta := b.pos.Sub(a.pos)
			dist := delta.Len()
			rsum := a.radius + b.radius
			if dist > rsum+contactTolerance {
				continue
			}

			n := Vec2{X: 1}
			if dist > 1e-9 {
				n = delta.Scale(1 / dist)
			}
			relVel := b.vel.Sub(a.vel)
			report(pairKey{a: a.id, b: b.id}, Contact{
				A:             a.id,
				B:             b.id,
				RelativeSpeed: relVel.Len(),
				Normal:        n,
			})

			if dist >= rsum {
				continue
			}
			invA, invB := a.invMass(), b.invMass()
			invSum := invA + invB
			if invSum == 0 {
				continue
			}

			if vn := relVel.Dot(n); vn < 0 {
				e := math.Max(a.restitution, b.restitution)
				jn := -(1 + e) * vn / invSum
				impulse := n.Scale(jn)
				a.vel = a.vel.Sub(impulse.Scale(invA))
				b.vel = b.vel.Add(impulse.Scale(invB))

				// 库仑摩擦
				relVel = b.vel.Sub(a.vel)
				tangent := relVel.Sub(n.Scale(relVel.Dot(n)))
				if tl := tangent.Len(); tl > 1e-9 {
					tangent = tangent.Scale(1 / tl)
					jt := -relVel.Dot(tangent) / invSum
					mu := math.Sqrt(a.friction * b.friction)
					jt = math.Max(-mu*jn, math.Min(mu*jn, jt))
					ft := tangent.Scale(jt)
					a.vel = a.vel.Sub(ft.Scale(invA))
					b.vel = b.vel.Add(ft.Scale(invB))
				}
			}

			if pen := rsum - dist; pen > positionSlop {
				corr := n.Scale((pen - positionSlop) * correctionPercent / invSum)
				a.pos = a.pos.Sub(corr.Scale(invA))
				b.pos = b.pos.Add(corr.Scale(invB))
			}
		}
	}
}

func (w *World) solveBounds() {
	for _, id := range w.order {
		b := w.bodies[id]
		if !b.dynamic {
			continue
		}
		w.resolveWall(b, Vec2{X: 1}, b.pos.X-w.bounds.Left)
		w.resolveWall(b, Vec2{X: -1}, w.bounds.Right-b.pos.X)
		if w.bounds.Floor > 0 {
			w.resolveWall(b, Vec2{Y: -1}, w.bounds.Floor-b.pos.Y)
		}
		if w.bounds.Ceiling != nil {
			// 曲线 y = f(x) 下方为可活动区域，法线为 (-f'(x), 1) 归一化
			x := b.pos.X
			slope := (w.bounds.Ceiling(x+0.5) - w.bounds.Ceiling(x-0.5))
			grad := Vec2{X: -slope, Y: 1}
			gl := grad.Len()
			dist := (b.pos.Y - w.bounds.Ceiling(x)) / gl
			w.resolveWall(b, grad.Scale(1/gl), dist)
		}
	}
}

// resolveWall n 指向可活动区域，dist 为圆心到墙面的有向距离
func (w *World) resolveWall(b *body, n Vec2, dist float64) {
	if dist >= b.radius {
		return
	}
	b.pos = b.pos.Add(n.Scale(b.radius - dist))

	vn := b.vel.Dot(n)
	if vn >= 0 {
		return
	}
	jn := -(1 + w.cfg.WallRestitution) * vn
	b.vel = b.vel.Add(n.Scale(jn))

	vt := b.vel.Sub(n.Scale(b.vel.Dot(n)))
	if vtl := vt.Len(); vtl > 1e-9 {
		drop := math.Min(vtl, w.cfg.WallFriction*jn)
		b.vel = b.vel.Sub(vt.Scale(drop / vtl))
	}
}

var _ Engine = (*World)(nil)
