// Package physics 提供泡泡使用的圆形刚体物理
//
// 游戏逻辑只通过 Engine 接口访问物理状态：位置、速度和动态标记都以
// 物理引擎为准，ECS 组件中不保存副本。
package physics

import "github.com/gonewx/bubblesky/pkg/ecs"

// BodyDef 创建刚体所需的参数
type BodyDef struct {
	ID          ecs.EntityID
	Position    Vec2
	Radius      float64
	Mass        float64
	Restitution float64
	Friction    float64
	// Dynamic 为 false 时刚体不受重力和碰撞影响（发射台上的泡泡、冻结的泡泡）
	Dynamic bool
}

// Contact 一次新开始的接触
type Contact struct {
	A, B ecs.EntityID // A < B
	// RelativeSpeed 接触开始时两者的相对速度大小（碰撞响应之前）
	RelativeSpeed float64
	// Normal 从 A 指向 B 的单位向量
	Normal Vec2
}

// ContactListener 接触开始回调
// 在整个物理步进结束后按 (A, B) 升序调用，回调中可以安全地增删刚体
type ContactListener func(c Contact)

// Engine 游戏系统依赖的物理引擎接口
type Engine interface {
	AddBody(def BodyDef)
	RemoveBody(id ecs.EntityID)
	HasBody(id ecs.EntityID) bool

	Position(id ecs.EntityID) (Vec2, bool)
	// SetPosition 直接移动刚体，仅用于发射台上的非动态泡泡
	SetPosition(id ecs.EntityID, p Vec2)
	Velocity(id ecs.EntityID) (Vec2, bool)
	SetVelocity(id ecs.EntityID, v Vec2)
	SetAngularVelocity(id ecs.EntityID, w float64)
	AddAngularVelocity(id ecs.EntityID, dw float64)
	// ApplyImpulse 施加冲量，速度变化 = j / mass；非动态刚体忽略
	ApplyImpulse(id ecs.EntityID, j Vec2)

	SetDynamic(id ecs.EntityID, dynamic bool)
	IsDynamic(id ecs.EntityID) bool

	SetContactListener(l ContactListener)
}
