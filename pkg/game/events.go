package game

import (
	"github.com/gonewx/bubblesky/pkg/ecs"
	"github.com/gonewx/bubblesky/pkg/physics"
	"github.com/gonewx/bubblesky/pkg/types"
)

// EventType 玩法事件类型
type EventType int

const (
	EventGameStarted EventType = iota
	EventGamePaused
	EventGameResumed
	EventBubbleSpawned
	EventBubbleLaunched
	EventBubbleRemoved
	EventBubbleMerged
	EventChainMerged
	EventMegaAnnihilated
	EventBubbleImpact
	EventGameOverArmed
	EventGameOverDisarmed
	EventGameOver
)

var eventTypeNames = map[EventType]string{
	EventGameStarted:      "GameStarted",
	EventGamePaused:       "GamePaused",
	EventGameResumed:      "GameResumed",
	EventBubbleSpawned:    "BubbleSpawned",
	EventBubbleLaunched:   "BubbleLaunched",
	EventBubbleRemoved:    "BubbleRemoved",
	EventBubbleMerged:     "BubbleMerged",
	EventChainMerged:      "ChainMerged",
	EventMegaAnnihilated:  "MegaAnnihilated",
	EventBubbleImpact:     "BubbleImpact",
	EventGameOverArmed:    "GameOverArmed",
	EventGameOverDisarmed: "GameOverDisarmed",
	EventGameOver:         "GameOver",
}

// String 返回事件名称
func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Event 玩法核心发出的事件，由表现层和统计工具消费
type Event struct {
	Type EventType
	// Entity 事件主体（生成、移除的泡泡，合并产生的新泡泡）
	Entity ecs.EntityID
	// Other 碰撞或合并的另一方
	Other      ecs.EntityID
	BubbleType types.BubbleType
	Position   physics.Vec2
	// Direction 碰撞方向（从 Entity 指向 Other）
	Direction physics.Vec2
	// Score 本次事件获得的分数
	Score int
}

// EventQueue 单线程事件队列
type EventQueue struct {
	events []Event
}

// NewEventQueue 创建事件队列
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push 追加事件
func (q *EventQueue) Push(e Event) {
	q.events = append(q.events, e)
}

// Drain 取出并清空所有事件
func (q *EventQueue) Drain() []Event {
	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = nil
	return out
}

// Len 队列中的事件数量
func (q *EventQueue) Len() int {
	return len(q.events)
}

// Clear 丢弃所有事件
func (q *EventQueue) Clear() {
	q.events = nil
}
