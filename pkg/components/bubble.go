package components

import "github.com/gonewx/bubblesky/pkg/types"

// BubbleOrigin 泡泡的来源
type BubbleOrigin int

const (
	// OriginPad 在发射台上生成（发射前为非动态）
	OriginPad BubbleOrigin = iota
	// OriginMerged 由两个同级泡泡碰撞合并产生
	OriginMerged
	// OriginChain 由连锁检测合并产生
	OriginChain
)

// String 返回来源名称
func (o BubbleOrigin) String() string {
	switch o {
	case OriginPad:
		return "pad"
	case OriginMerged:
		return "merged"
	case OriginChain:
		return "chain"
	default:
		return "unknown"
	}
}

// BubbleComponent 泡泡组件
// 位置、速度和是否动态由物理引擎保存，这里只有玩法状态
type BubbleComponent struct {
	Type types.BubbleType

	// Merging 已被某次合并消耗，等待帧末销毁
	// 为 true 的泡泡不再参与任何合并、连锁或越线判定
	Merging bool

	// LastImpactTime 上次触发碰撞形变的游戏时钟（秒），用于冷却
	// 初始为负无穷的替代值，保证第一次碰撞不受冷却限制
	LastImpactTime float64

	// SpawnedAt 生成时的游戏时钟（秒）
	SpawnedAt float64

	Origin BubbleOrigin
}

// NeverImpacted LastImpactTime 的初始值
const NeverImpacted = -1e9

// IsLive 泡泡是否仍然有效（未被合并消耗）
func (b *BubbleComponent) IsLive() bool {
	return b != nil && !b.Merging
}
