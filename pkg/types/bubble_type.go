// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

// BubbleType 定义泡泡的尺寸等级（1..9）
// 等级构成严格的全序链：两个同级泡泡合并后得到下一级
type BubbleType int

const (
	// BubbleUnknown 无效等级
	BubbleUnknown BubbleType = iota
	// BubbleTiny 最小的泡泡
	BubbleTiny
	BubbleSmall
	BubbleMedium
	BubbleLarge
	// BubbleHuge 玩家可发射的最大等级
	BubbleHuge
	// BubbleGiant 以上只能通过合并得到
	BubbleGiant
	BubbleMega
	BubbleSuperBig
	// BubbleUltraBig 最大等级，两个合并时互相湮灭
	BubbleUltraBig
)

// MaxBubbleType 最大等级
const MaxBubbleType = BubbleUltraBig

// MaxLaunchableBubbleType 玩家可发射的最大等级
const MaxLaunchableBubbleType = BubbleHuge

// String 返回泡泡等级的名称
func (b BubbleType) String() string {
	switch b {
	case BubbleTiny:
		return "Tiny"
	case BubbleSmall:
		return "Small"
	case BubbleMedium:
		return "Medium"
	case BubbleLarge:
		return "Large"
	case BubbleHuge:
		return "Huge"
	case BubbleGiant:
		return "Giant"
	case BubbleMega:
		return "Mega"
	case BubbleSuperBig:
		return "SuperBig"
	case BubbleUltraBig:
		return "UltraBig"
	default:
		return "Unknown"
	}
}

// IsValid 是否为 1..9 范围内的有效等级
func (b BubbleType) IsValid() bool {
	return b >= BubbleTiny && b <= MaxBubbleType
}

// IsMax 是否为最大等级
func (b BubbleType) IsMax() bool {
	return b == MaxBubbleType
}

// IsLaunchable 是否可以直接发给玩家（Tiny..Huge）
func (b BubbleType) IsLaunchable() bool {
	return b >= BubbleTiny && b <= MaxLaunchableBubbleType
}

// Next 返回合并后的下一级
// 最大等级或无效等级返回 false
func (b BubbleType) Next() (BubbleType, bool) {
	if !b.IsValid() || b.IsMax() {
		return BubbleUnknown, false
	}
	return b + 1, true
}

// AllBubbleTypes 按等级顺序返回全部泡泡等级
func AllBubbleTypes() []BubbleType {
	all := make([]BubbleType, 0, int(MaxBubbleType))
	for t := BubbleTiny; t <= MaxBubbleType; t++ {
		all = append(all, t)
	}
	return all
}

// LaunchableBubbleTypes 按等级顺序返回可发射的泡泡等级
func LaunchableBubbleTypes() []BubbleType {
	launchable := make([]BubbleType, 0, int(MaxLaunchableBubbleType))
	for t := BubbleTiny; t <= MaxLaunchableBubbleType; t++ {
		launchable = append(launchable, t)
	}
	return launchable
}

// ParseBubbleType 根据名称解析泡泡等级（用于配置文件）
func ParseBubbleType(name string) (BubbleType, bool) {
	for _, t := range AllBubbleTypes() {
		if t.String() == name {
			return t, true
		}
	}
	return BubbleUnknown, false
}
