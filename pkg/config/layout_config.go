package config

// 布局计算
// 所有坐标使用屏幕坐标系（原点在左上角，y 轴向下）
// 重力向上，泡泡堆积在顶部；游戏区底边即游戏结束线

// PlayAreaLayout 由 GameplayConfig 推导出的游戏区几何信息
type PlayAreaLayout struct {
	ScreenWidth  float64
	ScreenHeight float64

	Left, Right float64 // 游戏区左右边界
	Top, Bottom float64 // 游戏区上下边界
	CenterX     float64

	// LineY 游戏结束线（泡泡中心低于此线即越线）
	LineY float64

	// PadY 待发射泡泡所在高度，PadMinX/PadMaxX 为发射台可移动范围
	PadY             float64
	PadMinX, PadMaxX float64
	// LauncherY 发射角色所在高度（游戏区下方）
	LauncherY float64

	// 顶部曲线边界：y = CeilingBaseY + CeilingDepth*(1-nx²)，nx ∈ [-1, 1]
	CeilingBaseY    float64
	CeilingDepth    float64
	CeilingHalfSpan float64
}

// launcherOffset 发射角色位于结束线下方的距离
const launcherOffset = 40.0

// NewPlayAreaLayout 根据配置计算游戏区布局
func NewPlayAreaLayout(cfg *GameplayConfig) PlayAreaLayout {
	w := float64(cfg.Screen.Width)
	h := float64(cfg.Screen.Height)
	pa := cfg.PlayArea

	playW := w * pa.WidthRatio
	playH := h * pa.HeightRatio
	offset := h * pa.CenterOffsetRatio

	l := PlayAreaLayout{
		ScreenWidth:  w,
		ScreenHeight: h,
		CenterX:      w / 2,
		Left:         w/2 - playW/2,
		Right:        w/2 + playW/2,
		// 游戏区中心相对屏幕中心向上偏移 offset
		Top:    h/2 - playH/2 - offset,
		Bottom: h/2 + playH/2 - offset,
	}

	l.LineY = l.Bottom
	l.PadY = l.LineY - pa.PadOffset
	l.LauncherY = l.LineY + launcherOffset
	l.PadMinX = l.CenterX - playW*pa.PadRangeRatio
	l.PadMaxX = l.CenterX + playW*pa.PadRangeRatio

	l.CeilingBaseY = l.Bottom - playH*pa.CeilingHeightRatio
	l.CeilingDepth = playH * pa.CeilingDepthRatio
	l.CeilingHalfSpan = playW * pa.CeilingSpanRatio
	return l
}

// Width 游戏区宽度
func (l PlayAreaLayout) Width() float64 {
	return l.Right - l.Left
}

// Height 游戏区高度
func (l PlayAreaLayout) Height() float64 {
	return l.Bottom - l.Top
}

// ClampPadX 将发射台横坐标限制在可移动范围内
func (l PlayAreaLayout) ClampPadX(x float64) float64 {
	if x < l.PadMinX {
		return l.PadMinX
	}
	if x > l.PadMaxX {
		return l.PadMaxX
	}
	return x
}

// CeilingAt 返回横坐标 x 处的顶部边界高度
// 曲线范围之外退化为游戏区上边界
func (l PlayAreaLayout) CeilingAt(x float64) float64 {
	if l.CeilingHalfSpan <= 0 {
		return l.Top
	}
	nx := (x - l.CenterX) / l.CeilingHalfSpan
	if nx < -1 || nx > 1 {
		return l.Top
	}
	return l.CeilingBaseY + l.CeilingDepth*(1-nx*nx)
}

// IsBelowLine 位置是否越过游戏结束线
func (l PlayAreaLayout) IsBelowLine(y float64) bool {
	return y > l.LineY
}
