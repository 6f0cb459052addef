package scenes

import (
	"image/color"

	"github.com/gonewx/bubblesky/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	backgroundColor = color.NRGBA{R: 18, G: 24, B: 38, A: 255}
	playAreaColor   = color.NRGBA{R: 120, G: 150, B: 200, A: 160}
	lineColor       = color.NRGBA{R: 255, G: 59, B: 48, A: 255}
	launcherColor   = color.NRGBA{R: 230, G: 230, B: 240, A: 255}
)

// ceilingSegments 曲线顶边的折线段数
const ceilingSegments = 32

// drawPlayArea 绘制游戏区边框和曲线顶边
func (s *GameScene) drawPlayArea(screen *ebiten.Image) {
	l := s.layout
	vector.StrokeRect(screen, float32(l.Left), float32(l.Top), float32(l.Width()), float32(l.Height()), 2, playAreaColor, true)

	x0 := l.CenterX - l.CeilingHalfSpan
	step := 2 * l.CeilingHalfSpan / ceilingSegments
	for i := 0; i < ceilingSegments; i++ {
		xa := x0 + float64(i)*step
		xb := xa + step
		vector.StrokeLine(screen, float32(xa), float32(l.CeilingAt(xa)), float32(xb), float32(l.CeilingAt(xb)), 2, playAreaColor, true)
	}
}

// drawGameOverLine 绘制结束线，宽限计时中闪烁
func (s *GameScene) drawGameOverLine(screen *ebiten.Image) {
	alpha := 0.35
	if s.arena.GameOverArmed() {
		alpha = utils.BlinkAlpha(s.armedTime, LineBlinkHalfPeriod, 1.0, 0.6)
	}
	c := lineColor
	c.A = uint8(alpha * 255)

	l := s.layout
	vector.StrokeLine(screen, float32(l.Left), float32(l.LineY), float32(l.Right), float32(l.LineY), 2, c, true)
}

// drawLauncher 绘制发射台位置和瞄准线
func (s *GameScene) drawLauncher(screen *ebiten.Image) {
	l := s.layout
	x := float32(s.arena.PadX())

	guide := launcherColor
	guide.A = 40
	vector.StrokeLine(screen, x, float32(l.PadY), x, float32(l.CeilingAt(float64(x))), 1, guide, true)
	vector.DrawFilledCircle(screen, x, float32(l.LauncherY), 12, launcherColor, true)
}
