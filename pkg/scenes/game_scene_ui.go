package scenes

import (
	"fmt"
	"image/color"

	"github.com/gonewx/bubblesky/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 界面字号
const (
	HUDFontSize   = 14
	HintFontSize  = 11
	PopupFontSize = 16
	TitleFontSize = 30
)

var (
	overlayColor       = color.NRGBA{R: 0, G: 0, B: 0, A: 160}
	restartButtonColor = color.NRGBA{R: 255, G: 255, B: 255, A: 220}
	textColor          = color.NRGBA{R: 240, G: 240, B: 245, A: 255}
	hintColor          = color.NRGBA{R: 240, G: 240, B: 245, A: 140}
)

// sceneFonts 场景使用的字体
type sceneFonts struct {
	hud   *text.GoTextFace
	hint  *text.GoTextFace
	popup *text.GoTextFace
	title *text.GoTextFace
}

// loadSceneFonts 加载所有字号，任一失败返回错误
func loadSceneFonts() (sceneFonts, error) {
	var fonts sceneFonts
	for _, f := range []struct {
		dst  **text.GoTextFace
		size float64
	}{
		{&fonts.hud, HUDFontSize},
		{&fonts.hint, HintFontSize},
		{&fonts.popup, PopupFontSize},
		{&fonts.title, TitleFontSize},
	} {
		face, err := utils.LoadUIFont(f.size)
		if err != nil {
			return sceneFonts{}, err
		}
		*f.dst = face
	}
	return fonts, nil
}

// controlHint 屏幕底部的操作提示，移动端不显示键盘快捷键
func controlHint() string {
	if utils.IsMobile() {
		return "Drag to aim, release to launch  ·  Two fingers: pause"
	}
	return "Drag, release or Space: launch  ·  P: pause  ·  R: restart"
}

// drawText 在 (x, y) 处绘制文字，y 为首行顶部
// face 为 nil（字体加载失败）时不绘制
func drawText(screen *ebiten.Image, msg string, face *text.GoTextFace, x, y float64, align text.Align, c color.Color) {
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	op.PrimaryAlign = align
	op.LineSpacing = face.Size * 1.4
	text.Draw(screen, msg, face, op)
}

// drawHUD 绘制分数、时间、最高分、泡泡数量和操作提示
func (s *GameScene) drawHUD(screen *ebiten.Image) {
	session := s.arena.Session()
	left, right := s.layout.Left, s.layout.Right

	drawText(screen, fmt.Sprintf("Score: %s", session.FormattedScore()), s.fonts.hud, left, 6, text.AlignStart, textColor)
	drawText(screen, fmt.Sprintf("Time: %s", session.FormattedGameTime()), s.fonts.hud, left, 24, text.AlignStart, textColor)
	drawText(screen, fmt.Sprintf("Best: %d", session.BestScore()), s.fonts.hud, right, 6, text.AlignEnd, textColor)
	drawText(screen, fmt.Sprintf("Bubbles: %d", s.arena.BubbleCount()), s.fonts.hud, right, 24, text.AlignEnd, textColor)

	drawText(screen, controlHint(), s.fonts.hint, s.layout.CenterX, s.layout.ScreenHeight-22, text.AlignCenter, hintColor)
}

func (s *GameScene) drawPauseOverlay(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, float32(s.layout.ScreenWidth), float32(s.layout.ScreenHeight), overlayColor, false)
	midY := s.layout.ScreenHeight / 2
	drawText(screen, "Paused", s.fonts.title, s.layout.CenterX, midY-40, text.AlignCenter, textColor)
	drawText(screen, "Tap to resume", s.fonts.hud, s.layout.CenterX, midY+4, text.AlignCenter, textColor)
}

// drawGameOverOverlay 绘制游戏结束遮罩、统计摘要和重新开始区域
func (s *GameScene) drawGameOverOverlay(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, float32(s.layout.ScreenWidth), float32(s.layout.ScreenHeight), overlayColor, false)

	midY := s.layout.ScreenHeight / 2
	drawText(screen, "Game Over", s.fonts.title, s.layout.CenterX, midY-200, text.AlignCenter, textColor)
	drawText(screen, s.arena.Session().Summary(), s.fonts.hint, s.layout.Left+16, midY-150, text.AlignStart, textColor)

	r := s.restartRegion
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 2, restartButtonColor, true)
	drawText(screen, "Tap to Restart", s.fonts.hud, s.layout.CenterX, r.Y+r.H/2-HUDFontSize*0.7, text.AlignCenter, textColor)
}
