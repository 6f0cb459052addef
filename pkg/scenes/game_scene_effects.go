package scenes

import (
	"image/color"
	"math"

	"github.com/gonewx/bubblesky/pkg/components"
	"github.com/gonewx/bubblesky/pkg/ecs"
	"github.com/gonewx/bubblesky/pkg/entities"
	"github.com/gonewx/bubblesky/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// bubbleOutlineSegments 泡泡轮廓折线段数
const bubbleOutlineSegments = 36

// drawBubbles 按等级颜色绘制所有泡泡，碰撞形变时按方向压扁
func (s *GameScene) drawBubbles(screen *ebiten.Image) {
	em := s.arena.EntityManager()
	world := s.arena.World()
	table := s.arena.Table()

	for _, id := range entities.LiveBubbles(em) {
		bubble, _ := entities.GetBubble(em, id)
		pos, ok := world.Position(id)
		if !ok {
			continue
		}

		sx, sy := 1.0, 1.0
		if deform, ok := ecs.GetComponent[*components.ImpactDeformComponent](em, id); ok {
			sx, sy = deform.Scale()
		}

		r := table.BodyRadius(bubble.Type)
		base := table.Color(bubble.Type)
		fill := color.NRGBA{R: base.R, G: base.G, B: base.B, A: base.A}
		outline := color.NRGBA{R: base.R, G: base.G, B: base.B, A: 220}

		vector.DrawFilledCircle(screen, float32(pos.X), float32(pos.Y), float32(r*(sx+sy)/2), fill, true)
		strokeEllipse(screen, pos.X, pos.Y, r*sx, r*sy, world.Angle(id), outline)
	}
}

// strokeEllipse 用折线绘制旋转后的椭圆轮廓
func strokeEllipse(screen *ebiten.Image, cx, cy, rx, ry, angle float64, c color.Color) {
	cos, sin := math.Cos(angle), math.Sin(angle)
	point := func(i int) (float32, float32) {
		t := 2 * math.Pi * float64(i) / bubbleOutlineSegments
		ex, ey := rx*math.Cos(t), ry*math.Sin(t)
		return float32(cx + ex*cos - ey*sin), float32(cy + ex*sin + ey*cos)
	}

	px, py := point(0)
	for i := 1; i <= bubbleOutlineSegments; i++ {
		x, y := point(i)
		vector.StrokeLine(screen, px, py, x, y, 2, c, true)
		px, py = x, y
	}
}

// drawEffects 绘制合并闪光、湮灭爆发和得分飘字
func (s *GameScene) drawEffects(screen *ebiten.Image) {
	em := s.arena.EntityManager()

	for _, id := range ecs.GetEntitiesWith2[*components.EffectComponent, *components.LifetimeComponent](em) {
		effect, _ := ecs.GetComponent[*components.EffectComponent](em, id)
		lifetime, _ := ecs.GetComponent[*components.LifetimeComponent](em, id)
		p := lifetime.Progress()

		switch effect.Kind {
		case components.EffectScorePopup:
			rise := 40 * utils.EaseOutQuad(p)
			c := color.NRGBA{R: 255, G: 255, B: 255, A: uint8((1 - p*p) * 255)}
			drawText(screen, effect.Text, s.fonts.popup, effect.X, effect.Y-rise-PopupFontSize/2, text.AlignCenter, c)

		default:
			grow := 1.6
			if effect.Kind == components.EffectMegaBurst {
				grow = 2.5
			}
			radius := effect.Radius * utils.Lerp(1, grow, utils.EaseOutCubic(p))
			c := color.NRGBA{R: effect.Color.R, G: effect.Color.G, B: effect.Color.B, A: uint8((1 - p) * 200)}
			width := float32(3)
			if effect.Kind == components.EffectChainFlash {
				width = 5
			}
			vector.StrokeCircle(screen, float32(effect.X), float32(effect.Y), float32(radius), width, c, true)
		}
	}
}
