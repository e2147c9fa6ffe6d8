package systems

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gonewx/frontline/pkg/components"
)

// 战场配色
var (
	skyTopColor       = color.RGBA{R: 8, G: 12, B: 32, A: 255}
	skyHorizonColor   = color.RGBA{R: 46, G: 38, B: 72, A: 255}
	groundColor       = color.RGBA{R: 34, G: 40, B: 28, A: 255}
	groundLineColor   = color.RGBA{R: 70, G: 82, B: 54, A: 255}
	starColor         = color.RGBA{R: 230, G: 230, B: 255, A: 255}
	farMountainColor  = color.RGBA{R: 52, G: 48, B: 86, A: 255}
	nearMountainColor = color.RGBA{R: 30, G: 34, B: 48, A: 255}
	tracerColor       = color.RGBA{R: 255, G: 230, B: 140, A: 255}
	tracerTailColor   = color.RGBA{R: 255, G: 150, B: 60, A: 160}
	rotorColor        = color.RGBA{R: 200, G: 200, B: 210, A: 200}
)

// groundLineDepths 地面透视线所在的深度
var groundLineDepths = []float64{0.15, 0.3, 0.5, 0.75, 1.0, 1.25}

// RenderSystem ebiten 战场渲染器
//
// Present 在模拟 tick 末尾接收 Snapshot，Draw 在 ebiten 的绘制阶段读取最近一帧。
// 两者都在 ebiten 的游戏循环 goroutine 上调用。
// 渲染器只读取 Snapshot，从不接触 WorldState。
type RenderSystem struct {
	latest *components.Snapshot
	hud    *HUDRenderSystem

	whitePixel       *ebiten.Image
	particleVertices []ebiten.Vertex // 复用，避免每帧分配
	particleIndices  []uint16
}

// NewRenderSystem 创建战场渲染器
func NewRenderSystem(hud *HUDRenderSystem) *RenderSystem {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &RenderSystem{
		hud:              hud,
		whitePixel:       white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
		particleVertices: make([]ebiten.Vertex, 0, 4*600),
		particleIndices:  make([]uint16, 0, 6*600),
	}
}

// Present 接收新的一帧
func (s *RenderSystem) Present(snap *components.Snapshot) {
	s.latest = snap
}

// Latest 返回最近一帧（可能为 nil）
func (s *RenderSystem) Latest() *components.Snapshot {
	return s.latest
}

// Draw 绘制最近一帧
// 渲染顺序（从底到顶）：天空 → 星空 → 远山 → 近山 → 地面 → 敌人 → 子弹 → 粒子 → HUD
func (s *RenderSystem) Draw(screen *ebiten.Image) {
	snap := s.latest
	if snap == nil || screen == nil {
		return
	}

	ox, oy := float32(snap.ShakeX), float32(snap.ShakeY)
	s.drawSky(screen, snap, ox, oy)
	for _, layer := range snap.Layers {
		s.drawLayer(screen, snap, layer, ox, oy)
	}
	s.drawGround(screen, snap, ox, oy)

	for _, e := range snap.Enemies {
		drawEnemy(screen, e, ox, oy)
	}
	for _, b := range snap.Bullets {
		vector.StrokeLine(screen, float32(b.TailX)+ox, float32(b.TailY)+oy, float32(b.X)+ox, float32(b.Y)+oy,
			float32(b.Radius), tracerTailColor, true)
		vector.FillCircle(screen, float32(b.X)+ox, float32(b.Y)+oy, float32(b.Radius), tracerColor, true)
	}
	s.drawParticles(screen, snap.Particles, ox, oy)

	if s.hud != nil {
		s.hud.Draw(screen, snap)
	}
}

func (s *RenderSystem) drawSky(screen *ebiten.Image, snap *components.Snapshot, ox, oy float32) {
	w := float32(snap.Width)
	horizon := float32(snap.HorizonY) + oy
	screen.Fill(skyTopColor)
	// 地平线附近的一条亮带
	band := horizon * 0.35
	vector.FillRect(screen, 0, horizon-band, w, band, skyHorizonColor, false)
}

func (s *RenderSystem) drawLayer(screen *ebiten.Image, snap *components.Snapshot, layer components.LayerSprites, ox, oy float32) {
	w := float32(snap.Width)

	if layer.Kind == components.LayerStars {
		for _, st := range layer.Shapes {
			size := float32(st.Width)
			vector.FillRect(screen, float32(st.X)+ox*0.2, float32(st.BaseY)+oy*0.2, size, size, starColor, false)
		}
		return
	}

	clr := farMountainColor
	if layer.Kind == components.LayerNearMountains {
		clr = nearMountainColor
	}

	for _, m := range layer.Shapes {
		// 环带回绕：靠近左右边缘的山峰在另一侧再画一次
		for _, shift := range []float32{-w, 0, w} {
			x := float32(m.X) + shift + ox
			half := float32(m.Width) / 2
			if x+half < 0 || x-half > w {
				continue
			}
			var path vector.Path
			path.MoveTo(x-half, float32(m.BaseY)+oy)
			path.LineTo(x, float32(m.BaseY-m.Height)+oy)
			path.LineTo(x+half, float32(m.BaseY)+oy)
			path.Close()
			op := &vector.DrawPathOptions{AntiAlias: true}
			op.ColorScale.ScaleWithColor(clr)
			vector.FillPath(screen, &path, &vector.FillOptions{}, op)
		}
	}
}

func (s *RenderSystem) drawGround(screen *ebiten.Image, snap *components.Snapshot, ox, oy float32) {
	w := float32(snap.Width)
	h := float32(snap.Height)
	horizon := float32(snap.HorizonY)
	vector.FillRect(screen, 0, horizon+oy, w, h-horizon+absf(oy), groundColor, false)

	// 与敌人投影一致的深度线
	for _, z := range groundLineDepths {
		y := horizon + (h-horizon)*float32(z)*0.8 + oy
		if y > h {
			break
		}
		vector.StrokeLine(screen, 0, y, w, y, 1, groundLineColor, false)
	}
}

func drawEnemy(screen *ebiten.Image, e components.EnemySprite, ox, oy float32) {
	x := float32(e.X) + ox
	y := float32(e.Y) + oy
	size := float32(e.Size)
	if size < 2 {
		size = 2
	}

	switch e.Type {
	case components.EnemyTank:
		// 车体 + 炮塔 + 炮管
		vector.FillRect(screen, x-size/2, y-size/4, size, size/2, e.Body, false)
		vector.FillRect(screen, x-size/5, y-size/2, size*2/5, size/4, e.Body, false)
		vector.StrokeLine(screen, x, y-size*3/8, x+size*0.55, y-size*3/8, maxf(1, size/14), e.Body, true)
	default:
		// 机身 + 尾梁 + 旋翼
		vector.FillCircle(screen, x, y, size/3, e.Body, true)
		vector.StrokeLine(screen, x, y, x+size*0.7, y-size/8, maxf(1, size/12), e.Body, true)
		vector.StrokeLine(screen, x-size*0.6, y-size/2.6, x+size*0.6, y-size/2.6, maxf(1, size/20), rotorColor, true)
	}
}

// drawParticles 所有粒子合批为一次 DrawTriangles（加法混合）
func (s *RenderSystem) drawParticles(screen *ebiten.Image, particles []components.ParticleSprite, ox, oy float32) {
	if len(particles) == 0 {
		return
	}

	s.particleVertices = s.particleVertices[:0]
	s.particleIndices = s.particleIndices[:0]

	const half = 1.5
	for _, p := range particles {
		if len(s.particleVertices)+4 > 0xffff {
			break
		}
		x := float32(p.X) + ox
		y := float32(p.Y) + oy
		a := float32(p.Alpha)
		r := float32(p.Color.R) / 255 * a
		g := float32(p.Color.G) / 255 * a
		b := float32(p.Color.B) / 255 * a

		base := uint16(len(s.particleVertices))
		for _, c := range [4][2]float32{{-half, -half}, {half, -half}, {-half, half}, {half, half}} {
			s.particleVertices = append(s.particleVertices, ebiten.Vertex{
				DstX: x + c[0], DstY: y + c[1],
				SrcX: 1, SrcY: 1,
				ColorR: r, ColorG: g, ColorB: b, ColorA: a,
			})
		}
		s.particleIndices = append(s.particleIndices,
			base+0, base+1, base+2,
			base+1, base+3, base+2,
		)
	}

	op := &ebiten.DrawTrianglesOptions{}
	op.Blend = ebiten.BlendLighter
	screen.DrawTriangles(s.particleVertices, s.particleIndices, s.whitePixel, op)
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
