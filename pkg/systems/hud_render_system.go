package systems

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gonewx/frontline/pkg/components"
	"github.com/gonewx/frontline/pkg/config"
)

// HUD 配色
var (
	hudTextColor     = color.RGBA{R: 235, G: 240, B: 220, A: 255}
	hudDimColor      = color.RGBA{R: 140, G: 150, B: 130, A: 255}
	hudPanelColor    = color.RGBA{R: 0, G: 0, B: 0, A: 140}
	healthFullColor  = color.RGBA{R: 110, G: 220, B: 90, A: 255}
	healthEmptyColor = color.RGBA{R: 80, G: 30, B: 30, A: 255}
	crosshairColor   = color.RGBA{R: 120, G: 255, B: 140, A: 220}
	radarRingColor   = color.RGBA{R: 60, G: 160, B: 80, A: 200}
	radarTankColor   = color.RGBA{R: 255, G: 170, B: 60, A: 255}
	radarHeliColor   = color.RGBA{R: 255, G: 80, B: 70, A: 255}
	bannerTextColor  = color.RGBA{R: 255, G: 220, B: 120, A: 255}
	compassTickColor = color.RGBA{R: 180, G: 200, B: 170, A: 255}
	compassNeedle    = color.RGBA{R: 255, G: 90, B: 70, A: 255}
)

// HUDRenderSystem 绘制不受镜头震动影响的 HUD 层
//
// 包含：得分/击毁数、生命值方块、顶部罗盘、左下角雷达、准星、暂停与结束横幅。
type HUDRenderSystem struct {
	face      text.Face
	showRadar bool
}

// NewHUDRenderSystem 创建 HUD 渲染器
func NewHUDRenderSystem(face text.Face, showRadar bool) *HUDRenderSystem {
	return &HUDRenderSystem{face: face, showRadar: showRadar}
}

// SetShowRadar 切换雷达显示
func (h *HUDRenderSystem) SetShowRadar(show bool) {
	h.showRadar = show
}

// Draw 绘制 HUD
func (h *HUDRenderSystem) Draw(screen *ebiten.Image, snap *components.Snapshot) {
	hud := snap.HUD

	h.drawCrosshair(screen, hud)
	h.drawStats(screen, snap)
	h.drawHealth(screen, snap)
	h.drawCompass(screen, snap)
	if h.showRadar {
		h.drawRadar(screen, snap)
	}

	switch {
	case hud.GameOver:
		h.drawBanner(screen, snap, "LINE BREACHED", "")
	case hud.Paused:
		h.drawBanner(screen, snap, "PAUSED", "P to resume  /  Esc to leave")
	}
}

func (h *HUDRenderSystem) drawCrosshair(screen *ebiten.Image, hud components.HUDState) {
	x, y := float32(hud.CrosshairX), float32(hud.CrosshairY)
	const s = float32(config.CrosshairSize)
	vector.StrokeLine(screen, x-s, y, x-s/3, y, 1.5, crosshairColor, true)
	vector.StrokeLine(screen, x+s/3, y, x+s, y, 1.5, crosshairColor, true)
	vector.StrokeLine(screen, x, y-s, x, y-s/3, 1.5, crosshairColor, true)
	vector.StrokeLine(screen, x, y+s/3, x, y+s, 1.5, crosshairColor, true)
}

func (h *HUDRenderSystem) drawStats(screen *ebiten.Image, snap *components.Snapshot) {
	hud := snap.HUD
	m := float64(config.HUDMargin)
	h.drawText(screen, fmt.Sprintf("SCORE %06d", hud.Score), m, m, hudTextColor)
	h.drawText(screen, fmt.Sprintf("KILLS %d   CONTACTS %d", hud.Kills, hud.Enemies), m, m+16, hudDimColor)
}

func (h *HUDRenderSystem) drawHealth(screen *ebiten.Image, snap *components.Snapshot) {
	hud := snap.HUD
	const size = float32(config.HealthPipSize)
	const gap = 4
	right := float32(snap.Width) - config.HUDMargin
	for i := 0; i < hud.MaxHealth; i++ {
		x := right - float32(hud.MaxHealth-i)*(size+gap)
		clr := healthEmptyColor
		if i < hud.Health {
			clr = healthFullColor
		}
		vector.FillRect(screen, x, config.HUDMargin, size, size, clr, false)
	}
}

// drawCompass 顶部罗盘条：刻度随视角滚动，中心指针固定
func (h *HUDRenderSystem) drawCompass(screen *ebiten.Image, snap *components.Snapshot) {
	const w = float32(config.CompassWidth)
	const ht = float32(config.CompassHeight)
	left := float32(snap.CenterX) - w/2
	top := float32(config.HUDMargin)
	vector.FillRect(screen, left, top, w, ht, hudPanelColor, false)

	heading := snap.HUD.Heading
	pxPerDeg := float64(w) / config.CompassDegreesVisible
	first := math.Ceil((heading-config.CompassDegreesVisible/2)/5) * 5
	for deg := first; deg <= heading+config.CompassDegreesVisible/2; deg += 5 {
		x := float32(snap.CenterX + (deg-heading)*pxPerDeg)
		tick := ht / 4
		if math.Mod(deg, 15) == 0 {
			tick = ht / 2
		}
		vector.StrokeLine(screen, x, top+ht-tick, x, top+ht, 1, compassTickColor, false)
	}
	cx := float32(snap.CenterX)
	vector.StrokeLine(screen, cx, top, cx, top+ht, 2, compassNeedle, false)
	h.drawText(screen, fmt.Sprintf("%+.0f", heading), snap.CenterX+float64(w)/2+6, float64(top)+4, hudDimColor)
}

// drawRadar 左下角雷达：上方为远处，圆心为防线
func (h *HUDRenderSystem) drawRadar(screen *ebiten.Image, snap *components.Snapshot) {
	cx, cy := config.GetRadarCenter(snap.Height)
	r := float32(config.RadarRadius)
	fx, fy := float32(cx), float32(cy)

	vector.FillCircle(screen, fx, fy, r, hudPanelColor, true)
	vector.StrokeCircle(screen, fx, fy, r, 1, radarRingColor, true)
	vector.StrokeCircle(screen, fx, fy, r/2, 1, radarRingColor, true)
	vector.StrokeLine(screen, fx, fy-r, fx, fy, 1, radarRingColor, false)

	for _, b := range snap.Radar {
		bx := fx + float32(b.DX)*r*float32(math.Sqrt(math.Max(0, 1-b.Dist*b.Dist*0.5)))
		by := fy - float32(b.Dist)*r
		clr := radarTankColor
		if b.Type == components.EnemyHelicopter {
			clr = radarHeliColor
		}
		vector.FillCircle(screen, bx, by, 2.5, clr, true)
	}
}

func (h *HUDRenderSystem) drawBanner(screen *ebiten.Image, snap *components.Snapshot, title, hint string) {
	w := float32(snap.Width)
	y := float32(snap.Height)/2 - 30
	vector.FillRect(screen, 0, y, w, 60, hudPanelColor, false)
	h.drawCenteredText(screen, title, snap.CenterX, float64(y)+14, bannerTextColor)
	if hint != "" {
		h.drawCenteredText(screen, hint, snap.CenterX, float64(y)+36, hudDimColor)
	}
}

func (h *HUDRenderSystem) drawText(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	if h.face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, h.face, op)
}

func (h *HUDRenderSystem) drawCenteredText(screen *ebiten.Image, s string, cx, y float64, clr color.Color) {
	if h.face == nil {
		return
	}
	width, _ := text.Measure(s, h.face, 0)
	h.drawText(screen, s, cx-width/2, y, clr)
}
