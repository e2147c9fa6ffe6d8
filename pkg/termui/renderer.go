// Package termui 终端前端：用 tcell 绘制战斗快照并转换终端输入
//
// 战斗核心按像素坐标工作，终端按字符格工作。Renderer 把每个字符格视为
// CellWidth x CellHeight 个逻辑像素，对外报告的表面尺寸即为
// 列数 x CellWidth、行数 x CellHeight，投影结果再按格取整绘制。
package termui

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/frontline/pkg/components"
)

// 字符格对应的逻辑像素
const (
	CellWidth  = 8
	CellHeight = 16
)

// 雷达尺寸（字符格）
const (
	radarCols = 15
	radarRows = 6
)

var (
	styleDefault  = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleStar     = styleDefault.Foreground(tcell.ColorGray)
	styleFar      = styleDefault.Foreground(tcell.ColorSlateGray)
	styleNear     = styleDefault.Foreground(tcell.ColorDarkOliveGreen)
	styleGround   = styleDefault.Foreground(tcell.ColorDarkGreen)
	styleBullet   = styleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleTracer   = styleDefault.Foreground(tcell.ColorOlive)
	styleCross    = styleDefault.Foreground(tcell.ColorLime).Bold(true)
	styleHUD      = styleDefault.Foreground(tcell.ColorAqua)
	styleHealth   = styleDefault.Foreground(tcell.ColorRed)
	styleBorder   = styleDefault.Foreground(tcell.ColorDarkGray)
	styleBanner   = styleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite).Bold(true)
	styleTitle    = styleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleDim      = styleDefault.Foreground(tcell.ColorGray)
	styleSelected = styleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorAqua)
)

// Renderer 在 tcell 屏幕上绘制战斗快照
//
// 同时实现 battle.Surface（Size）和 battle.Renderer（Present）。
// Present 在时钟 goroutine 中调用，文字页面在主 goroutine 中绘制，
// 两者通过 mu 串行化。
type Renderer struct {
	screen tcell.Screen

	mu        sync.Mutex
	showRadar bool
	frames    uint64
}

// NewRenderer 创建渲染器（screen 必须已 Init）
func NewRenderer(screen tcell.Screen, showRadar bool) *Renderer {
	return &Renderer{screen: screen, showRadar: showRadar}
}

// Size 返回以逻辑像素计的表面尺寸
func (r *Renderer) Size() (int, int) {
	cols, rows := r.screen.Size()
	return cols * CellWidth, rows * CellHeight
}

// SetShowRadar 切换雷达显示
func (r *Renderer) SetShowRadar(show bool) {
	r.mu.Lock()
	r.showRadar = show
	r.mu.Unlock()
}

// Frames 已绘制的战斗帧数
func (r *Renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Present 绘制一帧快照
func (r *Renderer) Present(snap *components.Snapshot) {
	if snap == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.screen.Clear()
	ox, oy := snap.ShakeX, snap.ShakeY

	r.drawGround(snap, oy)
	for _, layer := range snap.Layers {
		r.drawLayer(layer, ox, oy)
	}
	for _, e := range snap.Enemies {
		r.drawEnemy(e, ox, oy)
	}
	for _, b := range snap.Bullets {
		r.put(b.TailX+ox, b.TailY+oy, '.', styleTracer)
		r.put(b.X+ox, b.Y+oy, '*', styleBullet)
	}
	for _, p := range snap.Particles {
		if p.Alpha < 0.2 {
			continue
		}
		r.put(p.X+ox, p.Y+oy, particleRune(p.Alpha), styleDefault.Foreground(rgb(p.Color)))
	}

	// HUD 不受震动影响
	hud := snap.HUD
	r.put(hud.CrosshairX, hud.CrosshairY, '+', styleCross)
	r.put(hud.MuzzleX, hud.MuzzleY, '^', styleCross)
	r.drawStats(snap)
	if r.showRadar {
		r.drawRadar(snap)
	}
	switch {
	case hud.GameOver:
		r.drawBanner(" LINE BREACHED ", "final score "+fmt.Sprint(hud.Score))
	case hud.Paused:
		r.drawBanner(" PAUSED ", "p resume   q quit")
	}

	r.screen.Show()
	r.frames++
}

func (r *Renderer) drawGround(snap *components.Snapshot, oy float64) {
	cols, rows := r.screen.Size()
	_, horizon := cellOf(0, snap.HorizonY+oy)
	for y := max(horizon, 0); y < rows; y++ {
		ch := ' '
		if y == horizon {
			ch = '_'
		} else if (y-horizon)%2 == 0 {
			ch = '.'
		}
		if ch == ' ' {
			continue
		}
		for x := 0; x < cols; x++ {
			r.screen.SetContent(x, y, ch, nil, styleGround)
		}
	}
}

// drawLayer 星星画成点，山峰画成 /\ 轮廓
func (r *Renderer) drawLayer(layer components.LayerSprites, ox, oy float64) {
	if layer.Kind == components.LayerStars {
		for _, s := range layer.Shapes {
			r.put(s.X+ox, s.BaseY+oy, '.', styleStar)
		}
		return
	}

	style := styleFar
	if layer.Kind == components.LayerNearMountains {
		style = styleNear
	}
	for _, s := range layer.Shapes {
		if s.Height <= 0 {
			continue
		}
		apexY := s.BaseY - s.Height
		for y := apexY; y <= s.BaseY; y += CellHeight {
			half := s.Width / 2 * (y - apexY) / s.Height
			if half < CellWidth/2 {
				r.put(s.X+ox, y+oy, '^', style)
				continue
			}
			r.put(s.X-half+ox, y+oy, '/', style)
			r.put(s.X+half+ox, y+oy, '\\', style)
		}
	}
}

// drawEnemy 远处的敌人是单个字符，近处展开为方框
func (r *Renderer) drawEnemy(e components.EnemySprite, ox, oy float64) {
	style := styleDefault.Foreground(rgb(e.Body)).Bold(true)
	glyph := 'T'
	if e.Type == components.EnemyHelicopter {
		glyph = 'H'
	}

	cells := int(e.Size / CellWidth)
	if cells < 3 {
		r.put(e.X+ox, e.Y+oy, glyph, style)
		return
	}

	cx, cy := cellOf(e.X+ox, e.Y+oy)
	half := cells / 2
	rowsHalf := max(cells*CellWidth/CellHeight/2, 1)
	for y := cy - rowsHalf; y <= cy+rowsHalf; y++ {
		for x := cx - half; x <= cx+half; x++ {
			ch := ' '
			switch {
			case x == cx && y == cy:
				ch = glyph
			case y == cy-rowsHalf || y == cy+rowsHalf:
				ch = '-'
			case x == cx-half || x == cx+half:
				ch = '|'
			}
			r.setCell(x, y, ch, style)
		}
	}
}

func (r *Renderer) drawStats(snap *components.Snapshot) {
	hud := snap.HUD
	line := fmt.Sprintf(" SCORE %d  KILLS %d  HDG %03.0f  CONTACTS %d ", hud.Score, hud.Kills, math.Mod(hud.Heading+360, 360), hud.Enemies)
	r.text(0, 0, line, styleHUD)

	cols, _ := r.screen.Size()
	bar := fmt.Sprintf("HP [%s%s]",
		strings.Repeat("#", max(hud.Health, 0)),
		strings.Repeat("-", max(hud.MaxHealth-hud.Health, 0)))
	r.text(cols-len(bar)-1, 0, bar, styleHealth)
}

// drawRadar 右下角雷达：横向为相对准星的偏移，纵向为剩余距离
func (r *Renderer) drawRadar(snap *components.Snapshot) {
	cols, rows := r.screen.Size()
	left, top := cols-radarCols-1, rows-radarRows-1
	if left < 0 || top < 1 {
		return
	}

	for x := left; x < left+radarCols; x++ {
		r.setCell(x, top, '-', styleBorder)
		r.setCell(x, top+radarRows-1, '-', styleBorder)
	}
	for y := top + 1; y < top+radarRows-1; y++ {
		r.setCell(left, y, '|', styleBorder)
		r.setCell(left+radarCols-1, y, '|', styleBorder)
	}

	mid := left + radarCols/2
	inner := radarRows - 3
	r.setCell(mid, top+radarRows-2, '^', styleCross)
	for _, b := range snap.Radar {
		x := mid + int(math.Round(b.DX*float64(radarCols/2-1)))
		y := top + 1 + int(math.Round((1-b.Dist)*float64(inner)))
		glyph := 't'
		if b.Type == components.EnemyHelicopter {
			glyph = 'h'
		}
		r.setCell(x, y, glyph, styleHealth)
	}
}

func (r *Renderer) drawBanner(title, hint string) {
	cols, rows := r.screen.Size()
	y := rows / 2
	r.text((cols-len(title))/2, y, title, styleBanner)
	r.text((cols-len(hint))/2, y+2, hint, styleDim)
}

// Page 一页文字界面（菜单、答题、结算）
type Page struct {
	Title    string
	Subtitle string
	Lines    []string
	Selected int // 高亮行，-1 表示无
	Footer   string
}

// ShowPage 清屏并绘制文字页面
func (r *Renderer) ShowPage(p Page) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.screen.Clear()
	cols, rows := r.screen.Size()

	y := max(rows/6, 1)
	r.text((cols-len(p.Title))/2, y, p.Title, styleTitle)
	if p.Subtitle != "" {
		r.text((cols-len(p.Subtitle))/2, y+1, p.Subtitle, styleDim)
	}

	y += 3
	for i, line := range p.Lines {
		style := styleDefault
		if i == p.Selected {
			style = styleSelected
		}
		r.text(max((cols-40)/2, 1), y+i, line, style)
	}

	if p.Footer != "" {
		r.text((cols-len(p.Footer))/2, rows-2, p.Footer, styleDim)
	}
	r.screen.Show()
}

// put 在逻辑像素坐标处绘制一个字符
func (r *Renderer) put(x, y float64, ch rune, style tcell.Style) {
	cx, cy := cellOf(x, y)
	r.setCell(cx, cy, ch, style)
}

func (r *Renderer) setCell(x, y int, ch rune, style tcell.Style) {
	cols, rows := r.screen.Size()
	if x < 0 || y < 0 || x >= cols || y >= rows {
		return
	}
	r.screen.SetContent(x, y, ch, nil, style)
}

func (r *Renderer) text(x, y int, s string, style tcell.Style) {
	for i, ch := range []rune(s) {
		r.setCell(x+i, y, ch, style)
	}
}

// cellOf 逻辑像素 → 字符格
func cellOf(x, y float64) (int, int) {
	return int(math.Floor(x / CellWidth)), int(math.Floor(y / CellHeight))
}

func particleRune(alpha float64) rune {
	switch {
	case alpha > 0.7:
		return '#'
	case alpha > 0.4:
		return '+'
	}
	return '.'
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
