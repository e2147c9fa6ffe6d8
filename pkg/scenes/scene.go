package scenes

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/gonewx/frontline/pkg/game"
)

// Scene is a type alias for game.Scene.
// All scene implementations should implement the game.Scene interface.
type Scene = game.Scene

// Host 场景访问宿主的接口
//
// Size 即战斗使用的绘图表面（满足 battle.Surface）。
// RequestPhase 只登记切换请求，由 App 在本帧 Update 结束后执行，
// 因此场景可以在自己的 Update 中安全调用。
type Host interface {
	Size() (width, height int)
	State() *game.GameState
	Face() text.Face
	RequestPhase(to game.Phase)
}

// DefaultFace 内置位图字体（不依赖任何字体文件）
func DefaultFace() text.Face {
	return text.NewGoXFace(basicfont.Face7x13)
}

// 界面配色
var (
	backgroundColor = color.RGBA{R: 14, G: 20, B: 30, A: 255}
	panelColor      = color.RGBA{R: 30, G: 42, B: 58, A: 235}
	highlightColor  = color.RGBA{R: 70, G: 110, B: 70, A: 255}
	titleColor      = color.RGBA{R: 255, G: 220, B: 120, A: 255}
	textColor       = color.RGBA{R: 225, G: 232, B: 215, A: 255}
	dimTextColor    = color.RGBA{R: 140, G: 150, B: 135, A: 255}
	correctColor    = color.RGBA{R: 110, G: 220, B: 90, A: 255}
	wrongColor      = color.RGBA{R: 240, G: 90, B: 80, A: 255}
)

// lineHeight basicfont 7x13 的行高（含行距）
const lineHeight = 18.0

func drawText(screen *ebiten.Image, face text.Face, s string, x, y float64, clr color.Color) {
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, face, op)
}

func drawCentered(screen *ebiten.Image, face text.Face, s string, cx, y float64, clr color.Color) {
	if face == nil {
		return
	}
	w, _ := text.Measure(s, face, 0)
	drawText(screen, face, s, cx-w/2, y, clr)
}

func drawPanel(screen *ebiten.Image, x, y, w, h float64, clr color.Color) {
	vector.FillRect(screen, float32(x), float32(y), float32(w), float32(h), clr, false)
}

// listRow 可点击的列表行
type listRow struct {
	x, y, w, h float64
}

func (r listRow) contains(px, py int) bool {
	fx, fy := float64(px), float64(py)
	return fx >= r.x && fx < r.x+r.w && fy >= r.y && fy < r.y+r.h
}

// listLayout 以画面中心为基准排列 n 行，返回每行的矩形
func listLayout(screenW, n int, top, rowW, rowH, gap float64) []listRow {
	rows := make([]listRow, n)
	x := (float64(screenW) - rowW) / 2
	for i := range rows {
		rows[i] = listRow{x: x, y: top + float64(i)*(rowH+gap), w: rowW, h: rowH}
	}
	return rows
}

// hitRow 返回点击命中的行下标，未命中返回 -1
func hitRow(rows []listRow, px, py int) int {
	for i, r := range rows {
		if r.contains(px, py) {
			return i
		}
	}
	return -1
}
