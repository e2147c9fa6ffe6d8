// Package utils 提供 ebiten 前端共用的小工具：指针输入、文字换行、平台检测与存储目录
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputState 当前帧的指针状态
// 鼠标和触摸统一处理，触摸优先
type InputState struct {
	// JustPressed 本帧刚发生点击/触摸
	JustPressed bool
	// X, Y 指针位置（没有触摸时为鼠标位置）
	X, Y int
	// IsTouching 是否有活动的触摸
	IsTouching bool
}

// GetInputState 获取当前帧的指针状态
// 战斗中用于瞄准（X 驱动目标视角）和开火（JustPressed）
func GetInputState() InputState {
	if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
		x, y := ebiten.TouchPosition(ids[0])
		return InputState{JustPressed: true, X: x, Y: y, IsTouching: true}
	}

	// 按住拖动瞄准
	if ids := ebiten.AppendTouchIDs(nil); len(ids) > 0 {
		x, y := ebiten.TouchPosition(ids[0])
		return InputState{X: x, Y: y, IsTouching: true}
	}

	x, y := ebiten.CursorPosition()
	return InputState{
		JustPressed: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		X:           x,
		Y:           y,
	}
}

// IsJustTouchedOrClicked 本帧是否刚发生点击或触摸，返回位置
// 菜单、答题、结算界面的点选都走这里
func IsJustTouchedOrClicked() (bool, int, int) {
	if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
		x, y := ebiten.TouchPosition(ids[0])
		return true, x, y
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}
	return false, 0, 0
}
